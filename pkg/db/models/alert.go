package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// Alert is an operator-facing notification raised off ledger transitions or
// scheduled checks. Alerts are resolved or marked read, never deleted.
type Alert struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID       string               `gorm:"column:profile_id;type:varchar(50);not null;index" json:"profile_id"`
	InventoryItemID *uuid.UUID           `gorm:"column:inventory_item_id;type:uuid;index" json:"inventory_item_id,omitempty"`
	InventoryType   *enums.InventoryType `gorm:"column:inventory_type;type:inventory_type_enum" json:"inventory_type,omitempty"`

	Type     enums.AlertType     `gorm:"column:alert_type;type:alert_type_enum;not null" json:"alert_type"`
	Title    string              `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message  string              `gorm:"column:message;type:text;not null" json:"message"`
	Severity enums.AlertSeverity `gorm:"column:severity;type:alert_severity_enum;not null;default:medium" json:"severity"`

	IsRead       bool       `gorm:"column:is_read;not null;default:false" json:"is_read"`
	IsResolved   bool       `gorm:"column:is_resolved;not null;default:false" json:"is_resolved"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at;type:timestamptz" json:"resolved_at,omitempty"`
	ResolvedByID *string    `gorm:"column:resolved_by_id;type:varchar(50)" json:"resolved_by_id,omitempty"`

	ActionRequired bool   `gorm:"column:action_required;not null;default:false" json:"action_required"`
	ActionTaken    string `gorm:"column:action_taken;type:text" json:"action_taken,omitempty"`

	CreatedByID  *string   `gorm:"column:created_by_id;type:varchar(50)" json:"created_by_id,omitempty"`
	ModifiedByID *string   `gorm:"column:modified_by_id;type:varchar(50)" json:"modified_by_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}
