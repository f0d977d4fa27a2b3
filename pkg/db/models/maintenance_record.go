package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// MaintenanceRecord schedules upkeep work against an inventory item.
type MaintenanceRecord struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID       string              `gorm:"column:profile_id;type:varchar(50);not null;index" json:"profile_id"`
	InventoryItemID uuid.UUID           `gorm:"column:inventory_item_id;type:uuid;not null;index" json:"inventory_item_id"`
	InventoryType   enums.InventoryType `gorm:"column:inventory_type;type:inventory_type_enum;not null" json:"inventory_type"`

	Type          enums.MaintenanceType   `gorm:"column:maintenance_type;type:maintenance_type_enum;not null" json:"maintenance_type"`
	Description   string                  `gorm:"column:description;type:text;not null" json:"description"`
	ScheduledDate time.Time               `gorm:"column:scheduled_date;type:timestamptz;not null;index" json:"scheduled_date"`
	CompletedDate *time.Time              `gorm:"column:completed_date;type:timestamptz" json:"completed_date,omitempty"`
	Status        enums.MaintenanceStatus `gorm:"column:status;type:maintenance_status_enum;not null;default:scheduled" json:"status"`

	EstimatedCost *decimal.Decimal `gorm:"column:estimated_cost;type:numeric(10,2)" json:"estimated_cost,omitempty"`
	ActualCost    *decimal.Decimal `gorm:"column:actual_cost;type:numeric(10,2)" json:"actual_cost,omitempty"`
	VendorName    string           `gorm:"column:vendor_name;type:varchar(255)" json:"vendor_name,omitempty"`
	Notes         string           `gorm:"column:notes;type:text" json:"notes,omitempty"`

	BlockchainHash *string `gorm:"column:blockchain_hash;type:varchar(66)" json:"blockchain_hash,omitempty"`

	CreatedByID  *string   `gorm:"column:created_by_id;type:varchar(50)" json:"created_by_id,omitempty"`
	ModifiedByID *string   `gorm:"column:modified_by_id;type:varchar(50)" json:"modified_by_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}
