package alerts

import (
	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// CreateInput captures a new operator alert.
type CreateInput struct {
	ProfileID       string               `json:"profile_id"`
	InventoryItemID *uuid.UUID           `json:"inventory_item_id"`
	InventoryType   *enums.InventoryType `json:"inventory_type"`
	Type            enums.AlertType      `json:"alert_type" validate:"required"`
	Title           string               `json:"title" validate:"required,max=255"`
	Message         string               `json:"message" validate:"required"`
	Severity        enums.AlertSeverity  `json:"severity"`
	ActionRequired  bool                 `json:"action_required"`

	CreatedByID *string `json:"-"`
}

// ListParams filters and paginates alert listings within one profile.
type ListParams struct {
	ProfileID  string
	Type       *enums.AlertType
	Severity   *enums.AlertSeverity
	IsRead     *bool
	IsResolved *bool
	Limit      int
	Cursor     string
}

// ResolveInput closes out an alert.
type ResolveInput struct {
	ResolvedByID string `json:"resolved_by_id" validate:"required,max=50"`
	ActionTaken  string `json:"action_taken"`
}
