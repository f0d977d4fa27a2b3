package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// ScheduleInput captures a new maintenance booking for an item.
type ScheduleInput struct {
	ProfileID       string                `json:"profile_id"`
	InventoryItemID uuid.UUID             `json:"inventory_item_id" validate:"required"`
	Type            enums.MaintenanceType `json:"maintenance_type" validate:"required"`
	Description     string                `json:"description" validate:"required"`
	ScheduledDate   time.Time             `json:"scheduled_date" validate:"required"`
	EstimatedCost   *decimal.Decimal      `json:"estimated_cost"`
	VendorName      string                `json:"vendor_name"`
	Notes           string                `json:"notes"`

	CreatedByID *string `json:"-"`
}

// CompleteInput closes out a maintenance record.
type CompleteInput struct {
	ActualCost *decimal.Decimal `json:"actual_cost"`
	Notes      string           `json:"notes"`
}

// ListParams filters and paginates maintenance listings within one profile.
type ListParams struct {
	ProfileID       string
	InventoryItemID *uuid.UUID
	Status          *enums.MaintenanceStatus
	Type            *enums.MaintenanceType
	// DueBefore narrows the listing to work that should have started by the
	// instant but has not completed or been cancelled.
	DueBefore *time.Time
	Limit     int
	Cursor    string
}
