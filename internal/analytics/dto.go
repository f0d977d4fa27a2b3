package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// RecordInput carries externally computed metrics for one reporting period.
type RecordInput struct {
	ProfileID       string           `json:"profile_id"`
	InventoryItemID uuid.UUID        `json:"inventory_item_id" validate:"required"`
	Date            time.Time        `json:"date" validate:"required"`
	PeriodType      enums.PeriodType `json:"period_type" validate:"required"`

	TotalBookings       int             `json:"total_bookings"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	OccupancyRate       decimal.Decimal `json:"occupancy_rate"`
	UtilizationRate     decimal.Decimal `json:"utilization_rate"`
	AverageBookingValue decimal.Decimal `json:"average_booking_value"`
	CancellationRate    decimal.Decimal `json:"cancellation_rate"`
	NoShowRate          decimal.Decimal `json:"no_show_rate"`
	CustomMetrics       json.RawMessage `json:"custom_metrics"`

	CreatedByID *string `json:"-"`
}

// ListParams selects snapshots for one item, newest first.
type ListParams struct {
	ProfileID       string
	InventoryItemID uuid.UUID
	PeriodType      enums.PeriodType
	Limit           int
}
