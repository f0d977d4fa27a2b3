package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// AnalyticsSnapshot captures per-item performance for one reporting period.
// One row per (item, type, date, period).
type AnalyticsSnapshot struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID       string              `gorm:"column:profile_id;type:varchar(50);not null;index" json:"profile_id"`
	InventoryItemID uuid.UUID           `gorm:"column:inventory_item_id;type:uuid;not null;uniqueIndex:ux_snapshot_period" json:"inventory_item_id"`
	InventoryType   enums.InventoryType `gorm:"column:inventory_type;type:inventory_type_enum;not null;uniqueIndex:ux_snapshot_period" json:"inventory_type"`

	Date       time.Time        `gorm:"column:date;type:date;not null;uniqueIndex:ux_snapshot_period" json:"date"`
	PeriodType enums.PeriodType `gorm:"column:period_type;type:period_type_enum;not null;uniqueIndex:ux_snapshot_period" json:"period_type"`

	TotalBookings   int             `gorm:"column:total_bookings;not null;default:0" json:"total_bookings"`
	TotalRevenue    decimal.Decimal `gorm:"column:total_revenue;type:numeric(12,2);not null;default:0" json:"total_revenue"`
	OccupancyRate   decimal.Decimal `gorm:"column:occupancy_rate;type:numeric(5,2);not null;default:0" json:"occupancy_rate"`
	UtilizationRate decimal.Decimal `gorm:"column:utilization_rate;type:numeric(5,2);not null;default:0" json:"utilization_rate"`

	AverageBookingValue decimal.Decimal `gorm:"column:average_booking_value;type:numeric(10,2);not null;default:0" json:"average_booking_value"`
	CancellationRate    decimal.Decimal `gorm:"column:cancellation_rate;type:numeric(5,2);not null;default:0" json:"cancellation_rate"`
	NoShowRate          decimal.Decimal `gorm:"column:no_show_rate;type:numeric(5,2);not null;default:0" json:"no_show_rate"`

	CustomMetrics json.RawMessage `gorm:"column:custom_metrics;type:jsonb" json:"custom_metrics,omitempty"`

	CreatedByID  *string   `gorm:"column:created_by_id;type:varchar(50)" json:"created_by_id,omitempty"`
	ModifiedByID *string   `gorm:"column:modified_by_id;type:varchar(50)" json:"modified_by_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}
