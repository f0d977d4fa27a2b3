package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// PricingRule overrides an item's base price inside its date/time windows.
// Higher priority wins; ties break on recency.
type PricingRule struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID       string              `gorm:"column:profile_id;type:varchar(50);not null;index" json:"profile_id"`
	InventoryItemID uuid.UUID           `gorm:"column:inventory_item_id;type:uuid;not null;index" json:"inventory_item_id"`
	InventoryType   enums.InventoryType `gorm:"column:inventory_type;type:inventory_type_enum;not null" json:"inventory_type"`

	Name  string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Price decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`

	StartDate *time.Time `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	StartTime *string    `gorm:"column:start_time;type:time" json:"start_time,omitempty"`
	EndTime   *string    `gorm:"column:end_time;type:time" json:"end_time,omitempty"`
	// DaysOfWeek holds a JSON list of weekday numbers, 0=Sunday.
	DaysOfWeek json.RawMessage `gorm:"column:days_of_week;type:jsonb" json:"days_of_week,omitempty"`

	IsSeasonal    bool `gorm:"column:is_seasonal;not null;default:false" json:"is_seasonal"`
	IsPeakPricing bool `gorm:"column:is_peak_pricing;not null;default:false" json:"is_peak_pricing"`
	MinimumStay   *int `gorm:"column:minimum_stay" json:"minimum_stay,omitempty"`

	Priority int  `gorm:"column:priority;not null;default:0" json:"priority"`
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedByID  *string   `gorm:"column:created_by_id;type:varchar(50)" json:"created_by_id,omitempty"`
	ModifiedByID *string   `gorm:"column:modified_by_id;type:varchar(50)" json:"modified_by_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}
