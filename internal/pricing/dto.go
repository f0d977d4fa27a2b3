package pricing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRuleInput captures a new pricing override.
type CreateRuleInput struct {
	ProfileID       string          `json:"profile_id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id" validate:"required"`
	Name            string          `json:"name" validate:"required,max=255"`
	Price           decimal.Decimal `json:"price" validate:"required"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	// StartTime and EndTime are HH:MM wall-clock bounds.
	StartTime *string `json:"start_time" validate:"omitempty,len=5"`
	EndTime   *string `json:"end_time" validate:"omitempty,len=5"`
	// DaysOfWeek is a JSON list of weekday numbers, 0=Sunday.
	DaysOfWeek json.RawMessage `json:"days_of_week"`

	IsSeasonal    bool `json:"is_seasonal"`
	IsPeakPricing bool `json:"is_peak_pricing"`
	MinimumStay   *int `json:"minimum_stay"`
	Priority      int  `json:"priority"`

	CreatedByID *string `json:"-"`
}

// UpdateRuleInput carries the mutable rule fields.
type UpdateRuleInput struct {
	Name     *string          `json:"name" validate:"omitempty,max=255"`
	Price    *decimal.Decimal `json:"price"`
	Priority *int             `json:"priority"`
	IsActive *bool            `json:"is_active"`

	ModifiedByID *string `json:"-"`
}

// ListParams filters and paginates rule listings within one profile.
type ListParams struct {
	ProfileID       string
	InventoryItemID *uuid.UUID
	IsActive        *bool
	Limit           int
	Cursor          string
}

// Quote is the result of resolving an item's price at a moment in time.
type Quote struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	// RuleID is nil when the base price applied.
	RuleID   *uuid.UUID `json:"rule_id,omitempty"`
	RuleName string     `json:"rule_name,omitempty"`
	At       time.Time  `json:"at"`
}
