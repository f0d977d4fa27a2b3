package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// CreateItemInput captures the fields required to register a new item.
type CreateItemInput struct {
	ProfileID   string              `json:"profile_id"`
	Name        string              `json:"name" validate:"required,max=255"`
	Description string              `json:"description"`
	Type        enums.InventoryType `json:"inventory_type" validate:"required"`

	TotalQuantity int `json:"total_quantity" validate:"required,gt=0"`

	BasePrice decimal.Decimal `json:"base_price" validate:"required"`
	Currency  string          `json:"currency" validate:"omitempty,len=3"`

	IsFeatured bool            `json:"is_featured"`
	Metadata   json.RawMessage `json:"metadata"`

	CreatedByID *string `json:"-"`
}

// UpdateItemInput carries the mutable descriptive fields. Quantity counters
// are deliberately absent; they only move through ledger operations.
type UpdateItemInput struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	Currency    *string          `json:"currency" validate:"omitempty,len=3"`
	IsActive    *bool            `json:"is_active"`
	IsFeatured  *bool            `json:"is_featured"`
	Metadata    json.RawMessage  `json:"metadata"`

	Status *enums.InventoryStatus `json:"status"`

	ModifiedByID *string `json:"-"`
}

// ListParams filters and paginates item listings within one profile.
type ListParams struct {
	ProfileID string
	Type      *enums.InventoryType
	Status    *enums.InventoryStatus
	IsActive  *bool
	Limit     int
	Cursor    string
}

// Counters is a point-in-time read of one item's quantity ledger.
type Counters struct {
	ItemID    uuid.UUID `json:"item_id"`
	Total     int       `json:"total_quantity"`
	Available int       `json:"available_quantity"`
	Reserved  int       `json:"reserved_quantity"`
}

// Occupied derives the units neither available nor reserved.
func (c Counters) Occupied() int {
	return c.Total - c.Available - c.Reserved
}

// ProfileSummary aggregates ledger state across a profile's items.
type ProfileSummary struct {
	ProfileID      string                      `json:"profile_id"`
	TotalItems     int64                       `json:"total_items"`
	TotalQuantity  int64                       `json:"total_quantity"`
	TotalAvailable int64                       `json:"total_available"`
	TotalReserved  int64                       `json:"total_reserved"`
	TotalOccupied  int64                       `json:"total_occupied"`
	LowStockItems  int64                       `json:"low_stock_items"`
	ItemsByType    map[enums.InventoryType]int `json:"items_by_type"`
	GeneratedAt    time.Time                   `json:"generated_at"`
}
