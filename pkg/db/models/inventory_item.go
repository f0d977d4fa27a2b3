package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// InventoryItem is the countable unit the ledger keeps books for. The three
// quantity columns obey available + reserved <= total; occupied stock is the
// implicit remainder and is not tracked by its own counter. Counters are
// mutated only through ledger operations, never by plain updates.
type InventoryItem struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID   string              `gorm:"column:profile_id;type:varchar(50);not null;index" json:"profile_id"`
	Name        string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string              `gorm:"column:description;type:text" json:"description"`
	Type        enums.InventoryType `gorm:"column:inventory_type;type:inventory_type_enum;not null" json:"inventory_type"`

	TotalQuantity     int `gorm:"column:total_quantity;not null;default:1" json:"total_quantity"`
	AvailableQuantity int `gorm:"column:available_quantity;not null;default:1" json:"available_quantity"`
	ReservedQuantity  int `gorm:"column:reserved_quantity;not null;default:0" json:"reserved_quantity"`

	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null" json:"base_price"`
	Currency  string          `gorm:"column:currency;type:varchar(3);not null;default:NGN" json:"currency"`

	Status     enums.InventoryStatus `gorm:"column:status;type:inventory_status_enum;not null;default:available" json:"status"`
	IsActive   bool                  `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsFeatured bool                  `gorm:"column:is_featured;not null;default:false" json:"is_featured"`

	Metadata json.RawMessage `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	BlockchainHash     *string    `gorm:"column:blockchain_hash;type:varchar(66)" json:"blockchain_hash,omitempty"`
	LastBlockchainSync *time.Time `gorm:"column:last_blockchain_sync;type:timestamptz" json:"last_blockchain_sync,omitempty"`

	CreatedByID  *string   `gorm:"column:created_by_id;type:varchar(50)" json:"created_by_id,omitempty"`
	ModifiedByID *string   `gorm:"column:modified_by_id;type:varchar(50)" json:"modified_by_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

// OccupiedQuantity derives the units neither available nor reserved.
func (i InventoryItem) OccupiedQuantity() int {
	return i.TotalQuantity - i.AvailableQuantity - i.ReservedQuantity
}
