package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// Reservation records an in-flight or historical hold on item quantity. The
// item reference is a weak uuid lookup, not an owned association. While
// pending or confirmed, the quantity sits in the owning item's reserved
// counter; check-in moves it to occupied stock, and each terminal transition
// returns it exactly once.
type Reservation struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID       string              `gorm:"column:profile_id;type:varchar(50);not null;index" json:"profile_id"`
	InventoryItemID uuid.UUID           `gorm:"column:inventory_item_id;type:uuid;not null;index" json:"inventory_item_id"`
	InventoryType   enums.InventoryType `gorm:"column:inventory_type;type:inventory_type_enum;not null" json:"inventory_type"`

	CustomerUserID string    `gorm:"column:customer_user_id;type:varchar(50);not null" json:"customer_user_id"`
	Quantity       int       `gorm:"column:quantity_reserved;not null;default:1" json:"quantity"`
	ReservedAt     time.Time `gorm:"column:reservation_date;type:timestamptz;not null" json:"reserved_at"`
	ExpiryAt       time.Time `gorm:"column:expiry_date;type:timestamptz;not null;index" json:"expiry_at"`

	Status enums.ReservationStatus `gorm:"column:status;type:reservation_status_enum;not null;default:pending" json:"status"`

	BlockchainHash *string `gorm:"column:blockchain_hash;type:varchar(66)" json:"blockchain_hash,omitempty"`

	CreatedByID  *string   `gorm:"column:created_by_id;type:varchar(50)" json:"created_by_id,omitempty"`
	ModifiedByID *string   `gorm:"column:modified_by_id;type:varchar(50)" json:"modified_by_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}
