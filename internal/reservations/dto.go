package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// CreateInput captures a new hold request. ExpiryAt wins over TTL; when both
// are absent the service applies the configured default TTL.
type CreateInput struct {
	ProfileID       string        `json:"profile_id"`
	InventoryItemID uuid.UUID     `json:"inventory_item_id" validate:"required"`
	CustomerUserID  string        `json:"customer_user_id" validate:"required,max=50"`
	Quantity        int           `json:"quantity" validate:"required,gt=0"`
	ExpiryAt        *time.Time    `json:"expiry_at"`
	TTL             time.Duration `json:"-"`

	CreatedByID *string `json:"-"`
}

// ListParams filters and paginates reservation listings within one profile.
type ListParams struct {
	ProfileID       string
	InventoryItemID *uuid.UUID
	CustomerUserID  *string
	Status          *enums.ReservationStatus
	// ExpiresBefore narrows the listing to non-terminal reservations whose
	// expiry falls on or before the instant.
	ExpiresBefore *time.Time
	Limit         int
	Cursor        string
}
