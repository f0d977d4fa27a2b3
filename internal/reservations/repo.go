package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/pagination"
)

// Repository manages persistence for reservations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, params ListParams) ([]models.Reservation, string, error)
	// ListExpiring returns non-terminal reservations whose expiry has passed,
	// oldest first, capped at limit.
	ListExpiring(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)
	// FlipStatus is the reservation's compare-and-swap: the row moves to the
	// target status only if it still holds the expected one. Exactly one
	// concurrent caller can win the flip.
	FlipStatus(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus) (bool, error)
	SetBlockchainHash(ctx context.Context, id uuid.UUID, txHash string) error
	// SumHeldQuantity totals the quantity still held in the item's reserved
	// counter, i.e. across pending, confirmed and active reservations.
	SumHeldQuantity(ctx context.Context, itemID uuid.UUID) (int, error)
	// CountCreatedBetween counts reservations booked for the item in [from, to).
	CountCreatedBetween(ctx context.Context, profileID string, itemID uuid.UUID, from, to time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reservation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Take(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Reservation, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("profile_id = ?", params.ProfileID)

	if params.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *params.InventoryItemID)
	}
	if params.CustomerUserID != nil {
		query = query.Where("customer_user_id = ?", *params.CustomerUserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ExpiresBefore != nil {
		query = query.Where("status IN ? AND expiry_date <= ?",
			enums.NonTerminalReservationStatuses, *params.ExpiresBefore)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)

	var reservations []models.Reservation
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&reservations).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(reservations) > limit {
		reservations = reservations[:limit]
		last := reservations[len(reservations)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return reservations, next, nil
}

func (r *repository) ListExpiring(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error) {
	if limit <= 0 {
		limit = 100
	}
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("status IN ? AND expiry_date <= ?", enums.NonTerminalReservationStatuses, now).
		Order("expiry_date ASC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) FlipStatus(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) SetBlockchainHash(ctx context.Context, id uuid.UUID, txHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("blockchain_hash", txHash).Error
}

func (r *repository) CountCreatedBetween(ctx context.Context, profileID string, itemID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("profile_id = ? AND inventory_item_id = ? AND created_at >= ? AND created_at < ?",
			profileID, itemID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SumHeldQuantity(ctx context.Context, itemID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("COALESCE(SUM(quantity_reserved), 0)").
		Where("inventory_item_id = ? AND status IN ?", itemID, enums.NonTerminalReservationStatuses).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
