package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

// Ledger mutates an item's quantity counters through guarded single-statement
// updates. Every operation keeps available + reserved <= total and none of the
// three columns negative; the WHERE clause is the only concurrency control, so
// two competing callers can never both succeed past the same guard.
type Ledger interface {
	// Reserve moves qty from available to reserved.
	Reserve(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error)
	// ReleaseHold returns qty from reserved to available.
	ReleaseHold(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error)
	// Occupy consumes qty from reserved; the units become implicit occupied stock.
	Occupy(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error)
	// MakeAvailable returns qty of occupied stock to available.
	MakeAvailable(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error)
	// AdjustTotal grows or shrinks total and available together by delta.
	AdjustTotal(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, delta int) (*Counters, error)
}

type ledgerImpl struct{}

// NewLedger exposes the default guarded-update ledger.
func NewLedger() Ledger {
	return ledgerImpl{}
}

func (ledgerImpl) Reserve(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error) {
	if err := validateMutation(tx, qty); err != nil {
		return nil, err
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_quantity = available_quantity - ?,
			reserved_quantity = reserved_quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND profile_id = ? AND is_active AND available_quantity >= ?
	`, qty, qty, itemID, profileID, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve inventory")
	}
	if res.RowsAffected == 0 {
		counters, err := loadCounters(ctx, tx, profileID, itemID)
		if err != nil {
			return nil, err
		}
		if counters.Available >= qty {
			// guard failed on is_active, not on quantity
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "inventory item is inactive")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientAvailability, "not enough available quantity").
			WithDetails(map[string]int{"requested": qty, "available": counters.Available})
	}

	return finishMutation(ctx, tx, profileID, itemID)
}

func (ledgerImpl) ReleaseHold(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error) {
	if err := validateMutation(tx, qty); err != nil {
		return nil, err
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_quantity = available_quantity + ?,
			reserved_quantity = reserved_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND profile_id = ? AND reserved_quantity >= ?
	`, qty, qty, itemID, profileID, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release inventory hold")
	}
	if res.RowsAffected == 0 {
		counters, err := loadCounters(ctx, tx, profileID, itemID)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "release exceeds reserved quantity").
			WithDetails(map[string]int{"requested": qty, "reserved": counters.Reserved})
	}

	return finishMutation(ctx, tx, profileID, itemID)
}

func (ledgerImpl) Occupy(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error) {
	if err := validateMutation(tx, qty); err != nil {
		return nil, err
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET reserved_quantity = reserved_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND profile_id = ? AND reserved_quantity >= ?
	`, qty, itemID, profileID, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "occupy inventory")
	}
	if res.RowsAffected == 0 {
		counters, err := loadCounters(ctx, tx, profileID, itemID)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "occupy exceeds reserved quantity").
			WithDetails(map[string]int{"requested": qty, "reserved": counters.Reserved})
	}

	return finishMutation(ctx, tx, profileID, itemID)
}

func (ledgerImpl) MakeAvailable(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, qty int) (*Counters, error) {
	if err := validateMutation(tx, qty); err != nil {
		return nil, err
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_quantity = available_quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND profile_id = ?
			AND available_quantity + reserved_quantity + ? <= total_quantity
	`, qty, itemID, profileID, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "make inventory available")
	}
	if res.RowsAffected == 0 {
		counters, err := loadCounters(ctx, tx, profileID, itemID)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeCapacityExceeded, "release exceeds occupied quantity").
			WithDetails(map[string]int{"requested": qty, "occupied": counters.Occupied()})
	}

	return finishMutation(ctx, tx, profileID, itemID)
}

func (ledgerImpl) AdjustTotal(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID, delta int) (*Counters, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for ledger mutation")
	}
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "adjustment delta must be non-zero")
	}

	// A negative delta removes stock; it may only consume available units.
	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET total_quantity = total_quantity + ?,
			available_quantity = available_quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND profile_id = ? AND available_quantity + ? >= 0
	`, delta, delta, itemID, profileID, delta)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust inventory total")
	}
	if res.RowsAffected == 0 {
		counters, err := loadCounters(ctx, tx, profileID, itemID)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientAvailability, "removal exceeds available quantity").
			WithDetails(map[string]int{"delta": delta, "available": counters.Available})
	}

	return finishMutation(ctx, tx, profileID, itemID)
}

func validateMutation(tx *gorm.DB, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for ledger mutation")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be positive").
			WithDetails(map[string]int{"requested": qty})
	}
	return nil
}

func loadCounters(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID) (*Counters, error) {
	var counters Counters
	err := tx.WithContext(ctx).
		Table("inventory_items").
		Select("id AS item_id, total_quantity AS total, available_quantity AS available, reserved_quantity AS reserved").
		Where("id = ? AND profile_id = ?", itemID, profileID).
		Take(&counters).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory counters")
	}
	return &counters, nil
}

// finishMutation recomputes the derived status and returns fresh counters.
// Operational statuses (maintenance, out_of_order, retired) are left alone.
func finishMutation(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID) (*Counters, error) {
	res := tx.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET status = CASE
			WHEN available_quantity > 0 THEN 'available'
			WHEN reserved_quantity > 0 THEN 'reserved'
			ELSE 'occupied'
		END
		WHERE id = ? AND profile_id = ? AND status IN ('available', 'reserved', 'occupied')
	`, itemID, profileID)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "refresh inventory status")
	}
	return loadCounters(ctx, tx, profileID, itemID)
}
