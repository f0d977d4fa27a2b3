package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/pkg/blockchain"
	"github.com/ubongpr7/akwa-inventory/pkg/config"
	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

// Service drives the reservation lifecycle. Every transition that moves
// quantity pairs the status flip with its ledger operation inside one
// transaction, so the status row is the single point of mutual exclusion:
// whichever caller wins the flip performs the counter move, the loser gets a
// state conflict.
//
//	pending --> confirmed --> active
//	   |            |           |
//	   +-- cancelled/expired ---+
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Reservation, error)
	Get(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, params ListParams) ([]models.Reservation, string, error)

	// Confirm moves pending -> confirmed. No quantity moves.
	Confirm(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error)
	// Activate checks the customer in: pending/confirmed -> active. The hold
	// stays in the item's reserved counter until the reservation settles.
	Activate(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error)
	// Cancel terminates a non-terminal reservation and returns its hold.
	Cancel(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error)
	// Expire terminates any non-terminal reservation past its expiry and
	// returns its hold. Expiring an already terminal reservation is a no-op.
	Expire(ctx context.Context, profileID string, id uuid.UUID) (bool, error)

	// ListExpiring surfaces sweep candidates for the reconciler.
	ListExpiring(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTxRetry(ctx context.Context, maxAttempts int, fn func(tx *gorm.DB) error) error
}

// itemLookup resolves inventory items for observer callbacks.
type itemLookup interface {
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error)
}

// stockObserver is notified after a committed hold change so alerting can
// react without joining the transaction.
type stockObserver interface {
	ObserveStock(ctx context.Context, item *models.InventoryItem)
}

type service struct {
	repo          Repository
	items         itemLookup
	ledger        inventory.Ledger
	tx            txRunner
	observer      stockObserver
	notifier      blockchain.Notifier
	logg          *logger.Logger
	cfg           config.InventoryConfig
	txMaxAttempts int
}

// NewService wires a reservation service with its dependencies. The observer
// and notifier are optional.
func NewService(
	repo Repository,
	items itemLookup,
	ledger inventory.Ledger,
	tx txRunner,
	observer stockObserver,
	notifier blockchain.Notifier,
	logg *logger.Logger,
	cfg config.InventoryConfig,
	txMaxAttempts int,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("inventory item lookup required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if notifier == nil {
		notifier = blockchain.NewNoop()
	}
	if txMaxAttempts <= 0 {
		txMaxAttempts = 3
	}
	return &service{
		repo:          repo,
		items:         items,
		ledger:        ledger,
		tx:            tx,
		observer:      observer,
		notifier:      notifier,
		logg:          logg,
		cfg:           cfg,
		txMaxAttempts: txMaxAttempts,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Reservation, error) {
	if input.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if input.InventoryItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id is required")
	}
	if input.CustomerUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer user id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be positive")
	}

	now := time.Now().UTC()
	expiry := s.resolveExpiry(input, now)
	if !expiry.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
	}

	reservation := &models.Reservation{
		ID:              uuid.New(),
		ProfileID:       input.ProfileID,
		InventoryItemID: input.InventoryItemID,
		CustomerUserID:  input.CustomerUserID,
		Quantity:        input.Quantity,
		ReservedAt:      now,
		ExpiryAt:        expiry,
		Status:          enums.ReservationStatusPending,
		CreatedByID:     input.CreatedByID,
	}

	err := s.tx.WithTxRetry(ctx, s.txMaxAttempts, func(tx *gorm.DB) error {
		if _, ledgerErr := s.ledger.Reserve(ctx, tx, input.ProfileID, input.InventoryItemID, input.Quantity); ledgerErr != nil {
			return ledgerErr
		}

		itemType, itemErr := s.loadItemType(ctx, tx, input.ProfileID, input.InventoryItemID)
		if itemErr != nil {
			return itemErr
		}
		reservation.InventoryType = itemType

		return s.repo.WithTx(tx).Create(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.observeStock(ctx, input.ProfileID, input.InventoryItemID)
	s.notifyChain(ctx, reservation, blockchain.ActionReservationCreated)
	return reservation, nil
}

func (s *service) Get(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id is required")
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Reservation, string, error) {
	if params.ProfileID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reservation status %q", *params.Status))
	}
	return s.repo.List(ctx, params)
}

func (s *service) Confirm(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error) {
	return s.transition(ctx, profileID, id, func(tx *gorm.DB, reservation *models.Reservation) error {
		if reservation.Status != enums.ReservationStatusPending {
			return transitionConflict(reservation.Status, enums.ReservationStatusConfirmed)
		}
		return s.flip(ctx, tx, reservation, enums.ReservationStatusConfirmed)
	})
}

func (s *service) Activate(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error) {
	return s.transition(ctx, profileID, id, func(tx *gorm.DB, reservation *models.Reservation) error {
		switch reservation.Status {
		case enums.ReservationStatusPending, enums.ReservationStatusConfirmed:
		default:
			return transitionConflict(reservation.Status, enums.ReservationStatusActive)
		}
		return s.flip(ctx, tx, reservation, enums.ReservationStatusActive)
	})
}

func (s *service) Cancel(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.transition(ctx, profileID, id, func(tx *gorm.DB, reservation *models.Reservation) error {
		if reservation.Status.IsTerminal() {
			return transitionConflict(reservation.Status, enums.ReservationStatusCancelled)
		}

		if err := s.flip(ctx, tx, reservation, enums.ReservationStatusCancelled); err != nil {
			return err
		}
		_, err := s.ledger.ReleaseHold(ctx, tx, profileID, reservation.InventoryItemID, reservation.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.observeStock(ctx, profileID, reservation.InventoryItemID)
	s.notifyChain(ctx, reservation, blockchain.ActionReservationClosed)
	return reservation, nil
}

func (s *service) Expire(ctx context.Context, profileID string, id uuid.UUID) (bool, error) {
	if profileID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "reservation id is required")
	}

	expired := false
	err := s.tx.WithTxRetry(ctx, s.txMaxAttempts, func(tx *gorm.DB) error {
		expired = false
		repo := s.repo.WithTx(tx)

		reservation, loadErr := repo.GetByID(ctx, profileID, id)
		if loadErr != nil {
			return loadErr
		}
		if reservation.Status.IsTerminal() {
			// a competing sweep or cancellation already settled it
			return nil
		}

		if err := s.flip(ctx, tx, reservation, enums.ReservationStatusExpired); err != nil {
			return err
		}

		// the hold goes back to available no matter how far the reservation
		// progressed before it lapsed
		if _, ledgerErr := s.ledger.ReleaseHold(ctx, tx, profileID, reservation.InventoryItemID, reservation.Quantity); ledgerErr != nil {
			return ledgerErr
		}

		expired = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if expired {
		if reservation, loadErr := s.repo.GetByID(ctx, profileID, id); loadErr == nil {
			s.observeStock(ctx, profileID, reservation.InventoryItemID)
			s.notifyChain(ctx, reservation, blockchain.ActionReservationClosed)
		}
	}
	return expired, nil
}

func (s *service) ListExpiring(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error) {
	return s.repo.ListExpiring(ctx, now, limit)
}

// transition loads the reservation, applies fn inside a retried transaction
// and returns the fresh row.
func (s *service) transition(ctx context.Context, profileID string, id uuid.UUID, fn func(tx *gorm.DB, reservation *models.Reservation) error) (*models.Reservation, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id is required")
	}

	err := s.tx.WithTxRetry(ctx, s.txMaxAttempts, func(tx *gorm.DB) error {
		reservation, loadErr := s.repo.WithTx(tx).GetByID(ctx, profileID, id)
		if loadErr != nil {
			return loadErr
		}
		return fn(tx, reservation)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, profileID, id)
}

// flip performs the CAS from the reservation's observed status. Losing the
// race is a state conflict, not a retryable condition: the winner already
// moved the quantity.
func (s *service) flip(ctx context.Context, tx *gorm.DB, reservation *models.Reservation, to enums.ReservationStatus) error {
	won, err := s.repo.WithTx(tx).FlipStatus(ctx, reservation.ID, reservation.Status, to)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flip reservation status")
	}
	if !won {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation changed concurrently").
			WithDetails(map[string]string{"expected": string(reservation.Status), "target": string(to)})
	}
	reservation.Status = to
	return nil
}

func (s *service) resolveExpiry(input CreateInput, now time.Time) time.Time {
	if input.ExpiryAt != nil {
		return input.ExpiryAt.UTC()
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.cfg.DefaultReservationTTL
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return now.Add(ttl)
}

func (s *service) loadItemType(ctx context.Context, tx *gorm.DB, profileID string, itemID uuid.UUID) (enums.InventoryType, error) {
	var raw string
	res := tx.WithContext(ctx).
		Table("inventory_items").
		Select("inventory_type").
		Where("id = ? AND profile_id = ?", itemID, profileID).
		Scan(&raw)
	if res.Error != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "load inventory type")
	}
	if res.RowsAffected == 0 {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return enums.InventoryType(raw), nil
}

// observeStock reloads the item after a committed hold change and hands it to
// the observer.
func (s *service) observeStock(ctx context.Context, profileID string, itemID uuid.UUID) {
	if s.observer == nil {
		return
	}
	item, err := s.items.GetByID(ctx, profileID, itemID)
	if err != nil {
		s.logg.Error(ctx, "load item for stock observer", err)
		return
	}
	s.observer.ObserveStock(ctx, item)
}

// notifyChain is fire-and-forget; failures never surface to the caller.
func (s *service) notifyChain(ctx context.Context, reservation *models.Reservation, action string) {
	payload := map[string]any{
		"reservation_id": reservation.ID.String(),
		"quantity":       reservation.Quantity,
		"status":         string(reservation.Status),
	}
	if _, err := s.notifier.Notify(ctx, reservation.ProfileID, reservation.InventoryItemID, action, payload); err != nil {
		s.logg.Error(ctx, "blockchain notify failed", err)
	}
}

func transitionConflict(from, to enums.ReservationStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move reservation from %s to %s", from, to)).
		WithDetails(map[string]string{"from": string(from), "to": string(to)})
}
