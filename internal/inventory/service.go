package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/pkg/blockchain"
	"github.com/ubongpr7/akwa-inventory/pkg/config"
	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

// Service exposes item lifecycle management and the quantity ledger.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, params ListParams) ([]models.InventoryItem, string, error)
	UpdateItem(ctx context.Context, profileID string, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	RetireItem(ctx context.Context, profileID string, id uuid.UUID) error

	Reserve(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error)
	Release(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error)
	Occupy(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error)
	MakeAvailable(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error)
	AdjustTotal(ctx context.Context, profileID string, id uuid.UUID, delta int) (*Counters, error)

	GetCounters(ctx context.Context, profileID string, id uuid.UUID) (*Counters, error)
	Summary(ctx context.Context, profileID string) (*ProfileSummary, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTxRetry(ctx context.Context, maxAttempts int, fn func(tx *gorm.DB) error) error
}

// stockObserver is notified after a committed counter change so alerting can
// react without joining the transaction.
type stockObserver interface {
	ObserveStock(ctx context.Context, item *models.InventoryItem)
}

type service struct {
	repo          Repository
	ledger        Ledger
	tx            txRunner
	observer      stockObserver
	notifier      blockchain.Notifier
	logg          *logger.Logger
	cfg           config.InventoryConfig
	txMaxAttempts int
}

// NewService wires an inventory service with its dependencies. The observer
// and notifier are optional.
func NewService(
	repo Repository,
	ledger Ledger,
	tx txRunner,
	observer stockObserver,
	notifier blockchain.Notifier,
	logg *logger.Logger,
	cfg config.InventoryConfig,
	txMaxAttempts int,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
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
		ledger:        ledger,
		tx:            tx,
		observer:      observer,
		notifier:      notifier,
		logg:          logg,
		cfg:           cfg,
		txMaxAttempts: txMaxAttempts,
	}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	if input.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory type %q", input.Type))
	}
	if input.TotalQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "total quantity must be positive")
	}
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must not be negative")
	}

	currency := input.Currency
	if currency == "" {
		currency = "NGN"
	}

	item := &models.InventoryItem{
		ID:                uuid.New(),
		ProfileID:         input.ProfileID,
		Name:              input.Name,
		Description:       input.Description,
		Type:              input.Type,
		TotalQuantity:     input.TotalQuantity,
		AvailableQuantity: input.TotalQuantity,
		ReservedQuantity:  0,
		BasePrice:         input.BasePrice,
		Currency:          currency,
		Status:            enums.InventoryStatusAvailable,
		IsActive:          true,
		IsFeatured:        input.IsFeatured,
		Metadata:          input.Metadata,
		CreatedByID:       input.CreatedByID,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}

	s.notifyChain(ctx, item.ProfileID, item.ID, blockchain.ActionItemCreated, map[string]any{
		"name":           item.Name,
		"inventory_type": string(item.Type),
		"total_quantity": item.TotalQuantity,
	})
	return item, nil
}

func (s *service) GetItem(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) ListItems(ctx context.Context, params ListParams) ([]models.InventoryItem, string, error) {
	if params.ProfileID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if params.Type != nil && !params.Type.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory type %q", *params.Type))
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory status %q", *params.Status))
	}
	return s.repo.List(ctx, params)
}

func (s *service) UpdateItem(ctx context.Context, profileID string, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	fields := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must not be negative")
		}
		fields["base_price"] = *input.BasePrice
	}
	if input.Currency != nil {
		fields["currency"] = *input.Currency
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		fields["is_featured"] = *input.IsFeatured
	}
	if input.Metadata != nil {
		fields["metadata"] = input.Metadata
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory status %q", *input.Status))
		}
		fields["status"] = *input.Status
	}
	if input.ModifiedByID != nil {
		fields["modified_by_id"] = *input.ModifiedByID
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, profileID, id, fields); err != nil {
			return nil, err
		}
	}

	item, err := s.repo.GetByID(ctx, profileID, id)
	if err != nil {
		return nil, err
	}

	s.notifyChain(ctx, profileID, id, blockchain.ActionItemUpdated, map[string]any{
		"fields": len(fields),
	})
	return item, nil
}

func (s *service) RetireItem(ctx context.Context, profileID string, id uuid.UUID) error {
	if profileID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.repo.Retire(ctx, profileID, id)
}

func (s *service) Reserve(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error) {
	return s.mutate(ctx, profileID, id, func(tx *gorm.DB) (*Counters, error) {
		return s.ledger.Reserve(ctx, tx, profileID, id, qty)
	})
}

func (s *service) Release(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error) {
	return s.mutate(ctx, profileID, id, func(tx *gorm.DB) (*Counters, error) {
		return s.ledger.ReleaseHold(ctx, tx, profileID, id, qty)
	})
}

func (s *service) Occupy(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error) {
	return s.mutate(ctx, profileID, id, func(tx *gorm.DB) (*Counters, error) {
		return s.ledger.Occupy(ctx, tx, profileID, id, qty)
	})
}

func (s *service) MakeAvailable(ctx context.Context, profileID string, id uuid.UUID, qty int) (*Counters, error) {
	return s.mutate(ctx, profileID, id, func(tx *gorm.DB) (*Counters, error) {
		return s.ledger.MakeAvailable(ctx, tx, profileID, id, qty)
	})
}

func (s *service) AdjustTotal(ctx context.Context, profileID string, id uuid.UUID, delta int) (*Counters, error) {
	return s.mutate(ctx, profileID, id, func(tx *gorm.DB) (*Counters, error) {
		return s.ledger.AdjustTotal(ctx, tx, profileID, id, delta)
	})
}

func (s *service) GetCounters(ctx context.Context, profileID string, id uuid.UUID) (*Counters, error) {
	item, err := s.GetItem(ctx, profileID, id)
	if err != nil {
		return nil, err
	}
	return &Counters{
		ItemID:    item.ID,
		Total:     item.TotalQuantity,
		Available: item.AvailableQuantity,
		Reserved:  item.ReservedQuantity,
	}, nil
}

func (s *service) Summary(ctx context.Context, profileID string) (*ProfileSummary, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.Summary(ctx, profileID, s.cfg.LowStockRatio)
}

// mutate runs one ledger operation in its own retried transaction, then fires
// the post-commit observers with the committed state.
func (s *service) mutate(ctx context.Context, profileID string, id uuid.UUID, op func(tx *gorm.DB) (*Counters, error)) (*Counters, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	var counters *Counters
	err := s.tx.WithTxRetry(ctx, s.txMaxAttempts, func(tx *gorm.DB) error {
		result, opErr := op(tx)
		if opErr != nil {
			return opErr
		}
		counters = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCounterChange(ctx, profileID, id, counters)
	return counters, nil
}

func (s *service) afterCounterChange(ctx context.Context, profileID string, id uuid.UUID, counters *Counters) {
	if counters == nil {
		return
	}

	if s.observer != nil {
		item, err := s.repo.GetByID(ctx, profileID, id)
		if err != nil {
			s.logg.Error(ctx, "load item for stock observer", err)
		} else {
			s.observer.ObserveStock(ctx, item)
		}
	}

	s.notifyChain(ctx, profileID, id, blockchain.ActionCountersChanged, map[string]any{
		"total":     counters.Total,
		"available": counters.Available,
		"reserved":  counters.Reserved,
		"occupied":  counters.Occupied(),
		"at":        time.Now().UTC().Format(time.RFC3339),
	})
}

// notifyChain is fire-and-forget; failures never surface to the caller.
func (s *service) notifyChain(ctx context.Context, profileID string, id uuid.UUID, action string, payload map[string]any) {
	if _, err := s.notifier.Notify(ctx, profileID, id, action, payload); err != nil {
		s.logg.Error(ctx, "blockchain notify failed", err)
	}
}
