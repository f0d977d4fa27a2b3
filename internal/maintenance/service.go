package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

// Service manages the maintenance workflow:
// scheduled -> in_progress -> completed, with cancellation allowed until work
// starts.
type Service interface {
	Schedule(ctx context.Context, input ScheduleInput) (*models.MaintenanceRecord, error)
	Get(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error)
	List(ctx context.Context, params ListParams) ([]models.MaintenanceRecord, string, error)
	Start(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error)
	Complete(ctx context.Context, profileID string, id uuid.UUID, input CompleteInput) (*models.MaintenanceRecord, error)
	Cancel(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error)
	// ListOverdue surfaces stale scheduled work for the reconciler.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceRecord, error)
}

type itemLookup interface {
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error)
}

type service struct {
	repo  Repository
	items itemLookup
}

// NewService wires a maintenance service. items validates that scheduled work
// targets an existing inventory item.
func NewService(repo Repository, items itemLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("maintenance repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("inventory lookup required")
	}
	return &service{repo: repo, items: items}, nil
}

func (s *service) Schedule(ctx context.Context, input ScheduleInput) (*models.MaintenanceRecord, error) {
	if input.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if input.InventoryItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid maintenance type %q", input.Type))
	}
	if input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if input.ScheduledDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled date is required")
	}

	item, err := s.items.GetByID(ctx, input.ProfileID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}

	record := &models.MaintenanceRecord{
		ID:              uuid.New(),
		ProfileID:       input.ProfileID,
		InventoryItemID: item.ID,
		InventoryType:   item.Type,
		Type:            input.Type,
		Description:     input.Description,
		ScheduledDate:   input.ScheduledDate.UTC(),
		Status:          enums.MaintenanceStatusScheduled,
		EstimatedCost:   input.EstimatedCost,
		VendorName:      input.VendorName,
		Notes:           input.Notes,
		CreatedByID:     input.CreatedByID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create maintenance record")
	}
	return record, nil
}

func (s *service) Get(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id is required")
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.MaintenanceRecord, string, error) {
	if params.ProfileID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.List(ctx, params)
}

func (s *service) Start(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error) {
	return s.flip(ctx, profileID, id, enums.MaintenanceStatusScheduled, enums.MaintenanceStatusInProgress)
}

func (s *service) Complete(ctx context.Context, profileID string, id uuid.UUID, input CompleteInput) (*models.MaintenanceRecord, error) {
	record, err := s.Get(ctx, profileID, id)
	if err != nil {
		return nil, err
	}

	from := record.Status
	switch from {
	case enums.MaintenanceStatusScheduled, enums.MaintenanceStatusInProgress:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot complete maintenance in status %s", from))
	}

	won, err := s.repo.FlipStatus(ctx, id, from, enums.MaintenanceStatusCompleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete maintenance record")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "maintenance record changed concurrently")
	}

	now := time.Now().UTC()
	fields := map[string]any{"completed_date": now}
	if input.ActualCost != nil {
		fields["actual_cost"] = *input.ActualCost
	}
	if input.Notes != "" {
		fields["notes"] = input.Notes
	}
	if err := s.repo.UpdateFields(ctx, profileID, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) Cancel(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error) {
	return s.flip(ctx, profileID, id, enums.MaintenanceStatusScheduled, enums.MaintenanceStatusCancelled)
}

func (s *service) ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceRecord, error) {
	return s.repo.ListOverdue(ctx, now, limit)
}

func (s *service) flip(ctx context.Context, profileID string, id uuid.UUID, from, to enums.MaintenanceStatus) (*models.MaintenanceRecord, error) {
	record, err := s.Get(ctx, profileID, id)
	if err != nil {
		return nil, err
	}
	if record.Status != from {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move maintenance from %s to %s", record.Status, to))
	}

	won, err := s.repo.FlipStatus(ctx, id, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flip maintenance status")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "maintenance record changed concurrently")
	}
	return s.repo.GetByID(ctx, profileID, id)
}
