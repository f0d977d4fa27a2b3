package alerts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

// Service exposes alert creation and the read/resolve workflow.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Alert, error)
	Get(ctx context.Context, profileID string, id uuid.UUID) (*models.Alert, error)
	List(ctx context.Context, params ListParams) ([]models.Alert, string, error)
	MarkRead(ctx context.Context, profileID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, profileID string) (int64, error)
	Resolve(ctx context.Context, profileID string, id uuid.UUID, input ResolveInput) (*models.Alert, error)
	CountUnresolved(ctx context.Context, profileID string) (int64, error)

	// Raise creates the alert only when no unresolved alert of the same type
	// is open for the item. Returns nil when suppressed.
	Raise(ctx context.Context, input CreateInput) (*models.Alert, error)
}

type service struct {
	repo Repository
}

// NewService wires an alert service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Alert, error) {
	if input.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid alert type %q", input.Type))
	}
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	severity := input.Severity
	if severity == "" {
		severity = enums.AlertSeverityMedium
	}
	if !severity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid alert severity %q", severity))
	}

	alert := &models.Alert{
		ID:              uuid.New(),
		ProfileID:       input.ProfileID,
		InventoryItemID: input.InventoryItemID,
		InventoryType:   input.InventoryType,
		Type:            input.Type,
		Title:           input.Title,
		Message:         input.Message,
		Severity:        severity,
		ActionRequired:  input.ActionRequired,
		CreatedByID:     input.CreatedByID,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create alert")
	}
	return alert, nil
}

func (s *service) Get(ctx context.Context, profileID string, id uuid.UUID) (*models.Alert, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert id is required")
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Alert, string, error) {
	if params.ProfileID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.List(ctx, params)
}

func (s *service) MarkRead(ctx context.Context, profileID string, id uuid.UUID) error {
	if profileID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.MarkRead(ctx, profileID, id)
}

func (s *service) MarkAllRead(ctx context.Context, profileID string) (int64, error) {
	if profileID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.MarkAllRead(ctx, profileID)
}

func (s *service) Resolve(ctx context.Context, profileID string, id uuid.UUID, input ResolveInput) (*models.Alert, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if input.ResolvedByID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolved by id is required")
	}
	if err := s.repo.Resolve(ctx, profileID, id, input.ResolvedByID, input.ActionTaken); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) CountUnresolved(ctx context.Context, profileID string) (int64, error) {
	if profileID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.CountUnresolved(ctx, profileID)
}

func (s *service) Raise(ctx context.Context, input CreateInput) (*models.Alert, error) {
	if input.InventoryItemID != nil {
		exists, err := s.repo.HasUnresolved(ctx, input.ProfileID, *input.InventoryItemID, input.Type)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open alerts")
		}
		if exists {
			return nil, nil
		}
	}
	return s.Create(ctx, input)
}
