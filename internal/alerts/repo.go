package alerts

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

// Repository manages persistence for alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.Alert, error)
	List(ctx context.Context, params ListParams) ([]models.Alert, string, error)
	MarkRead(ctx context.Context, profileID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, profileID string) (int64, error)
	Resolve(ctx context.Context, profileID string, id uuid.UUID, resolvedByID, actionTaken string) error
	// HasUnresolved reports whether an open alert of the given type already
	// exists for the item, so repeated sweeps don't stack duplicates.
	HasUnresolved(ctx context.Context, profileID string, itemID uuid.UUID, alertType enums.AlertType) (bool, error)
	CountUnresolved(ctx context.Context, profileID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an alert repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *repository) GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Take(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Alert, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("profile_id = ?", params.ProfileID)

	if params.Type != nil {
		query = query.Where("alert_type = ?", *params.Type)
	}
	if params.Severity != nil {
		query = query.Where("severity = ?", *params.Severity)
	}
	if params.IsRead != nil {
		query = query.Where("is_read = ?", *params.IsRead)
	}
	if params.IsResolved != nil {
		query = query.Where("is_resolved = ?", *params.IsResolved)
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

	var alerts []models.Alert
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&alerts).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(alerts) > limit {
		alerts = alerts[:limit]
		last := alerts[len(alerts)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return alerts, next, nil
}

func (r *repository) MarkRead(ctx context.Context, profileID string, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND profile_id = ?", id, profileID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, profileID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repository) Resolve(ctx context.Context, profileID string, id uuid.UUID, resolvedByID, actionTaken string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND profile_id = ? AND is_resolved = ?", id, profileID, false).
		Updates(map[string]any{
			"is_resolved":    true,
			"is_read":        true,
			"resolved_at":    now,
			"resolved_by_id": resolvedByID,
			"action_taken":   actionTaken,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// missing or already resolved
		if _, err := r.GetByID(ctx, profileID, id); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "alert already resolved")
	}
	return nil
}

func (r *repository) HasUnresolved(ctx context.Context, profileID string, itemID uuid.UUID, alertType enums.AlertType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("profile_id = ? AND inventory_item_id = ? AND alert_type = ? AND is_resolved = ?",
			profileID, itemID, alertType, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountUnresolved(ctx context.Context, profileID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("profile_id = ? AND is_resolved = ?", profileID, false).
		Count(&count).Error
	return count, err
}
