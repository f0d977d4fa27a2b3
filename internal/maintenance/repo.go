package maintenance

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

// Repository manages persistence for maintenance records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.MaintenanceRecord) error
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error)
	List(ctx context.Context, params ListParams) ([]models.MaintenanceRecord, string, error)
	UpdateFields(ctx context.Context, profileID string, id uuid.UUID, fields map[string]any) error
	// FlipStatus moves the record to the target status only from the expected
	// one; returns whether the caller won the flip.
	FlipStatus(ctx context.Context, id uuid.UUID, from, to enums.MaintenanceStatus) (bool, error)
	// ListOverdue returns scheduled work whose date passed without progress.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a maintenance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "maintenance record not found")
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.MaintenanceRecord, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.MaintenanceRecord{}).
		Where("profile_id = ?", params.ProfileID)

	if params.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *params.InventoryItemID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Type != nil {
		query = query.Where("maintenance_type = ?", *params.Type)
	}
	if params.DueBefore != nil {
		query = query.Where("scheduled_date <= ? AND status IN ?", *params.DueBefore,
			[]enums.MaintenanceStatus{enums.MaintenanceStatusScheduled, enums.MaintenanceStatusInProgress})
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

	var records []models.MaintenanceRecord
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&records).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return records, next, nil
}

func (r *repository) UpdateFields(ctx context.Context, profileID string, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.MaintenanceRecord{}).
		Where("id = ? AND profile_id = ?", id, profileID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "maintenance record not found")
	}
	return nil
}

func (r *repository) FlipStatus(ctx context.Context, id uuid.UUID, from, to enums.MaintenanceStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MaintenanceRecord{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []models.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_date <= ?", enums.MaintenanceStatusScheduled, now).
		Order("scheduled_date ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
