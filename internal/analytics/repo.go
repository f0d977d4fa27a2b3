package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

// Repository manages persistence for analytics snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Upsert writes the snapshot, overwriting the metrics of an existing row
	// for the same (item, type, date, period).
	Upsert(ctx context.Context, snapshot *models.AnalyticsSnapshot) error
	GetByPeriod(ctx context.Context, profileID string, itemID uuid.UUID, date time.Time, period enums.PeriodType) (*models.AnalyticsSnapshot, error)
	List(ctx context.Context, params ListParams) ([]models.AnalyticsSnapshot, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an analytics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Upsert(ctx context.Context, snapshot *models.AnalyticsSnapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "inventory_item_id"},
				{Name: "inventory_type"},
				{Name: "date"},
				{Name: "period_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_bookings",
				"total_revenue",
				"occupancy_rate",
				"utilization_rate",
				"average_booking_value",
				"cancellation_rate",
				"no_show_rate",
				"custom_metrics",
				"updated_at",
			}),
		}).
		Create(snapshot).Error
}

func (r *repository) GetByPeriod(ctx context.Context, profileID string, itemID uuid.UUID, date time.Time, period enums.PeriodType) (*models.AnalyticsSnapshot, error) {
	var snapshot models.AnalyticsSnapshot
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND inventory_item_id = ? AND date = ? AND period_type = ?",
			profileID, itemID, date, period).
		Take(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "analytics snapshot not found")
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.AnalyticsSnapshot, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 12
	}
	var snapshots []models.AnalyticsSnapshot
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND inventory_item_id = ? AND period_type = ?",
			params.ProfileID, params.InventoryItemID, params.PeriodType).
		Order("date DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
