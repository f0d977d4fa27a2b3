package inventory

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

// Repository manages persistence for inventory items. Every read and write is
// scoped to the owning profile.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, params ListParams) ([]models.InventoryItem, string, error)
	UpdateFields(ctx context.Context, profileID string, id uuid.UUID, fields map[string]any) error
	Retire(ctx context.Context, profileID string, id uuid.UUID) error
	SetBlockchainHash(ctx context.Context, id uuid.UUID, txHash string) error
	Summary(ctx context.Context, profileID string, lowStockRatio float64) (*ProfileSummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.InventoryItem, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("profile_id = ?", params.ProfileID)

	if params.Type != nil {
		query = query.Where("inventory_type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
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

	var items []models.InventoryItem
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&items).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return items, next, nil
}

func (r *repository) UpdateFields(ctx context.Context, profileID string, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND profile_id = ?", id, profileID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return nil
}

// Retire soft-deletes: the row stays for reservation history but stops
// accepting ledger mutations.
func (r *repository) Retire(ctx context.Context, profileID string, id uuid.UUID) error {
	return r.UpdateFields(ctx, profileID, id, map[string]any{
		"is_active": false,
		"status":    enums.InventoryStatusRetired,
	})
}

func (r *repository) SetBlockchainHash(ctx context.Context, id uuid.UUID, txHash string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"blockchain_hash":      txHash,
			"last_blockchain_sync": now,
		}).Error
}

func (r *repository) Summary(ctx context.Context, profileID string, lowStockRatio float64) (*ProfileSummary, error) {
	type totalsRow struct {
		TotalItems     int64
		TotalQuantity  int64
		TotalAvailable int64
		TotalReserved  int64
		LowStockItems  int64
	}

	var totals totalsRow
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select(`
			COUNT(*) AS total_items,
			COALESCE(SUM(total_quantity), 0) AS total_quantity,
			COALESCE(SUM(available_quantity), 0) AS total_available,
			COALESCE(SUM(reserved_quantity), 0) AS total_reserved,
			COALESCE(SUM(CASE WHEN total_quantity > 0 AND available_quantity * 1.0 / total_quantity <= ? THEN 1 ELSE 0 END), 0) AS low_stock_items
		`, lowStockRatio).
		Where("profile_id = ? AND is_active = ?", profileID, true).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	type typeRow struct {
		InventoryType enums.InventoryType
		Count         int
	}
	var byType []typeRow
	err = r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("inventory_type, COUNT(*) AS count").
		Where("profile_id = ? AND is_active = ?", profileID, true).
		Group("inventory_type").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}

	summary := &ProfileSummary{
		ProfileID:      profileID,
		TotalItems:     totals.TotalItems,
		TotalQuantity:  totals.TotalQuantity,
		TotalAvailable: totals.TotalAvailable,
		TotalReserved:  totals.TotalReserved,
		TotalOccupied:  totals.TotalQuantity - totals.TotalAvailable - totals.TotalReserved,
		LowStockItems:  totals.LowStockItems,
		ItemsByType:    make(map[enums.InventoryType]int, len(byType)),
		GeneratedAt:    time.Now().UTC(),
	}
	for _, row := range byType {
		summary.ItemsByType[row.InventoryType] = row.Count
	}
	return summary, nil
}
