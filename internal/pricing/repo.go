package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/pagination"
)

// Repository manages persistence for pricing rules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rule *models.PricingRule) error
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.PricingRule, error)
	List(ctx context.Context, params ListParams) ([]models.PricingRule, string, error)
	// ListActiveForItem returns the item's active rules ordered by priority,
	// highest first, recency breaking ties.
	ListActiveForItem(ctx context.Context, profileID string, itemID uuid.UUID) ([]models.PricingRule, error)
	UpdateFields(ctx context.Context, profileID string, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, profileID string, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rule *models.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Take(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.PricingRule, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PricingRule{}).
		Where("profile_id = ?", params.ProfileID)

	if params.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *params.InventoryItemID)
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

	var rules []models.PricingRule
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rules).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rules) > limit {
		rules = rules[:limit]
		last := rules[len(rules)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rules, next, nil
}

func (r *repository) ListActiveForItem(ctx context.Context, profileID string, itemID uuid.UUID) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND inventory_item_id = ? AND is_active = ?", profileID, itemID, true).
		Order("priority DESC, created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) UpdateFields(ctx context.Context, profileID string, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.PricingRule{}).
		Where("id = ? AND profile_id = ?", id, profileID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, profileID string, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Delete(&models.PricingRule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
	}
	return nil
}
