package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

// Service manages pricing rules and resolves the effective price for an item
// at a moment in time. The highest-priority matching rule wins; without a
// match the item's base price applies.
type Service interface {
	CreateRule(ctx context.Context, input CreateRuleInput) (*models.PricingRule, error)
	GetRule(ctx context.Context, profileID string, id uuid.UUID) (*models.PricingRule, error)
	ListRules(ctx context.Context, params ListParams) ([]models.PricingRule, string, error)
	UpdateRule(ctx context.Context, profileID string, id uuid.UUID, input UpdateRuleInput) (*models.PricingRule, error)
	DeleteRule(ctx context.Context, profileID string, id uuid.UUID) error

	ResolvePrice(ctx context.Context, profileID string, itemID uuid.UUID, at time.Time) (*Quote, error)
}

type itemLookup interface {
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error)
}

type service struct {
	repo  Repository
	items itemLookup
}

// NewService wires a pricing service.
func NewService(repo Repository, items itemLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("inventory lookup required")
	}
	return &service{repo: repo, items: items}, nil
}

func (s *service) CreateRule(ctx context.Context, input CreateRuleInput) (*models.PricingRule, error) {
	if input.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if input.InventoryItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	for _, raw := range []*string{input.StartTime, input.EndTime} {
		if raw == nil {
			continue
		}
		if _, err := time.Parse("15:04", *raw); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid time %q, expected HH:MM", *raw))
		}
	}
	if input.DaysOfWeek != nil {
		var days []int
		if err := json.Unmarshal(input.DaysOfWeek, &days); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "days_of_week must be a list of weekday numbers")
		}
		for _, d := range days {
			if d < 0 || d > 6 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("weekday %d out of range", d))
			}
		}
	}

	item, err := s.items.GetByID(ctx, input.ProfileID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}

	rule := &models.PricingRule{
		ID:              uuid.New(),
		ProfileID:       input.ProfileID,
		InventoryItemID: item.ID,
		InventoryType:   item.Type,
		Name:            input.Name,
		Price:           input.Price,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		DaysOfWeek:      input.DaysOfWeek,
		IsSeasonal:      input.IsSeasonal,
		IsPeakPricing:   input.IsPeakPricing,
		MinimumStay:     input.MinimumStay,
		Priority:        input.Priority,
		IsActive:        true,
		CreatedByID:     input.CreatedByID,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pricing rule")
	}
	return rule, nil
}

func (s *service) GetRule(ctx context.Context, profileID string, id uuid.UUID) (*models.PricingRule, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rule id is required")
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) ListRules(ctx context.Context, params ListParams) ([]models.PricingRule, string, error) {
	if params.ProfileID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.List(ctx, params)
}

func (s *service) UpdateRule(ctx context.Context, profileID string, id uuid.UUID, input UpdateRuleInput) (*models.PricingRule, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}

	fields := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		fields["price"] = *input.Price
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.ModifiedByID != nil {
		fields["modified_by_id"] = *input.ModifiedByID
	}

	if err := s.repo.UpdateFields(ctx, profileID, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, profileID, id)
}

func (s *service) DeleteRule(ctx context.Context, profileID string, id uuid.UUID) error {
	if profileID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.repo.Delete(ctx, profileID, id)
}

func (s *service) ResolvePrice(ctx context.Context, profileID string, itemID uuid.UUID, at time.Time) (*Quote, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	item, err := s.items.GetByID(ctx, profileID, itemID)
	if err != nil {
		return nil, err
	}

	rules, err := s.repo.ListActiveForItem(ctx, profileID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing rules")
	}

	quote := &Quote{
		InventoryItemID: item.ID,
		Price:           item.BasePrice,
		Currency:        item.Currency,
		At:              at,
	}
	for i := range rules {
		if ruleMatches(&rules[i], at) {
			ruleID := rules[i].ID
			quote.Price = rules[i].Price
			quote.RuleID = &ruleID
			quote.RuleName = rules[i].Name
			break
		}
	}
	return quote, nil
}

// ruleMatches checks the rule's date window, weekday list and wall-clock
// window against the given instant.
func ruleMatches(rule *models.PricingRule, at time.Time) bool {
	day := at.Truncate(24 * time.Hour)
	if rule.StartDate != nil && day.Before(rule.StartDate.UTC().Truncate(24*time.Hour)) {
		return false
	}
	if rule.EndDate != nil && day.After(rule.EndDate.UTC().Truncate(24*time.Hour)) {
		return false
	}

	if len(rule.DaysOfWeek) > 0 {
		var days []int
		if err := json.Unmarshal(rule.DaysOfWeek, &days); err != nil {
			return false
		}
		if len(days) > 0 {
			matched := false
			for _, d := range days {
				if d == int(at.Weekday()) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}

	if rule.StartTime != nil || rule.EndTime != nil {
		clock := at.Format("15:04")
		if rule.StartTime != nil && clock < *rule.StartTime {
			return false
		}
		if rule.EndTime != nil && clock > *rule.EndTime {
			return false
		}
	}
	return true
}
