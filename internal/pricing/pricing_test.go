package pricing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

const testSchemaDDL = `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  inventory_type TEXT NOT NULL,
  total_quantity INTEGER NOT NULL DEFAULT 1,
  available_quantity INTEGER NOT NULL DEFAULT 1,
  reserved_quantity INTEGER NOT NULL DEFAULT 0,
  base_price TEXT NOT NULL DEFAULT '0',
  currency TEXT NOT NULL DEFAULT 'NGN',
  status TEXT NOT NULL DEFAULT 'available',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  metadata TEXT,
  blockchain_hash TEXT,
  last_blockchain_sync DATETIME,
  created_by_id TEXT,
  modified_by_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS pricing_rules (
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL,
  inventory_item_id TEXT NOT NULL,
  inventory_type TEXT NOT NULL,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  start_date DATETIME,
  end_date DATETIME,
  start_time TEXT,
  end_time TEXT,
  days_of_week TEXT,
  is_seasonal INTEGER NOT NULL DEFAULT 0,
  is_peak_pricing INTEGER NOT NULL DEFAULT 0,
  minimum_stay INTEGER,
  priority INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_by_id TEXT,
  modified_by_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:pricing_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(testSchemaDDL).Error)
	return db
}

func newService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), inventory.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedItem(t *testing.T, db *gorm.DB, profileID string, basePrice int64) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:                uuid.New(),
		ProfileID:         profileID,
		Name:              "Executive Suite",
		Type:              enums.InventoryTypeRoom,
		TotalQuantity:     3,
		AvailableQuantity: 3,
		BasePrice:         decimal.NewFromInt(basePrice),
		Currency:          "NGN",
		Status:            enums.InventoryStatusAvailable,
		IsActive:          true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestResolvePriceFallsBackToBase(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	item := seedItem(t, db, "profile-1", 10000)

	quote, err := svc.ResolvePrice(context.Background(), "profile-1", item.ID, time.Now())
	require.NoError(t, err)
	require.True(t, quote.Price.Equal(decimal.NewFromInt(10000)))
	require.Nil(t, quote.RuleID)
	require.Equal(t, "NGN", quote.Currency)
}

func TestResolvePricePrefersHigherPriority(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10000)

	_, err := svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "weekend uplift",
		Price:           decimal.NewFromInt(12000),
		Priority:        1,
	})
	require.NoError(t, err)

	peak, err := svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "festival peak",
		Price:           decimal.NewFromInt(18000),
		Priority:        5,
		IsPeakPricing:   true,
	})
	require.NoError(t, err)

	quote, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Now())
	require.NoError(t, err)
	require.True(t, quote.Price.Equal(decimal.NewFromInt(18000)))
	require.NotNil(t, quote.RuleID)
	require.Equal(t, peak.ID, *quote.RuleID)
	require.Equal(t, "festival peak", quote.RuleName)
}

func TestResolvePriceHonorsDateWindow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10000)

	start := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "holiday season",
		Price:           decimal.NewFromInt(25000),
		StartDate:       &start,
		EndDate:         &end,
		IsSeasonal:      true,
	})
	require.NoError(t, err)

	inside, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, inside.Price.Equal(decimal.NewFromInt(25000)))

	outside, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, outside.Price.Equal(decimal.NewFromInt(10000)))
}

func TestResolvePriceHonorsWeekdayAndTimeWindow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10000)

	startTime := "18:00"
	endTime := "23:00"
	// 5=Friday, 6=Saturday
	days, err := json.Marshal([]int{5, 6})
	require.NoError(t, err)

	_, err = svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "weekend evenings",
		Price:           decimal.NewFromInt(15000),
		StartTime:       &startTime,
		EndTime:         &endTime,
		DaysOfWeek:      days,
	})
	require.NoError(t, err)

	// Friday 2025-06-06 20:00 UTC
	fridayEvening, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, fridayEvening.Price.Equal(decimal.NewFromInt(15000)))

	// Friday morning misses the time window
	fridayMorning, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, fridayMorning.Price.Equal(decimal.NewFromInt(10000)))

	// Monday evening misses the weekday list
	mondayEvening, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, mondayEvening.Price.Equal(decimal.NewFromInt(10000)))
}

func TestResolvePriceIgnoresInactiveRules(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10000)

	rule, err := svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "flash sale",
		Price:           decimal.NewFromInt(5000),
		Priority:        9,
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateRule(ctx, "profile-1", rule.ID, UpdateRuleInput{IsActive: &inactive})
	require.NoError(t, err)

	quote, err := svc.ResolvePrice(ctx, "profile-1", item.ID, time.Now())
	require.NoError(t, err)
	require.True(t, quote.Price.Equal(decimal.NewFromInt(10000)))
}

func TestCreateRuleValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10000)

	badTime := "25:99"
	_, err := svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "bad clock",
		Price:           decimal.NewFromInt(1),
		StartTime:       &badTime,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "bad days",
		Price:           decimal.NewFromInt(1),
		DaysOfWeek:      json.RawMessage(`[9]`),
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: uuid.New(),
		Name:            "missing item",
		Price:           decimal.NewFromInt(1),
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteRule(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10000)

	rule, err := svc.CreateRule(ctx, CreateRuleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Name:            "one off",
		Price:           decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRule(ctx, "profile-1", rule.ID))
	require.True(t, pkgerrors.HasCode(svc.DeleteRule(ctx, "profile-1", rule.ID), pkgerrors.CodeNotFound))
}
