package maintenance

import (
	"context"
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
CREATE TABLE IF NOT EXISTS maintenance_records (
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL,
  inventory_item_id TEXT NOT NULL,
  inventory_type TEXT NOT NULL,
  maintenance_type TEXT NOT NULL,
  description TEXT NOT NULL,
  scheduled_date DATETIME NOT NULL,
  completed_date DATETIME,
  status TEXT NOT NULL DEFAULT 'scheduled',
  estimated_cost TEXT,
  actual_cost TEXT,
  vendor_name TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  blockchain_hash TEXT,
  created_by_id TEXT,
  modified_by_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:maintenance_" + uuid.NewString() + "?mode=memory&cache=shared"
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

func seedItem(t *testing.T, db *gorm.DB, profileID string) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:                uuid.New(),
		ProfileID:         profileID,
		Name:              "Shuttle Bus",
		Type:              enums.InventoryTypeVehicle,
		TotalQuantity:     1,
		AvailableQuantity: 1,
		BasePrice:         decimal.NewFromInt(5000),
		Currency:          "NGN",
		Status:            enums.InventoryStatusAvailable,
		IsActive:          true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestScheduleRequiresExistingItem(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: uuid.New(),
		Type:            enums.MaintenanceTypeRepair,
		Description:     "brake pads",
		ScheduledDate:   time.Now().UTC().Add(24 * time.Hour),
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestScheduleAndCompleteLifecycle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1")

	est := decimal.NewFromInt(300)
	record, err := svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeInspection,
		Description:     "annual roadworthiness check",
		ScheduledDate:   time.Now().UTC().Add(48 * time.Hour),
		EstimatedCost:   &est,
		VendorName:      "AutoCheck Ltd",
	})
	require.NoError(t, err)
	require.Equal(t, enums.MaintenanceStatusScheduled, record.Status)
	require.Equal(t, enums.InventoryTypeVehicle, record.InventoryType)

	started, err := svc.Start(ctx, "profile-1", record.ID)
	require.NoError(t, err)
	require.Equal(t, enums.MaintenanceStatusInProgress, started.Status)

	actual := decimal.NewFromInt(350)
	completed, err := svc.Complete(ctx, "profile-1", record.ID, CompleteInput{
		ActualCost: &actual,
		Notes:      "replaced one tire",
	})
	require.NoError(t, err)
	require.Equal(t, enums.MaintenanceStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedDate)
	require.NotNil(t, completed.ActualCost)
	require.True(t, completed.ActualCost.Equal(actual))

	_, err = svc.Complete(ctx, "profile-1", record.ID, CompleteInput{})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestCancelOnlyWhileScheduled(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1")

	record, err := svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeCleaning,
		Description:     "deep clean",
		ScheduledDate:   time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Start(ctx, "profile-1", record.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "profile-1", record.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestListOverdueFindsStaleScheduledWork(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1")

	overdue, err := svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeRoutine,
		Description:     "oil change",
		ScheduledDate:   time.Now().UTC().Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeRoutine,
		Description:     "filter change",
		ScheduledDate:   time.Now().UTC().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	due, err := svc.ListOverdue(ctx, time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, overdue.ID, due[0].ID)
}

func TestListDueBeforeExcludesFinishedWork(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1")

	stale, err := svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeRoutine,
		Description:     "oil change",
		ScheduledDate:   time.Now().UTC().Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	finished, err := svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeRepair,
		Description:     "brake pads",
		ScheduledDate:   time.Now().UTC().Add(-3 * time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.Start(ctx, "profile-1", finished.ID)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, "profile-1", finished.ID, CompleteInput{})
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, ScheduleInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		Type:            enums.MaintenanceTypeRoutine,
		Description:     "filter change",
		ScheduledDate:   time.Now().UTC().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	records, _, err := svc.List(ctx, ListParams{ProfileID: "profile-1", DueBefore: &now})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, stale.ID, records[0].ID)
}
