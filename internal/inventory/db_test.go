package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
)

// Postgres defaults (gen_random_uuid, enums, jsonb) don't exist in sqlite, so
// the schema is written out by hand for tests.
const inventoryItemsDDL = `
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
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(inventoryItemsDDL).Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, profileID string, total, available, reserved int) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:                uuid.New(),
		ProfileID:         profileID,
		Name:              "Deluxe Room",
		Type:              enums.InventoryTypeRoom,
		TotalQuantity:     total,
		AvailableQuantity: available,
		ReservedQuantity:  reserved,
		BasePrice:         decimal.NewFromInt(15000),
		Currency:          "NGN",
		Status:            enums.InventoryStatusAvailable,
		IsActive:          true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func loadItem(t *testing.T, db *gorm.DB, id uuid.UUID) *models.InventoryItem {
	t.Helper()

	var item models.InventoryItem
	require.NoError(t, db.First(&item, "id = ?", id).Error)
	return &item
}
