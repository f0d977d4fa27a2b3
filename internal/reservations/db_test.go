package reservations

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
CREATE TABLE IF NOT EXISTS reservations (
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL,
  inventory_item_id TEXT NOT NULL,
  inventory_type TEXT NOT NULL,
  customer_user_id TEXT NOT NULL,
  quantity_reserved INTEGER NOT NULL DEFAULT 1,
  reservation_date DATETIME NOT NULL,
  expiry_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  blockchain_hash TEXT,
  created_by_id TEXT,
  modified_by_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reservations_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range []string{testSchemaDDL} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, profileID string, total, available, reserved int) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:                uuid.New(),
		ProfileID:         profileID,
		Name:              "Conference Hall",
		Type:              enums.InventoryTypeWorkspace,
		TotalQuantity:     total,
		AvailableQuantity: available,
		ReservedQuantity:  reserved,
		BasePrice:         decimal.NewFromInt(50000),
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

func loadReservation(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Reservation {
	t.Helper()

	var reservation models.Reservation
	require.NoError(t, db.First(&reservation, "id = ?", id).Error)
	return &reservation
}
