package reservations

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/pkg/config"
	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r testTxRunner) WithTxRetry(ctx context.Context, _ int, fn func(tx *gorm.DB) error) error {
	return r.WithTx(ctx, fn)
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	return newObservedService(t, db, nil)
}

func newObservedService(t *testing.T, db *gorm.DB, observer stockObserver) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		NewRepository(db),
		inventory.NewRepository(db),
		inventory.NewLedger(),
		testTxRunner{db: db},
		observer,
		nil,
		logg,
		config.InventoryConfig{DefaultReservationTTL: 24 * time.Hour},
		3,
	)
	require.NoError(t, err)
	return svc
}

func TestCreateReservesQuantity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        2,
	})
	require.NoError(t, err)
	require.Equal(t, enums.ReservationStatusPending, reservation.Status)
	require.Equal(t, enums.InventoryTypeWorkspace, reservation.InventoryType)
	require.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), reservation.ExpiryAt, time.Minute)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 3, stored.AvailableQuantity)
	require.Equal(t, 2, stored.ReservedQuantity)
}

func TestCreateRollsBackWhenInsufficient(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	item := seedItem(t, db, "profile-1", 5, 1, 4)

	_, err := svc.Create(context.Background(), CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        2,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientAvailability))

	var count int64
	require.NoError(t, db.Table("reservations").Count(&count).Error)
	require.Zero(t, count)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 1, stored.AvailableQuantity)
	require.Equal(t, 4, stored.ReservedQuantity)
}

func TestCreateHonorsExplicitExpiry(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	expiry := time.Now().UTC().Add(2 * time.Hour)
	reservation, err := svc.Create(context.Background(), CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        1,
		ExpiryAt:        &expiry,
	})
	require.NoError(t, err)
	require.WithinDuration(t, expiry, reservation.ExpiryAt, time.Second)

	past := time.Now().UTC().Add(-time.Hour)
	_, err = svc.Create(context.Background(), CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        1,
		ExpiryAt:        &past,
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestConfirmOnlyFromPending(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        1,
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ReservationStatusConfirmed, confirmed.Status)

	// counters untouched by confirm
	stored := loadItem(t, db, item.ID)
	require.Equal(t, 4, stored.AvailableQuantity)
	require.Equal(t, 1, stored.ReservedQuantity)

	_, err = svc.Confirm(ctx, "profile-1", reservation.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestActivateKeepsHoldReserved(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10, 10, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        3,
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)

	active, err := svc.Activate(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ReservationStatusActive, active.Status)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 7, stored.AvailableQuantity)
	require.Equal(t, 3, stored.ReservedQuantity)
	require.Equal(t, 0, stored.OccupiedQuantity())
}

func TestCancelReleasesHold(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        3,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ReservationStatusCancelled, cancelled.Status)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 5, stored.AvailableQuantity)
	require.Equal(t, 0, stored.ReservedQuantity)

	_, err = svc.Cancel(ctx, "profile-1", reservation.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestCancelActiveReleasesHold(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        2,
	})
	require.NoError(t, err)

	_, err = svc.Activate(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ReservationStatusCancelled, cancelled.Status)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 5, stored.AvailableQuantity)
	require.Equal(t, 0, stored.ReservedQuantity)
}

func TestExpireReleasesOnceAndIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        2,
	})
	require.NoError(t, err)

	expired, err := svc.Expire(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.True(t, expired)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 5, stored.AvailableQuantity)
	require.Equal(t, 0, stored.ReservedQuantity)

	// second expire settles nothing and moves no quantity
	expired, err = svc.Expire(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.False(t, expired)

	stored = loadItem(t, db, item.ID)
	require.Equal(t, 5, stored.AvailableQuantity)
	require.Equal(t, enums.ReservationStatusExpired, loadReservation(t, db, reservation.ID).Status)
}

func TestExpireActiveReleasesHold(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        2,
	})
	require.NoError(t, err)

	_, err = svc.Activate(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.Equal(t, 2, loadItem(t, db, item.ID).ReservedQuantity)

	expired, err := svc.Expire(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.True(t, expired)

	stored := loadItem(t, db, item.ID)
	require.Equal(t, 5, stored.AvailableQuantity)
	require.Equal(t, 0, stored.ReservedQuantity)
}

func TestHeldQuantityMatchesReservedCounter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	repo := NewRepository(db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10, 10, 0)

	var ids []uuid.UUID
	for _, qty := range []int{1, 2, 3} {
		reservation, err := svc.Create(ctx, CreateInput{
			ProfileID:       "profile-1",
			InventoryItemID: item.ID,
			CustomerUserID:  "customer-7",
			Quantity:        qty,
		})
		require.NoError(t, err)
		ids = append(ids, reservation.ID)
	}

	_, err := svc.Cancel(ctx, "profile-1", ids[1])
	require.NoError(t, err)

	// active reservations keep their hold and stay in the sum
	_, err = svc.Activate(ctx, "profile-1", ids[2])
	require.NoError(t, err)

	held, err := repo.SumHeldQuantity(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, loadItem(t, db, item.ID).ReservedQuantity, held)
	require.Equal(t, 4, held)
}

func TestListAndListExpiring(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	repo := NewRepository(db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10, 10, 0)

	soon := time.Now().UTC().Add(time.Minute)
	later := time.Now().UTC().Add(time.Hour)
	first, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-1",
		Quantity:        1,
		ExpiryAt:        &soon,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-2",
		Quantity:        1,
		ExpiryAt:        &later,
	})
	require.NoError(t, err)

	all, _, err := svc.List(ctx, ListParams{ProfileID: "profile-1"})
	require.NoError(t, err)
	require.Len(t, all, 2)

	customer := "customer-1"
	mine, _, err := svc.List(ctx, ListParams{ProfileID: "profile-1", CustomerUserID: &customer})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	due, err := repo.ListExpiring(ctx, time.Now().UTC().Add(30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, first.ID, due[0].ID)
}

func TestListExpiresBeforeSkipsTerminalHolds(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10, 10, 0)

	soon := time.Now().UTC().Add(30 * time.Minute)
	later := time.Now().UTC().Add(2 * time.Hour)

	kept, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-1",
		Quantity:        1,
		ExpiryAt:        &soon,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-2",
		Quantity:        1,
		ExpiryAt:        &later,
	})
	require.NoError(t, err)
	cancelled, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-3",
		Quantity:        1,
		ExpiryAt:        &soon,
	})
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, "profile-1", cancelled.ID)
	require.NoError(t, err)

	cutoff := time.Now().UTC().Add(time.Hour)
	expiring, _, err := svc.List(ctx, ListParams{ProfileID: "profile-1", ExpiresBefore: &cutoff})
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	require.Equal(t, kept.ID, expiring[0].ID)
}

type recordingStockObserver struct {
	observed []*models.InventoryItem
}

func (o *recordingStockObserver) ObserveStock(_ context.Context, item *models.InventoryItem) {
	o.observed = append(o.observed, item)
}

func TestHoldChangesNotifyStockObserver(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	observer := &recordingStockObserver{}
	svc := newObservedService(t, db, observer)
	ctx := context.Background()
	item := seedItem(t, db, "profile-1", 10, 10, 0)

	reservation, err := svc.Create(ctx, CreateInput{
		ProfileID:       "profile-1",
		InventoryItemID: item.ID,
		CustomerUserID:  "customer-7",
		Quantity:        9,
	})
	require.NoError(t, err)
	require.Len(t, observer.observed, 1)
	require.Equal(t, 1, observer.observed[0].AvailableQuantity)
	require.Equal(t, 9, observer.observed[0].ReservedQuantity)

	_, err = svc.Cancel(ctx, "profile-1", reservation.ID)
	require.NoError(t, err)
	require.Len(t, observer.observed, 2)
	require.Equal(t, 10, observer.observed[1].AvailableQuantity)
	require.Equal(t, 0, observer.observed[1].ReservedQuantity)
}
