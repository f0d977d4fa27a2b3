package inventory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

func TestReserveMovesAvailableToReserved(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	counters, err := ledger.Reserve(ctx, db, "profile-1", item.ID, 3)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if counters.Available != 2 || counters.Reserved != 3 || counters.Total != 5 {
		t.Fatalf("unexpected counters: %+v", counters)
	}

	stored := loadItem(t, db, item.ID)
	if stored.AvailableQuantity != 2 || stored.ReservedQuantity != 3 {
		t.Fatalf("unexpected stored state: %+v", stored)
	}
}

func TestReserveFailsWhenInsufficient(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 2, 3)

	_, err := ledger.Reserve(ctx, db, "profile-1", item.ID, 3)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientAvailability) {
		t.Fatalf("expected insufficient availability, got %v", err)
	}

	// nothing moved
	stored := loadItem(t, db, item.ID)
	if stored.AvailableQuantity != 2 || stored.ReservedQuantity != 3 {
		t.Fatalf("counters changed on failed reserve: %+v", stored)
	}
}

func TestReserveUnknownItemIsNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()

	_, err := ledger.Reserve(context.Background(), db, "profile-1", uuid.New(), 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReserveWrongProfileIsNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	_, err := ledger.Reserve(context.Background(), db, "profile-2", item.ID, 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign profile, got %v", err)
	}
}

func TestReserveInactiveItemIsStateConflict(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 5, 0)
	if err := db.Model(item).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate item: %v", err)
	}

	_, err := ledger.Reserve(context.Background(), db, "profile-1", item.ID, 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 5, 0)

	for _, qty := range []int{0, -1} {
		_, err := ledger.Reserve(context.Background(), db, "profile-1", item.ID, qty)
		if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidQuantity) {
			t.Fatalf("qty %d: expected invalid quantity, got %v", qty, err)
		}
	}
}

func TestReleaseHoldReturnsReservedToAvailable(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 1, 4)

	counters, err := ledger.ReleaseHold(context.Background(), db, "profile-1", item.ID, 3)
	if err != nil {
		t.Fatalf("release hold: %v", err)
	}
	if counters.Available != 4 || counters.Reserved != 1 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestReleaseHoldFailsBeyondReserved(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 4, 1)

	_, err := ledger.ReleaseHold(context.Background(), db, "profile-1", item.ID, 2)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestOccupyConsumesReserved(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 2, 3)

	counters, err := ledger.Occupy(context.Background(), db, "profile-1", item.ID, 2)
	if err != nil {
		t.Fatalf("occupy: %v", err)
	}
	if counters.Available != 2 || counters.Reserved != 1 || counters.Occupied() != 2 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestOccupyFailsBeyondReserved(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 4, 1)

	_, err := ledger.Occupy(context.Background(), db, "profile-1", item.ID, 2)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestMakeAvailableReturnsOccupiedStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	// 2 units implicitly occupied
	item := seedItem(t, db, "profile-1", 5, 2, 1)

	counters, err := ledger.MakeAvailable(context.Background(), db, "profile-1", item.ID, 2)
	if err != nil {
		t.Fatalf("make available: %v", err)
	}
	if counters.Available != 4 || counters.Reserved != 1 || counters.Occupied() != 0 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestMakeAvailableCannotExceedTotal(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 2, 1)

	_, err := ledger.MakeAvailable(context.Background(), db, "profile-1", item.ID, 3)
	if !pkgerrors.HasCode(err, pkgerrors.CodeCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
}

func TestAdjustTotalGrowsTotalAndAvailable(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 2, 3)

	counters, err := ledger.AdjustTotal(context.Background(), db, "profile-1", item.ID, 4)
	if err != nil {
		t.Fatalf("adjust total: %v", err)
	}
	if counters.Total != 9 || counters.Available != 6 || counters.Reserved != 3 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestAdjustTotalNegativeOnlyConsumesAvailable(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 2, 3)

	if _, err := ledger.AdjustTotal(context.Background(), db, "profile-1", item.ID, -3); !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientAvailability) {
		t.Fatalf("expected insufficient availability, got %v", err)
	}

	counters, err := ledger.AdjustTotal(context.Background(), db, "profile-1", item.ID, -2)
	if err != nil {
		t.Fatalf("adjust total down: %v", err)
	}
	if counters.Total != 3 || counters.Available != 0 || counters.Reserved != 3 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestConcurrentReservesSucceedExactlyAvailableTimes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	// sqlite permits one writer at a time
	sqlDB.SetMaxOpenConns(1)

	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 10, 3, 0)

	const callers = 10
	var wg sync.WaitGroup
	var wins int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Reserve(context.Background(), db, "profile-1", item.ID, 1)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case pkgerrors.HasCode(err, pkgerrors.CodeInsufficientAvailability):
			default:
				t.Errorf("unexpected reserve error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 3 {
		t.Fatalf("expected exactly 3 winning reserves, got %d", wins)
	}
	stored := loadItem(t, db, item.ID)
	if stored.AvailableQuantity != 0 || stored.ReservedQuantity != 3 {
		t.Fatalf("unexpected stored state: %+v", stored)
	}
}

func TestLedgerConservesTotalAcrossLifecycle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 10, 10, 0)

	steps := []func() (*Counters, error){
		func() (*Counters, error) { return ledger.Reserve(ctx, db, "profile-1", item.ID, 6) },
		func() (*Counters, error) { return ledger.Occupy(ctx, db, "profile-1", item.ID, 4) },
		func() (*Counters, error) { return ledger.ReleaseHold(ctx, db, "profile-1", item.ID, 2) },
		func() (*Counters, error) { return ledger.MakeAvailable(ctx, db, "profile-1", item.ID, 4) },
	}

	for i, step := range steps {
		counters, err := step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if sum := counters.Available + counters.Reserved + counters.Occupied(); sum != counters.Total {
			t.Fatalf("step %d: conservation broken: %+v", i, counters)
		}
	}

	final := loadItem(t, db, item.ID)
	if final.AvailableQuantity != 10 || final.ReservedQuantity != 0 {
		t.Fatalf("expected full availability restored, got %+v", final)
	}
}

func TestLedgerRefreshesDerivedStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 2, 2, 0)

	if _, err := ledger.Reserve(ctx, db, "profile-1", item.ID, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := loadItem(t, db, item.ID).Status; got != enums.InventoryStatusReserved {
		t.Fatalf("expected reserved status, got %q", got)
	}

	if _, err := ledger.Occupy(ctx, db, "profile-1", item.ID, 2); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	if got := loadItem(t, db, item.ID).Status; got != enums.InventoryStatusOccupied {
		t.Fatalf("expected occupied status, got %q", got)
	}

	if _, err := ledger.MakeAvailable(ctx, db, "profile-1", item.ID, 2); err != nil {
		t.Fatalf("make available: %v", err)
	}
	if got := loadItem(t, db, item.ID).Status; got != enums.InventoryStatusAvailable {
		t.Fatalf("expected available status, got %q", got)
	}
}

func TestLedgerLeavesOperationalStatusAlone(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	item := seedItem(t, db, "profile-1", 5, 5, 0)
	if err := db.Model(item).Update("status", enums.InventoryStatusMaintenance).Error; err != nil {
		t.Fatalf("set maintenance: %v", err)
	}

	if _, err := ledger.Reserve(context.Background(), db, "profile-1", item.ID, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := loadItem(t, db, item.ID).Status; got != enums.InventoryStatusMaintenance {
		t.Fatalf("maintenance status was clobbered: %q", got)
	}
}
