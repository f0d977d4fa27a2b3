package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

// Service records and reads per-item analytics snapshots. Recording the same
// (item, date, period) twice overwrites the earlier metrics, so backfills and
// re-runs are safe.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.AnalyticsSnapshot, error)
	List(ctx context.Context, params ListParams) ([]models.AnalyticsSnapshot, error)
	// CaptureUtilization snapshots the item's current counters into occupancy
	// and utilization rates for the given period.
	CaptureUtilization(ctx context.Context, profileID string, itemID uuid.UUID, date time.Time, period string) (*models.AnalyticsSnapshot, error)
}

type itemLookup interface {
	GetByID(ctx context.Context, profileID string, id uuid.UUID) (*models.InventoryItem, error)
}

type bookingCounter interface {
	CountCreatedBetween(ctx context.Context, profileID string, itemID uuid.UUID, from, to time.Time) (int64, error)
}

type service struct {
	repo     Repository
	items    itemLookup
	bookings bookingCounter
}

// NewService wires an analytics service.
func NewService(repo Repository, items itemLookup, bookings bookingCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("inventory lookup required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booking counter required")
	}
	return &service{repo: repo, items: items, bookings: bookings}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.AnalyticsSnapshot, error) {
	if input.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if input.InventoryItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id is required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if !input.PeriodType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid period type %q", input.PeriodType))
	}
	for _, rate := range []decimal.Decimal{input.OccupancyRate, input.UtilizationRate, input.CancellationRate, input.NoShowRate} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rates must be between 0 and 100")
		}
	}
	if input.TotalBookings < 0 || input.TotalRevenue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bookings and revenue must not be negative")
	}

	item, err := s.items.GetByID(ctx, input.ProfileID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.AnalyticsSnapshot{
		ID:                  uuid.New(),
		ProfileID:           input.ProfileID,
		InventoryItemID:     item.ID,
		InventoryType:       item.Type,
		Date:                truncateToDay(input.Date),
		PeriodType:          input.PeriodType,
		TotalBookings:       input.TotalBookings,
		TotalRevenue:        input.TotalRevenue,
		OccupancyRate:       input.OccupancyRate,
		UtilizationRate:     input.UtilizationRate,
		AverageBookingValue: input.AverageBookingValue,
		CancellationRate:    input.CancellationRate,
		NoShowRate:          input.NoShowRate,
		CustomMetrics:       input.CustomMetrics,
		CreatedByID:         input.CreatedByID,
	}
	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert analytics snapshot")
	}
	return s.repo.GetByPeriod(ctx, input.ProfileID, item.ID, snapshot.Date, input.PeriodType)
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.AnalyticsSnapshot, error) {
	if params.ProfileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if params.InventoryItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id is required")
	}
	if !params.PeriodType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid period type %q", params.PeriodType))
	}
	return s.repo.List(ctx, params)
}

func (s *service) CaptureUtilization(ctx context.Context, profileID string, itemID uuid.UUID, date time.Time, period string) (*models.AnalyticsSnapshot, error) {
	periodType, err := enums.ParsePeriodType(period)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	day := truncateToDay(date)

	item, err := s.items.GetByID(ctx, profileID, itemID)
	if err != nil {
		return nil, err
	}

	occupied := item.TotalQuantity - item.AvailableQuantity - item.ReservedQuantity
	if occupied < 0 {
		occupied = 0
	}
	occupancy := decimal.Zero
	utilization := decimal.Zero
	if item.TotalQuantity > 0 {
		total := decimal.NewFromInt(int64(item.TotalQuantity))
		hundred := decimal.NewFromInt(100)
		occupancy = decimal.NewFromInt(int64(occupied)).Mul(hundred).DivRound(total, 2)
		utilization = decimal.NewFromInt(int64(occupied + item.ReservedQuantity)).Mul(hundred).DivRound(total, 2)
	}

	from, to := periodWindow(day, periodType)
	bookings, err := s.bookings.CountCreatedBetween(ctx, profileID, item.ID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count period bookings")
	}

	return s.Record(ctx, RecordInput{
		ProfileID:       profileID,
		InventoryItemID: item.ID,
		Date:            day,
		PeriodType:      periodType,
		TotalBookings:   int(bookings),
		OccupancyRate:   occupancy,
		UtilizationRate: utilization,
	})
}
