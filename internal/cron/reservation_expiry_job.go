package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

const defaultSweepBatchSize = 500

// reservationSweeper is the slice of the reservation service the sweep needs.
type reservationSweeper interface {
	ListExpiring(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)
	Expire(ctx context.Context, profileID string, id uuid.UUID) (bool, error)
}

// ReservationExpiryJobParams configure the expiry sweep.
type ReservationExpiryJobParams struct {
	Logger       *logger.Logger
	Reservations reservationSweeper
	BatchSize    int
}

// NewReservationExpiryJob builds the job that releases quantity held by
// reservations whose expiry has passed. Each expiry is its own transaction,
// so one poisoned row cannot stall the rest of the sweep.
func NewReservationExpiryJob(params ReservationExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservation sweeper required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &reservationExpiryJob{
		logg:         params.Logger,
		reservations: params.Reservations,
		batchSize:    batchSize,
		now:          time.Now,
	}, nil
}

type reservationExpiryJob struct {
	logg         *logger.Logger
	reservations reservationSweeper
	batchSize    int
	now          func() time.Time
}

func (j *reservationExpiryJob) Name() string { return "reservation-expiry" }

func (j *reservationExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	expired := 0
	skipped := 0
	var errs []error

	for {
		batch, err := j.reservations.ListExpiring(ctx, cutoff, j.batchSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("list expiring reservations: %w", err))
			break
		}
		if len(batch) == 0 {
			break
		}

		progressed := 0
		for _, reservation := range batch {
			ok, err := j.reservations.Expire(ctx, reservation.ProfileID, reservation.ID)
			if err != nil {
				errs = append(errs, fmt.Errorf("expire reservation %s: %w", reservation.ID, err))
				continue
			}
			progressed++
			if ok {
				expired++
			} else {
				// lost the race to a concurrent confirm/cancel
				skipped++
			}
		}

		// a batch where nothing advanced would repeat forever
		if progressed == 0 || len(batch) < j.batchSize {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired": expired,
		"skipped": skipped,
		"errors":  len(errs),
	})
	j.logg.Info(logCtx, "reservation expiry sweep complete")
	return multierr.Combine(errs...)
}
