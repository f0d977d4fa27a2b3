package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ubongpr7/akwa-inventory/internal/alerts"
	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

type overdueLister interface {
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceRecord, error)
}

type alertRaiser interface {
	Raise(ctx context.Context, input alerts.CreateInput) (*models.Alert, error)
}

// MaintenanceDueJobParams configure the overdue maintenance watcher.
type MaintenanceDueJobParams struct {
	Logger      *logger.Logger
	Maintenance overdueLister
	Alerts      alertRaiser
	BatchSize   int
}

// NewMaintenanceDueJob builds the job that raises an alert for every
// scheduled maintenance record whose date passed without the work starting.
// Raise dedupes per item, so repeat sweeps stay quiet.
func NewMaintenanceDueJob(params MaintenanceDueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Maintenance == nil {
		return nil, fmt.Errorf("maintenance lister required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert raiser required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &maintenanceDueJob{
		logg:        params.Logger,
		maintenance: params.Maintenance,
		alerts:      params.Alerts,
		batchSize:   batchSize,
		now:         time.Now,
	}, nil
}

type maintenanceDueJob struct {
	logg        *logger.Logger
	maintenance overdueLister
	alerts      alertRaiser
	batchSize   int
	now         func() time.Time
}

func (j *maintenanceDueJob) Name() string { return "maintenance-due" }

func (j *maintenanceDueJob) Run(ctx context.Context) error {
	records, err := j.maintenance.ListOverdue(ctx, j.now().UTC(), j.batchSize)
	if err != nil {
		return fmt.Errorf("list overdue maintenance: %w", err)
	}

	raised := 0
	var errs []error
	for i := range records {
		record := &records[i]
		alert, err := j.alerts.Raise(ctx, alerts.CreateInput{
			ProfileID:       record.ProfileID,
			InventoryItemID: &record.InventoryItemID,
			InventoryType:   &record.InventoryType,
			Type:            enums.AlertTypeMaintenanceDue,
			Title:           "Maintenance overdue",
			Message: fmt.Sprintf("%s maintenance scheduled for %s has not started",
				record.Type, record.ScheduledDate.UTC().Format("2006-01-02")),
			Severity:       enums.AlertSeverityMedium,
			ActionRequired: true,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("raise maintenance alert for item %s: %w", record.InventoryItemID, err))
			continue
		}
		if alert != nil {
			raised++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"overdue": len(records),
		"raised":  raised,
		"errors":  len(errs),
	})
	j.logg.Info(logCtx, "maintenance due sweep complete")
	return multierr.Combine(errs...)
}
