package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ubongpr7/akwa-inventory/internal/alerts"
	"github.com/ubongpr7/akwa-inventory/internal/cron"
	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/internal/maintenance"
	"github.com/ubongpr7/akwa-inventory/internal/reservations"
	"github.com/ubongpr7/akwa-inventory/pkg/blockchain"
	"github.com/ubongpr7/akwa-inventory/pkg/config"
	"github.com/ubongpr7/akwa-inventory/pkg/db"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
	"github.com/ubongpr7/akwa-inventory/pkg/metrics"
	"github.com/ubongpr7/akwa-inventory/pkg/migrate"
	"github.com/ubongpr7/akwa-inventory/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	reservationRepo := reservations.NewRepository(dbClient.DB())

	notifier := blockchain.Notifier(blockchain.NewNoop())
	if cfg.Blockchain.Enabled {
		inner, err := blockchain.NewHTTPNotifier(cfg.Blockchain)
		if err != nil {
			logg.Error(context.Background(), "failed to create blockchain notifier", err)
			os.Exit(1)
		}
		async := blockchain.NewAsync(inner, logg, cfg.Blockchain.Timeout)
		async.OnResult = hashWriteback(logg, inventoryRepo, reservationRepo)
		notifier = async
	}

	alertService, err := alerts.NewService(alerts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}
	stockHook := alerts.NewHook(alertService, cfg.Inventory.LowStockRatio, logg)

	reservationService, err := reservations.NewService(
		reservationRepo,
		inventoryRepo,
		inventory.NewLedger(),
		dbClient,
		stockHook,
		notifier,
		logg,
		cfg.Inventory,
		cfg.DB.TxMaxAttempts,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	maintenanceService, err := maintenance.NewService(
		maintenance.NewRepository(dbClient.DB()),
		inventoryRepo,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance service", err)
		os.Exit(1)
	}

	expiryJob, err := cron.NewReservationExpiryJob(cron.ReservationExpiryJobParams{
		Logger:       logg,
		Reservations: reservationService,
		BatchSize:    cfg.Cron.SweepBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create expiry job", err)
		os.Exit(1)
	}

	maintenanceJob, err := cron.NewMaintenanceDueJob(cron.MaintenanceDueJobParams{
		Logger:      logg,
		Maintenance: maintenanceService,
		Alerts:      alertService,
		BatchSize:   cfg.Cron.SweepBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expiryJob, maintenanceJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return redis.Key("cron-worker", "lock", env)
}

// hashWriteback stores confirmed tx hashes on the row the event was about.
// Reservation events carry their id in the payload; everything else lands on
// the item.
func hashWriteback(logg *logger.Logger, itemRepo inventory.Repository, reservationRepo reservations.Repository) func(context.Context, uuid.UUID, string, map[string]any, string) {
	return func(ctx context.Context, itemID uuid.UUID, action string, payload map[string]any, txHash string) {
		if raw, ok := payload["reservation_id"].(string); ok {
			if id, parseErr := uuid.Parse(raw); parseErr == nil {
				if err := reservationRepo.SetBlockchainHash(ctx, id, txHash); err != nil {
					logg.Error(ctx, "failed to store reservation blockchain hash", err)
				}
				return
			}
		}
		if err := itemRepo.SetBlockchainHash(ctx, itemID, txHash); err != nil {
			logg.Error(ctx, "failed to store item blockchain hash", err)
		}
	}
}
