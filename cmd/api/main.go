package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ubongpr7/akwa-inventory/api/routes"
	"github.com/ubongpr7/akwa-inventory/internal/alerts"
	"github.com/ubongpr7/akwa-inventory/internal/analytics"
	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/internal/maintenance"
	"github.com/ubongpr7/akwa-inventory/internal/pricing"
	"github.com/ubongpr7/akwa-inventory/internal/reservations"
	"github.com/ubongpr7/akwa-inventory/pkg/blockchain"
	"github.com/ubongpr7/akwa-inventory/pkg/config"
	"github.com/ubongpr7/akwa-inventory/pkg/db"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
	"github.com/ubongpr7/akwa-inventory/pkg/migrate"
	"github.com/ubongpr7/akwa-inventory/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	notifier := newNotifier(cfg, logg, inventoryRepo, reservationRepo)

	alertService, err := alerts.NewService(alerts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}
	stockHook := alerts.NewHook(alertService, cfg.Inventory.LowStockRatio, logg)

	ledger := inventory.NewLedger()
	inventoryService, err := inventory.NewService(
		inventoryRepo,
		ledger,
		dbClient,
		stockHook,
		notifier,
		logg,
		cfg.Inventory,
		cfg.DB.TxMaxAttempts,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(
		reservationRepo,
		inventoryRepo,
		ledger,
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

	maintenanceService, err := maintenance.NewService(maintenance.NewRepository(dbClient.DB()), inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()), inventoryRepo, reservationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			inventoryService,
			reservationService,
			alertService,
			maintenanceService,
			pricingService,
			analyticsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// newNotifier picks the blockchain audit transport. Disabled environments get
// the no-op so ledger commits never wait on the chain gateway.
func newNotifier(cfg *config.Config, logg *logger.Logger, itemRepo inventory.Repository, reservationRepo reservations.Repository) blockchain.Notifier {
	if !cfg.Blockchain.Enabled {
		return blockchain.NewNoop()
	}
	inner, err := blockchain.NewHTTPNotifier(cfg.Blockchain)
	if err != nil {
		logg.Error(context.Background(), "failed to create blockchain notifier", err)
		os.Exit(1)
	}
	async := blockchain.NewAsync(inner, logg, cfg.Blockchain.Timeout)
	async.OnResult = hashWriteback(logg, itemRepo, reservationRepo)
	return async
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
