package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ubongpr7/akwa-inventory/api/controllers"
	"github.com/ubongpr7/akwa-inventory/api/middleware"
	"github.com/ubongpr7/akwa-inventory/internal/alerts"
	"github.com/ubongpr7/akwa-inventory/internal/analytics"
	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/internal/maintenance"
	"github.com/ubongpr7/akwa-inventory/internal/pricing"
	"github.com/ubongpr7/akwa-inventory/internal/reservations"
	"github.com/ubongpr7/akwa-inventory/pkg/config"
	"github.com/ubongpr7/akwa-inventory/pkg/db"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
	"github.com/ubongpr7/akwa-inventory/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	inventoryService inventory.Service,
	reservationService reservations.Service,
	alertService alerts.Service,
	maintenanceService maintenance.Service,
	pricingService pricing.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.InventoryCreate(inventoryService, logg))
			r.Get("/", controllers.InventoryList(inventoryService, logg))
			r.Get("/summary", controllers.InventorySummary(inventoryService, logg))

			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.InventoryGet(inventoryService, logg))
				r.Patch("/", controllers.InventoryUpdate(inventoryService, logg))
				r.Delete("/", controllers.InventoryRetire(inventoryService, logg))
				r.Get("/counters", controllers.InventoryCounters(inventoryService, logg))

				r.Post("/reserve", controllers.InventoryReserve(inventoryService, logg))
				r.Post("/release", controllers.InventoryRelease(inventoryService, logg))
				r.Post("/occupy", controllers.InventoryOccupy(inventoryService, logg))
				r.Post("/make-available", controllers.InventoryMakeAvailable(inventoryService, logg))
				r.Post("/restock", controllers.InventoryMakeAvailable(inventoryService, logg))
				r.Post("/adjust-total", controllers.InventoryAdjustTotal(inventoryService, logg))

				r.Get("/quote", controllers.PricingQuote(pricingService, logg))
				r.Get("/analytics", controllers.AnalyticsList(analyticsService, logg))
				r.Post("/analytics/capture", controllers.AnalyticsCapture(analyticsService, logg))
			})
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", controllers.ReservationCreate(reservationService, logg))
			r.Get("/", controllers.ReservationList(reservationService, logg))
			r.Get("/expiring", controllers.ReservationExpiring(reservationService, logg))
			r.Route("/{reservationId}", func(r chi.Router) {
				r.Get("/", controllers.ReservationGet(reservationService, logg))
				r.Post("/confirm", controllers.ReservationConfirm(reservationService, logg))
				r.Post("/activate", controllers.ReservationActivate(reservationService, logg))
				r.Post("/cancel", controllers.ReservationCancel(reservationService, logg))
			})
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertList(alertService, logg))
			r.Get("/critical", controllers.AlertCritical(alertService, logg))
			r.Get("/unresolved-count", controllers.AlertUnresolvedCount(alertService, logg))
			r.Post("/read-all", controllers.AlertMarkAllRead(alertService, logg))
			r.Route("/{alertId}", func(r chi.Router) {
				r.Get("/", controllers.AlertGet(alertService, logg))
				r.Post("/read", controllers.AlertMarkRead(alertService, logg))
				r.Post("/resolve", controllers.AlertResolve(alertService, logg))
			})
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Post("/", controllers.MaintenanceSchedule(maintenanceService, logg))
			r.Get("/", controllers.MaintenanceList(maintenanceService, logg))
			r.Get("/overdue", controllers.MaintenanceOverdue(maintenanceService, logg))
			r.Route("/{maintenanceId}", func(r chi.Router) {
				r.Get("/", controllers.MaintenanceGet(maintenanceService, logg))
				r.Post("/start", controllers.MaintenanceStart(maintenanceService, logg))
				r.Post("/complete", controllers.MaintenanceComplete(maintenanceService, logg))
				r.Post("/cancel", controllers.MaintenanceCancel(maintenanceService, logg))
			})
		})

		r.Route("/pricing/rules", func(r chi.Router) {
			r.Post("/", controllers.PricingRuleCreate(pricingService, logg))
			r.Get("/", controllers.PricingRuleList(pricingService, logg))
			r.Route("/{ruleId}", func(r chi.Router) {
				r.Get("/", controllers.PricingRuleGet(pricingService, logg))
				r.Patch("/", controllers.PricingRuleUpdate(pricingService, logg))
				r.Delete("/", controllers.PricingRuleDelete(pricingService, logg))
			})
		})

		r.Post("/analytics", controllers.AnalyticsRecord(analyticsService, logg))
	})

	return r
}
