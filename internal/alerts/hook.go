package alerts

import (
	"context"
	"fmt"

	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

// Hook inspects committed counter state and raises stock alerts. It runs
// outside the mutating transaction; failures are logged and swallowed so the
// ledger path never blocks on alerting.
type Hook struct {
	svc           Service
	lowStockRatio float64
	logg          *logger.Logger
}

// NewHook builds the stock observer.
func NewHook(svc Service, lowStockRatio float64, logg *logger.Logger) *Hook {
	if lowStockRatio <= 0 {
		lowStockRatio = 0.10
	}
	return &Hook{svc: svc, lowStockRatio: lowStockRatio, logg: logg}
}

// ObserveStock checks one item's counters after a ledger commit.
func (h *Hook) ObserveStock(ctx context.Context, item *models.InventoryItem) {
	if h.svc == nil || item == nil || item.TotalQuantity <= 0 {
		return
	}

	if item.AvailableQuantity+item.ReservedQuantity > item.TotalQuantity {
		h.raise(ctx, item, CreateInput{
			Type:     enums.AlertTypeOverbooking,
			Title:    fmt.Sprintf("Overbooked: %s", item.Name),
			Message: fmt.Sprintf(
				"%s holds %d available and %d reserved against a total of %d",
				item.Name, item.AvailableQuantity, item.ReservedQuantity, item.TotalQuantity,
			),
			Severity:       enums.AlertSeverityCritical,
			ActionRequired: true,
		})
		return
	}

	ratio := float64(item.AvailableQuantity) / float64(item.TotalQuantity)
	if ratio > h.lowStockRatio {
		return
	}

	severity := enums.AlertSeverityHigh
	if item.AvailableQuantity == 0 {
		severity = enums.AlertSeverityCritical
	}
	h.raise(ctx, item, CreateInput{
		Type:  enums.AlertTypeLowStock,
		Title: fmt.Sprintf("Low stock: %s", item.Name),
		Message: fmt.Sprintf(
			"%s has %d of %d units available",
			item.Name, item.AvailableQuantity, item.TotalQuantity,
		),
		Severity:       severity,
		ActionRequired: item.AvailableQuantity == 0,
	})
}

func (h *Hook) raise(ctx context.Context, item *models.InventoryItem, input CreateInput) {
	itemID := item.ID
	itemType := item.Type
	input.ProfileID = item.ProfileID
	input.InventoryItemID = &itemID
	input.InventoryType = &itemType

	if _, err := h.svc.Raise(ctx, input); err != nil && h.logg != nil {
		h.logg.Error(ctx, "raise stock alert", err)
	}
}
