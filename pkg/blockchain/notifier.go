package blockchain

import (
	"context"

	"github.com/google/uuid"
)

// Notifier forwards inventory actions to an external audit chain. It is a
// best-effort side channel: callers must treat failures as loggable noise,
// never as a reason to roll back a ledger mutation.
type Notifier interface {
	// Notify records an action and returns the chain transaction hash.
	Notify(ctx context.Context, profileID string, itemID uuid.UUID, action string, payload map[string]any) (string, error)
}

// Actions recorded on the audit chain.
const (
	ActionItemCreated        = "inventory_created"
	ActionItemUpdated        = "inventory_updated"
	ActionReservationCreated = "reservation_created"
	ActionReservationClosed  = "reservation_closed"
	ActionCountersChanged    = "counters_changed"
)

// Noop satisfies Notifier without doing anything; it is the default when
// chain logging is disabled.
type Noop struct{}

// NewNoop returns the disabled notifier.
func NewNoop() Noop { return Noop{} }

func (Noop) Notify(context.Context, string, uuid.UUID, string, map[string]any) (string, error) {
	return "", nil
}
