package blockchain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

// Async wraps a Notifier so submissions run in their own goroutine with a
// detached context. Failures are logged and dropped; nothing is retried.
type Async struct {
	inner   Notifier
	logg    *logger.Logger
	timeout time.Duration
	// OnResult, when set, receives the action, payload and tx hash after a
	// successful submit. Used to write the hash back onto the source row
	// best-effort.
	OnResult func(ctx context.Context, itemID uuid.UUID, action string, payload map[string]any, txHash string)
}

// NewAsync builds the asynchronous wrapper.
func NewAsync(inner Notifier, logg *logger.Logger, timeout time.Duration) *Async {
	if inner == nil {
		inner = NewNoop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Async{inner: inner, logg: logg, timeout: timeout}
}

// Notify dispatches the submission and returns immediately. The returned
// hash is always empty; consumers needing it should set OnResult.
func (a *Async) Notify(ctx context.Context, profileID string, itemID uuid.UUID, action string, payload map[string]any) (string, error) {
	go func() {
		detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		txHash, err := a.inner.Notify(detached, profileID, itemID, action, payload)
		if err != nil {
			if a.logg != nil {
				logCtx := a.logg.WithFields(detached, map[string]any{
					"profile_id": profileID,
					"item_id":    itemID.String(),
					"action":     action,
				})
				a.logg.Error(logCtx, "blockchain notify failed", err)
			}
			return
		}
		if txHash != "" && a.OnResult != nil {
			a.OnResult(detached, itemID, action, payload, txHash)
		}
	}()
	return "", nil
}
