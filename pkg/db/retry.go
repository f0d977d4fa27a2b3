package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
)

const retryBaseDelay = 50 * time.Millisecond

// pg codes worth retrying: serialization_failure, deadlock_detected,
// lock_not_available.
var retryablePGCodes = map[string]struct{}{
	"40001": {},
	"40P01": {},
	"55P03": {},
}

// WithTxRetry runs fn in a transaction and retries transient commit
// failures up to maxAttempts with capped backoff. Domain errors abort
// immediately; exhausting the budget surfaces a TRANSIENT_FAILURE.
func (c *Client) WithTxRetry(ctx context.Context, maxAttempts int, fn func(tx *gorm.DB) error) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), retry.NewFibonacci(retryBaseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		txErr := c.WithTx(ctx, fn)
		if txErr == nil {
			return nil
		}
		if IsRetryable(txErr) {
			return retry.RetryableError(txErr)
		}
		return txErr
	})
	if err == nil {
		return nil
	}
	if IsRetryable(err) {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "transaction retries exhausted")
	}
	return err
}

// IsRetryable reports whether the error is a transient persistence failure
// rather than a domain outcome.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if pkgerrors.As(err) != nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryablePGCodes[pgErr.Code]
		return ok
	}

	return errors.Is(err, context.DeadlineExceeded)
}
