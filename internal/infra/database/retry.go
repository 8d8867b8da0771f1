package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/logger"
)

const (
	maxRetries  = 3
	baseBackoff = 100 * time.Millisecond
)

// Only these Postgres states are worth another attempt; everything else fails
// immediately.
var transientCodes = map[pq.ErrorCode]bool{
	"08000": true, // connection_exception
	"08003": true, // connection_does_not_exist
	"08006": true, // connection_failure
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"57P01": true, // admin_shutdown
}

// withRetry runs fn, retrying transient Postgres failures with exponential
// backoff up to maxRetries extra attempts, then wraps whatever is left into a
// DATABASE_ERROR carrying the driver code and constraint for diagnostics.
// sql.ErrNoRows is not an error at this layer; callers map it themselves.
func withRetry(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if !isTransient(err) || attempt >= maxRetries {
			break
		}

		backoff := baseBackoff << attempt
		log.Warn("transient database error, retrying", map[string]any{
			"op":      op,
			"attempt": attempt + 1,
			"backoff": backoff.String(),
			"error":   err.Error(),
		})

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return wrapError(op, ctx.Err())
		}
	}
	return wrapError(op, err)
}

func isTransient(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return transientCodes[pqErr.Code]
	}
	return false
}

// wrapError converts a driver error into the uniform DATABASE_ERROR, keeping
// the raw code/constraint in Details and never leaking driver internals into
// the client-facing message.
func wrapError(op string, err error) *apperror.AppError {
	details := map[string]any{"op": op}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		details["pg_code"] = string(pqErr.Code)
		if pqErr.Constraint != "" {
			details["constraint"] = pqErr.Constraint
		}
	}

	return apperror.Database("database operation failed").
		WithDetails(details).
		WithCause(err)
}
