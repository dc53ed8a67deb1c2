package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes a read can safely repeat
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014" // statement_timeout
)

// transient text pgx and postgres emit when no structured code survives the wrap
var pgTransientText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

// isRetryablePG reports whether err is a postgres contention or statement
// timeout failure. Local context cancellation is never retryable.
func isRetryablePG(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable, pgErrQueryCanceled:
			return true
		}
		return false
	}

	s := strings.ToLower(Root(err).Error())
	for _, t := range pgTransientText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
