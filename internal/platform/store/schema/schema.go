// Package schema embeds the postgres DDL the repos read from and the
// clickhouse DDL the search analytics sink writes to
package schema

import (
	"context"
	_ "embed"
)

// SQL is the postgres schema
//
//go:embed bookable.sql
var SQL string

// ClickhouseSQL creates the search_events table
//
//go:embed search_events.ch.sql
var ClickhouseSQL string

// Execer is satisfied by store.RowQuerier and *pgxpool.Pool alike
type Execer[T any] interface {
	Exec(ctx context.Context, sql string, args ...any) (T, error)
}

// Apply runs the DDL; every statement is idempotent
func Apply[T any](ctx context.Context, db Execer[T]) error {
	_, err := db.Exec(ctx, SQL)
	return err
}
