//go:build integration_pg

// Package storetest starts a disposable Postgres with the bookable schema for repo integration tests
package storetest

import (
	"context"
	"io"
	"testing"
	"time"

	"bookable/internal/platform/store"
	"bookable/internal/platform/store/pgtest"
	"bookable/internal/platform/store/schema"

	"github.com/rs/zerolog"
)

// PG returns a TxRunner on a fresh database with the schema applied.
// The container is terminated when the test ends.
func PG(t *testing.T) store.TxRunner {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	dsn := pgtest.DSN(t, "bookable")

	s, err := store.Open(ctx, store.Config{
		AppName: "bookable-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4, ConnectRetries: 10, PingTimeout: 5 * time.Second},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if err := schema.Apply[store.CommandTag](ctx, s.PG); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return s.PG
}

// Exec runs seed statements, failing the test on the first error
func Exec(t *testing.T, db store.TxRunner, stmts ...string) {
	t.Helper()
	for _, sql := range stmts {
		if _, err := db.Exec(context.Background(), sql); err != nil {
			t.Fatalf("seed %q: %v", sql, err)
		}
	}
}
