//go:build integration_ch

package ch

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startClickhouse(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "clickhouse/clickhouse-server:24.8-alpine",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"CLICKHOUSE_USER":     "default",
				"CLICKHOUSE_PASSWORD": "test",
			},
			WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start clickhouse: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := c.MappedPort(ctx, "9000/tcp")
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("clickhouse://default:test@%s:%s/default", host, port.Port())
}

func TestIntegration_InsertAndQuery(t *testing.T) {
	dsn := startClickhouse(t)
	ctx := context.Background()

	c, err := Open(ctx, Config{URL: dsn, Role: "test", Tag: "dev"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	rows, err := c.Query(ctx, "SELECT 1")
	if err != nil {
		t.Fatal(err)
	}
	_ = rows.Close()

	if err := c.conn.Exec(ctx, `CREATE TABLE events (id String, n UInt32) ENGINE = Memory`); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(ctx, "events", [][]any{{"a", uint32(1)}, {"b", uint32(2)}}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err = c.Query(ctx, "SELECT id, n FROM events ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	if cols := rows.Columns(); len(cols) != 2 || cols[0] != "id" {
		t.Fatalf("columns: %v", cols)
	}
	var got []string
	for rows.Next() {
		var id string
		var n uint32
		if err := rows.Scan(&id, &n); err != nil {
			t.Fatal(err)
		}
		got = append(got, fmt.Sprintf("%s=%d", id, n))
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a=1" || got[1] != "b=2" {
		t.Fatalf("rows: %v", got)
	}
}
