package schema

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recExec struct {
	got string
	err error
}

func (r *recExec) Exec(_ context.Context, sql string, _ ...any) (int, error) {
	r.got = sql
	return 0, r.err
}

func TestSQL_DeclaresTables(t *testing.T) {
	t.Parallel()
	for _, table := range []string{"providers", "services", "availability_rules", "blocked_times", "bookings"} {
		if !strings.Contains(SQL, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("missing table %s", table)
		}
	}
	if !strings.Contains(SQL, "WHERE status <> 'cancelled'") {
		t.Fatal("bookings slot uniqueness should ignore cancelled rows")
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	r := &recExec{}
	if err := Apply[int](context.Background(), r); err != nil || r.got != SQL {
		t.Fatalf("err=%v", err)
	}
	r.err = errors.New("boom")
	if err := Apply[int](context.Background(), r); err == nil {
		t.Fatal("expected error")
	}
}

func TestClickhouseSQL_ColumnCount(t *testing.T) {
	t.Parallel()
	body := ClickhouseSQL[strings.Index(ClickhouseSQL, "(")+1 : strings.Index(ClickhouseSQL, ") ENGINE")]
	cols := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			cols++
		}
	}
	// the searchlog clickhouse sink appends 16 values per event
	if cols != 16 {
		t.Fatalf("search_events has %d columns, want 16", cols)
	}
}
