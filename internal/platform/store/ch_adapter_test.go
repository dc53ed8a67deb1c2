package store

import (
	"context"
	"errors"
	"testing"

	"bookable/internal/platform/store/ch"
)

type fakeCH struct {
	table   string
	rows    [][]any
	err     error
	pingErr error
	result  *fakeCHRows
	closed  bool
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return f.err
}

func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

type fakeCHRows struct {
	vals     []int
	i        int
	closeErr error
}

func (r *fakeCHRows) Next() bool { r.i++; return r.i <= len(r.vals) }
func (r *fakeCHRows) Scan(dest ...any) error {
	*(dest[0].(*int)) = r.vals[r.i-1]
	return nil
}
func (r *fakeCHRows) Err() error        { return nil }
func (r *fakeCHRows) Close() error      { return r.closeErr }
func (r *fakeCHRows) Columns() []string { return []string{"n"} }

func TestCHAdapter_InsertDelegates(t *testing.T) {
	t.Parallel()
	f := &fakeCH{}
	a := newCHAdapter(f)
	if err := a.Insert(context.Background(), "search_events", [][]any{{1}, {2}}); err != nil {
		t.Fatal(err)
	}
	if f.table != "search_events" || len(f.rows) != 2 {
		t.Fatalf("got table=%q rows=%v", f.table, f.rows)
	}

	f.err = errors.New("boom")
	if err := a.Insert(context.Background(), "t", [][]any{{1}}); !errors.Is(err, f.err) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestCHAdapter_QueryWrapsRows(t *testing.T) {
	t.Parallel()
	closeErr := errors.New("close failed")
	f := &fakeCH{result: &fakeCHRows{vals: []int{4, 5}, closeErr: closeErr}}
	a := newCHAdapter(f)

	rows, err := a.Query(context.Background(), "SELECT n")
	if err != nil {
		t.Fatal(err)
	}
	var sum int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			t.Fatal(err)
		}
		sum += n
	}
	if sum != 9 || rows.Columns()[0] != "n" {
		t.Fatalf("sum=%d cols=%v", sum, rows.Columns())
	}
	rows.Close()
	if !errors.Is(rows.Err(), closeErr) {
		t.Fatalf("close error should surface via Err, got %v", rows.Err())
	}
}

func TestCHAdapter_QueryError(t *testing.T) {
	t.Parallel()
	a := newCHAdapter(&fakeCH{err: errors.New("down")})
	if _, err := a.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCHAdapter_PingAndClose(t *testing.T) {
	t.Parallel()
	f := &fakeCH{pingErr: errors.New("unreachable")}
	a := newCHAdapter(f)
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
	if err := a.Close(); err != nil || !f.closed {
		t.Fatalf("close: %v closed=%v", err, f.closed)
	}

	var nilA *clickhouseAdapter
	if err := nilA.Ping(context.Background()); err == nil {
		t.Fatal("nil adapter should fail ping")
	}
}
