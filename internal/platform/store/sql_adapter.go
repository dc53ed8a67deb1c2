package store

import (
	"context"
	"errors"
	"time"

	"bookable/internal/platform/store/pg"
	ptrace "bookable/internal/platform/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/codes"
)

// pgxConn is the query surface shared by *pgxpool.Pool and pgx.Tx
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner opens a transaction; *pgxpool.Pool satisfies it
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier implements RowQuerier over any pgxConn and reports each statement to the tracer
type querier struct {
	c      pgxConn
	tracer pg.QueryTracer
	slowMs int
}

func (q querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.c.Exec(ctx, sql, args...)
	q.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (q querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.c.Query(ctx, sql, args...)
	q.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (q querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := q.c.QueryRow(ctx, sql, args...)
	return row{
		r: r,
		after: func(scanErr error) {
			q.emit(ctx, sql, args, start, scanErr)
		},
	}
}

func (q querier) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if q.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	q.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      q.slowMs >= 0 && elapsedUS >= int64(q.slowMs)*1000,
	})
}

// pgAdapter is the pool backed TxRunner
type pgAdapter struct {
	querier
	p     *pg.PG
	begin beginner
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		querier: querier{c: p.Pool, tracer: p.Tracer, slowMs: p.SlowMs},
		p:       p,
		begin:   p.Pool,
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error {
	if a.p != nil {
		a.p.Close()
	}
	return nil
}

// Tx runs fn in a transaction and commits when it returns nil
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) (err error) {
	ctx, span := ptrace.Tracer("store/pg").Start(ctx, "pg.tx")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := a.begin.Begin(ctx)
	if err != nil {
		return err
	}
	q := querier{c: tx, tracer: a.tracer, slowMs: a.slowMs}
	if err := fn(q); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// adapters for pgx to our tiny Row/Rows/CommandTag

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
