// Package pg opens the postgres pool that backs provider and schedule reads
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config sizes the pool and tags its sessions
type Config struct {
	URL         string
	AppName     string // reported as application_name
	MaxConns    int32
	MinConns    int32
	MaxConnIdle time.Duration
	SlowMs      int
}

// PG holds the pool and the tracer the sql adapter wraps queries with
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// Option adjusts Open
type Option func(*PG, *pgxpool.Config)

// WithTracer logs queries through t
func WithTracer(t QueryTracer) Option {
	return func(p *PG, _ *pgxpool.Config) { p.Tracer = t }
}

// WithPoolConfig hands the parsed pool config to fn before connecting
func WithPoolConfig(fn func(*pgxpool.Config)) Option {
	return func(_ *PG, pc *pgxpool.Config) { fn(pc) }
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies cfg and opts, and creates the pool.
// It does not wait for the server; callers ping.
func Open(ctx context.Context, cfg Config, opts ...Option) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= pcfg.MaxConns {
		pcfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdle > 0 {
		pcfg.MaxConnIdleTime = cfg.MaxConnIdle
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}

	p := &PG{SlowMs: cfg.SlowMs}
	for _, o := range opts {
		o(p, pcfg)
	}
	if p.Pool, err = newPool(ctx, pcfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Close is safe on a nil or unopened PG
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
