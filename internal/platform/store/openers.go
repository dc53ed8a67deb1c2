package store

import (
	"context"
	"fmt"
	"time"

	chx "bookable/internal/platform/store/ch"
	"bookable/internal/platform/store/pg"

	"github.com/redis/go-redis/v9"
)

const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// openPG opens pg and wraps it with our sql adapter once the pool answers a ping
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var opts []pg.Option
	if cfg.PG.LogSQL {
		opts = append(opts, pg.WithTracer(pg.Tracer(s.Log)))
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:         cfg.PG.URL,
		AppName:     cfg.AppName,
		MaxConns:    cfg.PG.MaxConns,
		MinConns:    cfg.PG.MinConns,
		MaxConnIdle: cfg.PG.MaxConnIdle,
		SlowMs:      cfg.PG.SlowQueryMs,
	}, opts...)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	err = retry(ctx, attempts, func() error {
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Pool.Ping(toCtx)
	}, func(i int, err error, wait time.Duration) {
		s.Log.Warn().Err(err).Int("attempt", i+1).Dur("retry_in", wait).Msg("postgres not ready")
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: "api", Tag: cfg.AppName})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("table", cfg.CH.Table).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}

func openRedis(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       cfg.RDS.Addr,
		DB:         cfg.RDS.DB,
		Password:   cfg.RDS.Password,
		ClientName: cfg.AppName,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RDS.Addr, err)
	}
	return rdb, nil
}

// retry calls fn up to attempts times with capped exponential backoff.
// It stops early when ctx is done.
func retry(ctx context.Context, attempts int, fn func() error, onFail func(int, error, time.Duration)) error {
	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		if onFail != nil {
			onFail(i, lastErr, backoff)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}
