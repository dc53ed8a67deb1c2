// Package ch wraps the clickhouse native driver behind a small insert and query surface
package ch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
type Config struct {
	URL         string
	Role        string
	Tag         string
	PingTimeout time.Duration
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH is a clickhouse client over a native connection
type CH struct {
	conn driver.Conn
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// dial is swapped in tests
var dial = clickhouse.Open

// Open parses the DSN, dials and pings clickhouse
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)

	conn, err := dial(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	c := &CH{conn: conn}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// InsertSQL returns the batch statement for table, rejecting anything that is not a plain identifier
func InsertSQL(table string) (string, error) {
	if !tableName.MatchString(table) {
		return "", fmt.Errorf("ch: invalid table name %q", table)
	}
	return "INSERT INTO " + table, nil
}

// Insert appends rows to a batch and sends it in one round trip
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	q, err := InsertSQL(table)
	if err != nil {
		return err
	}
	b, err := c.conn.PrepareBatch(ctx, q)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("ch: append row %d: %w", i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Query runs a select and returns the driver rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Ping checks the server is reachable
func (c *CH) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		var ex *clickhouse.Exception
		if errors.As(err, &ex) {
			return fmt.Errorf("ch: ping: [%d] %s", ex.Code, ex.Message)
		}
		return fmt.Errorf("ch: ping: %w", err)
	}
	return nil
}

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
