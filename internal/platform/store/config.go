package store

import (
	"time"

	"bookable/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	MinConns    int32
	MaxConnIdle time.Duration
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Table   string
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled  bool
	Addr     string
	DB       int
	Password string
}

// FromConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_* from env.
// Postgres is always enabled; the url is required.
func FromConfig(root config.Conf, appName string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")
	rds := root.Prefix("SERVICE_REDIS_")

	out := Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        true,
			URL:            pg.MustString("DBURL"),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 8)),
			MinConns:       int32(pg.MayInt("MIN_CONNS", 0)),
			MaxConnIdle:    pg.MayDuration("MAX_CONN_IDLE", 5*time.Minute),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 200),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled: chc.MayBool("ENABLED", false),
			Table:   chc.MayString("TABLE", "search_events"),
		},
		RDS: RedisConfig{
			Enabled:  rds.MayBool("ENABLED", false),
			DB:       rds.MayInt("DB", 0),
			Password: rds.MayString("PASSWORD", ""),
		},
	}
	if out.CH.Enabled {
		out.CH.URL = chc.MustString("DBURL")
	}
	if out.RDS.Enabled {
		out.RDS.Addr = rds.MayString("ADDR", "localhost:6379")
	}
	return out
}
