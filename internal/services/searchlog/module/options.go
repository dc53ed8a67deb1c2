package module

import (
	"time"

	"bookable/internal/platform/config"
)

// Options controls the search event recorder and its sinks
type Options struct {
	Buffer     int
	Batch      int
	FlushEvery time.Duration
	Table      string
	Brokers    []string
	Topic      string
}

// FromConfig reads SEARCHLOG_ plus the kafka and clickhouse service keys
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SEARCHLOG_")
	k := cfg.Prefix("SERVICE_KAFKA_")
	return Options{
		Buffer:     c.MayInt("BUFFER", 1024),
		Batch:      c.MayInt("BATCH", 100),
		FlushEvery: c.MayDuration("FLUSH_EVERY", 2*time.Second),
		Table:      cfg.Prefix("SERVICE_CLICKHOUSE_").MayString("TABLE", "search_events"),
		Brokers:    k.MayCSV("BROKERS", nil),
		Topic:      k.MayString("TOPIC", "bookable.search-events"),
	}
}
