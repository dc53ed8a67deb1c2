// Package repo holds the sinks search events are flushed to
package repo

import (
	"context"

	"bookable/internal/platform/store"
	"bookable/internal/services/searchlog/domain"
)

// ClickhouseSink batch inserts events into a MergeTree table
type ClickhouseSink struct {
	db    store.Clickhouse
	table string
}

// NewClickhouse returns a sink writing to table
func NewClickhouse(db store.Clickhouse, table string) *ClickhouseSink {
	if table == "" {
		table = "search_events"
	}
	return &ClickhouseSink{db: db, table: table}
}

// Name implements domain.Sink
func (s *ClickhouseSink) Name() string { return "clickhouse" }

// Write implements domain.Sink; column order follows the search_events DDL
func (s *ClickhouseSink) Write(ctx context.Context, batch []domain.Event) error {
	rows := make([][]any, 0, len(batch))
	for _, ev := range batch {
		rows = append(rows, []any{
			ev.ID,
			ev.At.UTC(),
			ev.RequestID,
			ev.TraceID,
			ev.Query,
			ev.CategoryID,
			ev.Lat,
			ev.Lng,
			ev.RadiusKm,
			ev.SortBy,
			ev.SortOrder,
			uint16(ev.Limit),
			uint32(ev.Offset),
			uint32(ev.Total),
			uint16(ev.Returned),
			ev.ElapsedMs,
		})
	}
	return s.db.Insert(ctx, s.table, rows)
}
