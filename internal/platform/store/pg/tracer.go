package pg

import (
	"context"
	"strings"

	"bookable/internal/platform/logger"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the store adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement regardless of the root level, warns on slow
// ones and adds a span event to the active trace
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	sql := compact(ev.SQL)
	elapsedMs := float64(ev.ElapsedUS) / 1000.0

	log := z.log
	if id, ok := logger.RequestIDFrom(ctx); ok {
		log = log.With().Str("request_id", id).Logger()
	}

	evt := log.Info()
	switch {
	case ev.Err != nil:
		evt = log.Error()
	case ev.Slow:
		evt = log.Warn()
	}
	evt.Float64("elapsed_ms", elapsedMs).
		Bool("slow", ev.Slow).
		Str("sql", sql).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("pg query")

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("pg.query", trace.WithAttributes(
			attribute.String("db.statement", sql),
			attribute.Float64("db.elapsed_ms", elapsedMs),
			attribute.Bool("db.slow", ev.Slow),
		))
	}
}

// compact folds runs of whitespace into one space
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
