// Package service buffers search events and flushes them to the configured sinks
package service

import (
	"context"
	"sync/atomic"
	"time"

	"bookable/internal/platform/logger"
	pnet "bookable/internal/platform/net"
	ptrace "bookable/internal/platform/trace"
	"bookable/internal/services/searchlog/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

// Config sizes the buffer and the flush cadence
type Config struct {
	Buffer     int
	Batch      int
	FlushEvery time.Duration
	// FinalFlush bounds the flush that runs after Run's context is done
	FinalFlush time.Duration
}

func (c Config) withDefaults() Config {
	if c.Buffer <= 0 {
		c.Buffer = 1024
	}
	if c.Batch <= 0 {
		c.Batch = 100
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = 2 * time.Second
	}
	if c.FinalFlush <= 0 {
		c.FinalFlush = 5 * time.Second
	}
	return c
}

// Recorder is a bounded, drop-on-full event buffer drained by Run
type Recorder struct {
	cfg   Config
	sinks []domain.Sink
	ch    chan domain.Event
	now   func() time.Time

	accepted atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

var _ domain.Recorder = (*Recorder)(nil)

// New returns a recorder; with no sinks Record is a no-op
func New(cfg Config, sinks ...domain.Sink) *Recorder {
	cfg = cfg.withDefaults()
	return &Recorder{
		cfg:   cfg,
		sinks: sinks,
		ch:    make(chan domain.Event, cfg.Buffer),
		now:   time.Now,
	}
}

// Enabled reports whether any sink is configured
func (r *Recorder) Enabled() bool { return len(r.sinks) > 0 }

// Record stamps ev with ids from ctx and enqueues it; it never blocks
func (r *Recorder) Record(ctx context.Context, ev domain.Event) {
	if !r.Enabled() {
		return
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = r.now()
	}
	if ev.RequestID == "" {
		ev.RequestID = pnet.RequestID(ctx)
	}
	if ev.RequestID == "" {
		ev.RequestID, _ = logger.RequestIDFrom(ctx)
	}
	if ev.TraceID == "" {
		ev.TraceID = pnet.TraceID(ctx)
	}
	if ev.Carrier == nil {
		carrier := propagation.MapCarrier{}
		ptrace.Inject(ctx, carrier)
		ev.Carrier = carrier
	}

	select {
	case r.ch <- ev:
		r.accepted.Add(1)
	default:
		n := r.dropped.Add(1)
		logger.C(ctx).Warn().
			Str("component", "searchlog").
			Int64("dropped_total", n).
			Int("capacity", r.cfg.Buffer).
			Msg("search event buffer full, dropping event")
	}
}

// Run drains the buffer until ctx is done, flushing on batch size or interval.
// Events still buffered when ctx ends are flushed once more before Run returns.
func (r *Recorder) Run(ctx context.Context) error {
	if !r.Enabled() {
		<-ctx.Done()
		return nil
	}
	log := logger.Named("searchlog")
	ticker := time.NewTicker(r.cfg.FlushEvery)
	defer ticker.Stop()

	batch := make([]domain.Event, 0, r.cfg.Batch)
	for {
		select {
		case ev := <-r.ch:
			batch = append(batch, ev)
			if len(batch) >= r.cfg.Batch {
				r.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			batch = r.drain(batch)
			if len(batch) > 0 {
				fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.FinalFlush)
				r.flush(fctx, batch)
				cancel()
			}
			log.Info().
				Int64("written", r.written.Load()).
				Int64("dropped", r.dropped.Load()).
				Int64("failed", r.failed.Load()).
				Msg("search event recorder stopped")
			return nil
		}
	}
}

// drain moves whatever is buffered into batch without blocking
func (r *Recorder) drain(batch []domain.Event) []domain.Event {
	for {
		select {
		case ev := <-r.ch:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// flush hands batch to every sink; a failing sink does not stop the others
func (r *Recorder) flush(ctx context.Context, batch []domain.Event) {
	log := logger.Named("searchlog")
	for _, s := range r.sinks {
		start := time.Now()
		if err := s.Write(ctx, batch); err != nil {
			r.failed.Add(int64(len(batch)))
			log.Error().Err(err).Str("sink", s.Name()).Int("events", len(batch)).Msg("search event flush failed")
			continue
		}
		r.written.Add(int64(len(batch)))
		log.Debug().Str("sink", s.Name()).Int("events", len(batch)).Dur("took", time.Since(start)).Msg("search events flushed")
	}
}

// Stats returns the current counters
func (r *Recorder) Stats(context.Context) (domain.Stats, error) {
	names := make([]string, 0, len(r.sinks))
	for _, s := range r.sinks {
		names = append(names, s.Name())
	}
	return domain.Stats{
		Buffered: len(r.ch),
		Capacity: cap(r.ch),
		Accepted: r.accepted.Load(),
		Dropped:  r.dropped.Load(),
		Written:  r.written.Load(),
		Failed:   r.failed.Load(),
		Sinks:    names,
	}, nil
}
