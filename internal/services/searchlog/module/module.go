// Package module wires the search event recorder, its sinks and its stats route
package module

import (
	"context"
	"errors"

	"bookable/internal/modkit"
	"bookable/internal/modkit/httpkit"
	"bookable/internal/platform/logger"
	"bookable/internal/platform/store"
	"bookable/internal/services/searchlog/domain"
	slhttp "bookable/internal/services/searchlog/http"
	"bookable/internal/services/searchlog/repo"
	"bookable/internal/services/searchlog/service"
)

// Module owns the recorder; Run must be started for events to leave the buffer
type Module struct {
	modkit.Base
	rec    *service.Recorder
	kafka  *repo.KafkaSink
	probes map[string]store.Pinger
}

// New builds the recorder with a clickhouse sink when deps.CH is set and a
// kafka sink when brokers are configured. With neither, Record is a no-op.
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("searchlog"), modkit.WithPrefix("/searchlog")}, mopts...)...)

	m := &Module{probes: map[string]store.Pinger{}}
	var sinks []domain.Sink
	if deps.CH != nil {
		sinks = append(sinks, repo.NewClickhouse(deps.CH, opts.Table))
	}
	if len(opts.Brokers) > 0 {
		m.kafka = repo.NewKafka(repo.NewKafkaWriter(opts.Brokers, opts.Topic))
		sinks = append(sinks, m.kafka)
		m.probes["kafka"] = repo.KafkaReady(opts.Brokers)
	}
	m.rec = service.New(service.Config{
		Buffer:     opts.Buffer,
		Batch:      opts.Batch,
		FlushEvery: opts.FlushEvery,
	}, sinks...)

	ports := Ports{Recorder: m.rec, Stats: m.rec}
	m.Base = modkit.NewBase(b, ports, func(r httpkit.Router) { slhttp.Register(r, m.rec) })
	return m
}

// Recorder returns the recorder other modules publish to
func (m *Module) Recorder() domain.Recorder { return m.rec }

// Probes returns readiness checks for the sinks that have one
func (m *Module) Probes() map[string]store.Pinger { return m.probes }

// Run drains the recorder until ctx is done, then closes the kafka writer
func (m *Module) Run(ctx context.Context) error {
	logger.Named("searchlog").Info().Strs("sinks", sinkNames(m.rec)).Msg("search event recorder started")
	err := m.rec.Run(ctx)
	if m.kafka != nil {
		err = errors.Join(err, m.kafka.Close())
	}
	return err
}

func sinkNames(r *service.Recorder) []string {
	st, _ := r.Stats(context.Background())
	return st.Sinks
}
