// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "bookable/internal/modkit"
	"bookable/internal/modkit/httpkit"
	metahttp "bookable/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module; readiness covers deps.Probes
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{startedAt: time.Now()}
	timeout := deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second)
	m.Base = modkit.NewBase(b, nil, func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName:  "bookable-api",
			StartedAt:    m.startedAt,
			Probes:       deps.Probes,
			ProbeTimeout: timeout,
		})
	})
	return m
}
