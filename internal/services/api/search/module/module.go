// Package module wires provider search into the API using modkit
package module

import (
	modkit "bookable/internal/modkit"
	"bookable/internal/modkit/httpkit"
	"bookable/internal/services/api/search/domain"
	searchhttp "bookable/internal/services/api/search/http"
	searchrepo "bookable/internal/services/api/search/repo"
	searchsvc "bookable/internal/services/api/search/service"
	sldomain "bookable/internal/services/searchlog/domain"
)

// Ports declares the ports this module consumes; both are optional
type Ports struct {
	Slots    domain.SlotChecker
	Recorder sldomain.Recorder
}

// Exports is what the module offers other modules
type Exports struct {
	Search domain.ServicePort
}

// Module implements the search module
type Module struct {
	modkit.Base
	svc *searchsvc.Svc
}

// New constructs the search module, mounted under /providers
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("search"), modkit.WithPrefix("/providers")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	cfg := FromConfig(deps.Cfg)

	svc := searchsvc.New(deps.PG, searchrepo.NewPG(), searchsvc.Options{
		Slots:          injected.Slots,
		Recorder:       injected.Recorder,
		DefaultSlotMin: cfg.DefaultSlotMin,
	})

	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, Exports{Search: svc}, func(r httpkit.Router) { searchhttp.Register(r, m.svc) })
	return m
}
