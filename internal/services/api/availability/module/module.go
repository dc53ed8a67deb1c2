// Package module wires provider availability into the API using modkit
package module

import (
	"time"

	modkit "bookable/internal/modkit"
	"bookable/internal/modkit/httpkit"
	"bookable/internal/services/api/availability/domain"
	avhttp "bookable/internal/services/api/availability/http"
	avrepo "bookable/internal/services/api/availability/repo"
	avsvc "bookable/internal/services/api/availability/service"
)

// Ports holds the ports exposed by the availability module
type Ports struct {
	Availability domain.ServicePort
}

// Module implements the availability module
type Module struct {
	modkit.Base
	svc *avsvc.Svc
}

// New constructs the availability module, mounted under /providers/{providerID}/availability
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("availability"),
		modkit.WithPrefix("/providers/{providerID}/availability"),
	}, opts...)...)

	timeout := deps.Cfg.Prefix("CORE_API_").MayDuration("STATEMENT_TIMEOUT", 2*time.Second)
	svc := avsvc.New(deps.PG, avrepo.NewPG(), timeout)

	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, Ports{Availability: svc}, func(r httpkit.Router) { avhttp.Register(r, m.svc) })
	return m
}
