// Package modkit provides module wiring and core deps
package modkit

import (
	"net/http"

	"bookable/internal/modkit/httpkit"
	"bookable/internal/modkit/module"
	str "bookable/internal/platform/strings"
)

// Module is the common surface for API modules
type Module = module.Module

// Base implements Module from a Built config and a route register func.
// Modules embed it and only supply their own routes.
type Base struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)
}

// NewBase binds b to the routes mounted by register. exported is what the
// module offers other modules; ports injected through WithPorts stay on b.
func NewBase(b Built, exported any, register func(httpkit.Router)) Base {
	return Base{name: b.Name, prefix: b.Prefix, mws: b.Mw, ports: exported, register: register}
}

// MountRoutes mounts the module under its prefix with its own middleware
func (m Base) MountRoutes(r httpkit.Router) {
	r.Route(str.MustPrefix(m.prefix), func(rr httpkit.Router) {
		if len(m.mws) > 0 {
			rr.Use(m.mws...)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Ports returns the port set exposed for cross module wiring
func (m Base) Ports() any { return m.ports }

// Name returns the module name
func (m Base) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m Base) Prefix() string { return str.MustPrefix(m.prefix) }
