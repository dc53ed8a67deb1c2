// Package api provides the HTTP API for the application
package api

import (
	"maps"

	"bookable/internal/platform/config"
	"bookable/internal/platform/logger"
	phttp "bookable/internal/platform/net/http"
	"bookable/internal/platform/net/middleware"
	"bookable/internal/platform/store"

	"bookable/internal/modkit"
	"bookable/internal/modkit/httpkit"
	"bookable/internal/modkit/module"
	"bookable/internal/modkit/swaggerkit"

	availmod "bookable/internal/services/api/availability/module"
	metamod "bookable/internal/services/api/meta/module"
	searchmod "bookable/internal/services/api/search/module"
	searchlogmod "bookable/internal/services/searchlog/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the search
// event module so the caller can run its recorder alongside the server
func Mount(r phttp.Router, opt Options) *searchlogmod.Module {
	deps := modkit.Deps{
		Cfg:    opt.Config,
		PG:     opt.Store.PG,
		CH:     opt.Store.CH,
		Probes: opt.Store.Probes(),
	}

	// availability owns the slot calculator that search filters with
	avail := availmod.New(deps)
	slots := module.MustPortsOf[availmod.Ports](avail).Availability

	searchlog := searchlogmod.New(deps, searchlogmod.FromConfig(deps.Cfg))
	maps.Copy(deps.Probes, searchlog.Probes())

	search := searchmod.New(deps, modkit.WithPorts(searchmod.Ports{
		Slots:    slots,
		Recorder: searchlog.Recorder(),
	}))

	mods := []module.Module{
		metamod.New(deps),
		avail,
		searchlog,
		search,
	}

	stack := httpkit.StackFromConfig(opt.Config.Prefix("CORE_API_"))
	if opt.Store.RDS != nil {
		stack.RateCounter = middleware.RedisCounter{RDB: opt.Store.RDS}
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	if opt.Logger != nil {
		opt.Logger.Info().Strs("modules", module.Names()).Msg("api mounted")
	}
	return searchlog
}
