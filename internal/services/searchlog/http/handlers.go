// Package http exposes recorder counters
package http

import (
	"context"
	stdhttp "net/http"

	"bookable/internal/modkit/httpkit"
	"bookable/internal/services/searchlog/domain"
)

// StatsReader is the recorder surface the handlers need
type StatsReader interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// Register mounts the searchlog endpoints
func Register(r httpkit.Router, s StatsReader) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/stats", h.stats)
}

type handlers struct{ svc StatsReader }

// @Summary Search event recorder counters
// @Tags Searchlog
// @Produce json
// @Success 200 {object} domain.Stats "ok"
// @Router /searchlog/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Stats(r.Context())
}
