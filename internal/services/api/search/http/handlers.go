// Package http provides http transport for provider search
package http

import (
	stdhttp "net/http"

	"bookable/internal/modkit/httpkit"
	"bookable/internal/services/api/search/domain"
)

// Register mounts search endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	// an empty body searches with every default
	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search,
		httpkit.JSONOptions{AllowEmptyBody: true, DisallowUnknown: true, MaxBytes: 1 << 20})
}

type handlers struct{ svc domain.ServicePort }

// @Summary Search providers
// @Description Filters, ranks and pages providers. Supplying lat and lng enables the radius filter and distance sort.
// @Tags Providers
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput false "Search criteria, empty searches everything"
// @Success 200 {object} domain.SearchResult "ok"
// @Failure 400 {object} httpkit.Envelope "validation failed"
// @Failure 503 {object} httpkit.Envelope "storage unavailable"
// @Router /providers/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.svc.Search(r.Context(), in)
}
