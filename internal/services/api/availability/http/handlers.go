// Package http provides http transport for provider availability
package http

import (
	stdhttp "net/http"

	"bookable/internal/modkit/httpkit"
	"bookable/internal/services/api/availability/domain"
)

// Register mounts availability endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.GetQuery[domain.AvailabilityInput](r, "/", h.availability)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Free start times for a provider service on a date
// @Tags Providers
// @Produce json
// @Param providerID path string true "Provider id" format(uuid)
// @Param service_id query string true "Service id" format(uuid)
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} domain.AvailabilityResult "ok"
// @Failure 400 {object} httpkit.Envelope "validation failed"
// @Failure 404 {object} httpkit.Envelope "provider does not offer the service"
// @Failure 500 {object} httpkit.Envelope "stored schedule is corrupt"
// @Failure 503 {object} httpkit.Envelope "storage unavailable"
// @Router /providers/{providerID}/availability [get]
func (h *handlers) availability(r *stdhttp.Request, in domain.AvailabilityInput) (any, error) {
	return h.svc.Availability(r.Context(), httpkit.URLParam(r, "providerID"), in)
}
