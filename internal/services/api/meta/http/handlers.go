// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"bookable/internal/core/version"
	"bookable/internal/modkit/httpkit"
	"bookable/internal/platform/store"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Probes are checked concurrently by /ready, keyed by backend name
	Probes       map[string]store.Pinger
	ProbeTimeout time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"bookable-api"`
	Started string `json:"started" example:"2026-03-01T10:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
	TookMs int64  `json:"took_ms" example:"3"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-03-01T10:05:00Z"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness probe with dependency checks
// @Description Responds 503 when any configured backend fails its ping
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} ReadyResponse "a dependency is down"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.ProbeTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps.Probes))
	for n := range h.deps.Probes {
		names = append(names, n)
	}
	sort.Strings(names)

	checks := make([]ReadyCheck, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			c := ReadyCheck{Name: name, Status: "ok"}
			if err := h.deps.Probes[name].Ping(ctx); err != nil {
				c.Status, c.Error = "fail", err.Error()
			}
			c.TookMs = time.Since(start).Milliseconds()
			checks[i] = c
		}()
	}
	wg.Wait()

	out := ReadyResponse{Status: "ok", Checks: checks, Now: time.Now().UTC().Format(time.RFC3339)}
	for _, c := range checks {
		if c.Status != "ok" {
			out.Status = "fail"
			return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
