// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "bookable/internal/platform/net/http"
)

// Module is what the api mounts. Ports returns a module owned value other
// modules can pull typed ports out of with PortsOf.
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
