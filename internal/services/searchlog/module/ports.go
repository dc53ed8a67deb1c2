package module

import (
	"context"

	"bookable/internal/services/searchlog/domain"
)

// StatsPort reports recorder counters
type StatsPort interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// Ports holds the ports exposed by the searchlog module
type Ports struct {
	Recorder domain.Recorder
	Stats    StatsPort
}
