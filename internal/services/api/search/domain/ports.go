package domain

import (
	"context"
	"time"

	"bookable/internal/core/clock"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Search(ctx context.Context, in SearchInput) (SearchResult, error)
}

// SlotChecker answers, per provider id in durations, whether a booking of any
// of the listed lengths in minutes can start at start on date
type SlotChecker interface {
	SlotsOpen(ctx context.Context, date time.Time, start clock.Minute, durations map[string][]int) (map[string]bool, error)
}
