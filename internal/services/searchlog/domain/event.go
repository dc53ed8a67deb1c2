// Package domain holds the search analytics event and the ports around it
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType is the kafka event_type header value for search events
const EventType = "search.performed"

// Event describes one successful provider search
type Event struct {
	ID        uuid.UUID `json:"id"`
	At        time.Time `json:"at"`
	RequestID string    `json:"request_id,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`

	Query      string   `json:"query,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	RadiusKm   float64  `json:"radius_km"`
	SortBy     string   `json:"sort_by"`
	SortOrder  string   `json:"sort_order"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
	Total      int      `json:"total"`
	Returned   int      `json:"returned"`
	ElapsedMs  float64  `json:"elapsed_ms"`

	// Carrier holds the W3C trace context of the originating request
	Carrier map[string]string `json:"-"`
}

// Recorder accepts events without blocking the caller
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Sink persists a batch of events
type Sink interface {
	Name() string
	Write(ctx context.Context, batch []Event) error
}

// Stats is a snapshot of recorder counters
type Stats struct {
	Buffered int      `json:"buffered"`
	Capacity int      `json:"capacity"`
	Accepted int64    `json:"accepted"`
	Dropped  int64    `json:"dropped"`
	Written  int64    `json:"written"`
	Failed   int64    `json:"failed"`
	Sinks    []string `json:"sinks"`
}
