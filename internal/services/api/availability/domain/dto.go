// Package domain holds the availability DTOs and ports
package domain

import (
	"context"
	"time"

	"bookable/internal/core/clock"
)

// AvailabilityInput is the query string of the availability endpoint
type AvailabilityInput struct {
	ServiceID string `form:"service_id" json:"service_id" validate:"required,uuid" example:"7a0c5e7e-1a52-4c8e-a7f3-7c1b1b6b0d21"`
	Date      string `form:"date" json:"date" validate:"required,datetime=2006-01-02" example:"2026-03-02"`
}

// AvailabilityResult lists the start times a booking of the service can take
type AvailabilityResult struct {
	ProviderID  string   `json:"provider_id" example:"0b7d5a4e-9b7b-4e0c-9d59-3c1f2f1f7c11"`
	ServiceID   string   `json:"service_id" example:"7a0c5e7e-1a52-4c8e-a7f3-7c1b1b6b0d21"`
	Date        string   `json:"date" example:"2026-03-02"`
	DurationMin int      `json:"duration_min" example:"60"`
	Slots       []string `json:"slots" example:"09:00,10:00,11:00"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Availability(ctx context.Context, providerID string, in AvailabilityInput) (AvailabilityResult, error)
	SlotsOpen(ctx context.Context, date time.Time, start clock.Minute, durations map[string][]int) (map[string]bool, error)
}
