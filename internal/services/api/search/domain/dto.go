// Package domain holds the provider search DTOs and ports
package domain

import (
	"regexp"
	"time"

	"bookable/internal/platform/validate"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func init() {
	if err := validate.Register("slug", "{0} must be a lowercase slug", func(fl validate.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// SearchInput is the provider search request body.
// Pointer fields distinguish "not sent" from an explicit zero.
type SearchInput struct {
	Query      string   `json:"query,omitempty" validate:"omitempty,max=200" example:"deep tissue"`
	CategoryID string   `json:"category_id,omitempty" validate:"omitempty,max=64,slug" example:"wellness"`
	Lat        *float64 `json:"lat,omitempty" validate:"omitempty,latitude" example:"52.52"`
	Lng        *float64 `json:"lng,omitempty" validate:"omitempty,longitude" example:"13.405"`
	RadiusKm   *float64 `json:"radius_km,omitempty" validate:"omitempty,gte=1,lte=100" example:"10"`
	MinRating  *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=5" example:"4"`
	MinPrice   *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0" example:"20"`
	MaxPrice   *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0" example:"80"`
	ServiceIDs []string `json:"service_ids,omitempty" validate:"omitempty,max=20,dive,uuid"`
	SortBy     string   `json:"sort_by,omitempty" validate:"omitempty,oneof=distance rating price reviews newest" example:"distance"`
	SortOrder  string   `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc" example:"asc"`
	Limit      *int     `json:"limit,omitempty" validate:"omitempty,gte=1,lte=50" example:"20"`
	Offset     *int     `json:"offset,omitempty" validate:"omitempty,gte=0" example:"0"`

	// availability filter, both or neither
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2026-03-02"`
	Time string `json:"time,omitempty" validate:"omitempty,datetime=15:04" example:"10:00"`

	HomeService  bool `json:"home_service,omitempty"`
	VerifiedOnly bool `json:"verified_only,omitempty"`
}

// ProviderResult is one ranked provider
type ProviderResult struct {
	ID          string    `json:"id" example:"0b7d5a4e-9b7b-4e0c-9d59-3c1f2f1f7c11"`
	Name        string    `json:"name" example:"Studio Nord"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id" example:"wellness"`
	Lat         float64   `json:"lat" example:"52.53"`
	Lng         float64   `json:"lng" example:"13.41"`
	Rating      float64   `json:"rating" example:"4.7"`
	ReviewCount int       `json:"review_count" example:"132"`
	BasePrice   float64   `json:"base_price" example:"45"`
	Verified    bool      `json:"verified"`
	HomeService bool      `json:"home_service"`
	CreatedAt   time.Time `json:"created_at"`
	ServiceIDs  []string  `json:"service_ids"`
	Services    []string  `json:"services"`
	DistanceKm  *float64  `json:"distance_km,omitempty" example:"1.3"`
}

// SearchResult is one page of providers plus the filtered total
type SearchResult struct {
	Items  []ProviderResult `json:"items"`
	Total  int              `json:"total" example:"57"`
	Limit  int              `json:"limit" example:"20"`
	Offset int              `json:"offset" example:"0"`
}
