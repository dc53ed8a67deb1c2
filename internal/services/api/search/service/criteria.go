package service

import (
	"strings"

	"bookable/internal/core/clock"
	"bookable/internal/core/geo"
	"bookable/internal/core/ranking"
	perr "bookable/internal/platform/errors"
	"bookable/internal/services/api/search/domain"
)

// Criteria checks the rules that span several fields and converts in to
// ranking criteria. Single field rules are enforced by the struct tags.
func Criteria(in domain.SearchInput) (ranking.Criteria, error) {
	var vs []perr.Violation
	add := func(field, constraint, msg string) {
		vs = append(vs, perr.Violation{Field: field, Constraint: constraint, Message: msg})
	}

	if (in.Lat == nil) != (in.Lng == nil) {
		if in.Lat == nil {
			add("lat", "required_with", "lat is required when lng is set")
		} else {
			add("lng", "required_with", "lng is required when lat is set")
		}
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		add("max_price", "gtefield", "max_price must be greater than or equal to min_price")
	}
	if (in.Date == "") != (in.Time == "") {
		if in.Date == "" {
			add("date", "required_with", "date is required when time is set")
		} else {
			add("time", "required_with", "time is required when date is set")
		}
	}

	cr := ranking.Criteria{
		Query:        strings.TrimSpace(in.Query),
		CategoryID:   in.CategoryID,
		MinRating:    in.MinRating,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		ServiceIDs:   in.ServiceIDs,
		SortBy:       ranking.SortKey(in.SortBy),
		Order:        ranking.Order(in.SortOrder),
		HomeService:  in.HomeService,
		VerifiedOnly: in.VerifiedOnly,
	}
	if in.Lat != nil && in.Lng != nil {
		p := geo.At(*in.Lat, *in.Lng)
		cr.Origin = &p
	}
	if in.RadiusKm != nil {
		cr.RadiusKm = *in.RadiusKm
	}
	if in.Limit != nil {
		cr.Limit = *in.Limit
	}
	if in.Offset != nil {
		cr.Offset = *in.Offset
	}
	if in.Date != "" && in.Time != "" {
		d, derr := clock.ParseDate(in.Date)
		if derr != nil {
			add("date", "datetime", "date must be a calendar date in YYYY-MM-DD form")
		}
		m, terr := clock.Parse(in.Time)
		if terr != nil {
			add("time", "datetime", "time must be a clock time in HH:MM form")
		}
		if derr == nil && terr == nil {
			cr.Available = &ranking.Slot{Date: d, Time: m.String()}
		}
	}

	if len(vs) > 0 {
		return ranking.Criteria{}, perr.Invalid(vs...)
	}
	return cr, nil
}
