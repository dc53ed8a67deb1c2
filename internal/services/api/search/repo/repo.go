// Package repo provides postgres access for provider search
package repo

import (
	"context"

	"bookable/internal/core/geo"
	"bookable/internal/core/ranking"
	"bookable/internal/modkit/repokit"

	"github.com/paulmach/orb"
)

// Repo is the minimal persistence surface for search
type Repo interface {
	Candidates(ctx context.Context, h Hints) ([]ranking.Candidate, error)
}

// Hints are coarse server side filters; the ranking engine re-applies the exact ones
type Hints struct {
	CategoryID   string
	VerifiedOnly bool
	HomeService  bool
	MinRating    *float64
	MinPrice     *float64
	MaxPrice     *float64
	ServiceIDs   []string
	// Box limits rows to a bounding box around the search origin, nil means anywhere
	Box *orb.Bound
}

// HintsFrom derives the server side filters from normalized criteria
func HintsFrom(cr ranking.Criteria) Hints {
	h := Hints{
		CategoryID:   cr.CategoryID,
		VerifiedOnly: cr.VerifiedOnly,
		HomeService:  cr.HomeService,
		MinRating:    cr.MinRating,
		MinPrice:     cr.MinPrice,
		MaxPrice:     cr.MaxPrice,
		ServiceIDs:   cr.ServiceIDs,
	}
	if cr.Origin != nil {
		b := geo.BoundAround(*cr.Origin, cr.RadiusKm)
		h.Box = &b
	}
	return h
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// box flattens h.Box into query args; a box crossing the antimeridian keeps
// only its latitude band
func (h Hints) box() (on bool, minLat, maxLat, minLng, maxLng float64, lngOn bool) {
	if h.Box == nil {
		return false, 0, 0, 0, 0, false
	}
	b := *h.Box
	return true, b.Bottom(), b.Top(), b.Left(), b.Right(), !geo.WrapsAntimeridian(b)
}

func (r *queries) Candidates(ctx context.Context, h Hints) ([]ranking.Candidate, error) {
	// rows come back in insertion order so ties rank deterministically
	const sql = `
select p.id::text, p.name, p.description, p.category_id, p.lat, p.lng,
       p.rating, p.review_count, p.base_price, p.verified, p.home_service, p.created_at,
       coalesce(array_agg(s.id::text order by s.name, s.id) filter (where s.id is not null), '{}'::text[]),
       coalesce(array_agg(s.name order by s.name, s.id) filter (where s.id is not null), '{}'::text[]),
       coalesce(array_agg(s.duration_min order by s.name, s.id) filter (where s.id is not null), '{}'::int4[])
from providers p
left join services s on s.provider_id = p.id
where ($1::text = '' or p.category_id = $1)
and (not $2::bool or p.verified)
and (not $3::bool or p.home_service)
and ($4::float8 is null or p.rating >= $4)
and ($5::float8 is null or p.base_price >= $5)
and ($6::float8 is null or p.base_price <= $6)
and (not $7::bool or (p.lat between $8 and $9 and (not $12::bool or p.lng between $10 and $11)))
group by p.id
having cardinality($13::text[]) = 0 or bool_or(s.id::text = any($13::text[]))
order by p.created_at asc, p.id asc
`
	on, minLat, maxLat, minLng, maxLng, lngOn := h.box()
	ids := h.ServiceIDs
	if ids == nil {
		ids = []string{}
	}
	rows, err := r.q.Query(ctx, sql,
		h.CategoryID, h.VerifiedOnly, h.HomeService,
		h.MinRating, h.MinPrice, h.MaxPrice,
		on, minLat, maxLat, minLng, maxLng, lngOn,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ranking.Candidate
	for rows.Next() {
		var (
			c         ranking.Candidate
			lat, lng  float64
			durations []int32
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.CategoryID, &lat, &lng,
			&c.Rating, &c.ReviewCount, &c.BasePrice, &c.Verified, &c.HomeService, &c.CreatedAt,
			&c.ServiceIDs, &c.ServiceNames, &durations,
		); err != nil {
			return nil, err
		}
		c.Location = geo.At(lat, lng)
		withDurations(&c, durations)
		out = append(out, c)
	}
	return out, rows.Err()
}

// withDurations pairs durations with c.ServiceIDs, both aggregated in the same order
func withDurations(c *ranking.Candidate, durations []int32) {
	c.Durations = make(map[string]int, len(durations))
	for i, d := range durations {
		if i >= len(c.ServiceIDs) {
			break
		}
		c.Durations[c.ServiceIDs[i]] = int(d)
		if c.MinDurationMin == 0 || int(d) < c.MinDurationMin {
			c.MinDurationMin = int(d)
		}
	}
}
