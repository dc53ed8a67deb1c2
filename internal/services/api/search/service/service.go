// Package service runs provider search: candidate fetch, ranking and the optional slot check
package service

import (
	"context"
	"slices"
	"time"

	"bookable/internal/core/clock"
	"bookable/internal/core/ranking"
	"bookable/internal/modkit/repokit"
	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/logger"
	ptrace "bookable/internal/platform/trace"
	"bookable/internal/services/api/search/domain"
	"bookable/internal/services/api/search/repo"
	sldomain "bookable/internal/services/searchlog/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Service defines the search service contract
type Service interface {
	domain.ServicePort
}

// Options carries the optional collaborators
type Options struct {
	// Slots answers the availability filter; without it a date/time filter is rejected
	Slots domain.SlotChecker
	// Recorder receives one event per successful search
	Recorder sldomain.Recorder
	// DefaultSlotMin is the duration checked for providers with no known service duration
	DefaultSlotMin int
}

// Svc implements the search service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	opt    Options
	now    func() time.Time
}

// New constructs a search service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("search.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("search.Service requires a non nil Repo binder")
	}
	if opt.DefaultSlotMin <= 0 {
		opt.DefaultSlotMin = 60
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, opt: opt, now: time.Now}
}

// Search validates cross field rules, fetches candidates and ranks them
func (s *Svc) Search(ctx context.Context, in domain.SearchInput) (domain.SearchResult, error) {
	ctx, span := ptrace.Tracer("search").Start(ctx, "search.providers")
	defer span.End()
	start := s.now()

	cr, err := Criteria(in)
	if err != nil {
		return domain.SearchResult{}, err
	}
	cr = cr.Normalize()
	span.SetAttributes(
		attribute.String("search.sort_by", string(cr.SortBy)),
		attribute.Bool("search.has_origin", cr.Origin != nil),
		attribute.Bool("search.has_slot", cr.Available != nil),
	)

	if cr.Available != nil && s.opt.Slots == nil {
		return domain.SearchResult{}, perr.Unavailablef("availability filter is not available")
	}

	cands, err := s.Repo.Candidates(ctx, repo.HintsFrom(cr))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidates")
		return domain.SearchResult{}, perr.DataAccess(err, "failed to load providers")
	}

	var check ranking.SlotCheck
	if cr.Available != nil {
		check = s.slotCheck(ctx, cr.ServiceIDs)
	}
	page, err := ranking.Search(cr, cands, check)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "availability")
		return domain.SearchResult{}, perr.DataAccess(err, "failed to check availability")
	}

	out := domain.SearchResult{
		Items:  make([]domain.ProviderResult, 0, len(page.Items)),
		Total:  page.Total,
		Limit:  cr.Limit,
		Offset: cr.Offset,
	}
	for _, c := range page.Items {
		out.Items = append(out.Items, toResult(c))
	}
	span.SetAttributes(attribute.Int("search.candidates", len(cands)), attribute.Int("search.total", page.Total))

	elapsed := s.now().Sub(start)
	logger.C(ctx).Debug().
		Int("candidates", len(cands)).
		Int("total", page.Total).
		Int("returned", len(out.Items)).
		Dur("took", elapsed).
		Msg("provider search")
	s.record(ctx, in, cr, out, elapsed)
	return out, nil
}

// slotCheck asks the availability port about every surviving candidate at once
func (s *Svc) slotCheck(ctx context.Context, requested []string) ranking.SlotCheck {
	return func(cs []ranking.Candidate, at ranking.Slot) (map[string]bool, error) {
		want := make(map[string][]int, len(cs))
		for _, c := range cs {
			if ds := s.durations(c, requested); len(ds) > 0 {
				want[c.ID] = ds
			}
		}
		return s.opt.Slots.SlotsOpen(ctx, at.Date, clock.MustParse(at.Time), want)
	}
}

// durations lists the booking lengths to check for c: every requested service
// c offers, or its shortest service when the request names none
func (s *Svc) durations(c ranking.Candidate, requested []string) []int {
	if len(requested) > 0 {
		var ds []int
		for _, id := range requested {
			if d, ok := c.Durations[id]; ok && d > 0 && !slices.Contains(ds, d) {
				ds = append(ds, d)
			}
		}
		return ds
	}
	if c.MinDurationMin > 0 {
		return []int{c.MinDurationMin}
	}
	return []int{s.opt.DefaultSlotMin}
}

func (s *Svc) record(ctx context.Context, in domain.SearchInput, cr ranking.Criteria, out domain.SearchResult, took time.Duration) {
	if s.opt.Recorder == nil {
		return
	}
	s.opt.Recorder.Record(ctx, sldomain.Event{
		Query:      cr.Query,
		CategoryID: cr.CategoryID,
		Lat:        in.Lat,
		Lng:        in.Lng,
		RadiusKm:   cr.RadiusKm,
		SortBy:     string(cr.SortBy),
		SortOrder:  string(cr.Order),
		Limit:      cr.Limit,
		Offset:     cr.Offset,
		Total:      out.Total,
		Returned:   len(out.Items),
		ElapsedMs:  float64(took.Microseconds()) / 1000,
	})
}

func toResult(c ranking.Candidate) domain.ProviderResult {
	return domain.ProviderResult{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CategoryID:  c.CategoryID,
		Lat:         c.Location.Lat(),
		Lng:         c.Location.Lon(),
		Rating:      c.Rating,
		ReviewCount: c.ReviewCount,
		BasePrice:   c.BasePrice,
		Verified:    c.Verified,
		HomeService: c.HomeService,
		CreatedAt:   c.CreatedAt,
		ServiceIDs:  nonNil(c.ServiceIDs),
		Services:    nonNil(c.ServiceNames),
		DistanceKm:  c.DistanceKm,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
