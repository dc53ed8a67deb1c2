// Package service computes bookable slots for a provider on a date
package service

import (
	"context"
	"slices"
	"time"

	"bookable/internal/core/clock"
	"bookable/internal/core/slots"
	"bookable/internal/modkit/repokit"
	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/logger"
	ptrace "bookable/internal/platform/trace"
	"bookable/internal/services/api/availability/domain"
	"bookable/internal/services/api/availability/repo"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service defines the availability service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the availability service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	snap   repokit.TxRunner
}

// New constructs an availability service. Reads for one computation share a
// read only snapshot, each statement capped at stmtTimeout when positive.
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], stmtTimeout time.Duration) *Svc {
	if db == nil {
		panic("availability.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("availability.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		snap:   repokit.WithBeginHooks(db, repokit.ReadOnlySnapshot, repokit.StatementTimeout(stmtTimeout)),
	}
}

// Availability lists the free start times for a booking of in.ServiceID
func (s *Svc) Availability(ctx context.Context, providerID string, in domain.AvailabilityInput) (domain.AvailabilityResult, error) {
	pid, err := canonicalID("provider_id", providerID)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	sid, err := canonicalID("service_id", in.ServiceID)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	date, err := clock.ParseDate(in.Date)
	if err != nil {
		return domain.AvailabilityResult{}, perr.Validationf("date", "datetime", "date must be a calendar date in YYYY-MM-DD form")
	}

	var ss []slots.Slot
	var duration int
	err = s.read(ctx, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		d, err := r.ServiceDuration(ctx, pid, sid)
		if err != nil {
			return err
		}
		duration = d
		ss, err = s.compute(ctx, r, pid, date, d)
		return err
	})
	if err != nil {
		return domain.AvailabilityResult{}, perr.DataAccess(err, "failed to load availability")
	}
	return domain.AvailabilityResult{
		ProviderID:  pid,
		ServiceID:   sid,
		Date:        date.Format(time.DateOnly),
		DurationMin: duration,
		Slots:       slots.Starts(ss),
	}, nil
}

// SlotsOpen reports, for every provider in durations, whether a booking of
// any of its listed lengths can start at start on date. All providers are
// read in one snapshot; the result is keyed like durations.
func (s *Svc) SlotsOpen(ctx context.Context, date time.Time, start clock.Minute, durations map[string][]int) (map[string]bool, error) {
	out := make(map[string]bool, len(durations))
	if len(durations) == 0 {
		return out, nil
	}
	ctx, span := ptrace.Tracer("availability").Start(ctx, "availability.slots_open")
	defer span.End()
	span.SetAttributes(
		attribute.Int("availability.providers", len(durations)),
		attribute.String("availability.date", date.Format(time.DateOnly)),
		attribute.String("availability.start", start.String()),
	)

	keys := make(map[string]string, len(durations))
	ids := make([]string, 0, len(durations))
	for key := range durations {
		pid, err := canonicalID("provider_id", key)
		if err != nil {
			return nil, err
		}
		keys[pid] = key
		ids = append(ids, pid)
	}
	slices.Sort(ids)

	var day repo.Day
	err := s.read(ctx, func(q repokit.Queryer) error {
		var err error
		day, err = repokit.MustBind(s.binder, q).Day(ctx, ids, date)
		return err
	})
	if err != nil {
		return nil, perr.DataAccess(fail(span, err), "failed to load availability")
	}

	byProvider := group(day)
	for _, pid := range ids {
		key, in := keys[pid], byProvider[pid]
		open := false
		for _, d := range durations[key] {
			in.ProviderID, in.Date, in.DurationMin = pid, date, d
			ss, err := slots.Compute(in)
			if err != nil {
				return nil, fail(span, err)
			}
			if open = slots.Contains(ss, start); open {
				break
			}
		}
		out[key] = open
	}
	return out, nil
}

// group splits a multi provider day into per provider calculator inputs
func group(d repo.Day) map[string]slots.Input {
	out := map[string]slots.Input{}
	for _, r := range d.Rules {
		in := out[r.ProviderID]
		in.Rules = append(in.Rules, r)
		out[r.ProviderID] = in
	}
	for _, b := range d.Blocks {
		in := out[b.ProviderID]
		in.Blocks = append(in.Blocks, b)
		out[b.ProviderID] = in
	}
	for _, bk := range d.Bookings {
		in := out[bk.ProviderID]
		in.Bookings = append(in.Bookings, bk)
		out[bk.ProviderID] = in
	}
	return out
}

// read runs fn in the snapshot, retrying once when postgres reports a
// transient conflict or the statement timed out
func (s *Svc) read(ctx context.Context, fn func(repokit.Queryer) error) error {
	err := s.snap.Tx(ctx, fn)
	if err != nil && perr.Retryable(err) && ctx.Err() == nil {
		logger.C(ctx).Warn().Err(err).Msg("availability read retried")
		err = s.snap.Tx(ctx, fn)
	}
	return err
}

// compute reads rules, blocks and bookings through r and runs the calculator
func (s *Svc) compute(ctx context.Context, r repo.Repo, providerID string, date time.Time, durationMin int) ([]slots.Slot, error) {
	ctx, span := ptrace.Tracer("availability").Start(ctx, "availability.compute")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider.id", providerID),
		attribute.String("availability.date", date.Format(time.DateOnly)),
		attribute.Int("availability.duration_min", durationMin),
	)

	rules, err := r.Rules(ctx, providerID, date.Weekday())
	if err != nil {
		return nil, fail(span, err)
	}
	if len(rules) == 0 {
		return []slots.Slot{}, nil
	}
	blocks, err := r.Blocks(ctx, providerID, date)
	if err != nil {
		return nil, fail(span, err)
	}
	bookings, err := r.Bookings(ctx, providerID, date)
	if err != nil {
		return nil, fail(span, err)
	}

	ss, err := slots.Compute(slots.Input{
		ProviderID:  providerID,
		Date:        date,
		DurationMin: durationMin,
		Rules:       rules,
		Blocks:      blocks,
		Bookings:    bookings,
	})
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("availability.slots", len(ss)))
	return ss, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// canonicalID parses id as a uuid and returns its lower case form
func canonicalID(field, id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", perr.Validationf(field, "uuid", "%s must be a valid UUID", field)
	}
	return u.String(), nil
}
