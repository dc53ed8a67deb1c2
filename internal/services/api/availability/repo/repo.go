// Package repo provides postgres access for provider availability
package repo

import (
	"context"
	"time"

	"bookable/internal/core/slots"
	"bookable/internal/modkit/repokit"
	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/store"
)

// Repo is the minimal persistence surface for availability
type Repo interface {
	ServiceDuration(ctx context.Context, providerID, serviceID string) (int, error)
	Rules(ctx context.Context, providerID string, weekday time.Weekday) ([]slots.Rule, error)
	Blocks(ctx context.Context, providerID string, date time.Time) ([]slots.Block, error)
	Bookings(ctx context.Context, providerID string, date time.Time) ([]slots.Booking, error)
	// Day loads the schedule of every provider in providerIDs for date in at most three statements
	Day(ctx context.Context, providerIDs []string, date time.Time) (Day, error)
}

// Day is the schedule input of several providers on one date, rows tagged by provider
type Day struct {
	Rules    []slots.Rule
	Blocks   []slots.Block
	Bookings []slots.Booking
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

func (r *queries) ServiceDuration(ctx context.Context, providerID, serviceID string) (int, error) {
	const sql = `
select duration_min
from services
where id = $1::uuid and provider_id = $2::uuid
`
	d, err := store.One(ctx, r.q, func(row store.Row) (int, error) {
		var d int
		return d, row.Scan(&d)
	}, sql, serviceID, providerID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return 0, perr.NotFoundf("provider %s does not offer service %s", providerID, serviceID)
	}
	return d, err
}

func (r *queries) Rules(ctx context.Context, providerID string, weekday time.Weekday) ([]slots.Rule, error) {
	return r.rules(ctx, []string{providerID}, weekday)
}

func (r *queries) Blocks(ctx context.Context, providerID string, date time.Time) ([]slots.Block, error) {
	return r.blocks(ctx, []string{providerID}, date)
}

func (r *queries) Bookings(ctx context.Context, providerID string, date time.Time) ([]slots.Booking, error) {
	return r.bookings(ctx, []string{providerID}, date)
}

func (r *queries) Day(ctx context.Context, providerIDs []string, date time.Time) (Day, error) {
	var (
		d   Day
		err error
	)
	if len(providerIDs) == 0 {
		return d, nil
	}
	if d.Rules, err = r.rules(ctx, providerIDs, date.Weekday()); err != nil {
		return Day{}, err
	}
	// providers closed that weekday need nothing else
	open := make([]string, 0, len(d.Rules))
	for _, rl := range d.Rules {
		if len(open) == 0 || open[len(open)-1] != rl.ProviderID {
			open = append(open, rl.ProviderID)
		}
	}
	if len(open) == 0 {
		return d, nil
	}
	if d.Blocks, err = r.blocks(ctx, open, date); err != nil {
		return Day{}, err
	}
	if d.Bookings, err = r.bookings(ctx, open, date); err != nil {
		return Day{}, err
	}
	return d, nil
}

func (r *queries) rules(ctx context.Context, providerIDs []string, weekday time.Weekday) ([]slots.Rule, error) {
	const sql = `
select provider_id::text, day_of_week, start_time, end_time
from availability_rules
where provider_id = any($1::uuid[]) and day_of_week = $2
order by provider_id, start_time asc
`
	return store.Many(ctx, r.q, func(row store.Row) (slots.Rule, error) {
		var (
			rr  slots.Rule
			dow int16
		)
		err := row.Scan(&rr.ProviderID, &dow, &rr.Start, &rr.End)
		rr.Weekday = time.Weekday(dow)
		return rr, err
	}, sql, providerIDs, int16(weekday))
}

func (r *queries) blocks(ctx context.Context, providerIDs []string, date time.Time) ([]slots.Block, error) {
	// null times mean the whole day
	const sql = `
select provider_id::text, date, coalesce(start_time, ''), coalesce(end_time, '')
from blocked_times
where provider_id = any($1::uuid[]) and date = $2::date
`
	return store.Many(ctx, r.q, func(row store.Row) (slots.Block, error) {
		var b slots.Block
		return b, row.Scan(&b.ProviderID, &b.Date, &b.Start, &b.End)
	}, sql, providerIDs, date)
}

func (r *queries) bookings(ctx context.Context, providerIDs []string, date time.Time) ([]slots.Booking, error) {
	const sql = `
select b.provider_id::text, b.date, b.start_time, s.duration_min
from bookings b
join services s on s.id = b.service_id
where b.provider_id = any($1::uuid[]) and b.date = $2::date and b.status <> 'cancelled'
order by b.provider_id, b.start_time asc
`
	return store.Many(ctx, r.q, func(row store.Row) (slots.Booking, error) {
		var bk slots.Booking
		return bk, row.Scan(&bk.ProviderID, &bk.Date, &bk.Start, &bk.DurationMin)
	}, sql, providerIDs, date)
}
