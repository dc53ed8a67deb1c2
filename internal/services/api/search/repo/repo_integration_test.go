//go:build integration_pg

package repo

import (
	"context"
	"testing"

	"bookable/internal/core/geo"
	"bookable/internal/core/ranking"
	"bookable/internal/platform/store/storetest"
)

const (
	zoe = "00000000-0000-0000-0000-000000000001"
	ada = "00000000-0000-0000-0000-000000000002"
	cut = "10000000-0000-0000-0000-000000000001"
)

func TestCandidates_Integration(t *testing.T) {
	db := storetest.PG(t)
	storetest.Exec(t, db,
		`INSERT INTO providers (id, name, category_id, lat, lng, rating, base_price, verified)
		 VALUES ('`+zoe+`', 'Zoe Cuts', 'hair', 0, 0, 4.5, 30, true),
		        ('`+ada+`', 'Ada Plumbing', 'plumbing', 0, 1, 3.9, 80, false)`,
		`INSERT INTO services (id, provider_id, name, duration_min, price)
		 VALUES ('`+cut+`', '`+zoe+`', 'Cut', 45, 30),
		        ('10000000-0000-0000-0000-000000000002', '`+zoe+`', 'Beard', 20, 15)`,
	)
	r := NewPG().Bind(db)
	ctx := context.Background()

	all, err := r.Candidates(ctx, Hints{})
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %+v err=%v", all, err)
	}
	z := all[0]
	if z.ID != zoe || z.MinDurationMin != 20 || len(z.ServiceIDs) != 2 || z.ServiceNames[0] != "Beard" {
		t.Fatalf("zoe = %+v", z)
	}
	if z.Durations[cut] != 45 || len(z.Durations) != 2 {
		t.Fatalf("zoe durations = %v", z.Durations)
	}
	if a := all[1]; a.ServiceIDs == nil || len(a.ServiceIDs) != 0 || a.MinDurationMin != 0 || len(a.Durations) != 0 {
		t.Fatalf("ada = %+v", a)
	}

	origin := geo.At(0, 0)
	near, err := r.Candidates(ctx, HintsFrom(ranking.Criteria{Origin: &origin, RadiusKm: 10}.Normalize()))
	if err != nil || len(near) != 1 || near[0].ID != zoe {
		t.Fatalf("near = %+v err=%v", near, err)
	}

	bySvc, err := r.Candidates(ctx, Hints{ServiceIDs: []string{cut}})
	if err != nil || len(bySvc) != 1 || bySvc[0].ID != zoe {
		t.Fatalf("by service = %+v err=%v", bySvc, err)
	}

	maxPrice := 50.0
	cheap, err := r.Candidates(ctx, Hints{MaxPrice: &maxPrice, VerifiedOnly: true})
	if err != nil || len(cheap) != 1 {
		t.Fatalf("cheap = %+v err=%v", cheap, err)
	}
}
