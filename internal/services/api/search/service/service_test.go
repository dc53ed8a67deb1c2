package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"bookable/internal/core/clock"
	"bookable/internal/core/geo"
	"bookable/internal/core/ranking"
	"bookable/internal/core/slots"
	"bookable/internal/modkit/repokit"
	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/store"
	"bookable/internal/platform/testkit"
	"bookable/internal/services/api/search/domain"
	"bookable/internal/services/api/search/repo"
	sldomain "bookable/internal/services/searchlog/domain"
)

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (d nopDB) Tx(_ context.Context, fn func(store.RowQuerier) error) error  { return fn(d) }

type fakeRepo struct {
	cands []ranking.Candidate
	err   error
	hints repo.Hints
}

func (f *fakeRepo) Candidates(_ context.Context, h repo.Hints) ([]ranking.Candidate, error) {
	f.hints = h
	return f.cands, f.err
}

type fakeSlots struct {
	open  map[string]bool
	err   error
	calls int
	start clock.Minute
	asked map[string][]int
}

func (f *fakeSlots) SlotsOpen(_ context.Context, _ time.Time, start clock.Minute, ds map[string][]int) (map[string]bool, error) {
	f.calls++
	f.start, f.asked = start, ds
	return f.open, f.err
}

// scheduleSlots answers from one weekly rule shared by every provider
type scheduleSlots struct {
	rule  slots.Rule
	asked map[string][]int
}

func (f *scheduleSlots) SlotsOpen(_ context.Context, date time.Time, start clock.Minute, ds map[string][]int) (map[string]bool, error) {
	f.asked = ds
	out := map[string]bool{}
	for id, lengths := range ds {
		r := f.rule
		r.ProviderID = id
		for _, d := range lengths {
			ss, err := slots.Compute(slots.Input{ProviderID: id, Date: date, DurationMin: d, Rules: []slots.Rule{r}})
			if err != nil {
				return nil, err
			}
			if slots.Contains(ss, start) {
				out[id] = true
			}
		}
	}
	return out, nil
}

type fakeRecorder struct{ events []sldomain.Event }

func (f *fakeRecorder) Record(_ context.Context, ev sldomain.Event) { f.events = append(f.events, ev) }

func newSvc(r *fakeRepo, opt Options) *Svc {
	return New(nopDB{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r }), opt)
}

func cands() []ranking.Candidate {
	return []ranking.Candidate{
		{ID: "a", Name: "Alpha", CategoryID: "hair", Rating: 3, Location: geo.At(0, 0), MinDurationMin: 30},
		{ID: "b", Name: "Beta", CategoryID: "hair", Rating: 5, Location: geo.At(0, 0.01)},
		{ID: "c", Name: "Gamma", CategoryID: "hair", Rating: 4, Location: geo.At(0, 0.1)},
	}
}

func TestNew_PanicsOnNil(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), Options{}) })
	testkit.MustPanic(t, func() { New(nopDB{}, nil, Options{}) })
}

func TestSearch_RanksAndRecords(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	r := &fakeRepo{cands: cands()}
	svc := newSvc(r, Options{Recorder: rec})

	out, err := svc.Search(context.Background(), domain.SearchInput{CategoryID: "hair"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Total != 3 || out.Limit != ranking.DefaultLimit || out.Offset != 0 {
		t.Fatalf("result = %+v", out)
	}
	if got := []string{out.Items[0].ID, out.Items[1].ID, out.Items[2].ID}; got[0] != "b" || got[1] != "c" || got[2] != "a" {
		t.Fatalf("rating desc order = %v", got)
	}
	if out.Items[0].DistanceKm != nil {
		t.Fatal("distance must be absent without origin")
	}
	if out.Items[0].ServiceIDs == nil || out.Items[0].Services == nil {
		t.Fatal("service lists should render as empty arrays")
	}
	if r.hints.CategoryID != "hair" || r.hints.Box != nil {
		t.Fatalf("hints = %+v", r.hints)
	}
	if len(rec.events) != 1 || rec.events[0].Total != 3 || rec.events[0].SortBy != "rating" || rec.events[0].Returned != 3 {
		t.Fatalf("events = %+v", rec.events)
	}
}

func TestSearch_RadiusExcludes(t *testing.T) {
	t.Parallel()
	svc := newSvc(&fakeRepo{cands: cands()}, Options{})
	lat, lng, radius := 0.0, 0.0, 5.0
	out, err := svc.Search(context.Background(), domain.SearchInput{Lat: &lat, Lng: &lng, RadiusKm: &radius})
	if err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 || out.Items[0].ID != "a" || out.Items[1].ID != "b" {
		t.Fatalf("items = %+v", out.Items)
	}
	if out.Items[1].DistanceKm == nil || *out.Items[1].DistanceKm <= 0 {
		t.Fatalf("distance = %v", out.Items[1].DistanceKm)
	}
}

func TestSearch_AvailabilityFilter(t *testing.T) {
	t.Parallel()
	sc := &fakeSlots{open: map[string]bool{"a": true, "c": true}}
	svc := newSvc(&fakeRepo{cands: cands()}, Options{Slots: sc, DefaultSlotMin: 45})

	out, err := svc.Search(context.Background(), domain.SearchInput{Date: "2026-03-02", Time: "10:00"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 {
		t.Fatalf("total = %d", out.Total)
	}
	if sc.calls != 1 || sc.start != clock.MustParse("10:00") {
		t.Fatalf("calls=%d start=%s", sc.calls, sc.start)
	}
	// shortest service for a, the configured default for providers without services
	want := map[string][]int{"a": {30}, "b": {45}, "c": {45}}
	if !reflect.DeepEqual(sc.asked, want) {
		t.Fatalf("asked = %v, want %v", sc.asked, want)
	}
}

func TestSearch_AvailabilityTriesRequestedServices(t *testing.T) {
	t.Parallel()
	const (
		trim   = "5d7c1f0e-0000-4000-8000-000000000030"
		colour = "5d7c1f0e-0000-4000-8000-000000000090"
	)
	salon := ranking.Candidate{
		ID:             "salon",
		Name:           "Studio Nord",
		CategoryID:     "hair",
		Rating:         4.2,
		ServiceIDs:     []string{colour, trim},
		Durations:      map[string]int{trim: 30, colour: 90},
		MinDurationMin: 30,
	}
	// monday 09:00-10:30 fits 30 minute starts at 09:00, 09:30, 10:00 and one 90 minute start at 09:00
	monday := slots.Rule{Weekday: time.Monday, Start: "09:00", End: "10:30"}

	cases := []struct {
		name     string
		services []string
		at       string
		want     int
		asked    []int
	}{
		{"long service cannot start late", []string{colour}, "10:00", 0, []int{90}},
		{"long service fits at opening", []string{colour}, "09:00", 1, []int{90}},
		{"short service fits late", []string{trim}, "10:00", 1, []int{30}},
		{"any requested service may fit", []string{colour, trim}, "10:00", 1, []int{90, 30}},
		{"no services requested uses the shortest", nil, "10:00", 1, []int{30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sc := &scheduleSlots{rule: monday}
			svc := newSvc(&fakeRepo{cands: []ranking.Candidate{salon}}, Options{Slots: sc})
			out, err := svc.Search(context.Background(), domain.SearchInput{ServiceIDs: tc.services, Date: "2026-03-02", Time: tc.at})
			if err != nil {
				t.Fatal(err)
			}
			if out.Total != tc.want {
				t.Fatalf("total = %d, want %d", out.Total, tc.want)
			}
			if got := sc.asked["salon"]; !reflect.DeepEqual(got, tc.asked) {
				t.Fatalf("checked durations = %v, want %v", got, tc.asked)
			}
		})
	}
}

func TestSearch_AvailabilityWithoutChecker(t *testing.T) {
	t.Parallel()
	r := &fakeRepo{cands: cands()}
	_, err := newSvc(r, Options{}).Search(context.Background(), domain.SearchInput{Date: "2026-03-02", Time: "10:00"})
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestSearch_Errors(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection reset")

	t.Run("repo failure is data access", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecorder{}
		_, err := newSvc(&fakeRepo{err: boom}, Options{Recorder: rec}).Search(context.Background(), domain.SearchInput{})
		if perr.CodeOf(err) != perr.ErrorCodeDataAccess || !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
		if len(rec.events) != 0 {
			t.Fatal("failed searches must not be recorded")
		}
	})

	t.Run("slot check failure aborts", func(t *testing.T) {
		t.Parallel()
		sc := &fakeSlots{err: boom}
		_, err := newSvc(&fakeRepo{cands: cands()}, Options{Slots: sc}).
			Search(context.Background(), domain.SearchInput{Date: "2026-03-02", Time: "10:00"})
		if perr.CodeOf(err) != perr.ErrorCodeDataAccess {
			t.Fatalf("err = %v", err)
		}
		if sc.calls != 1 {
			t.Fatalf("calls = %d", sc.calls)
		}
	})

	t.Run("corrupt schedule keeps its code", func(t *testing.T) {
		t.Parallel()
		sc := &fakeSlots{err: perr.DataIntegrityf("bad rule")}
		_, err := newSvc(&fakeRepo{cands: cands()}, Options{Slots: sc}).
			Search(context.Background(), domain.SearchInput{Date: "2026-03-02", Time: "10:00"})
		if perr.CodeOf(err) != perr.ErrorCodeDataIntegrity {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("cross field validation", func(t *testing.T) {
		t.Parallel()
		lat := 1.0
		_, err := newSvc(&fakeRepo{}, Options{}).Search(context.Background(), domain.SearchInput{Lat: &lat})
		if perr.CodeOf(err) != perr.ErrorCodeValidation {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestSearch_Pagination(t *testing.T) {
	t.Parallel()
	svc := newSvc(&fakeRepo{cands: cands()}, Options{})
	limit, offset := 2, 2
	out, err := svc.Search(context.Background(), domain.SearchInput{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatal(err)
	}
	if out.Total != 3 || len(out.Items) != 1 || out.Limit != 2 || out.Offset != 2 {
		t.Fatalf("page = %+v", out)
	}
}
