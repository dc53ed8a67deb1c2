package module

import (
	"context"
	"testing"

	phttp "bookable/internal/platform/net/http"
	kit "bookable/internal/platform/testkit"
)

type Recorder interface {
	Record(ctx context.Context, n int)
}

type recorderImpl struct{ got *int }

func (r recorderImpl) Record(_ context.Context, n int) { *r.got = n }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string             { return m.name }
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()
	var n int
	impl := recorderImpl{got: &n}

	type bundle struct {
		Recorder Recorder
		Other    int
	}
	type hidden struct {
		rec Recorder
	}

	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil ports", nil, false},
		{"direct", impl, true},
		{"struct field", bundle{Recorder: impl}, true},
		{"unexported field", hidden{rec: impl}, false},
		{"unrelated", 42, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := PortsOf[Recorder](fakeModule{name: tc.name, ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got == nil {
				t.Fatalf("expected port value")
			}
		})
	}

	MustPortsOf[Recorder](fakeModule{name: "searchlog", ports: bundle{Recorder: impl}}).Record(context.Background(), 3)
	if n != 3 {
		t.Fatalf("port not wired to impl")
	}
}

func TestMustPortsOf_PanicsWhenMissing(t *testing.T) {
	t.Parallel()
	kit.MustPanic(t, func() { MustPortsOf[Recorder](fakeModule{name: "meta"}) })
}

func TestRegistry(t *testing.T) {
	// not parallel: shares the process registry
	Reset()
	t.Cleanup(Reset)

	Register("searchlog", 7)
	if v, ok := PortsAs[int]("searchlog"); !ok || v != 7 {
		t.Fatalf("PortsAs = %v, %v", v, ok)
	}
	if _, ok := PortsAs[string]("searchlog"); ok {
		t.Fatalf("wrong type should not assert")
	}
	if _, ok := PortsAs[int]("missing"); ok {
		t.Fatalf("missing name should not resolve")
	}
	Register("searchlog", 8)
	if v, _ := PortsAs[int]("searchlog"); v != 8 {
		t.Fatalf("re-register should overwrite, got %d", v)
	}
	Register("availability", nil)
	if got := Names(); len(got) != 2 || got[0] != "availability" || got[1] != "searchlog" {
		t.Fatalf("Names = %v", got)
	}
}
