package bind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "bookable/internal/platform/errors"
	kit "bookable/internal/platform/testkit"
)

// shared payload for many tests
type payload struct {
	Name string `json:"name" validate:"required,min=2"`
	Age  int    `json:"age" validate:"min=1"`
}

type query struct {
	Date  string   `form:"date" validate:"required,datetime=2006-01-02"`
	Limit *int     `form:"limit" validate:"omitempty,gte=1,lte=50"`
	IDs   []string `form:"id"`
}

func TestParseJSON_Success(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Alice","age":3}`))
	got, err := ParseJSON[payload](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Alice" || got.Age != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		body string
		opts []JSONOptions
		want perr.ErrorCode
	}{
		{"empty body", "", nil, perr.ErrorCodeJSON},
		{"broken json", `{`, nil, perr.ErrorCodeJSON},
		{"unknown field", `{"name":"Al","age":3,"boom":1}`, nil, perr.ErrorCodeJSON},
		{"too large", `{"name":"Alice","age":3}`, []JSONOptions{{MaxBytes: 5, DisallowUnknown: true}}, perr.ErrorCodeJSON},
		{"validation", `{"name":"A","age":0}`, nil, perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			_, err := ParseJSON[payload](req, tc.opts...)
			if got := perr.CodeOf(err); got != tc.want {
				t.Fatalf("code = %v, want %v (%v)", got, tc.want, err)
			}
		})
	}
}

func TestParseJSON_ValidationListsEveryField(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"A","age":0}`))
	_, err := ParseJSON[payload](req)
	e, ok := perr.As(err)
	if !ok {
		t.Fatalf("expected *perr.Error, got %T", err)
	}
	vs := e.Violations()
	if len(vs) != 2 {
		t.Fatalf("want 2 violations, got %+v", vs)
	}
	if vs[0].Field != "name" || vs[1].Field != "age" {
		t.Fatalf("unexpected fields: %+v", vs)
	}
}

func TestParseJSON_AllowEmptyBody(t *testing.T) {
	t.Parallel()
	type emptyOK struct {
		Note string `json:"note"`
	}
	for _, max := range []int64{0, 8} {
		req := httptest.NewRequest("POST", "/", http.NoBody)
		got, err := ParseJSON[emptyOK](req, JSONOptions{AllowEmptyBody: true, MaxBytes: max})
		if err != nil {
			t.Fatalf("max=%d unexpected: %v", max, err)
		}
		if got != (emptyOK{}) {
			t.Fatalf("expected zero value, got %+v", got)
		}
	}
}

func TestParseJSON_DisallowUnknownFalse_OK(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Al","age":3,"extra":"ok"}`))
	got, err := ParseJSON[payload](req, JSONOptions{DisallowUnknown: false})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if got.Name != "Al" || got.Age != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

// not parallel: swaps the package seam
func TestParseJSON_TrailingData_Seam(t *testing.T) {
	kit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Al","age":3}`))
	_, err := ParseJSON[payload](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error for trailing data, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseJSON_NonStruct(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`5`))
	_, err := ParseJSON[int](req)
	if perr.CodeOf(err) != perr.ErrorCodeUnknown {
		t.Fatalf("expected unknown code, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseQuery_Success(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest("GET", "/?date=2025-03-03&limit=5&id=a&id=b", nil)
	got, err := ParseQuery[query](req)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if got.Date != "2025-03-03" || got.Limit == nil || *got.Limit != 5 {
		t.Fatalf("unexpected: %+v", got)
	}
	if len(got.IDs) != 2 || got.IDs[1] != "b" {
		t.Fatalf("ids: %+v", got.IDs)
	}
}

func TestParseQuery_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		url        string
		field      string
		constraint string
	}{
		{"missing date", "/", "date", "required"},
		{"bad date", "/?date=03-03-2025", "date", "datetime"},
		{"limit not a number", "/?date=2025-03-03&limit=ten", "limit", "type"},
		{"limit too high", "/?date=2025-03-03&limit=99", "limit", "lte"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseQuery[query](httptest.NewRequest("GET", tc.url, nil))
			if perr.CodeOf(err) != perr.ErrorCodeValidation {
				t.Fatalf("expected validation, got %v (%v)", perr.CodeOf(err), err)
			}
			e, _ := perr.As(err)
			vs := e.Violations()
			if len(vs) == 0 || vs[0].Field != tc.field || vs[0].Constraint != tc.constraint {
				t.Fatalf("unexpected violations: %+v", vs)
			}
		})
	}
}
