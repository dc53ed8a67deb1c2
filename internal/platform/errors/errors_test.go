package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDataAccess, http.StatusServiceUnavailable},
		{ErrorCodeDataIntegrity, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

// the numeric codes are on the wire; reordering the iota breaks clients
func TestErrorCodesAreStable(t *testing.T) {
	t.Parallel()
	if ErrorCodeValidation != 8 || ErrorCodeNotFound != 10 || ErrorCodeDataAccess != 13 || ErrorCodeDataIntegrity != 14 {
		t.Fatalf("codes moved: validation=%d notfound=%d access=%d integrity=%d",
			ErrorCodeValidation, ErrorCodeNotFound, ErrorCodeDataAccess, ErrorCodeDataIntegrity)
	}
	if ErrorCodeTooManyRequests != 3 || ErrorCodeInvalidArgument != 7 {
		t.Fatalf("retired slots collapsed: toomany=%d invalid=%d", ErrorCodeTooManyRequests, ErrorCodeInvalidArgument)
	}
	// retired values fall through to 500
	for _, c := range []ErrorCode{4, 5, 6, 11, 12} {
		if got := HTTPStatusCode(c); got != http.StatusInternalServerError {
			t.Fatalf("HTTPStatusCode(%d) = %d, want 500", c, got)
		}
	}
}

func TestErrorRenderingAndUnwrap(t *testing.T) {
	t.Parallel()
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q", nilErr.Error())
	}

	src := stderrs.New("conn refused")
	e := Wrapf(src, ErrorCodeDataIntegrity, "rule %d is malformed", 3)
	if e.Error() != "rule 3 is malformed: conn refused" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !stderrs.Is(e, src) {
		t.Fatal("wrapped cause lost")
	}
	if _, ok := As(src); ok {
		t.Fatal("As() true for foreign error")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if Root(deep) != src {
		t.Fatalf("Root() = %v", Root(deep))
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatal("ErrNotFound code mismatch")
	}
}

func TestWireFrom(t *testing.T) {
	t.Parallel()
	if w := WireFrom(nil); w.Code != ErrorCodeUnknown || w.Message != "" {
		t.Fatalf("WireFrom(nil) = %+v", w)
	}
	if w := WireFrom(stderrs.New("boom")); w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign = %+v", w)
	}
	// only the message travels, never the cause
	w := WireFrom(Wrap(stderrs.New("dial tcp"), ErrorCodeDataAccess, "failed to load providers"))
	if w.Code != ErrorCodeDataAccess || w.Message != "failed to load providers" {
		t.Fatalf("ours = %+v", w)
	}
}

func TestInvalidCarriesEveryViolation(t *testing.T) {
	t.Parallel()
	err := Invalid(
		Violation{Field: "lat", Constraint: "required_with", Message: "lat and lng must be given together"},
		Violation{Field: "max_price", Constraint: "gtefield", Message: "max_price must not be below min_price"},
	)
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeValidation {
		t.Fatalf("As = %+v %v", e, ok)
	}
	if e.Field() != "lat" || e.Error() != "lat and lng must be given together" {
		t.Fatalf("first violation not mirrored: field=%q msg=%q", e.Field(), e.Error())
	}
	if len(WireFrom(err).Violations) != 2 {
		t.Fatalf("violations = %+v", e.Violations())
	}

	if e, _ := As(Invalid()); e.Error() != "validation failed" {
		t.Fatalf("empty Invalid = %q", e.Error())
	}
	single, _ := As(Validationf("date", "datetime", "%s must be a date", "date"))
	if len(single.Violations()) != 1 || single.Violations()[0].Constraint != "datetime" {
		t.Fatalf("Validationf = %+v", single.Violations())
	}
}

func TestWithFieldIsCopyOnWrite(t *testing.T) {
	t.Parallel()
	orig := NotFoundf("service not offered")
	tagged := WithField(orig, "service_id")
	if fe, _ := As(tagged); fe.Field() != "service_id" {
		t.Fatalf("field = %q", fe.Field())
	}
	if oe, _ := As(orig); oe.Field() != "" {
		t.Fatal("original mutated")
	}
	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign {
		t.Fatal("foreign error should pass through")
	}
}

func TestDataAccess(t *testing.T) {
	t.Parallel()
	if DataAccess(nil, "x") != nil {
		t.Fatal("nil in, nil out")
	}
	cases := []struct {
		name string
		in   error
		want ErrorCode
	}{
		{"foreign", stderrs.New("timeout"), ErrorCodeDataAccess},
		{"unavailable", Unavailablef("down"), ErrorCodeDataAccess},
		{"not found kept", NotFoundf("gone"), ErrorCodeNotFound},
		{"validation kept", Validationf("date", "datetime", "bad"), ErrorCodeValidation},
		{"integrity kept", DataIntegrityf("bad rule"), ErrorCodeDataIntegrity},
	}
	for _, tc := range cases {
		if got := CodeOf(DataAccess(tc.in, "failed")); got != tc.want {
			t.Fatalf("%s: code = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSugarCodes(t *testing.T) {
	t.Parallel()
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:    NotFoundf("x"),
		ErrorCodeJSON:        JSONErrf("x"),
		ErrorCodePanic:       PanicErrf("x"),
		ErrorCodeUnavailable: Unavailablef("x"),
		ErrorCodeDataAccess:  New(ErrorCodeDataAccess, "x"),
	}
	for want, err := range cases {
		if !IsCode(err, want) || HTTPStatus(err) != HTTPStatusCode(want) {
			t.Fatalf("%v: got %v", want, CodeOf(err))
		}
	}
}
