// Package bind decodes request bodies and query strings into typed payloads and validates them
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"

	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/logger"
	"bookable/internal/platform/validate"

	"github.com/go-playground/form/v4"
)

var (
	qOnce    sync.Once
	qDec     *form.Decoder
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

func queryDecoder() *form.Decoder {
	qOnce.Do(func() {
		qDec = form.NewDecoder()
		qDec.SetTagName("form")
		qDec.SetMode(form.ModeExplicit)
	})
	return qDec
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{
		MaxBytes:        1 << 20,
		DisallowUnknown: true,
		AllowEmptyBody:  false,
	}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	var reader io.Reader = r.Body
	if !o.AllowEmptyBody {
		buf := make([]byte, 1)
		n, _ := r.Body.Read(buf)
		if n == 0 {
			return zero, perr.JSONErrf("empty body")
		}
		reader = io.MultiReader(bytes.NewReader(buf[:n]), r.Body)
	}
	if o.MaxBytes > 0 {
		reader = io.LimitReader(reader, o.MaxBytes)
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if o.AllowEmptyBody && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := validate.Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// ParseQuery decodes the URL query into T using form tags, then validates it.
// Values that cannot be converted to the field type surface as validation
// violations with constraint "type".
func ParseQuery[T any](r *http.Request) (T, error) {
	var zero T
	var dst T
	if err := queryDecoder().Decode(&dst, r.URL.Query()); err != nil {
		var derrs form.DecodeErrors
		if errors.As(err, &derrs) {
			return zero, perr.Invalid(decodeViolations(derrs)...)
		}
		var inv *form.InvalidDecoderError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(err).Msg("query decoder internal error")
			return zero, perr.Wrap(err, perr.ErrorCodeUnknown, "query decode error")
		}
		return zero, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid query string")
	}
	if err := validate.Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func decodeViolations(derrs form.DecodeErrors) []perr.Violation {
	keys := make([]string, 0, len(derrs))
	for k := range derrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]perr.Violation, 0, len(keys))
	for _, k := range keys {
		out = append(out, perr.Violation{
			Field:      k,
			Constraint: "type",
			Message:    k + " has an invalid value",
		})
	}
	return out
}
