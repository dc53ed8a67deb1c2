package httpkit

import (
	"net/http"

	phttp "bookable/internal/platform/net/http"
)

// PostJSON mounts a handler under POST that receives the validated body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PostJSON(r, path, h, opts...)
}

// GetQuery mounts a handler under GET that receives the validated query string
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.GetQuery(r, path, h)
}

// Get registers a no-input handler and uses the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}
