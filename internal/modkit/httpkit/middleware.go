package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"bookable/internal/platform/config"
	"bookable/internal/platform/logger"
	"bookable/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration

	// RateCounter enables per client rate limiting when non nil and RateLimit > 0
	RateCounter  middleware.Counter
	RateLimit    int
	RateWindow   time.Duration
	RateFailOpen bool
}

// StackFromConfig reads the CORE_API_ view: CORS_ORIGINS, REQUEST_TIMEOUT,
// SLOW_MS, RATE_LIMIT, RATE_WINDOW, RATE_FAIL_OPEN. The counter is wired by the caller.
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		CORSOrigins:    cfg.MayCSV("CORS_ORIGINS", nil),
		RequestTimeout: cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    time.Duration(cfg.MayInt("SLOW_MS", 500)) * time.Millisecond,
		RateLimit:      cfg.MayInt("RATE_LIMIT", 0),
		RateWindow:     cfg.MayDuration("RATE_WINDOW", time.Minute),
		RateFailOpen:   cfg.MayBool("RATE_FAIL_OPEN", true),
	}
}

// CommonStack returns the api scope middleware in order, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		// correlation
		middleware.Tracing("api"),
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),

		// safety
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
	}
	if o.RateCounter != nil && o.RateLimit > 0 {
		stack = append(stack, middleware.RateLimit(o.RateCounter, middleware.RateLimitOptions{
			Limit:    o.RateLimit,
			Window:   o.RateWindow,
			FailOpen: o.RateFailOpen,
		}))
	} else {
		logger.Named("http").Debug().Msg("rate limiting disabled")
	}
	return append(stack,
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.RequestTimeout),
	)
}
