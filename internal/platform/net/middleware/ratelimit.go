package middleware

import (
	"context"
	"fmt"
	"net"
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/logger"
	phttp "bookable/internal/platform/net/http"

	"github.com/redis/go-redis/v9"
)

// Counter increments key inside a fixed window and returns the hits so far
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitOptions configures RateLimit
type RateLimitOptions struct {
	Limit    int
	Window   time.Duration
	Prefix   string
	FailOpen bool
}

// RateLimit rejects a client once it exceeds Limit requests per Window.
// Clients are keyed by IP, so mount it after RealIP.
func RateLimit(c Counter, o RateLimitOptions) func(stdhttp.Handler) stdhttp.Handler {
	if o.Window <= 0 {
		o.Window = time.Minute
	}
	if o.Prefix == "" {
		o.Prefix = "rl"
	}
	log := logger.Named("ratelimit")
	limit := strconv.Itoa(o.Limit)

	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			n, err := c.Incr(r.Context(), o.Prefix+":"+clientKey(r), o.Window)
			if err != nil {
				log.Warn().Err(err).Bool("fail_open", o.FailOpen).Msg("rate limiter unavailable")
				if o.FailOpen {
					next.ServeHTTP(w, r)
					return
				}
				phttp.RespondError(w, r, perr.Wrap(err, perr.ErrorCodeUnavailable, "rate limiter unavailable"))
				return
			}

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(max(int64(o.Limit)-n, 0), 10))
			if n > int64(o.Limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(o.Window.Seconds())))
				phttp.RespondError(w, r, perr.Newf(perr.ErrorCodeTooManyRequests, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *stdhttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter is a Counter shared by every api replica
type RedisCounter struct{ RDB redis.Scripter }

// Incr runs INCR and arms the expiry on the first hit of a window
func (c RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := fixedWindow.Run(ctx, c.RDB, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected script result %T", res)
	}
}
