package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/greenhaven/storefront-backend/api/responses"
	"github.com/greenhaven/storefront-backend/pkg/config"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/logger"
)

// RateLimiter is the subset of the redis client used for request throttling.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles requests per client IP using a fixed window counter.
// Limiter failures fail open so a redis outage does not take the API down.
func RateLimit(logg *logger.Logger, limiter RateLimiter, cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			allowed, count, err := limiter.FixedWindowAllow(ctx, clientIP(r), cfg.Limit, cfg.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"error": err.Error()}), "rate_limit.check_failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"count": count}), "rate_limit.exceeded")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
