// internal/middleware/ratelimit.go
//
// Fixed-window rate limiter for public form submissions.
//
// Context
// -------
// Each client IP may POST `limit` times per `window`.  The counter lives in
// Redis (`INCR`, then `EXPIRE` on the first hit) so several instances share
// one budget.  GET and HEAD are never limited.
//
// The IP is the one requestinfo.Enrich resolved.  Forwarding headers count
// only when a trusted proxy sent them.  Without Enrich the socket address
// is used.
//
// Workflow
// --------
//   1. Counter.Incr bumps "ratelimit:<ip>".
//   2. count > limit → 429 with Retry-After.
//   3. Redis errors fail open; the request proceeds and a warning is logged.
//
// Notes
// -----
// • A nil Counter disables the middleware (redis.addr unset).
// • Oxford commas, two spaces after periods.

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/requestinfo"
)

// Counter increments a windowed counter and returns the new value.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements Counter with INCR + EXPIRE.
type RedisCounter struct {
	Client *redis.Client
}

// NewRedis connects and pings.  An empty addr returns (nil, nil).
func NewRedis(ctx context.Context, addr, password string, db int) (*RedisCounter, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &RedisCounter{Client: rdb}, nil
}

// Incr bumps key and starts its window on the first hit.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.Client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Close releases the client.
func (c *RedisCounter) Close() error { return c.Client.Close() }

// RateLimit limits non-GET requests to limit per window per client IP.
func RateLimit(c Counter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if c == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientKey(r)
			count, err := c.Incr(r.Context(), "ratelimit:"+ip, window)
			if err != nil {
				zap.L().Warn("rate limit check failed", zap.String("ip", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				metrics.RateLimitedTotal.Inc()
				zap.L().Info("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path), zap.Int64("count", count))
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Too many requests.  Please try again in a minute.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if info := requestinfo.FromContext(r.Context()); info != nil && info.IP != nil {
		return info.IP.String()
	}
	return requestinfo.Proxies(nil).ClientIP(r).String()
}
