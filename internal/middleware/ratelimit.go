package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bazarche/bazarche/internal/cache"
)

// RateLimitConfig controls the fixed-window request limiter.
type RateLimitConfig struct {
	// Limit is the maximum number of requests per client per window.
	Limit int
	// Window is the trailing window length.
	Window time.Duration
	// ExemptPrefixes lists request path prefixes that bypass limiting
	// unconditionally (health checks).
	ExemptPrefixes []string
}

// DefaultRateLimitConfig returns the production default: 60 requests per
// 60-second window, health checks exempt.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:          60,
		Window:         time.Minute,
		ExemptPrefixes: []string{"/health"},
	}
}

// RateLimit returns a gin middleware enforcing a fixed-window request limit
// per client, using the shared cache store as the counter backend.
//
// The window state is a JSON list of request timestamps under "rl:<client>".
// On every request, timestamps older than the window are pruned; if the
// pruned list already holds Limit entries the request is rejected with 429
// before the new timestamp is appended. The get-prune-set sequence is not
// atomic across concurrent requests from one client; the resulting slight
// undercount is accepted.
//
// Fail-open rules: requests with no derivable client identity are allowed,
// and any cache store fault is logged and treated as "allow".
func RateLimit(store cache.Store, cfg RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		for _, prefix := range cfg.ExemptPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		client := clientIdentity(c.Request)
		if client == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cache.RateLimitKeyPrefix + client
		now := time.Now()

		var times []int64
		raw, found, err := store.Get(ctx, key)
		if err != nil {
			logger.WarnContext(ctx, "rate limiter cache read failed, allowing request",
				slog.String("client", client), slog.Any("error", err))
			c.Next()
			return
		}
		if found {
			if err := json.Unmarshal(raw, &times); err != nil {
				times = nil
			}
		}

		cutoff := now.Add(-cfg.Window).Unix()
		kept := times[:0]
		for _, t := range times {
			if t > cutoff {
				kept = append(kept, t)
			}
		}

		if len(kept) >= cfg.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, retry later",
				"data":    nil,
			})
			return
		}

		kept = append(kept, now.Unix())
		if raw, err := json.Marshal(kept); err == nil {
			if err := store.Set(ctx, key, raw, cfg.Window); err != nil {
				logger.WarnContext(ctx, "rate limiter cache write failed",
					slog.String("client", client), slog.Any("error", err))
			}
		}

		c.Next()
	}
}

// clientIdentity derives the limiter key for a request: the first
// X-Forwarded-For entry when present, otherwise the direct connection
// address. An empty result means the request cannot be attributed.
func clientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
