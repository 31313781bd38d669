// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// In-memory token-bucket rate limiter with per-client buckets and
// opportunistic garbage collection. Process-local: for horizontally scaled
// deployments a distributed limiter is required to enforce global limits.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by client IP. There is no per-user identity in
// this API (all traffic shares the guest session), so the IP is the only
// stable handle for abuse control.
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// visitor holds one bucket and the last time it was used, for idle eviction.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements a per-key token-bucket limiter. Buckets are created
// on demand; idle ones are evicted after a TTL during lookups. Safe for
// concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewRateLimiter constructs a limiter replenishing rps tokens per second with
// the given burst size, keyed by keyFn. Burst values <= 0 are coerced to 1.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// getVisitor returns the bucket for key, creating it if absent. GC runs
// before the lookup so a stale bucket can be evicted even when it is the one
// being fetched.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, vv := range rl.visitors {
			if now.Sub(vv.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		lim := v.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay; replays are served without consuming tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the enforcing middleware. Rejected requests receive a 429
// with the standard error envelope and a minimal Retry-After header.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		if rl.getVisitor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
