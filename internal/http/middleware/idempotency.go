// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Idempotency support for POST /chat. The middleware validates an
// Idempotency-Key request header, optionally consults a lookup to detect a
// previously completed turn within the same session, and annotates the
// request context so downstream components can detect replays and skip rate
// limiting for them. Persistence stays behind the narrow IdempotencyLookup
// function type.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for unsafe operations. The value is expected to be stable
// for a given semantic operation so retries can be deduplicated.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
// The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether this request replays a previously completed turn.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation. TTL enforcement belongs in
// the lookup, not here.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length; values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Defaults to a conservative
	// RFC7230-like token pattern: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a completed, still-valid turn exists for
// the key at the given time. Return an error only for lookup failures; those
// do not block normal processing.
type IdempotencyLookup func(ctx context.Context, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present,
// stashes it in the context, and marks the request as a replay (with rate
// bypass) when the lookup finds a prior completed turn. The middleware never
// serves a cached payload itself; the chat handler stays in control of that.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			if exists, _ := lookup(c.Request.Context(), key, time.Now().UTC()); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
