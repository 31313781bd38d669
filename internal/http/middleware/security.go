// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// SecurityHeaders attaches a conservative set of HTTP security headers
// suitable for a JSON API behind a reverse proxy. HSTS is opt-in and only
// emitted for HTTPS requests.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the headers emitted by SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security for HTTPS requests. Enable
	// only when traffic is HTTPS end-to-end, proxy hop included.
	EnableHSTS bool
	// HSTSMaxAge is the HSTS lifetime; 180 days when unset.
	HSTSMaxAge time.Duration
	// NoStore adds Cache-Control: no-store plus the legacy Pragma/Expires pair.
	NoStore bool
	// EnablePolicy includes Permissions-Policy and
	// X-Permitted-Cross-Domain-Policies. Browser-only, harmless elsewhere.
	EnablePolicy bool
}

// SecurityHeaders returns a Gin middleware adding baseline hardening headers
// to every response. When X-Request-ID is present it is exposed via
// Access-Control-Expose-Headers so browser clients can read it.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security",
				"max-age="+strconv.Itoa(maxAge)+"; includeSubDomains; preload")
		}

		if rid := h.Get(requestIDHeader); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			cur := h.Get(hdr)
			if cur == "" {
				h.Set(hdr, requestIDHeader)
			} else if !strings.Contains(cur, requestIDHeader) {
				h.Set(hdr, cur+", "+requestIDHeader)
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the request used HTTPS directly or arrived through
// a proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
