// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// RedactingLogger is the access logger used in production: it scrubs obvious
// PII (emails, phone numbers, UUID-like identifiers) from query strings and
// header values before emitting structured logs, and fully masks sensitive
// headers. Request and response bodies are never logged.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
// MaskHeaders lists extra header names (case-insensitive) whose values are
// replaced with "[REDACTED]", merged with the built-in set (Authorization,
// Cookie, Set-Cookie).
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger returns a Gin middleware that logs HTTP requests with
// sensitive values scrubbed. Log level follows the response status.
//
// UUIDs are redacted before phone numbers so the phone pattern cannot match
// the digit segments of a UUID.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	uuidRE := regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE := regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE := regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)

	redact := func(s string) string {
		if s == "" {
			return s
		}
		out := uuidRE.ReplaceAllString(s, "[REDACTED:id]")
		out = emailRE.ReplaceAllString(out, "[REDACTED:email]")
		out = phoneRE.ReplaceAllString(out, "[REDACTED:phone]")
		return out
	}

	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := redact(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redact(strings.Join(vv, ", "))
		}

		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}

		// Request-scoped logger for handlers (LoggerFrom) and services
		// (zerolog.Ctx).
		l := log.With().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set("logger", &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
