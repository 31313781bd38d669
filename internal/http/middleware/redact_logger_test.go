package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRedactingLogger_ScrubsQueryAndHeaders(t *testing.T) {
	buf := captureLogs(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet,
		"/x?email=budi@example.go.id&doc=6fa459ea-ee8a-3ca4-894e-db77e160355e", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("X-Api-Key", "super-secret")
	req.Header.Set("X-Contact", "hubungi +62 812-3456-7890")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, leaked := range []string{"budi@example.go.id", "6fa459ea", "secret-token", "super-secret", "3456-7890"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("sensitive value %q leaked:\n%s", leaked, out)
		}
	}
	for _, want := range []string{"[REDACTED:email]", "[REDACTED:id]", "[REDACTED:phone]", "[REDACTED]", "http_request"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestRedactingLogger_AttachesRequestScopedLogger(t *testing.T) {
	buf := captureLogs(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/x", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("from_service")
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "rid-7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, "from_service") || !strings.Contains(out, `"request_id":"rid-7"`) {
		t.Fatalf("request-scoped logger not attached:\n%s", out)
	}
}

func TestRedactingLogger_LevelFollowsStatus(t *testing.T) {
	buf := captureLogs(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/boom", func(c *gin.Context) { c.String(http.StatusInternalServerError, "no") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx not logged at error:\n%s", buf.String())
	}
}
