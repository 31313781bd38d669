// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/config"
	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/groq"
	"github.com/arpusjateng/docchat-backend/internal/http/handlers"
	"github.com/arpusjateng/docchat-backend/internal/http/middleware"
	"github.com/arpusjateng/docchat-backend/internal/prompt"
	"github.com/arpusjateng/docchat-backend/internal/repo"
	"github.com/arpusjateng/docchat-backend/internal/services"
	"github.com/arpusjateng/docchat-backend/internal/storage"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (covers multipart uploads)
//  6. Gzip compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per client IP, bypass on replay)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, files *storage.Store, ai *groq.Client, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit; must admit a full upload batch
	r.Use(limitBody(cfg.MaxUploadBytes))

	// 6) Compress responses; document listings and history grow large
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation for chat retries (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, domain.SessionGuest, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps
		// tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/storage/provider
	docSvc := services.NewDocumentService(db, files)
	docSvc.MaxFiles = cfg.MaxUploadFiles

	chatSvc := services.NewChatService(db, ai)
	chatSvc.Prompt = prompt.Assembler{MaxDocChars: cfg.MaxDocChars}

	histSvc := services.NewHistoryService(db)
	histSvc.MaxLimit = cfg.HistoryLimit

	h := handlers.New(docSvc, chatSvc, histSvc, ai, db, cfg.Groq.Model)

	// Public API
	r.GET("/health", h.Health)
	r.POST("/upload", h.Upload)
	r.GET("/documents", h.ListDocuments)
	r.GET("/predefined-questions/:document_id", h.PredefinedQuestions)
	r.POST("/chat", h.Chat)
	r.GET("/history", h.ListHistory)
	r.DELETE("/history/:history_id", h.DeleteHistory)
	r.DELETE("/history", h.DeleteAllHistory)

	// Admin surface, demo-gated
	admin := r.Group("/admin", middleware.RequireAdminQuery())
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/documents", h.AdminDocuments)
		admin.DELETE("/documents/:document_id", h.AdminDeleteDocument)
		admin.GET("/users", h.AdminUsers)
		admin.DELETE("/users/:username", h.AdminDeleteUser)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints using http.MaxBytesReader. Requests exceeding the cap cause
// downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
