// Command server runs the document chat backend for Dinas Arpus Jateng:
// document upload and listing, a rule-constrained chat over extracted
// document text, chat history, and a demo-gated admin surface.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arpusjateng/docchat-backend/internal/config"
	"github.com/arpusjateng/docchat-backend/internal/groq"
	httpapi "github.com/arpusjateng/docchat-backend/internal/http"
	"github.com/arpusjateng/docchat-backend/internal/observability"
	"github.com/arpusjateng/docchat-backend/internal/repo"
	"github.com/arpusjateng/docchat-backend/internal/storage"
	"github.com/arpusjateng/docchat-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Local development convenience; in containers the environment is set by
	// the orchestrator and no .env file exists.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	db, err := repo.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	files, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload directory setup failed")
	}

	ai := groq.New(cfg.Groq.BaseURL, cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.Timeout)
	if cfg.Groq.APIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is not set; chat responses will carry the configuration error message")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	httpapi.RegisterRoutes(r, db, files, ai, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	waitForShutdown(srv)
	log.Info().Msg("server stopped")
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight requests
// before returning. The drain window must cover a full completion provider
// call, which is bounded by its own timeout.
func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
