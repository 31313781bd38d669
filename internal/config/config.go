// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage backends, upload limits, and the Groq completion provider
// settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// GroqConfig holds settings for the external completion provider.
type GroqConfig struct {
	APIKey  string        // GROQ_API_KEY
	BaseURL string        // GROQ_BASE_URL
	Model   string        // GROQ_MODEL
	Timeout time.Duration // GROQ_TIMEOUT; the whole call is abandoned after this
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s; must cover the Groq call
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Storage
	DBDriver string // sqlite|mysql
	DBPath   string // SQLite file path (sqlite driver)
	MySQLDSN string // DSN (mysql driver)

	// Uploads
	UploadDir      string // directory for stored files
	MaxUploadFiles int    // per-request file cap, enforced before any write
	MaxUploadBytes int64  // multipart body size cap

	// Chat context
	MaxDocChars  int // per-document excerpt cap in the assembled prompt
	HistoryLimit int // maximum turns returned by GET /history

	// Completion provider
	Groq GroqConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Storage
		DBDriver: strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBPath:   getenv("DB_PATH", "app.db"),
		MySQLDSN: getenv("MYSQL_DSN", ""),

		// Uploads
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MaxUploadFiles: getint("MAX_UPLOAD_FILES", 5),
		MaxUploadBytes: getint64("MAX_UPLOAD_BYTES", 32<<20),

		// Chat context
		MaxDocChars:  getint("MAX_DOC_CHARS", 4000),
		HistoryLimit: getint("HISTORY_LIMIT", 100),

		// Completion provider
		Groq: GroqConfig{
			APIKey:  getenv("GROQ_API_KEY", ""),
			BaseURL: getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   getenv("GROQ_MODEL", "llama3-8b-8192"),
			Timeout: getdur("GROQ_TIMEOUT", 30*time.Second),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "docchat-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty for the sqlite driver")
		}
	case DriverMySQL:
		if strings.TrimSpace(cfg.MySQLDSN) == "" {
			return cfg, errors.New("MYSQL_DSN must not be empty for the mysql driver")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, mysql")
	}
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return cfg, errors.New("UPLOAD_DIR must not be empty")
	}
	if cfg.MaxUploadFiles < 1 {
		return cfg, errors.New("MAX_UPLOAD_FILES must be >= 1")
	}
	if cfg.MaxUploadBytes <= 0 {
		return cfg, errors.New("MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.MaxDocChars < 1 {
		return cfg, errors.New("MAX_DOC_CHARS must be >= 1")
	}
	if cfg.HistoryLimit < 1 {
		return cfg, errors.New("HISTORY_LIMIT must be >= 1")
	}
	if cfg.Groq.Timeout <= 0 {
		return cfg, errors.New("GROQ_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(cfg.Groq.BaseURL) == "" {
		return cfg, errors.New("GROQ_BASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.Groq.Model) == "" {
		return cfg, errors.New("GROQ_MODEL must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
