// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for the
// two interchangeable backends (embedded SQLite and MySQL) and schema
// migrations. All business logic lives above this layer; switching backends
// never duplicates it.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/arpusjateng/docchat-backend/internal/config"
	"github.com/arpusjateng/docchat-backend/internal/domain"
)

// Open opens the configured backend and applies pooling and tracing.
func Open(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return OpenMySQL(cfg.MySQLDSN)
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	return tune(db)
}

// OpenMySQL opens a MySQL database with conservative pool settings.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return tune(db)
}

// tune applies shared pool settings and GORM query tracing.
func tune(db *gorm.DB) (*gorm.DB, error) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Document{},
		&domain.ChatTurn{},
		&domain.TurnDocument{},
		&domain.Idempotency{},
	)
}

// Ping verifies the underlying connection is alive.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
