// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (ETag generation) in the HTTP layer.
// Each function is context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/domain"
)

// DocumentsStats returns aggregate metadata for the documents table: the total
// number of rows and the maximum UploadDate among those rows. When no
// documents exist, the returned count is 0 and maxUploadDate is nil.
func DocumentsStats(ctx context.Context, db *gorm.DB) (count int64, maxUploadDate *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Document{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest upload_date (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UploadDate time.Time
	}
	if err = q.Select("upload_date").Order("upload_date DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UploadDate, nil
}
