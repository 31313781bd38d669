// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Document
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Removing the physical file behind a
// document is the caller's concern; this layer never touches the filesystem.
//
// Error semantics:
//   - When a document is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - GetDocuments deliberately does NOT error on missing ids: the result is
//     the matching subset, and callers compute the not-found set themselves
//     by difference when they care.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateDocument inserts a new document row. The caller supplies the fully
// populated record, including its UUID; a duplicate id fails with the driver's
// constraint error and leaves no row behind.
func CreateDocument(ctx context.Context, db *gorm.DB, doc *domain.Document) error {
	return db.WithContext(ctx).Create(doc).Error
}

// GetDocument fetches a single document by id, or ErrNotFound.
func GetDocument(ctx context.Context, db *gorm.DB, id string) (*domain.Document, error) {
	var d domain.Document
	if err := db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDocuments returns the subset of documents whose ids appear in ids, in no
// guaranteed order. Missing ids are silently omitted. An empty id list yields
// an empty slice without touching the database.
func GetDocuments(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	var out []domain.Document
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListDocuments returns all documents ordered by upload date descending
// (most recent first).
func ListDocuments(ctx context.Context, db *gorm.DB) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).Order("upload_date desc").Find(&out).Error
	return out, err
}

// ListRecentDocuments returns up to limit documents, newest first.
func ListRecentDocuments(ctx context.Context, db *gorm.DB, limit int) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).Order("upload_date desc").Limit(limit).Find(&out).Error
	return out, err
}

// DeleteDocument removes the document row identified by id. If no rows are
// affected, it returns ErrNotFound. The caller remains responsible for the
// physical file and for cascading history cleanup.
func DeleteDocument(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountDocuments returns the total number of stored documents.
func CountDocuments(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Document{}).Count(&total).Error
	return total, err
}
