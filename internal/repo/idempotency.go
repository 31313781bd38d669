// Idempotency persistence helpers. Rows record a processed Idempotency-Key
// for POST /chat so a client retry of the same request can be recognized and
// excluded from rate limiting.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/domain"
)

// ErrDuplicate signals an idempotency-key collision on insert.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns the unexpired record for key, or nil when absent.
func GetIdempotency(ctx context.Context, db *gorm.DB, sessionID, key string, now time.Time) (*domain.Idempotency, error) {
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("`key` = ? AND session_id = ? AND expires_at > ?", key, sessionID, now).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency records a processed key with the given TTL. A primary-key
// collision maps to ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, sessionID, key string, turnID int64, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		Key:       key,
		SessionID: sessionID,
		TurnID:    turnID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
