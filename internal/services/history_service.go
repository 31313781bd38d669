// Package services – HistoryService
//
// Read and delete operations over the chat history. Writes happen in
// ChatService as part of a turn; this service only serves the history
// endpoints and the admin dashboard.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/repo"
)

// DefaultHistoryLimit caps how many turns a listing returns.
const DefaultHistoryLimit = 100

// HistoryService serves the chat history endpoints.
type HistoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxLimit caps listing sizes; DefaultHistoryLimit when <= 0.
	MaxLimit int
}

// NewHistoryService constructs a HistoryService with the default listing cap.
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db, MaxLimit: DefaultHistoryLimit}
}

// Recent returns the most recent turns, newest first. The limit is clamped to
// the configured cap; non-positive limits select the cap itself.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.ChatTurn, error) {
	max := s.MaxLimit
	if max <= 0 {
		max = DefaultHistoryLimit
	}
	if limit <= 0 || limit > max {
		limit = max
	}
	return repo.ListRecentTurns(ctx, s.DB, limit)
}

// Delete removes one turn by id, or returns ErrTurnNotFound.
func (s *HistoryService) Delete(ctx context.Context, id int64) error {
	err := repo.DeleteTurn(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTurnNotFound
	}
	return err
}

// DeleteAll removes every turn and reports how many were deleted.
func (s *HistoryService) DeleteAll(ctx context.Context) (int64, error) {
	return repo.DeleteAllTurns(ctx, s.DB)
}

// Count returns the total number of stored turns.
func (s *HistoryService) Count(ctx context.Context) (int64, error) {
	return repo.CountTurns(ctx, s.DB)
}
