// Repository functions for the ChatTurn model and its document join rows.
// The history log is append-only: turns are inserted once and never updated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/domain"
)

// AppendTurn inserts a chat turn together with one join row per referenced
// document, in a single transaction. The turn's Timestamp is set to UTC now
// when unset; the store assigns the id. The serialized id list keeps the
// request's order and repetitions; join rows are keyed (turn_id, document_id),
// so repeated ids collapse to one row each.
func AppendTurn(ctx context.Context, db *gorm.DB, turn *domain.ChatTurn, documentIDs []string) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	turn.SetDocumentIDs(documentIDs)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(turn).Error; err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(documentIDs))
		for _, docID := range documentIDs {
			if _, dup := seen[docID]; dup {
				continue
			}
			seen[docID] = struct{}{}
			ref := domain.TurnDocument{TurnID: turn.ID, DocumentID: docID}
			if err := tx.Create(&ref).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTurn fetches one turn by id. Returns ErrNotFound when absent.
func GetTurn(ctx context.Context, db *gorm.DB, id int64) (*domain.ChatTurn, error) {
	var turn domain.ChatTurn
	if err := db.WithContext(ctx).First(&turn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &turn, nil
}

// ListRecentTurns returns up to limit turns ordered by timestamp descending.
func ListRecentTurns(ctx context.Context, db *gorm.DB, limit int) ([]domain.ChatTurn, error) {
	var out []domain.ChatTurn
	err := db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteTurn removes one turn and its join rows. Returns ErrNotFound when the
// id does not exist.
func DeleteTurn(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.ChatTurn{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&domain.TurnDocument{}, "turn_id = ?", id).Error
	})
}

// DeleteAllTurns purges the history log and returns the number of turns that
// existed immediately before the call.
func DeleteAllTurns(ctx context.Context, db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&domain.ChatTurn{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Where("1 = 1").Delete(&domain.TurnDocument{}).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CountTurns returns the total number of logged turns.
func CountTurns(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.ChatTurn{}).Count(&total).Error
	return total, err
}

// TurnsReferencing returns the ids of turns whose join rows reference the
// given document. The join table makes this an indexed lookup instead of a
// substring scan over the serialized id lists.
func TurnsReferencing(ctx context.Context, db *gorm.DB, documentID string) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.TurnDocument{}).
		Where("document_id = ?", documentID).
		Pluck("turn_id", &ids).Error
	return ids, err
}

// DeleteTurnsReferencing removes every turn whose join rows reference the
// given document, along with all join rows of those turns. It returns the
// number of turns removed. Runs in one transaction so a half-cascaded state
// is never visible.
func DeleteTurnsReferencing(ctx context.Context, db *gorm.DB, documentID string) (int64, error) {
	var deleted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		turnIDs, err := TurnsReferencing(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if len(turnIDs) == 0 {
			return nil
		}
		res := tx.Delete(&domain.ChatTurn{}, "id IN ?", turnIDs)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Delete(&domain.TurnDocument{}, "turn_id IN ?", turnIDs).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
