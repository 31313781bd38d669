package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"gorm.io/gorm"
)

func seedTurn(t *testing.T, db *gorm.DB, message string, docIDs []string, ts time.Time) *domain.ChatTurn {
	t.Helper()
	turn := &domain.ChatTurn{
		SessionID: domain.SessionGuest,
		Message:   message,
		Response:  "jawaban",
		Timestamp: ts,
	}
	if err := AppendTurn(context.Background(), db, turn, docIDs); err != nil {
		t.Fatalf("seed turn: %v", err)
	}
	return turn
}

func TestAppendTurn_SetsTimestampAndJoinRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	turn := &domain.ChatTurn{
		SessionID: domain.SessionGuest,
		Message:   "pertanyaan",
		Response:  "jawaban",
	}
	if err := AppendTurn(ctx, db, turn, []string{"d1", "d2"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if turn.ID == 0 {
		t.Fatalf("turn ID not assigned")
	}
	if turn.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
	if got := turn.DocumentIDList(); len(got) != 2 {
		t.Fatalf("serialized ids = %v", got)
	}

	ids, err := TurnsReferencing(ctx, db, "d1")
	if err != nil {
		t.Fatalf("TurnsReferencing: %v", err)
	}
	if len(ids) != 1 || ids[0] != turn.ID {
		t.Fatalf("join rows = %v; want [%d]", ids, turn.ID)
	}
}

func TestAppendTurn_RepeatedDocumentID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	turn := &domain.ChatTurn{
		SessionID: domain.SessionGuest,
		Message:   "pertanyaan",
		Response:  "jawaban",
	}
	if err := AppendTurn(ctx, db, turn, []string{"d1", "d1", "d2"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	// The serialized list keeps the request verbatim.
	if got := turn.DocumentIDList(); len(got) != 3 {
		t.Fatalf("serialized ids = %v; want 3 entries", got)
	}

	ids, err := TurnsReferencing(ctx, db, "d1")
	if err != nil {
		t.Fatalf("TurnsReferencing: %v", err)
	}
	if len(ids) != 1 || ids[0] != turn.ID {
		t.Fatalf("join rows for d1 = %v; want [%d]", ids, turn.ID)
	}

	total, err := CountTurns(ctx, db)
	if err != nil || total != 1 {
		t.Fatalf("count = %d, %v; want 1", total, err)
	}
}

func TestGetTurn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	turn := seedTurn(t, db, "q", nil, time.Now().UTC())

	got, err := GetTurn(ctx, db, turn.ID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if got.Message != "q" {
		t.Fatalf("got %+v", got)
	}

	if _, err := GetTurn(ctx, db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing turn err = %v; want ErrNotFound", err)
	}
}

func TestListRecentTurns_DescendingAndLimited(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedTurn(t, db, "q", nil, base.Add(time.Duration(i)*time.Minute))
	}

	turns, err := ListRecentTurns(ctx, db, 3)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("len = %d; want 3", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Timestamp.After(turns[i-1].Timestamp) {
			t.Fatalf("turns not in descending timestamp order")
		}
	}
}

func TestDeleteTurn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	turn := seedTurn(t, db, "q", []string{"d1"}, time.Now().UTC())

	if err := DeleteTurn(ctx, db, turn.ID); err != nil {
		t.Fatalf("DeleteTurn: %v", err)
	}
	if _, err := GetTurn(ctx, db, turn.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("turn still present after delete")
	}
	ids, err := TurnsReferencing(ctx, db, "d1")
	if err != nil || len(ids) != 0 {
		t.Fatalf("join rows survived delete: %v, %v", ids, err)
	}

	if err := DeleteTurn(ctx, db, turn.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}
}

func TestDeleteAllTurns_ReportsCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		seedTurn(t, db, "q", []string{"d1"}, time.Now().UTC())
	}

	n, err := DeleteAllTurns(ctx, db)
	if err != nil {
		t.Fatalf("DeleteAllTurns: %v", err)
	}
	if n != 4 {
		t.Fatalf("deleted = %d; want 4", n)
	}

	total, err := CountTurns(ctx, db)
	if err != nil || total != 0 {
		t.Fatalf("count after purge = %d, %v", total, err)
	}
	if ids, _ := TurnsReferencing(ctx, db, "d1"); len(ids) != 0 {
		t.Fatalf("join rows survived purge: %v", ids)
	}

	n, err = DeleteAllTurns(ctx, db)
	if err != nil || n != 0 {
		t.Fatalf("second purge = %d, %v; want 0, nil", n, err)
	}
}

func TestDeleteTurnsReferencing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	referenced := seedTurn(t, db, "tentang d1", []string{"d1"}, time.Now().UTC())
	both := seedTurn(t, db, "tentang d1 dan d2", []string{"d1", "d2"}, time.Now().UTC())
	unrelated := seedTurn(t, db, "umum", nil, time.Now().UTC())

	n, err := DeleteTurnsReferencing(ctx, db, "d1")
	if err != nil {
		t.Fatalf("DeleteTurnsReferencing: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted = %d; want 2", n)
	}

	if _, err := GetTurn(ctx, db, referenced.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("referenced turn survived")
	}
	if _, err := GetTurn(ctx, db, both.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("multi-reference turn survived")
	}
	if _, err := GetTurn(ctx, db, unrelated.ID); err != nil {
		t.Fatalf("unrelated turn deleted: %v", err)
	}
	// Join rows of the deleted turns are gone too, d2's included.
	if ids, _ := TurnsReferencing(ctx, db, "d2"); len(ids) != 0 {
		t.Fatalf("stale join rows remain: %v", ids)
	}
}
