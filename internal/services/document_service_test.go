package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(
		&domain.Document{},
		&domain.ChatTurn{},
		&domain.TurnDocument{},
		&domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeFileStore records saved blobs in memory.
type fakeFileStore struct {
	saved   map[string]string
	saveErr error
	removed []string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{saved: map[string]string{}}
}

func (f *fakeFileStore) Save(_ context.Context, key string, data io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	f.saved[key] = string(b)
	return int64(len(b)), nil
}

func (f *fakeFileStore) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.saved, key)
	return nil
}

func (f *fakeFileStore) Path(key string) string { return "/fake/" + key }

func newTestDocumentService(t *testing.T) (*DocumentService, *fakeFileStore) {
	t.Helper()
	files := newFakeFileStore()
	svc := NewDocumentService(newServiceDB(t), files)
	svc.ExtractText = func(_ context.Context, path, _ string) string {
		return "teks dari " + path
	}
	return svc, files
}

func uploadInputs(names ...string) []UploadInput {
	in := make([]UploadInput, 0, len(names))
	for _, n := range names {
		in = append(in, UploadInput{Filename: n, Data: strings.NewReader("isi " + n)})
	}
	return in
}

func TestIngest_EmptyBatch(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	if _, err := svc.Ingest(context.Background(), nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestIngest_TooManyFiles_NothingWritten(t *testing.T) {
	svc, files := newTestDocumentService(t)

	_, err := svc.Ingest(context.Background(), uploadInputs("a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"))
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("expected ErrTooManyFiles, got %v", err)
	}
	if len(files.saved) != 0 {
		t.Fatalf("blobs written despite cap: %v", files.saved)
	}
	count, err := repo.CountDocuments(context.Background(), svc.DB)
	if err != nil || count != 0 {
		t.Fatalf("documents persisted despite cap: count=%d err=%v", count, err)
	}
}

func TestIngest_SkipsUnsupportedTypes(t *testing.T) {
	svc, files := newTestDocumentService(t)

	uploaded, err := svc.Ingest(context.Background(), uploadInputs("laporan.pdf", "virus.exe"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(uploaded) != 1 || uploaded[0].Filename != "laporan.pdf" {
		t.Fatalf("unexpected uploads: %+v", uploaded)
	}
	if uploaded[0].DocumentID == "" || uploaded[0].Size == 0 {
		t.Fatalf("missing id or size: %+v", uploaded[0])
	}
	if len(uploaded[0].PredefinedQuestions) != len(PredefinedQuestions) {
		t.Fatalf("predefined questions not attached: %+v", uploaded[0])
	}
	if len(files.saved) != 1 {
		t.Fatalf("expected exactly one stored blob, got %v", files.saved)
	}

	doc, err := repo.GetDocument(context.Background(), svc.DB, uploaded[0].DocumentID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	// Storage key comes from the generated id, not the user filename.
	if doc.StoragePath == "laporan.pdf" || !strings.HasSuffix(doc.StoragePath, ".pdf") {
		t.Fatalf("unexpected storage path %q", doc.StoragePath)
	}
	if !strings.HasPrefix(doc.TextContent, "teks dari /fake/") {
		t.Fatalf("extracted text not persisted: %q", doc.TextContent)
	}
}

func TestIngest_AllUnsupported(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	_, err := svc.Ingest(context.Background(), uploadInputs("a.exe", "b.png"))
	if !errors.Is(err, ErrNoSupportedFiles) {
		t.Fatalf("expected ErrNoSupportedFiles, got %v", err)
	}
}

func TestIngest_SaveFailure(t *testing.T) {
	svc, files := newTestDocumentService(t)
	files.saveErr = errors.New("disk full")

	_, err := svc.Ingest(context.Background(), uploadInputs("laporan.pdf"))
	var se *SaveError
	if !errors.As(err, &se) || se.Filename != "laporan.pdf" {
		t.Fatalf("expected SaveError for laporan.pdf, got %v", err)
	}
}

func TestIngest_PersistFailure_RollsBackBlob(t *testing.T) {
	svc, files := newTestDocumentService(t)

	// Drop the table so the metadata insert fails after the blob write.
	if err := svc.DB.Migrator().DropTable(&domain.Document{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.Ingest(context.Background(), uploadInputs("laporan.pdf"))
	var pe *PersistError
	if !errors.As(err, &pe) || pe.Filename != "laporan.pdf" {
		t.Fatalf("expected PersistError for laporan.pdf, got %v", err)
	}
	if len(files.saved) != 0 {
		t.Fatalf("blob not rolled back: %v", files.saved)
	}
	if len(files.removed) != 1 {
		t.Fatalf("expected one Remove call, got %v", files.removed)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDelete_RemovesTurnsAndFile(t *testing.T) {
	svc, files := newTestDocumentService(t)
	ctx := context.Background()

	uploaded, err := svc.Ingest(ctx, uploadInputs("laporan.pdf"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	id := uploaded[0].DocumentID

	turn := &domain.ChatTurn{SessionID: domain.SessionGuest, Message: "q", Response: "a"}
	if err := repo.AppendTurn(ctx, svc.DB, turn, []string{id}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("document still present: %v", err)
	}
	if _, err := repo.GetTurn(ctx, svc.DB, turn.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("referencing turn still present: %v", err)
	}
	if len(files.saved) != 0 {
		t.Fatalf("stored blob not removed: %v", files.saved)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
