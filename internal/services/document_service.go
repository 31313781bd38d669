// Package services – DocumentService
//
// This file implements DocumentService, the application-level component that
// owns the document lifecycle: ingesting uploaded files (save bytes, extract
// text, persist metadata), listing, and deleting documents together with the
// stored file and any chat turns that reference them.
//
// Extraction failures degrade to an empty text body instead of failing the
// upload; the document is still stored and listed. The per-request file cap is
// enforced before any byte is written so an oversized batch leaves no partial
// state behind.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/extract"
	"github.com/arpusjateng/docchat-backend/internal/repo"
)

// FileStore abstracts the blob store that holds uploaded file bytes.
// Implemented by storage.Store; faked in tests.
type FileStore interface {
	// Save writes data under key and returns the number of bytes written.
	Save(ctx context.Context, key string, data io.Reader) (int64, error)

	// Remove deletes the blob for key. A missing blob is not an error.
	Remove(ctx context.Context, key string) error

	// Path returns the filesystem path for key.
	Path(key string) string
}

// ExtractFunc maps a stored file plus its declared extension to plain text.
// It never fails; extraction problems yield an empty string.
type ExtractFunc func(ctx context.Context, path, ext string) string

// SaveError reports a failed write of uploaded bytes. It carries the original
// filename so handlers can build a user-facing message.
type SaveError struct {
	Filename string
	Err      error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %q: %v", e.Filename, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// PersistError reports a failed metadata insert after the file bytes were
// written. The stored blob is rolled back before this error is returned.
type PersistError struct {
	Filename string
	Err      error
}

func (e *PersistError) Error() string { return fmt.Sprintf("persist %q: %v", e.Filename, e.Err) }
func (e *PersistError) Unwrap() error { return e.Err }

// UploadInput is one file in an upload batch.
type UploadInput struct {
	Filename string
	Data     io.Reader
}

// UploadedDocument describes one successfully ingested file.
type UploadedDocument struct {
	DocumentID          string   `json:"document_id"`
	Filename            string   `json:"filename"`
	Size                int64    `json:"size"`
	PredefinedQuestions []string `json:"predefined_questions"`
}

// DocumentService coordinates file storage, text extraction, and document
// metadata persistence.
type DocumentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Files holds the uploaded file bytes.
	Files FileStore
	// ExtractText derives plain text from a stored file.
	ExtractText ExtractFunc

	// MaxFiles caps the number of files per upload batch.
	MaxFiles int
}

// NewDocumentService constructs a DocumentService with the default batch cap.
func NewDocumentService(db *gorm.DB, files FileStore) *DocumentService {
	return &DocumentService{
		DB:          db,
		Files:       files,
		ExtractText: extract.Text,
		MaxFiles:    5,
	}
}

// Ingest stores an upload batch. The batch cap is checked before any write.
// Files with unsupported extensions are skipped; each accepted file is saved
// to the blob store under a generated id, its text is extracted, and its
// metadata is persisted. A metadata failure removes the stored blob.
func (s *DocumentService) Ingest(ctx context.Context, files []UploadInput) ([]UploadedDocument, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Ingest",
		trace.WithAttributes(attribute.Int("upload.files", len(files))),
	)
	defer span.End()

	log := zerolog.Ctx(ctx)

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > s.MaxFiles {
		return nil, ErrTooManyFiles
	}

	var uploaded []UploadedDocument
	for _, f := range files {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Filename)), ".")
		if !extract.SupportedExt(ext) {
			log.Warn().Str("filename", f.Filename).Str("ext", ext).
				Msg("skipping unsupported file type")
			continue
		}

		// Storage key derives from the generated id, never from the
		// user-supplied filename.
		id := uuid.NewString()
		key := id + "." + ext

		size, err := s.Files.Save(ctx, key, f.Data)
		if err != nil {
			return nil, &SaveError{Filename: f.Filename, Err: err}
		}

		text := s.extractText(ctx, s.Files.Path(key), ext)

		doc := &domain.Document{
			ID:          id,
			Filename:    f.Filename,
			StoragePath: key,
			TextContent: text,
			FileSize:    size,
			UploadDate:  time.Now().UTC(),
		}
		if err := repo.CreateDocument(ctx, s.DB, doc); err != nil {
			// Roll back the blob so the store and the table stay in step.
			if rerr := s.Files.Remove(ctx, key); rerr != nil {
				log.Error().Err(rerr).Str("key", key).
					Msg("orphaned file after failed metadata insert")
			}
			return nil, &PersistError{Filename: f.Filename, Err: err}
		}

		uploaded = append(uploaded, UploadedDocument{
			DocumentID:          id,
			Filename:            f.Filename,
			Size:                size,
			PredefinedQuestions: PredefinedQuestions,
		})
	}

	if len(uploaded) == 0 {
		return nil, ErrNoSupportedFiles
	}
	return uploaded, nil
}

// Get returns one document by id, or ErrDocumentNotFound.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := repo.GetDocument(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return repo.ListDocuments(ctx, s.DB)
}

// Recent returns the most recently uploaded documents, newest first.
func (s *DocumentService) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	return repo.ListRecentDocuments(ctx, s.DB, limit)
}

// Count returns the number of stored documents.
func (s *DocumentService) Count(ctx context.Context) (int64, error) {
	return repo.CountDocuments(ctx, s.DB)
}

// Delete removes a document's metadata row, every chat turn that references
// it, and finally the stored file. The file removal is best effort: a missing
// blob is logged, not surfaced, because the database rows are already gone.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("document.id", id)),
	)
	defer span.End()

	log := zerolog.Ctx(ctx)

	doc, err := repo.GetDocument(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return err
	}

	turns, err := repo.DeleteTurnsReferencing(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if err := repo.DeleteDocument(ctx, s.DB, id); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	if err := s.Files.Remove(ctx, doc.StoragePath); err != nil {
		log.Warn().Err(err).Str("key", doc.StoragePath).
			Msg("document removed from database but file removal failed")
	}

	log.Info().Str("document_id", id).Int64("turns_removed", turns).
		Msg("document deleted")
	return nil
}

func (s *DocumentService) extractText(ctx context.Context, path, ext string) string {
	if s.ExtractText != nil {
		return s.ExtractText(ctx, path, ext)
	}
	return extract.Text(ctx, path, ext)
}
