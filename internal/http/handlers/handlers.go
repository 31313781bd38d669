// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Business rules live in
// the services package; persistence lives behind it.
package handlers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/services"
)

// timeLayout formats timestamps in API responses.
const timeLayout = time.RFC3339

//
// Service contracts (context-aware)
//

// DocumentService defines the document lifecycle operations consumed by the
// HTTP handlers. Implementations must be safe for concurrent use and honor
// the provided context.
type DocumentService interface {
	// Ingest stores an upload batch and returns one entry per accepted file.
	Ingest(ctx context.Context, files []services.UploadInput) ([]services.UploadedDocument, error)
	// Get returns one document by id.
	Get(ctx context.Context, id string) (*domain.Document, error)
	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)
	// Recent returns the most recently uploaded documents.
	Recent(ctx context.Context, limit int) ([]domain.Document, error)
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int64, error)
	// Delete removes a document, its file, and referencing history rows.
	Delete(ctx context.Context, id string) error
}

// ChatService runs one chat turn.
type ChatService interface {
	Answer(ctx context.Context, message string, documentIDs []string, isPredefined bool) (*services.ChatResult, error)
}

// HistoryService serves the chat history endpoints.
type HistoryService interface {
	Recent(ctx context.Context, limit int) ([]domain.ChatTurn, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// AIHealth is the completion provider's liveness probe.
type AIHealth interface {
	Ping(ctx context.Context) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for documents, chat, history, health,
// and the admin surface.
type Handlers struct {
	docSvc  DocumentService
	chatSvc ChatService
	histSvc HistoryService

	ai      AIHealth
	aiModel string

	// db backs the health probe, ETag stats, and idempotency records.
	db *gorm.DB

	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
func New(docSvc DocumentService, chatSvc ChatService, histSvc HistoryService, ai AIHealth, db *gorm.DB, aiModel string) *Handlers {
	return &Handlers{
		docSvc:  docSvc,
		chatSvc: chatSvc,
		histSvc: histSvc,
		ai:      ai,
		aiModel: aiModel,
		db:      db,
		idemTTL: 24 * time.Hour,
	}
}
