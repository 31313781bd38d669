// Package services – ChatService
//
// This file implements ChatService, which drives a single chat turn: resolve
// the referenced documents, assemble the rule-constrained prompt, invoke the
// completion provider, persist the turn, and shape the response.
//
// The turn never fails because the provider does: provider errors are mapped
// to fixed user-facing messages and returned as the response body. A history
// write failure is logged and swallowed for the same reason; the answer the
// user is waiting for takes precedence over the audit trail.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/groq"
	"github.com/arpusjateng/docchat-backend/internal/prompt"
	"github.com/arpusjateng/docchat-backend/internal/repo"
)

// Completer is the completion provider contract. Implemented by groq.Client;
// faked in tests.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	// Response is the assistant answer, or a fixed provider-failure message.
	Response string `json:"response"`
	// SourceDocuments lists the filenames of the documents that were resolved
	// and included in the prompt, in request order.
	SourceDocuments []string `json:"source_documents"`
	// PredefinedQuestions holds follow-up suggestions, populated only for
	// free-form questions asked against documents.
	PredefinedQuestions []string `json:"predefined_questions"`

	// TurnID identifies the persisted history row; zero when the write failed.
	TurnID int64 `json:"-"`
	// Fallback is set when Response carries a provider-failure message
	// instead of a model answer.
	Fallback bool `json:"-"`
}

// ChatService coordinates document resolution, prompt assembly, the
// completion call, and history persistence for one turn.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// AI is the completion provider.
	AI Completer
	// Prompt assembles the model-facing prompt.
	Prompt prompt.Assembler

	// MaxTokens caps the completion length.
	MaxTokens int
}

// NewChatService constructs a ChatService with the default completion cap.
func NewChatService(db *gorm.DB, ai Completer) *ChatService {
	return &ChatService{
		DB:        db,
		AI:        ai,
		MaxTokens: groq.DefaultMaxTokens,
	}
}

// Answer runs one chat turn for the guest session. Unknown document ids are
// dropped with a warning; a matched document with empty extracted text is
// still listed in the prompt so the model can see it exists.
func (s *ChatService) Answer(ctx context.Context, message string, documentIDs []string, isPredefined bool) (*ChatResult, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.Int("chat.document_ids", len(documentIDs)),
			attribute.Bool("chat.is_predefined", isPredefined),
		),
	)
	defer span.End()

	log := zerolog.Ctx(ctx)

	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	docs, err := s.resolveDocuments(ctx, documentIDs)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.TextContent == "" {
			log.Warn().Str("document_id", d.ID).
				Msg("document has no text content for chat context")
		}
		names = append(names, d.Filename)
	}

	promptText := s.Prompt.Build(message, docs)

	answer, err := s.AI.Complete(ctx, promptText, s.maxTokens())
	fallback := err != nil
	if err != nil {
		log.Error().Err(err).Msg("completion provider call failed")
		answer = groq.FallbackMessage(err)
	}

	res := &ChatResult{
		Response:            answer,
		SourceDocuments:     names,
		PredefinedQuestions: []string{},
		Fallback:            fallback,
	}
	if len(documentIDs) > 0 && !isPredefined {
		res.PredefinedQuestions = PredefinedQuestions
	}

	turn := &domain.ChatTurn{
		SessionID:    domain.SessionGuest,
		Message:      message,
		Response:     answer,
		IsPredefined: isPredefined,
	}
	if err := repo.AppendTurn(ctx, s.DB, turn, documentIDs); err != nil {
		// Logged but not surfaced: the response itself is more critical than
		// the audit trail.
		log.Error().Err(err).Msg("failed to persist chat turn")
	} else {
		res.TurnID = turn.ID
	}

	return res, nil
}

// resolveDocuments fetches the referenced documents and restores request
// order. Ids that match nothing are logged and dropped.
func (s *ChatService) resolveDocuments(ctx context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := repo.GetDocuments(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Document, len(found))
	for _, d := range found {
		byID[d.ID] = d
	}

	docs := make([]domain.Document, 0, len(found))
	var missing []string
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			docs = append(docs, d)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		zerolog.Ctx(ctx).Warn().Strs("document_ids", missing).
			Msg("document ids not found for chat context")
	}
	return docs, nil
}

func (s *ChatService) maxTokens() int {
	if s.MaxTokens > 0 {
		return s.MaxTokens
	}
	return groq.DefaultMaxTokens
}
