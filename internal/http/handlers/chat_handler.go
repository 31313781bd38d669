// Chat HTTP handler.
//
// POST /chat runs one turn: resolve the referenced documents, build the
// prompt, call the completion provider, persist the turn, and answer. The
// endpoint returns 200 even when the provider is unreachable; in that case
// the response field carries a fixed user-facing failure message.
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous completed
// turn exists for that key, the handler replays the persisted response and
// sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/http/middleware"
	"github.com/arpusjateng/docchat-backend/internal/repo"
	"github.com/arpusjateng/docchat-backend/internal/services"
)

// ChatRequest is the JSON payload for one chat turn.
type ChatRequest struct {
	// Message is the user question.
	Message string `json:"message" binding:"required" example:"Apa ringkasan dari dokumen ini?"`
	// DocumentIDs selects the documents to answer against; empty means
	// general knowledge.
	DocumentIDs []string `json:"document_ids"`
	// IsPredefined marks the message as one of the suggested questions.
	IsPredefined bool `json:"is_predefined"`
}

// Chat godoc
// @ID          chat
// @Summary     Ask a question
// @Description Runs one chat turn against the selected documents. Always 200; provider failures surface as a fixed message in the response field.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"
// @Param       body             body    handlers.ChatRequest  true  "Chat payload"
//
// @Success     200  {object}  services.ChatResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	// Replay path: serve the previously persisted turn for this key.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if rec, err := repo.GetIdempotency(ctx, h.db, domain.SessionGuest, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if res, err2 := h.replayTurn(c, rec.TurnID); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, res)
				return
			}
		}
	}

	res, err := h.chatSvc.Answer(ctx, req.Message, req.DocumentIDs, req.IsPredefined)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	outcome := "answered"
	if res.Fallback {
		outcome = "fallback"
	}
	middleware.ChatTurns.WithLabelValues(outcome).Inc()

	// Store path, best effort: only completed turns are replayable.
	if idemKey != "" && h.db != nil && res.TurnID != 0 {
		_, _ = repo.CreateIdempotency(ctx, h.db, domain.SessionGuest, idemKey, res.TurnID, http.StatusOK, h.idemTTL)
	}

	ok(c, http.StatusOK, res)
}

// replayTurn rebuilds a ChatResult from a persisted turn. Source document
// names are resolved best effort; documents deleted since the original turn
// are simply absent from the list.
func (h *Handlers) replayTurn(c *gin.Context, turnID int64) (*services.ChatResult, error) {
	ctx := c.Request.Context()

	turn, err := repo.GetTurn(ctx, h.db, turnID)
	if err != nil {
		return nil, err
	}

	var names []string
	if ids := turn.DocumentIDList(); len(ids) > 0 {
		if docs, err := repo.GetDocuments(ctx, h.db, ids); err == nil {
			for _, d := range docs {
				names = append(names, d.Filename)
			}
		}
	}

	return &services.ChatResult{
		Response:            turn.Response,
		SourceDocuments:     names,
		PredefinedQuestions: []string{},
		TurnID:              turn.ID,
	}, nil
}
