// History HTTP handlers.
//
// This file exposes the chat history endpoints:
//   - GET    /history               (recent turns, capped at 100, newest first)
//   - DELETE /history/{history_id}  (delete one turn)
//   - DELETE /history               (purge, reports the deleted count)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/services"
)

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(c *gin.Context, name string, def int) int {
	s := c.Query(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// HistoryItem is one chat turn in a history listing.
type HistoryItem struct {
	ID           int64    `json:"id"`
	SessionID    string   `json:"session_id"`
	Message      string   `json:"message"`
	Response     string   `json:"response"`
	Timestamp    string   `json:"timestamp"`
	IsPredefined bool     `json:"is_predefined"`
	DocumentIDs  []string `json:"document_ids"`
	// Username mirrors the session id for frontend display convenience.
	Username string `json:"username"`
}

// ListHistoryResponse wraps a history listing.
type ListHistoryResponse struct {
	History []HistoryItem `json:"history"`
}

// DeleteHistoryResponse reports the outcome of a history deletion.
type DeleteHistoryResponse struct {
	Message      string `json:"message"`
	Success      bool   `json:"success"`
	DeletedCount *int64 `json:"deleted_count,omitempty"`
}

func historyItem(t domain.ChatTurn) HistoryItem {
	return HistoryItem{
		ID:           t.ID,
		SessionID:    t.SessionID,
		Message:      t.Message,
		Response:     t.Response,
		Timestamp:    t.Timestamp.Format(timeLayout),
		IsPredefined: t.IsPredefined,
		DocumentIDs:  t.DocumentIDList(),
		Username:     t.SessionID,
	}
}

// ListHistory godoc
// @ID          listHistory
// @Summary     Recent chat history
// @Description Returns up to 100 turns, newest first. An optional limit query selects fewer.
// @Tags        Chat
// @Produce     json
//
// @Param       limit  query  int  false  "Max entries (1-100)"  minimum(1) maximum(100)
//
// @Success     200  {object}  handlers.ListHistoryResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	limit := queryInt(c, "limit", 0)

	turns, err := h.histSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := make([]HistoryItem, 0, len(turns))
	for _, t := range turns {
		out = append(out, historyItem(t))
	}
	ok(c, http.StatusOK, ListHistoryResponse{History: out})
}

// DeleteHistory godoc
// @ID          deleteHistory
// @Summary     Delete one history entry
// @Tags        Chat
// @Produce     json
//
// @Param       history_id  path  int  true  "History entry ID"
//
// @Success     200  {object}  handlers.DeleteHistoryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Entry not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history/{history_id} [delete]
func (h *Handlers) DeleteHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("history_id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "history id must be an integer")
		return
	}

	if err := h.histSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrTurnNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Riwayat chat tidak ditemukan.")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed,
			fmt.Sprintf("Gagal menghapus riwayat: %v", err))
		return
	}

	ok(c, http.StatusOK, DeleteHistoryResponse{
		Message: "Riwayat chat berhasil dihapus.",
		Success: true,
	})
}

// DeleteAllHistory godoc
// @ID          deleteAllHistory
// @Summary     Delete all history entries
// @Tags        Chat
// @Produce     json
//
// @Success     200  {object}  handlers.DeleteHistoryResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history [delete]
func (h *Handlers) DeleteAllHistory(c *gin.Context) {
	count, err := h.histSvc.DeleteAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed,
			fmt.Sprintf("Gagal menghapus semua riwayat: %v", err))
		return
	}

	ok(c, http.StatusOK, DeleteHistoryResponse{
		Message:      fmt.Sprintf("Semua riwayat chat berhasil dihapus (%d item).", count),
		Success:      true,
		DeletedCount: &count,
	})
}
