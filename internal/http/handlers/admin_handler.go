// Admin HTTP handlers.
//
// The /admin surface backs a simple dashboard: aggregate statistics, the full
// document listing, and document deletion (which cascades to the stored file
// and referencing history rows). Routes are gated by the demo admin query
// flag in middleware; there is no user management in the public access
// deployment, so the user endpoints are stubs kept for UI compatibility.
//
// GET /admin/documents supports a weak ETag derived from the document count
// and the newest upload timestamp, so the dashboard can poll cheaply.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arpusjateng/docchat-backend/internal/repo"
	"github.com/arpusjateng/docchat-backend/internal/services"
)

// recentActivityLimit caps the merged activity feed on the dashboard.
const recentActivityLimit = 10

// ActivityItem is one entry in the admin dashboard's activity feed.
type ActivityItem struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// AdminStatsResponse aggregates counters and recent activity.
type AdminStatsResponse struct {
	TotalDocuments int64          `json:"total_documents"`
	TotalChats     int64          `json:"total_chats"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// AdminDocumentInfo extends the public listing entry with placeholder
// uploader fields the dashboard renders.
type AdminDocumentInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	UploadDate string `json:"upload_date"`
	FileSize   int64  `json:"file_size"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}

// AdminStats godoc
// @ID          adminStats
// @Summary     Dashboard statistics
// @Description Returns document/chat totals and the ten most recent activities.
// @Tags        Admin
// @Produce     json
//
// @Param       is_admin_query  query  bool  true  "Demo admin flag"
//
// @Success     200  {object}  handlers.AdminStatsResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Admin access required"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/stats [get]
func (h *Handlers) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()

	totalDocs, err := h.docSvc.Count(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal,
			fmt.Sprintf("Gagal memuat statistik admin: %v", err))
		return
	}
	totalChats, err := h.histSvc.Count(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal,
			fmt.Sprintf("Gagal memuat statistik admin: %v", err))
		return
	}

	var activity []ActivityItem

	turns, err := h.histSvc.Recent(ctx, 5)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal,
			fmt.Sprintf("Gagal memuat statistik admin: %v", err))
		return
	}
	for _, t := range turns {
		docInfo := "Konteks Umum"
		if ids := t.DocumentIDList(); len(ids) > 0 {
			docInfo = "Dok. ID: " + strings.Join(ids, ", ")
		}
		activity = append(activity, ActivityItem{
			Type:        "chat",
			Username:    t.SessionID,
			Description: fmt.Sprintf("Bertanya (%s): %s", docInfo, clip(t.Message, 70)),
			Timestamp:   t.Timestamp.Format(timeLayout),
		})
	}

	docs, err := h.docSvc.Recent(ctx, 5)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal,
			fmt.Sprintf("Gagal memuat statistik admin: %v", err))
		return
	}
	for _, d := range docs {
		activity = append(activity, ActivityItem{
			Type:        "upload",
			Username:    "Pengunggah",
			Description: "Mengunggah: " + d.Filename,
			Timestamp:   d.UploadDate.Format(timeLayout),
		})
	}

	sort.Slice(activity, func(i, j int) bool {
		return activity[i].Timestamp > activity[j].Timestamp
	})
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}
	if activity == nil {
		activity = []ActivityItem{}
	}

	ok(c, http.StatusOK, AdminStatsResponse{
		TotalDocuments: totalDocs,
		TotalChats:     totalChats,
		RecentActivity: activity,
	})
}

// AdminDocuments godoc
// @ID          adminDocuments
// @Summary     All documents (admin view)
// @Description Returns every document with placeholder uploader fields. Supports weak ETag via If-None-Match.
// @Tags        Admin
// @Produce     json
//
// @Param       is_admin_query  query   bool    true   "Demo admin flag"
// @Param       If-None-Match   header  string  false  "Return 304 if ETag matches"
//
// @Success     200  {object}  map[string][]handlers.AdminDocumentInfo
// @Success     304  {string}  string  "Not Modified"
// @Failure     403  {object}  handlers.ErrorResponse  "Admin access required"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/documents [get]
func (h *Handlers) AdminDocuments(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.DocumentsStats(ctx, h.db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"documents:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	docs, err := h.docSvc.List(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := make([]AdminDocumentInfo, 0, len(docs))
	for _, d := range docs {
		out = append(out, AdminDocumentInfo{
			ID:         d.ID,
			Filename:   d.Filename,
			UploadDate: d.UploadDate.Format(timeLayout),
			FileSize:   d.FileSize,
			Username:   "N/A",
			Email:      "N/A",
		})
	}
	ok(c, http.StatusOK, gin.H{"documents": out})
}

// AdminDeleteDocument godoc
// @ID          adminDeleteDocument
// @Summary     Delete a document
// @Description Removes the document, its stored file, and every history entry referencing it.
// @Tags        Admin
// @Produce     json
//
// @Param       is_admin_query  query  bool    true  "Demo admin flag"
// @Param       document_id     path   string  true  "Document ID (UUID)"  format(uuid)
//
// @Success     200  {object}  map[string]string
// @Failure     403  {object}  handlers.ErrorResponse  "Admin access required"
// @Failure     404  {object}  handlers.ErrorResponse  "Document not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/documents/{document_id} [delete]
func (h *Handlers) AdminDeleteDocument(c *gin.Context) {
	id := c.Param("document_id")

	if err := h.docSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Dokumen tidak ditemukan.")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed,
			fmt.Sprintf("Gagal menghapus dokumen: %v", err))
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Dokumen berhasil dihapus."})
}

// AdminUsers godoc
// @ID          adminUsers
// @Summary     List users (stub)
// @Description User management is disabled in the public access deployment; always empty.
// @Tags        Admin
// @Produce     json
//
// @Param       is_admin_query  query  bool  true  "Demo admin flag"
//
// @Success     200  {array}   string
// @Failure     403  {object}  handlers.ErrorResponse  "Admin access required"
// @Router      /admin/users [get]
func (h *Handlers) AdminUsers(c *gin.Context) {
	ok(c, http.StatusOK, []any{})
}

// AdminDeleteUser godoc
// @ID          adminDeleteUser
// @Summary     Delete a user (stub)
// @Description Always rejected: user management is disabled in public access mode.
// @Tags        Admin
// @Produce     json
//
// @Param       is_admin_query  query  bool    true  "Demo admin flag"
// @Param       username        path   string  true  "Username"
//
// @Failure     400  {object}  handlers.ErrorResponse  "Disabled"
// @Failure     403  {object}  handlers.ErrorResponse  "Admin access required"
// @Router      /admin/users/{username} [delete]
func (h *Handlers) AdminDeleteUser(c *gin.Context) {
	fail(c, http.StatusBadRequest, ErrCodeBadRequest,
		"Manajemen pengguna dinonaktifkan dalam mode akses publik.")
}

// clip shortens s to max runes with an ellipsis suffix.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
