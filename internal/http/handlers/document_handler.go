// Document HTTP handlers.
//
// This file exposes the document endpoints:
//   - POST /upload                              (ingest up to 5 files)
//   - GET  /documents                           (public listing)
//   - GET  /predefined-questions/{document_id}  (suggestions for a document)
//
// Upload semantics: the batch cap is enforced before any byte is written, so
// an oversized batch persists nothing. Unsupported file types are skipped;
// the request only fails when no file in the batch could be accepted.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpusjateng/docchat-backend/internal/http/middleware"
	"github.com/arpusjateng/docchat-backend/internal/services"
)

// UploadResponse wraps the accepted files of one upload batch.
type UploadResponse struct {
	UploadedDocuments []services.UploadedDocument `json:"uploaded_documents"`
	Message           string                      `json:"message"`
}

// DocumentInfo is the public listing entry for one document.
type DocumentInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	UploadDate string `json:"upload_date"`
	FileSize   int64  `json:"file_size"`
}

// ListDocumentsResponse wraps the public document listing.
type ListDocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

// PredefinedQuestionsResponse pairs the suggestion list with the document it
// was requested for.
type PredefinedQuestionsResponse struct {
	Questions  []string `json:"questions"`
	DocumentID string   `json:"document_id"`
}

// Upload godoc
// @ID          uploadDocuments
// @Summary     Upload documents
// @Description Ingests up to 5 files (pdf, docx, doc, txt). Unsupported types are skipped.
// @Tags        Documents
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       files  formData  file  true  "Files to upload (repeatable)"
//
// @Success     200  {object}  handlers.UploadResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Too many files / nothing accepted"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /upload [post]
func (h *Handlers) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Tidak ada file yang dipilih untuk diunggah.")
		return
	}

	headers := form.File["files"]
	inputs := make([]services.UploadInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed,
				fmt.Sprintf("Gagal menyimpan file '%s'.", fh.Filename))
			return
		}
		defer f.Close()
		inputs = append(inputs, services.UploadInput{Filename: fh.Filename, Data: f})
	}

	docs, err := h.docSvc.Ingest(c.Request.Context(), inputs)
	if err != nil {
		var saveErr *services.SaveError
		var persistErr *services.PersistError
		switch {
		case errors.Is(err, services.ErrNoFiles):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Tidak ada file yang dipilih untuk diunggah.")
		case errors.Is(err, services.ErrTooManyFiles):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Maksimal 5 file diizinkan.")
		case errors.Is(err, services.ErrNoSupportedFiles):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Tidak ada file yang diunggah karena format tidak didukung.")
		case errors.As(err, &saveErr):
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed,
				fmt.Sprintf("Gagal menyimpan file '%s'.", saveErr.Filename))
		case errors.As(err, &persistErr):
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed,
				fmt.Sprintf("Gagal menyimpan metadata dokumen '%s'.", persistErr.Filename))
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	middleware.DocumentsUploaded.Add(float64(len(docs)))

	ok(c, http.StatusOK, UploadResponse{
		UploadedDocuments: docs,
		Message:           fmt.Sprintf("%d dokumen berhasil diunggah.", len(docs)),
	})
}

// ListDocuments godoc
// @ID          listDocuments
// @Summary     List documents
// @Description Returns all documents, newest first. Public access.
// @Tags        Documents
// @Produce     json
//
// @Success     200  {object}  handlers.ListDocumentsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /documents [get]
func (h *Handlers) ListDocuments(c *gin.Context) {
	docs, err := h.docSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := make([]DocumentInfo, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentInfo{
			ID:         d.ID,
			Filename:   d.Filename,
			UploadDate: d.UploadDate.Format(timeLayout),
			FileSize:   d.FileSize,
		})
	}
	ok(c, http.StatusOK, ListDocumentsResponse{Documents: out})
}

// PredefinedQuestions godoc
// @ID          predefinedQuestions
// @Summary     Predefined questions for a document
// @Description Returns the suggestion list when the document exists.
// @Tags        Chat
// @Produce     json
//
// @Param       document_id  path  string  true  "Document ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.PredefinedQuestionsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Document not found"
// @Router      /predefined-questions/{document_id} [get]
func (h *Handlers) PredefinedQuestions(c *gin.Context) {
	id := c.Param("document_id")

	if _, err := h.docSvc.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Dokumen tidak ditemukan.")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, PredefinedQuestionsResponse{
		Questions:  services.PredefinedQuestions,
		DocumentID: id,
	})
}
