// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope and helpers for the common success
// and failure patterns, so every endpoint answers in the same shape.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error formatting and logs 5xx responses with the
//     request-scoped logger.
//   - User-facing messages on this API are Indonesian; codes stay
//     machine-readable snake_case.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "Dokumen tidak ditemukan."
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpusjateng/docchat-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Dokumen tidak ditemukan."`
}

// fail aborts the request with a structured error. Server errors (>= 500) are
// logged with the request-scoped logger before the response is written.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
