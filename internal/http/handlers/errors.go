// Package handlers defines the HTTP-layer error codes used across endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them for
// programmatic handling while the accompanying message carries the
// user-facing (Indonesian) wording. Handlers select the most specific
// matching code and pass it to fail() with the HTTP status.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeForbidden   = "forbidden"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeUploadFailed     = "upload_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeDeleteFailed     = "delete_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
