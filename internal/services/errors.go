// Package services defines the business logic for document ingestion, chat
// turns, and history. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrTooManyFiles is returned when an upload batch exceeds the per-request
	// file cap. Enforced before any file is written.
	ErrTooManyFiles = errors.New("too many files")

	// ErrNoFiles is returned when an upload request carries no files at all.
	ErrNoFiles = errors.New("no files selected")

	// ErrNoSupportedFiles is returned when every file in an upload batch has
	// an unsupported extension.
	ErrNoSupportedFiles = errors.New("no supported files")

	// ErrDocumentNotFound indicates that the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrTurnNotFound indicates that the requested history entry does not exist.
	ErrTurnNotFound = errors.New("history entry not found")

	// ErrEmptyMessage is returned when a chat request contains a blank message.
	ErrEmptyMessage = errors.New("message is empty")
)
