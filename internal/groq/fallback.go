package groq

import (
	"errors"
	"fmt"
)

// User-safe Indonesian messages returned in place of a model answer when the
// provider call fails. The chat endpoint records and returns these as if they
// were valid completions; no error crosses that boundary.
const (
	msgNoAPIKey     = "Error: GROQ API key not configured. Please check your .env file."
	msgConnection   = "Error: Tidak dapat terhubung ke GROQ API. Periksa koneksi internet Anda."
	msgTimeout      = "Error: Permintaan ke GROQ API habis waktu (timeout). Silakan coba lagi."
	msgUnauthorized = "Error: Kunci API GROQ tidak valid. Periksa kredensial Anda."
	msgRateLimited  = "Error: Batas permintaan (rate limit) terlampaui. Silakan coba lagi nanti."
	msgBadPayload   = "Error: Invalid response format from GROQ API."
)

// FallbackMessage maps a Complete error to the message that substitutes for
// the model answer.
func FallbackMessage(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return msgNoAPIKey
	case errors.Is(err, ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, ErrRateLimited):
		return msgRateLimited
	case errors.Is(err, ErrTimeout):
		return msgTimeout
	case errors.Is(err, ErrConnection):
		return msgConnection
	case errors.Is(err, ErrBadPayload):
		return msgBadPayload
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Error: GROQ API mengembalikan status %d.", statusErr.Code)
	default:
		return fmt.Sprintf("Error internal saat berinteraksi dengan AI: %v", err)
	}
}
