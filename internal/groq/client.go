// Package groq is a thin client for the Groq chat-completions API
// (OpenAI-compatible). One prompt in, one completion out, non-streaming.
//
// Failures are classified into a small set of sentinel errors so the service
// layer can translate each into the user-safe Indonesian message that stands
// in for a model answer; see FallbackMessage.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Completion parameters fixed by the product contract.
const (
	Temperature = 0.7
	TopP        = 0.9

	// DefaultMaxTokens bounds the model output for a chat turn.
	DefaultMaxTokens = 1500
	// pingMaxTokens bounds the output of the health-check call.
	pingMaxTokens = 20

	systemPersona = "Anda adalah asisten analisis dokumen yang membantu staf dan publik di Dinas Kearsipan dan Perpustakaan Provinsi Jawa Tengah (Dinas Arpus Jateng). Berikan jawaban yang akurat, informatif, dan relevan dalam bahasa Indonesia."
)

// Sentinel errors for the failure classes the product distinguishes.
var (
	ErrNoAPIKey     = errors.New("groq: api key not configured")
	ErrUnauthorized = errors.New("groq: invalid api key")
	ErrRateLimited  = errors.New("groq: rate limit exceeded")
	ErrTimeout      = errors.New("groq: request timed out")
	ErrConnection   = errors.New("groq: connection failed")
	ErrBadPayload   = errors.New("groq: invalid response format")
)

// Client calls the chat-completions endpoint with a bounded timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// New builds a Client. timeout bounds the whole request; after it elapses the
// call is treated as a failure, never retried.
func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt with the fixed system persona and returns the model
// output. Every failure maps to one of the package sentinel errors (possibly
// wrapped with detail).
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPersona},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: Temperature,
		TopP:        TopP,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 300:
		return "", &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrBadPayload
	}
	return parsed.Choices[0].Message.Content, nil
}

// Ping performs a minimal completion to verify connectivity, for health
// checks.
func (c *Client) Ping(ctx context.Context) error {
	out, err := c.Complete(ctx, "Test koneksi, balas 'Koneksi berhasil.'", pingMaxTokens)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(out), "koneksi berhasil") {
		return fmt.Errorf("%w: unexpected reply", ErrBadPayload)
	}
	return nil
}

// StatusError reports an unexpected HTTP status from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("groq: unexpected status %d", e.Code)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
