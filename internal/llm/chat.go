package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avillegas/care-assistant/internal/config"
)

// Chat answers open questions from the user through an external chat
// provider.
type Chat interface {
	Ask(ctx context.Context, question string) (string, error)
}

const (
	// DefaultEndpoint is the generative-language chat completion URL.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

	// promptPrefix steers answers toward brief, warm Spanish suited to
	// elderly users.
	promptPrefix = "Responde en español, con un tono amable y de cuidado a personas adultas, y sé breve: "

	// requestTimeout bounds one chat completion call.
	requestTimeout = 30 * time.Second
)

var (
	// ErrNotConfigured is returned when the API key is absent.
	ErrNotConfigured = errors.New("assistant chat is not configured")
	// errEmptyAnswer indicates the provider returned no usable text.
	errEmptyAnswer = errors.New("empty answer from provider")
	// errProviderStatus indicates a non-2xx provider response.
	errProviderStatus = errors.New("unexpected provider status")
)

// HTTPChat is a minimal REST client for the generative-language endpoint.
type HTTPChat struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewHTTPChat builds a chat client from the optional assistant settings.
func NewHTTPChat(cfg config.AssistantConfig) *HTTPChat {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &HTTPChat{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether the chat collaborator can operate.
func (c *HTTPChat) Configured() bool {
	return c.apiKey != ""
}

// request/response mirror the minimal subset of the provider wire format.
type (
	part    struct {
		Text string `json:"text"`
	}
	content struct {
		Parts []part `json:"parts"`
	}
	request struct {
		Contents []content `json:"contents"`
	}
	candidate struct {
		Content content `json:"content"`
	}
	response struct {
		Candidates []candidate `json:"candidates"`
	}
)

// Ask sends the question with the care-tone prefix and returns the answer text.
func (c *HTTPChat) Ask(ctx context.Context, question string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(request{
		Contents: []content{{Parts: []part{{Text: promptPrefix + question}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call chat provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status %d: %w", resp.StatusCode, errProviderStatus)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyAnswer
	}

	answer := parsed.Candidates[0].Content.Parts[0].Text
	if answer == "" {
		return "", errEmptyAnswer
	}

	return answer, nil
}
