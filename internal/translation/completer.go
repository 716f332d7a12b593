package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/tabtrans/internal"
	"codeberg.org/snonux/tabtrans/internal/config"
)

// ErrMissingChoices is returned when a 2xx reply carries no completion
var ErrMissingChoices = errors.New("API response has no choices")

// Completer sends one prompt and returns the raw model text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPError is a non-2xx reply from the completion endpoint
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string // first bytes of the reply, for diagnostics
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// chatRequest is the body posted to an OpenAI-compatible endpoint. It
// extends the standard shape with top_k and enable_thinking, which
// several hosted open-weight model APIs accept.
type chatRequest struct {
	Model            string                         `json:"model"`
	Messages         []openai.ChatCompletionMessage `json:"messages"`
	Stream           bool                           `json:"stream"`
	MaxTokens        int                            `json:"max_tokens"`
	Temperature      float64                        `json:"temperature"`
	TopP             float64                        `json:"top_p"`
	TopK             int                            `json:"top_k"`
	FrequencyPenalty float64                        `json:"frequency_penalty"`
	EnableThinking   bool                           `json:"enable_thinking"`
}

// ChatCompleter posts prompts to an OpenAI-compatible chat completions URL
type ChatCompleter struct {
	url    string
	apiKey string
	params chatRequest
	do     func(*http.Request) (*http.Response, error)
}

// NewChatCompleter creates a completer from the loaded config
func NewChatCompleter(cfg *config.Config) *ChatCompleter {
	hc := &http.Client{Timeout: cfg.Timeout()}
	return &ChatCompleter{
		url:    cfg.APIURL,
		apiKey: cfg.APIKey,
		params: chatRequest{
			Model:            cfg.ModelName,
			Stream:           false,
			MaxTokens:        cfg.MaxTokens,
			Temperature:      cfg.Temperature,
			TopP:             cfg.TopP,
			TopK:             cfg.TopK,
			FrequencyPenalty: cfg.FrequencyPenalty,
			EnableThinking:   cfg.EnableThinking,
		},
		do: hc.Do,
	}
}

// Complete sends the prompt as a single user message
func (c *ChatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := c.params
	reqBody.Messages = []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		},
	}

	body, err := json.Marshal(&reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", newHTTPError(resp.StatusCode, slurp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("%w: invalid API response: %s", ErrMissingChoices, internal.Truncate(string(raw), 200))
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingChoices, internal.Truncate(string(raw), 200))
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{
		StatusCode: status,
		Body:       internal.Truncate(string(body), 500),
	}

	var apiErr openai.ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
		e.Message = apiErr.Error.Message
	} else {
		e.Message = strings.TrimSpace(internal.Truncate(string(body), 200))
	}
	return e
}
