package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/tabtrans/internal/config"
)

// GeminiCompleter sends prompts through the Gemini API
type GeminiCompleter struct {
	client *genai.Client
	model  string
	gen    *genai.GenerateContentConfig
}

// NewGeminiCompleter creates a Gemini completer from the loaded config.
// api_url, when set, overrides the default Gemini base URL.
func NewGeminiCompleter(ctx context.Context, cfg *config.Config) (*GeminiCompleter, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout()},
	}
	if strings.TrimSpace(cfg.APIURL) != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.APIURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCompleter{
		client: client,
		model:  cfg.ModelName,
		gen:    geminiGenerationConfig(cfg),
	}, nil
}

func geminiGenerationConfig(cfg *config.Config) *genai.GenerateContentConfig {
	gen := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(cfg.MaxTokens),
		Temperature:      genai.Ptr(float32(cfg.Temperature)),
		TopP:             genai.Ptr(float32(cfg.TopP)),
		TopK:             genai.Ptr(float32(cfg.TopK)),
		FrequencyPenalty: genai.Ptr(float32(cfg.FrequencyPenalty)),
	}
	if !cfg.EnableThinking {
		gen.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
	}
	return gen
}

// Complete sends the prompt as a single user turn
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.gen)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: Gemini returned no candidates", ErrMissingChoices)
	}
	return text, nil
}
