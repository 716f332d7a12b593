package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/tabtrans/internal/config"
)

// ErrNoAPIKey is returned when no API key is configured
var ErrNoAPIKey = errors.New("API key not found, set api_key in the config file or TABTRANS_API_KEY")

// Lister handles listing the models of the configured provider
type Lister struct {
	cfg *config.Config
}

// NewLister creates a new model lister
func NewLister(cfg *config.Config) *Lister {
	return &Lister{cfg: cfg}
}

// BaseURL derives the OpenAI-compatible base URL from a chat completion
// endpoint, e.g. https://host/v1/chat/completions -> https://host/v1
func BaseURL(apiURL string) string {
	base := strings.TrimRight(strings.TrimSpace(apiURL), "/")
	return strings.TrimSuffix(base, "/chat/completions")
}

// ListAvailableModels prints the sorted model IDs to out. The configured
// model is marked with an asterisk.
func (l *Lister) ListAvailableModels(ctx context.Context, out io.Writer) error {
	if strings.TrimSpace(l.cfg.APIKey) == "" {
		return ErrNoAPIKey
	}

	var (
		ids []string
		err error
	)
	switch l.cfg.Provider {
	case config.ProviderGemini:
		ids, err = l.geminiModels(ctx)
	default:
		ids, err = l.openAIModels(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	sort.Strings(ids)

	fmt.Fprintf(out, "Available models (%s):\n", l.cfg.Provider)
	if len(ids) == 0 {
		fmt.Fprintln(out, "  No models found")
		return nil
	}
	for _, id := range ids {
		marker := " "
		if id == l.cfg.ModelName || strings.TrimPrefix(id, "models/") == l.cfg.ModelName {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %s\n", marker, id)
	}
	return nil
}

func (l *Lister) openAIModels(ctx context.Context) ([]string, error) {
	clientCfg := openai.DefaultConfig(l.cfg.APIKey)
	clientCfg.BaseURL = BaseURL(l.cfg.APIURL)
	client := openai.NewClientWithConfig(clientCfg)

	list, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		ids = append(ids, model.ID)
	}
	return ids, nil
}

func (l *Lister) geminiModels(ctx context.Context) ([]string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  l.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(l.cfg.APIURL) != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: l.cfg.APIURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, err
	}

	var ids []string
	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, model.Name)
	}
	return ids, nil
}
