package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() map[string]interface{} {
	return map[string]interface{}{
		"api_url":           "https://api.example.com/v1/chat/completions",
		"api_timeout":       60,
		"model_name":        "Qwen/Qwen3-8B",
		"max_tokens":        4096,
		"temperature":       0.3,
		"top_p":             0.7,
		"top_k":             50,
		"frequency_penalty": 0.5,
		"enable_thinking":   false,
		"api_key":           "sk-test",
		"translation_prompt": map[string]interface{}{
			"instruction":  "Translate from {source_lang} to {target_lang}.",
			"requirements": []string{"Return a JSON array.", "Keep the order."},
		},
		"api_delay":           0.5,
		"max_batch_size":      50,
		"default_file":        "input.xlsx",
		"default_column":      2,
		"default_source_lang": "en",
		"default_target_lang": "zh",
		"default_batch_size":  10,
	}
}

func writeConfig(t *testing.T, values map[string]interface{}) string {
	t.Helper()

	data, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	path := filepath.Join(t.TempDir(), "AI_config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"APIURL", cfg.APIURL, "https://api.example.com/v1/chat/completions"},
		{"ModelName", cfg.ModelName, "Qwen/Qwen3-8B"},
		{"MaxTokens", cfg.MaxTokens, 4096},
		{"Temperature", cfg.Temperature, 0.3},
		{"TopK", cfg.TopK, 50},
		{"EnableThinking", cfg.EnableThinking, false},
		{"Instruction", cfg.Prompt.Instruction, "Translate from {source_lang} to {target_lang}."},
		{"Requirements", len(cfg.Prompt.Requirements), 2},
		{"MaxBatchSize", cfg.MaxBatchSize, 50},
		{"DefaultColumn", cfg.DefaultColumn, 2},
		{"DefaultTargetLang", cfg.DefaultTargetLang, "zh"},
		// Optional keys fall back to defaults
		{"Provider", cfg.Provider, ProviderOpenAI},
		{"MaxRetries", cfg.MaxRetries, 3},
		{"RetryDelay", cfg.RetryDelay, 1.0},
		{"FailureThreshold", cfg.CircuitBreaker.FailureThreshold, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_OptionalKeysOverride(t *testing.T) {
	values := validConfig()
	values["max_retries"] = 5
	values["retry_delay"] = 0.25
	values["circuit_breaker"] = map[string]interface{}{"failure_threshold": 4, "cooldown": 10}

	cfg, err := Load(writeConfig(t, values))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryWait() != 250*time.Millisecond {
		t.Errorf("RetryWait() = %v, want 250ms", cfg.RetryWait())
	}
	if cfg.CircuitBreaker.FailureThreshold != 4 {
		t.Errorf("FailureThreshold = %d, want 4", cfg.CircuitBreaker.FailureThreshold)
	}
	if cfg.BreakerCooldown() != 10*time.Second {
		t.Errorf("BreakerCooldown() = %v, want 10s", cfg.BreakerCooldown())
	}
}

func TestLoad_MissingKeys(t *testing.T) {
	values := validConfig()
	delete(values, "api_url")
	delete(values, "translation_prompt")

	_, err := Load(writeConfig(t, values))
	if err == nil {
		t.Fatal("Expected error for missing keys")
	}
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}

	for _, key := range []string{"api_url", "translation_prompt.instruction", "translation_prompt.requirements"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected error to name %q, got %v", key, err)
		}
	}
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	values := validConfig()
	delete(values, "api_key")

	t.Setenv("TABTRANS_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, values))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		wantErr bool
	}{
		{"valid", func(m map[string]interface{}) {}, false},
		{"blank api key", func(m map[string]interface{}) { m["api_key"] = "  " }, true},
		{"blank api url", func(m map[string]interface{}) { m["api_url"] = "" }, true},
		{"zero timeout", func(m map[string]interface{}) { m["api_timeout"] = 0 }, true},
		{"zero max batch size", func(m map[string]interface{}) { m["max_batch_size"] = 0 }, true},
		{"negative retries", func(m map[string]interface{}) { m["max_retries"] = -1 }, true},
		{"negative delay", func(m map[string]interface{}) { m["api_delay"] = -1 }, true},
		{"unknown provider", func(m map[string]interface{}) { m["provider"] = "carrier-pigeon" }, true},
		{"gemini without url", func(m map[string]interface{}) {
			m["provider"] = ProviderGemini
			m["api_url"] = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validConfig()
			tt.mutate(values)

			_, err := Load(writeConfig(t, values))
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Expected ErrInvalidValue, got %v", err)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{APITimeout: 1.5, APIDelay: 0.2, RetryDelay: 2}

	if cfg.Timeout() != 1500*time.Millisecond {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if cfg.BatchDelay() != 200*time.Millisecond {
		t.Errorf("BatchDelay() = %v", cfg.BatchDelay())
	}
	if cfg.RetryWait() != 2*time.Second {
		t.Errorf("RetryWait() = %v", cfg.RetryWait())
	}
}
