package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is used when no --config flag is given
const DefaultPath = "AI_config.json"

// Provider names accepted by the provider key
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	// ErrMissingKey is returned when one or more required keys are absent
	ErrMissingKey = errors.New("missing required config key")
	// ErrInvalidValue is returned when a key is present but unusable
	ErrInvalidValue = errors.New("invalid config value")
)

// requiredKeys lists every key the config file must define
var requiredKeys = []string{
	"api_url",
	"api_timeout",
	"model_name",
	"max_tokens",
	"temperature",
	"top_p",
	"top_k",
	"frequency_penalty",
	"enable_thinking",
	"api_key",
	"translation_prompt.instruction",
	"translation_prompt.requirements",
	"api_delay",
	"max_batch_size",
	"default_file",
	"default_column",
	"default_source_lang",
	"default_target_lang",
	"default_batch_size",
}

// PromptConfig holds the prompt template sent with every batch
type PromptConfig struct {
	Instruction  string   `mapstructure:"instruction"`
	Requirements []string `mapstructure:"requirements"`
}

// BreakerConfig configures the optional circuit breaker around API calls
type BreakerConfig struct {
	FailureThreshold int     `mapstructure:"failure_threshold"` // 0 disables the breaker
	Cooldown         float64 `mapstructure:"cooldown"`          // seconds spent open before probing
}

// Config holds all settings read from the config file
type Config struct {
	Provider string `mapstructure:"provider"`

	// API settings
	APIURL     string  `mapstructure:"api_url"`
	APIKey     string  `mapstructure:"api_key"`
	APITimeout float64 `mapstructure:"api_timeout"`

	// Generation parameters, sent verbatim
	ModelName        string  `mapstructure:"model_name"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	Temperature      float64 `mapstructure:"temperature"`
	TopP             float64 `mapstructure:"top_p"`
	TopK             int     `mapstructure:"top_k"`
	FrequencyPenalty float64 `mapstructure:"frequency_penalty"`
	EnableThinking   bool    `mapstructure:"enable_thinking"`

	Prompt PromptConfig `mapstructure:"translation_prompt"`

	// Pacing and retries
	APIDelay     float64 `mapstructure:"api_delay"`
	MaxBatchSize int     `mapstructure:"max_batch_size"`
	MaxRetries   int     `mapstructure:"max_retries"`
	RetryDelay   float64 `mapstructure:"retry_delay"`

	CircuitBreaker BreakerConfig `mapstructure:"circuit_breaker"`

	// Defaults for omitted CLI flags
	DefaultFile       string `mapstructure:"default_file"`
	DefaultColumn     int    `mapstructure:"default_column"`
	DefaultSourceLang string `mapstructure:"default_source_lang"`
	DefaultTargetLang string `mapstructure:"default_target_lang"`
	DefaultBatchSize  int    `mapstructure:"default_batch_size"`
}

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("TABTRANS")
	if err := v.BindEnv("api_key"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if missing := missingKeys(v); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", 1)
	v.SetDefault("circuit_breaker.failure_threshold", 0)
	v.SetDefault("circuit_breaker.cooldown", 30)
}

func missingKeys(v *viper.Viper) []string {
	var missing []string
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// Validate checks value ranges and blank strings
func (c *Config) Validate() error {
	var problems []string

	switch c.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.APIURL) == "" {
			problems = append(problems, "api_url is blank")
		}
	case ProviderGemini:
	default:
		problems = append(problems, fmt.Sprintf("unknown provider %q", c.Provider))
	}

	if strings.TrimSpace(c.APIKey) == "" {
		problems = append(problems, "api_key is blank")
	}
	if strings.TrimSpace(c.ModelName) == "" {
		problems = append(problems, "model_name is blank")
	}
	if strings.TrimSpace(c.Prompt.Instruction) == "" {
		problems = append(problems, "translation_prompt.instruction is blank")
	}
	if c.APITimeout <= 0 {
		problems = append(problems, "api_timeout must be positive")
	}
	if c.APIDelay < 0 {
		problems = append(problems, "api_delay must not be negative")
	}
	if c.MaxBatchSize < 1 {
		problems = append(problems, "max_batch_size must be at least 1")
	}
	if c.MaxRetries < 0 {
		problems = append(problems, "max_retries must not be negative")
	}
	if c.RetryDelay < 0 {
		problems = append(problems, "retry_delay must not be negative")
	}
	if c.CircuitBreaker.FailureThreshold < 0 {
		problems = append(problems, "circuit_breaker.failure_threshold must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(problems, "; "))
	}
	return nil
}

// Timeout returns the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	return seconds(c.APITimeout)
}

// BatchDelay returns the pause after each batch
func (c *Config) BatchDelay() time.Duration {
	return seconds(c.APIDelay)
}

// RetryWait returns the fixed pause between failed attempts
func (c *Config) RetryWait() time.Duration {
	return seconds(c.RetryDelay)
}

// BreakerCooldown returns how long an open breaker waits before probing
func (c *Config) BreakerCooldown() time.Duration {
	return seconds(c.CircuitBreaker.Cooldown)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
