package translation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/tabtrans/internal"
	"codeberg.org/snonux/tabtrans/internal/config"
)

// Sentinel prefixes written in place of a real translation
const (
	ErrorPrefix   = "[translation error]"
	PartialPrefix = "[partial translation]"
)

// BatchTranslator translates one batch, returning one string per input
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) []string
}

// Options controls prompt rendering and the retry policy
type Options struct {
	Instruction  string
	Requirements []string
	MaxRetries   int           // extra attempts after the first
	RetryDelay   time.Duration // fixed pause between attempts
	Output       io.Writer     // diagnostics; os.Stdout when nil
}

// Translator translates batches through a Completer
type Translator struct {
	completer Completer
	opts      Options
	out       io.Writer
	sleep     func(ctx context.Context, d time.Duration)
}

// NewTranslator builds the completer selected by cfg.Provider, wrapping it
// in a circuit breaker when one is configured
func NewTranslator(ctx context.Context, cfg *config.Config) (*Translator, error) {
	var completer Completer
	switch cfg.Provider {
	case config.ProviderGemini:
		gc, err := NewGeminiCompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		completer = gc
	default:
		completer = NewChatCompleter(cfg)
	}

	if cfg.CircuitBreaker.FailureThreshold > 0 {
		completer = NewBreakerCompleter(completer, cfg.CircuitBreaker.FailureThreshold, cfg.BreakerCooldown(), os.Stdout)
	}

	return NewTranslatorWithCompleter(completer, Options{
		Instruction:  cfg.Prompt.Instruction,
		Requirements: cfg.Prompt.Requirements,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryWait(),
	}), nil
}

// NewTranslatorWithCompleter creates a translator around an existing completer
func NewTranslatorWithCompleter(c Completer, opts Options) *Translator {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Translator{
		completer: c,
		opts:      opts,
		out:       out,
		sleep:     sleepContext,
	}
}

// TranslateBatch translates texts from sourceLang to targetLang. It never
// fails: exhausted retries and unexpected panics both yield sentinel
// strings, and the result always has len(texts) entries.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) (out []string) {
	if len(texts) == 0 {
		return []string{}
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			fmt.Fprintf(t.out, "unhandled error: %s\n", msg)
			out = fill(len(texts), ErrorPrefix+" unhandled error: "+internal.Truncate(msg, 100))
		}
	}()

	prompt, err := BuildPrompt(t.opts.Instruction, t.opts.Requirements, texts, sourceLang, targetLang)
	if err != nil {
		fmt.Fprintf(t.out, "unhandled error: %v\n", err)
		return fill(len(texts), ErrorPrefix+" unhandled error: "+internal.Truncate(err.Error(), 100))
	}

	attempts := t.opts.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := t.attempt(ctx, prompt, texts)
		if err == nil {
			return result
		}
		lastErr = err

		if attempt < attempts {
			fmt.Fprintf(t.out, "attempt %d/%d failed (%s): %s\n", attempt, attempts, category(err), internal.Truncate(err.Error(), 200))
			fmt.Fprintf(t.out, "waiting %v before retry...\n", t.opts.RetryDelay)
			t.sleep(ctx, t.opts.RetryDelay)
		}
	}

	fmt.Fprintf(t.out, "all retries failed: %s\n", internal.Truncate(lastErr.Error(), 200))
	var httpErr *HTTPError
	if errors.As(lastErr, &httpErr) && httpErr.Body != "" {
		fmt.Fprintf(t.out, "error response body: %s\n", httpErr.Body)
	}

	return fill(len(texts), ErrorPrefix+" retry failed: "+internal.Truncate(lastErr.Error(), 100))
}

// attempt performs one request and parse
func (t *Translator) attempt(ctx context.Context, prompt string, texts []string) ([]string, error) {
	content, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed := ParseResponse(content, texts)
	switch parsed.Kind {
	case ParseStrict:
		return parsed.Values, nil
	case ParsePartial:
		fmt.Fprintf(t.out, "partial response: padded %d of %d entries\n", parsed.Padded, len(texts))
		return parsed.Values, nil
	case ParseSalvaged:
		fmt.Fprintf(t.out, "recovered JSON array from non-JSON response\n")
		return parsed.Values, nil
	default:
		return nil, parsed.Err
	}
}

// category names the failure class shown in retry diagnostics
func category(err error) string {
	var httpErr *HTTPError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit open"
	case errors.As(err, &httpErr):
		return "http error"
	case errors.Is(err, ErrMissingChoices):
		return "bad response"
	case errors.Is(err, ErrUnparsable):
		return "parse error"
	case errors.Is(err, ErrShape):
		return "shape error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "network error"
	}
}

func fill(n int, s string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
