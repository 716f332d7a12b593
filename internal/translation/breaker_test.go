package translation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestBreakerCompleter_OpensAfterThreshold(t *testing.T) {
	fc := &fakeCompleter{replies: []reply{{err: errors.New("connection refused")}}}
	var out bytes.Buffer
	b := NewBreakerCompleter(fc, 2, time.Minute, &out)

	for i := 0; i < 2; i++ {
		if _, err := b.Complete(context.Background(), "p"); err == nil {
			t.Fatalf("call %d: expected error", i+1)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("State = %v, want open", b.State())
	}

	_, err := b.Complete(context.Background(), "p")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if fc.calls() != 2 {
		t.Errorf("wrapped calls = %d, want 2", fc.calls())
	}
	if category(err) != "circuit open" {
		t.Errorf("category = %q", category(err))
	}
	if !strings.Contains(out.String(), "closed -> open") {
		t.Errorf("Expected state change message, got %q", out.String())
	}
}

func TestBreakerCompleter_PassesThrough(t *testing.T) {
	fc := &fakeCompleter{replies: []reply{{content: `["ok"]`}}}
	b := NewBreakerCompleter(fc, 1, time.Minute, nil)

	got, err := b.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != `["ok"]` {
		t.Errorf("Complete() = %q", got)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("State = %v, want closed", b.State())
	}
}

// An open breaker still yields one output per input, with every attempt counted
func TestTranslateBatch_BreakerOpen(t *testing.T) {
	fc := &fakeCompleter{replies: []reply{{err: errors.New("connection refused")}}}
	b := NewBreakerCompleter(fc, 1, time.Minute, nil)
	tr, _, slept := newTestTranslator(b, 3)

	got := tr.TranslateBatch(context.Background(), []string{"a", "b"}, "en", "zh")

	if fc.calls() != 1 {
		t.Errorf("wrapped calls = %d, want 1", fc.calls())
	}
	if len(*slept) != 3 {
		t.Errorf("retry delays = %d, want 3", len(*slept))
	}
	for _, s := range got {
		if !strings.HasPrefix(s, ErrorPrefix) {
			t.Errorf("entry = %q", s)
		}
	}
}
