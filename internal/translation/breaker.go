package translation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerCompleter fails fast once the wrapped completer has failed
// threshold times in a row. After cooldown it lets one probe through.
type BreakerCompleter struct {
	next Completer
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerCompleter wraps next in a circuit breaker. State changes are
// reported on out.
func NewBreakerCompleter(next Completer, threshold int, cooldown time.Duration, out io.Writer) *BreakerCompleter {
	settings := gobreaker.Settings{
		Name:        "completion-api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if out != nil {
				fmt.Fprintf(out, "circuit breaker %s: %s -> %s\n", name, from, to)
			}
		},
	}

	return &BreakerCompleter{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Complete forwards to the wrapped completer unless the breaker is open
func (b *BreakerCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// State returns the current breaker state
func (b *BreakerCompleter) State() gobreaker.State {
	return b.cb.State()
}
