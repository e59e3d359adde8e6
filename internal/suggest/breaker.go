package suggest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerProvider stops calling a provider after repeated failures
type BreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps provider in a circuit breaker that opens after
// three consecutive failures and probes again after 30 seconds. State
// changes are reported on out, stderr when nil.
func NewBreakerProvider(provider Provider, out io.Writer) *BreakerProvider {
	return newBreakerProvider(provider, 3, 30*time.Second, out)
}

func newBreakerProvider(provider Provider, maxFailures uint32, timeout time.Duration, out io.Writer) *BreakerProvider {
	if out == nil {
		out = os.Stderr
	}

	settings := gobreaker.Settings{
		Name:        provider.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fmt.Fprintf(out, "  Provider %s: circuit %s -> %s\n", name, from, to)
		},
	}

	return &BreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(settings),
	}
}

// Suggest calls the wrapped provider unless the circuit is open
func (p *BreakerProvider) Suggest(ctx context.Context, word string) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.provider.Suggest(ctx, word)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Name returns the wrapped provider name
func (p *BreakerProvider) Name() string {
	return p.provider.Name()
}

// IsAvailable checks the wrapped provider
func (p *BreakerProvider) IsAvailable() error {
	return p.provider.IsAvailable()
}
