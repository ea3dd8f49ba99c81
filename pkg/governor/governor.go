// Package governor spaces out rate limited channel operations and bounds how long each may take.
package governor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"golang.org/x/time/rate"
)

const (
	// DefaultInterval is the minimum delay between two governed operations on the same channel.
	DefaultInterval = 5 * time.Second

	// DefaultTimeout bounds a single governed operation.
	DefaultTimeout = 10 * time.Second
)

// ErrTimeout is reported when a governed operation does not finish in time.
var ErrTimeout = errors.New("channel operation timed out")

// Outcome is the result of a governed operation. Failures are reported here and never returned
// as errors or panics.
type Outcome struct {
	Success bool
	Err     error
}

// Governor owns the per-channel limiters. One instance is shared by the whole process.
type Governor struct {
	l        *slog.Logger
	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

type Option func(g *Governor)

// WithInterval sets the minimum delay between operations on one channel.
func WithInterval(d time.Duration) Option {
	return func(g *Governor) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithTimeout sets how long one operation may run.
func WithTimeout(d time.Duration) Option {
	return func(g *Governor) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// New creates a new Governor.
func New(l *slog.Logger, opts ...Option) *Governor {
	g := &Governor{
		l:        l,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Governor) limiter(channelID string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	lim, ok := g.limiters[channelID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(g.interval), 1)
		g.limiters[channelID] = lim
	}
	return lim
}

// Forget drops the limiter of a channel that no longer exists.
func (g *Governor) Forget(channelID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.limiters, channelID)
}

// Do waits until channelID may be operated on again, then runs fn racing the configured timeout.
func (g *Governor) Do(ctx context.Context, channelID, op string, fn func(ctx context.Context) error) Outcome {
	start := time.Now()
	l := g.l.With(slog.String(logging.KeyChannel, channelID), slog.String(logging.KeyAction, op))

	if err := g.limiter(channelID).Wait(ctx); err != nil {
		opsTotal.WithLabelValues(op, outcomeCancelled).Inc()
		l.Warn("Channel operation not attempted", logging.ErrAttr(err))
		return Outcome{Err: fmt.Errorf("error waiting for channel %s: %w", channelID, err)}
	}
	waitDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	err := g.run(ctx, fn)
	switch {
	case err == nil:
		opsTotal.WithLabelValues(op, outcomeSuccess).Inc()
		return Outcome{Success: true}
	case errors.Is(err, ErrTimeout):
		opsTotal.WithLabelValues(op, outcomeTimeout).Inc()
	default:
		opsTotal.WithLabelValues(op, outcomeError).Inc()
	}

	l.Warn("Channel operation failed", logging.ErrAttr(err))
	return Outcome{Err: err}
}

func (g *Governor) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("channel operation panicked: %v", r)
			}
		}()
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
		}
		return ctx.Err()
	}
}
