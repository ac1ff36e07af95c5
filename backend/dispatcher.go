package backend

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = 500 * time.Millisecond
)

// Dispatcher delivers sync calls off the caller's path with bounded
// exponential backoff. Exhausted retries are logged and dropped: local
// state wins, and the caller is never blocked or crashed.
type Dispatcher struct {
	log       *slog.Logger
	attempts  int
	baseDelay time.Duration

	wg sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithRetry overrides the retry policy. attempts <= 1 disables retries.
func WithRetry(attempts int, baseDelay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if attempts > 0 {
			d.attempts = attempts
		}
		if baseDelay > 0 {
			d.baseDelay = baseDelay
		}
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		log:       slog.Default(),
		attempts:  defaultAttempts,
		baseDelay: defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Go runs fn in the background. The operation outlives the caller's
// context: a capture that navigates away still syncs.
func (d *Dispatcher) Go(op string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		var err error
		for attempt := 1; attempt <= d.attempts; attempt++ {
			err = fn(context.Background())
			if err == nil {
				return
			}
			if attempt < d.attempts {
				delay := d.baseDelay << (attempt - 1)
				d.log.Debug("sync attempt failed, retrying", "op", op, "attempt", attempt, "delay", delay, "error", err)
				time.Sleep(delay)
			}
		}
		d.log.Warn("sync dropped after retries", "op", op, "attempts", d.attempts, "error", err)
	}()
}

// Flush blocks until every dispatched operation has finished. Tests use
// it to await fire-and-forget work deterministically.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}
