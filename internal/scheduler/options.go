package scheduler

import (
	"math/rand"
	"time"

	"github.com/eldoria/harperbot/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithBudget sets the total dispatch budget.
func WithBudget(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithWarmup sets the fixed delay before the first dispatch.
func WithWarmup(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.warmup = d
		}
	}
}

// WithIntervalRange sets the random delay bounds between dispatches.
func WithIntervalRange(minDelay, maxDelay time.Duration) Option {
	return func(s *Scheduler) {
		if minDelay > 0 && maxDelay >= minDelay {
			s.minInterval = minDelay
			s.maxInterval = maxDelay
		}
	}
}

// WithSeed fixes the interval jitter for reproducible tests.
func WithSeed(seed int64) Option {
	return func(s *Scheduler) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for tests
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}
