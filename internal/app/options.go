package service

import (
	"time"

	"github.com/eldoria/harperbot/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithOperatorID sets the single identity allowed to grade and review.
func WithOperatorID(id string) Option {
	return func(s *Service) {
		s.operatorID = id
	}
}

// WithPageSize sets the answer review page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMaxAnswerLength sets the maximum accepted answer length.
func WithMaxAnswerLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAnswerLength = n
		}
	}
}

// WithBudget sets the total dispatch budget.
func WithBudget(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithWarmup sets the delay before the first dispatch.
func WithWarmup(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.warmup = d
		}
	}
}

// WithIntervalRange sets the random delay bounds between dispatches.
func WithIntervalRange(minDelay, maxDelay time.Duration) Option {
	return func(s *Service) {
		if minDelay > 0 && maxDelay >= minDelay {
			s.minInterval = minDelay
			s.maxInterval = maxDelay
		}
	}
}

// WithPrompts replaces the default question table.
func WithPrompts(table map[int]string) Option {
	return func(s *Service) {
		if len(table) > 0 {
			s.prompts = table
		}
	}
}

// WithSeed fixes draw and jitter randomness for reproducible tests.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
