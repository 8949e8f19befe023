// Package scheduler runs the recurring prompt dispatch loop.
//
// The loop waits a short fixed warm-up before the first dispatch, then a
// freshly randomized interval before each later one. It halts permanently
// when the prompt bank is exhausted or the dispatch budget is reached;
// there is no resume without a process restart.
package scheduler

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/eldoria/harperbot/internal/domain/bank"
	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/pkg/logger"
	"github.com/eldoria/harperbot/pkg/metrics"
)

// Default dispatch configuration constants: one question every 30-60
// minutes after a 20s warm-up.
const (
	defaultBudget      = 100
	defaultWarmup      = 20 * time.Second
	defaultMinInterval = 30 * time.Minute
	defaultMaxInterval = 60 * time.Minute
)

// State is the scheduler lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateHalted
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	default:
		return "idle"
	}
}

// Source supplies unseen prompts.
type Source interface {
	Draw(ctx context.Context) (model.Prompt, error)
	Remaining() int
}

// Display renders a dispatched prompt to participants.
type Display interface {
	ShowPrompt(ctx context.Context, prompt model.Prompt) error
}

// Scheduler owns the dispatch loop. Run drives it until halt or cancel.
type Scheduler struct {
	source  Source
	display Display

	budget      int
	warmup      time.Duration
	minInterval time.Duration
	maxInterval time.Duration

	rng        *rand.Rand
	state      atomic.Int32
	dispatched atomic.Int64

	logger logger.Logger
}

// New creates a Scheduler with configuration options.
func New(source Source, display Display, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:      source,
		display:     display,
		budget:      defaultBudget,
		warmup:      defaultWarmup,
		minInterval: defaultMinInterval,
		maxInterval: defaultMaxInterval,
		logger:      logger.Get().Named("scheduler"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // jitter, not crypto
	}

	return s
}

// Run executes the dispatch loop until the scheduler halts or ctx is
// canceled. Each dispatch step (draw, count, display) completes as a unit;
// cancellation is only observed between steps, never inside one.
func (s *Scheduler) Run(ctx context.Context) {
	s.setState(StateRunning)
	defer s.setState(StateHalted)

	// The warm-up surfaces the first question quickly after startup.
	delay := s.warmup
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scheduler stopped",
				logger.Int64("dispatched", s.dispatched.Load()),
			)
			return
		case <-timer.C:
			if !s.dispatch(ctx) {
				return
			}
			// Pick the next delay immediately before the wait.
			delay = s.nextDelay()
			timer.Reset(delay)
			s.logger.Debug(ctx, "next dispatch scheduled", logger.Duration("delay", delay))
		}
	}
}

// dispatch performs one draw-count-display step. It returns false when the
// scheduler should halt.
func (s *Scheduler) dispatch(ctx context.Context) bool {
	prompt, err := s.source.Draw(ctx)
	if errors.Is(err, bank.ErrExhausted) {
		s.logger.Info(ctx, "prompt bank exhausted, halting",
			logger.Int64("dispatched", s.dispatched.Load()),
		)
		return false
	}
	if err != nil {
		s.logger.Error(ctx, "prompt draw failed", logger.Error(err))
		return false
	}

	n := s.dispatched.Add(1)
	metrics.RecordPromptDispatched()
	metrics.UpdatePromptsRemaining(s.source.Remaining())

	// State is committed before the display call; a failed render is
	// logged and never rolls the counter back.
	start := time.Now()
	if err := s.display.ShowPrompt(ctx, prompt); err != nil {
		metrics.RecordDisplayError()
		s.logger.Error(ctx, "prompt display failed",
			logger.Int("prompt_id", prompt.ID),
			logger.Error(err),
		)
	}
	metrics.RecordDisplayLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "prompt dispatched",
		logger.Int("prompt_id", prompt.ID),
		logger.Int64("sent", n),
		logger.Int("budget", s.budget),
	)

	if n >= int64(s.budget) {
		s.logger.Info(ctx, "dispatch budget reached, halting",
			logger.Int("budget", s.budget),
		)
		return false
	}
	return true
}

// nextDelay returns a uniformly random delay in [minInterval, maxInterval].
func (s *Scheduler) nextDelay() time.Duration {
	if s.maxInterval <= s.minInterval {
		return s.minInterval
	}
	return s.minInterval + time.Duration(s.rng.Int63n(int64(s.maxInterval-s.minInterval)))
}

func (s *Scheduler) setState(state State) {
	s.state.Store(int32(state))
	metrics.UpdateSchedulerState(int(state))
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Dispatched returns the number of prompts dispatched so far.
func (s *Scheduler) Dispatched() int64 {
	return s.dispatched.Load()
}
