// Package service provides the core quiz bot service that wires the prompt
// bank, scheduler, submission store, and grading machine behind the gateway.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eldoria/harperbot/internal/adapters/repository"
	"github.com/eldoria/harperbot/internal/domain/bank"
	"github.com/eldoria/harperbot/internal/domain/grading"
	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/internal/scheduler"
	"github.com/eldoria/harperbot/pkg/logger"
)

// Default service configuration constants.
const (
	defaultPageSize = 10
)

// Presenter is the outbound rendering surface. All calls happen after core
// state is committed; failures are logged and never propagate back into it.
type Presenter interface {
	// ShowPrompt renders a freshly dispatched prompt with a response form.
	ShowPrompt(ctx context.Context, prompt model.Prompt) error
	// ConfirmSubmission acknowledges receipt to the submitter.
	ConfirmSubmission(ctx context.Context, ack Ack) error
	// AnnounceGrade publishes a grading outcome.
	AnnounceGrade(ctx context.Context, participantID string, accepted bool, points, total int) error
}

// Ack confirms one recorded submission.
type Ack struct {
	ParticipantID string
	PromptID      int
	Seq           int
}

// ReviewPage is one fixed-size page of the full answer dump.
type ReviewPage struct {
	Entries []model.ReviewEntry
	Page    int // 1-based
	Pages   int
	Total   int
}

// GradingSession is the operator's view over one prompt's answers. Only the
// first ungraded-or-graded answer is surfaced per invocation; the operator
// re-invokes the command to reach the next one.
type GradingSession struct {
	PromptID  int
	Entry     model.ReviewEntry
	Score     int // current total of the answer's participant
	Remaining int // further answers to the same prompt
}

// Service implements the bot's submission, grading, and review flows.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	bank      *bank.Bank
	grader    *grading.Machine
	scheduler *scheduler.Scheduler
	presenter Presenter

	// Configuration
	operatorID      string
	pageSize        int
	maxAnswerLength int
	budget          int
	warmup          time.Duration
	minInterval     time.Duration
	maxInterval     time.Duration
	prompts         map[int]string
	seed            int64

	// State
	started   bool
	runCtx    context.Context //nolint:containedctx // owns the scheduler lifetime between Start and Stop
	runCancel context.CancelFunc
	startOnce sync.Once

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration. The presenter is
// required; everything else has defaults.
func New(presenter Presenter, opts ...Option) *Service {
	s := &Service{
		presenter: presenter,
		pageSize:  defaultPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Start initializes the service components. The scheduler is created here
// but only begins dispatching on the first Ready call.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	var storeOpts []repository.Option
	if s.maxAnswerLength > 0 {
		storeOpts = append(storeOpts, repository.WithMaxAnswerLength(s.maxAnswerLength))
	}
	s.store = repository.NewMemStore(storeOpts...)

	bankOpts := []bank.Option{}
	if s.prompts != nil {
		bankOpts = append(bankOpts, bank.WithPrompts(s.prompts))
	}
	if s.seed != 0 {
		bankOpts = append(bankOpts, bank.WithSeed(s.seed))
	}
	s.bank = bank.New(bankOpts...)

	s.grader = grading.New(s.store)

	schedOpts := []scheduler.Option{
		scheduler.WithBudget(s.budget),
		scheduler.WithWarmup(s.warmup),
		scheduler.WithIntervalRange(s.minInterval, s.maxInterval),
	}
	if s.seed != 0 {
		schedOpts = append(schedOpts, scheduler.WithSeed(s.seed))
	}
	s.scheduler = scheduler.New(s.bank, presenterDisplay{s}, schedOpts...)

	s.runCtx, s.runCancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true

	s.logger.Info(ctx, "quiz service started",
		logger.Int("prompts", s.bank.Remaining()),
		logger.Int("page_size", s.pageSize),
	)
	return nil
}

// Stop cancels the dispatch loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.runCancel()
	s.started = false
	s.logger.Info(context.Background(), "quiz service stopped")
}

// presenterDisplay adapts the Presenter to the scheduler's Display port.
type presenterDisplay struct {
	s *Service
}

func (d presenterDisplay) ShowPrompt(ctx context.Context, prompt model.Prompt) error {
	return d.s.presenter.ShowPrompt(ctx, prompt)
}

// Ready handles the platform session-ready signal. The first call starts
// the dispatch loop; reconnects after that are no-ops — the scheduler and
// its counter survive gateway session churn.
func (s *Service) Ready(ctx context.Context) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		s.logger.Warn(ctx, "ready before service start, ignoring")
		return
	}

	s.startOnce.Do(func() {
		s.logger.Info(ctx, "session ready, starting dispatch loop")
		go s.scheduler.Run(s.runCtx)
	})
}

// Submit records one participant answer and acknowledges it. It returns
// the answer's sequence index within the participant's submissions.
func (s *Service) Submit(ctx context.Context, participantID string, promptID int, text string) (int, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}

	seq, err := s.store.Append(ctx, participantID, promptID, text)
	if err != nil {
		return 0, fmt.Errorf("recording answer: %w", err)
	}

	s.logger.Info(ctx, "answer recorded",
		logger.String("participant", participantID),
		logger.Int("prompt_id", promptID),
		logger.Int("seq", seq),
	)

	// Ack after commit; a failed ack never unwinds the record.
	if err := s.presenter.ConfirmSubmission(ctx, Ack{ParticipantID: participantID, PromptID: promptID, Seq: seq}); err != nil {
		s.logger.Error(ctx, "submission ack failed",
			logger.String("participant", participantID),
			logger.Error(err),
		)
	}

	return seq, nil
}

// ListScores returns the leaderboard snapshot. Operator only.
func (s *Service) ListScores(ctx context.Context, invokerID string) ([]model.ScoreEntry, error) {
	if err := s.authorize(invokerID); err != nil {
		return nil, err
	}
	return s.store.Leaderboard(ctx), nil
}

// ListAnswers returns one page of the full answer dump. Operator only.
// Pages are 1-based; out-of-range requests clamp to the valid range.
func (s *Service) ListAnswers(ctx context.Context, invokerID string, page int) (ReviewPage, error) {
	if err := s.authorize(invokerID); err != nil {
		return ReviewPage{}, err
	}

	all := s.store.AllAnswers(ctx)
	total := len(all)
	pages := (total + s.pageSize - 1) / s.pageSize
	if pages == 0 {
		return ReviewPage{Page: 1, Pages: 0, Total: 0}, nil
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if end > total {
		end = total
	}
	return ReviewPage{Entries: all[start:end], Page: page, Pages: pages, Total: total}, nil
}

// GradeQuestion opens a grading session over one prompt's answers.
// Operator only. The session surfaces the first answer in submission order
// plus a count of the rest.
func (s *Service) GradeQuestion(ctx context.Context, invokerID string, promptID int) (GradingSession, error) {
	if err := s.authorize(invokerID); err != nil {
		return GradingSession{}, err
	}

	entries := s.store.AnswersForPrompt(ctx, promptID)
	if len(entries) == 0 {
		return GradingSession{}, fmt.Errorf("%w: prompt %d", ErrNoAnswers, promptID)
	}

	first := entries[0]
	return GradingSession{
		PromptID:  promptID,
		Entry:     first,
		Score:     s.store.Score(ctx, first.Answer.ParticipantID),
		Remaining: len(entries) - 1,
	}, nil
}

// AnsweredPrompts returns prompt ids with at least one submission, for the
// grading command's suggestions. Operator only.
func (s *Service) AnsweredPrompts(ctx context.Context, invokerID string) ([]repository.PromptCount, error) {
	if err := s.authorize(invokerID); err != nil {
		return nil, err
	}
	return s.store.AnsweredPrompts(ctx), nil
}

// RejectAnswer marks an answer wrong for the attempt credit. Operator only.
// Returns the participant's new total score.
func (s *Service) RejectAnswer(ctx context.Context, invokerID, participantID string, seq int) (int, error) {
	if err := s.authorize(invokerID); err != nil {
		return 0, err
	}

	total, err := s.grader.Reject(ctx, participantID, seq)
	if err != nil {
		return 0, err
	}
	s.announce(ctx, participantID, false, grading.AttemptCredit, total)
	return total, nil
}

// AcceptAnswer marks an answer correct for the chosen points. Operator
// only. Returns the participant's new total score.
func (s *Service) AcceptAnswer(ctx context.Context, invokerID, participantID string, seq, points int) (int, error) {
	if err := s.authorize(invokerID); err != nil {
		return 0, err
	}

	total, err := s.grader.Accept(ctx, participantID, seq, points)
	if err != nil {
		return 0, err
	}
	s.announce(ctx, participantID, true, points, total)
	return total, nil
}

// announce publishes a grading outcome after the state change committed.
func (s *Service) announce(ctx context.Context, participantID string, accepted bool, points, total int) {
	if err := s.presenter.AnnounceGrade(ctx, participantID, accepted, points, total); err != nil {
		s.logger.Error(ctx, "grade announcement failed",
			logger.String("participant", participantID),
			logger.Error(err),
		)
	}
}

// authorize rejects every invoker except the configured operator.
func (s *Service) authorize(invokerID string) error {
	if s.operatorID == "" || invokerID != s.operatorID {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started": s.started,
	}
	if s.started {
		stats["schedulerState"] = s.scheduler.State().String()
		stats["dispatched"] = s.scheduler.Dispatched()
		stats["promptsRemaining"] = s.bank.Remaining()
		stats["participants"] = s.store.Participants(ctx)
	}
	return stats
}
