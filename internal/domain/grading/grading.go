// Package grading implements the single-shot grading state machine.
//
// Every answer moves from pending to exactly one terminal grade. The
// terminal-state check here is the authoritative guard against double
// grading; any "already validated" flag a review surface keeps is advisory
// display state only.
package grading

import (
	"context"
	"fmt"
	"sync"

	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/pkg/logger"
	"github.com/eldoria/harperbot/pkg/metrics"
)

// Fixed point scale. Rejected answers earn the attempt credit; accepted
// answers earn an operator-chosen value within the closed range.
const (
	AttemptCredit   = 1
	MinAcceptPoints = 2
	MaxAcceptPoints = 5
)

// Ledger is the slice of the submission store the machine mutates. The
// store owns the tables; the machine is their only grading-path writer.
type Ledger interface {
	Status(ctx context.Context, participantID string, seq int) (model.Grade, error)
	SetStatus(ctx context.Context, participantID string, seq int, grade model.Grade) error
	AddScore(ctx context.Context, participantID string, delta int) (int, error)
}

// Machine drives grade transitions. A single mutex serializes the
// read-check-write sequence, so two review sessions racing over the same
// answer resolve to one success and one ErrAlreadyGraded.
type Machine struct {
	mu     sync.Mutex
	ledger Ledger
	logger logger.Logger
}

// New creates a Machine over the given ledger.
func New(ledger Ledger, opts ...Option) *Machine {
	m := &Machine{
		ledger: ledger,
		logger: logger.Get().Named("grading"),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Reject marks a pending answer as wrong and awards the attempt credit.
// It returns the participant's new total score.
func (m *Machine) Reject(ctx context.Context, participantID string, seq int) (int, error) {
	total, err := m.transition(ctx, participantID, seq,
		model.Grade{State: model.GradeRejected}, AttemptCredit)
	if err != nil {
		return 0, err
	}

	metrics.RecordGradeRecorded("rejected")
	metrics.RecordPointsAwarded(AttemptCredit)
	m.logger.Info(ctx, "answer rejected",
		logger.String("participant", participantID),
		logger.Int("seq", seq),
		logger.Int("total", total),
	)
	return total, nil
}

// Accept marks a pending answer as correct and awards the chosen points.
// It returns the participant's new total score.
func (m *Machine) Accept(ctx context.Context, participantID string, seq, points int) (int, error) {
	if points < MinAcceptPoints || points > MaxAcceptPoints {
		return 0, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidPoints, points, MinAcceptPoints, MaxAcceptPoints)
	}

	total, err := m.transition(ctx, participantID, seq,
		model.Grade{State: model.GradeAccepted, Points: points}, points)
	if err != nil {
		return 0, err
	}

	metrics.RecordGradeRecorded("accepted")
	metrics.RecordPointsAwarded(points)
	m.logger.Info(ctx, "answer accepted",
		logger.String("participant", participantID),
		logger.Int("seq", seq),
		logger.Int("points", points),
		logger.Int("total", total),
	)
	return total, nil
}

// transition performs the atomic pending check, status write, and score
// update. No blocking I/O happens under the lock.
func (m *Machine) transition(ctx context.Context, participantID string, seq int, grade model.Grade, award int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.ledger.Status(ctx, participantID, seq)
	if err != nil {
		return 0, fmt.Errorf("looking up answer status: %w", err)
	}
	if current.State.Terminal() {
		metrics.RecordGradingConflict()
		return 0, fmt.Errorf("%w: already %s", ErrAlreadyGraded, current.State)
	}

	if err := m.ledger.SetStatus(ctx, participantID, seq, grade); err != nil {
		return 0, fmt.Errorf("writing grade: %w", err)
	}
	total, err := m.ledger.AddScore(ctx, participantID, award)
	if err != nil {
		return 0, fmt.Errorf("updating score: %w", err)
	}
	return total, nil
}
