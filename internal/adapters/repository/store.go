// Package repository defines the submission store contract and its
// in-memory implementation.
//
// The store exclusively owns answer records, grade statuses, and cumulative
// scores. Answers are append-only; no deletion path exists, so sequence
// indices are stable identities for grading.
package repository

import (
	"context"

	"github.com/eldoria/harperbot/internal/domain/model"
)

// PromptCount reports how many answers a prompt has received.
type PromptCount struct {
	PromptID int
	Answers  int
}

// Store is the submission store used by the service and the grading machine.
type Store interface {
	// Append records a new answer and returns its 1-based sequence index
	// within the participant's submissions. The answer starts pending.
	// The participant is lazily created on first contact.
	Append(ctx context.Context, participantID string, promptID int, text string) (int, error)

	// AnswersForPrompt returns every answer to the given prompt annotated
	// with its current grade, in global submission order.
	AnswersForPrompt(ctx context.Context, promptID int) []model.ReviewEntry

	// AllAnswers returns every recorded answer annotated with its current
	// grade, in global submission order.
	AllAnswers(ctx context.Context) []model.ReviewEntry

	// Status returns the current grade of one answer.
	Status(ctx context.Context, participantID string, seq int) (model.Grade, error)

	// SetStatus overwrites the grade of one answer. Callers are responsible
	// for the pending check; the grading machine is the only writer.
	SetStatus(ctx context.Context, participantID string, seq int, grade model.Grade) error

	// AddScore adds delta to a participant's cumulative score and returns
	// the new total.
	AddScore(ctx context.Context, participantID string, delta int) (int, error)

	// Score returns a participant's cumulative score.
	Score(ctx context.Context, participantID string) int

	// Leaderboard returns participants ordered by score descending, ties
	// broken by first-seen order.
	Leaderboard(ctx context.Context) []model.ScoreEntry

	// AnsweredPrompts returns the prompt ids having at least one answer,
	// sorted ascending, with their answer counts.
	AnsweredPrompts(ctx context.Context) []PromptCount

	// Participants returns the number of participants seen so far.
	Participants(ctx context.Context) int
}
