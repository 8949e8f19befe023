// Package model contains domain models passed between layers.
package model

import "time"

// Prompt is a single quiz question drawn from the bank and shown to
// participants. Immutable once created.
type Prompt struct {
	ID   int
	Text string
}

// Answer is one participant's free-text response to one prompt.
// Text and Seq never change after the answer is recorded.
type Answer struct {
	ParticipantID string
	PromptID      int
	Text          string
	// Seq is the 1-based position within the participant's submissions.
	// It is the stable identity used by the grading status map.
	Seq         int
	SubmittedAt time.Time
}

// GradeState is the grading status of a single answer.
type GradeState int

const (
	// GradePending means no grading decision has been made yet.
	GradePending GradeState = iota
	// GradeRejected is terminal: the answer was marked wrong (1 attempt point).
	GradeRejected
	// GradeAccepted is terminal: the answer was marked correct (2-5 points).
	GradeAccepted
)

// String returns the lowercase state name.
func (s GradeState) String() string {
	switch s {
	case GradeRejected:
		return "rejected"
	case GradeAccepted:
		return "accepted"
	default:
		return "pending"
	}
}

// Glyph returns the status marker used in review embeds.
func (s GradeState) Glyph() string {
	switch s {
	case GradeRejected:
		return "❌"
	case GradeAccepted:
		return "✅"
	default:
		return "⏳"
	}
}

// Terminal reports whether the state admits no further transitions.
func (s GradeState) Terminal() bool {
	return s != GradePending
}

// Grade is a grading decision for one answer. Points is meaningful only
// when State is GradeAccepted; rejected answers carry the fixed attempt
// credit instead.
type Grade struct {
	State  GradeState
	Points int
}

// ScoreEntry is one row of the leaderboard snapshot.
type ScoreEntry struct {
	Rank          int
	ParticipantID string
	Score         int
}

// ReviewEntry pairs an answer with its current grade for operator review.
type ReviewEntry struct {
	Answer Answer
	Grade  Grade
}
