package repository

import "errors"

// Sentinel kinds for submission store errors.
var (
	// ErrOversizedAnswer is returned when answer text exceeds the maximum
	// length. The form already caps input upstream; the store still checks.
	ErrOversizedAnswer = errors.New("answer text too long")
	// ErrEmptyAnswer is returned for blank answer text.
	ErrEmptyAnswer = errors.New("answer text empty")
	// ErrAnswerNotFound is returned when no answer exists for the given
	// participant and sequence index.
	ErrAnswerNotFound = errors.New("answer not found")
)
