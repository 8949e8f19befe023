package grading

import "errors"

// Sentinel kinds for grading errors.
var (
	// ErrAlreadyGraded is returned when the answer already has a terminal
	// grade. Score is untouched.
	ErrAlreadyGraded = errors.New("answer already graded")
	// ErrInvalidPoints is returned for an accept award outside [2,5],
	// before any state is touched.
	ErrInvalidPoints = errors.New("points out of range")
)
