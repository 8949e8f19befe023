package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrUnauthorized is returned when a non-operator invokes a privileged
	// operation. Checked before any state is touched.
	ErrUnauthorized = errors.New("not authorized")
	// ErrNoAnswers is returned when a grading session is requested for a
	// prompt nobody has answered.
	ErrNoAnswers = errors.New("no answers for prompt")
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
)
