package simulator

import "time"

// Config controls a simulation run.
type Config struct {
	// Addr is the listen address for the fake gateway, e.g. ":9090".
	Addr string

	// Participants is the number of synthetic quiz participants.
	Participants int

	// Answers is the total number of synthetic answer submissions.
	Answers int

	// OperatorID is the identity used for synthetic operator commands.
	OperatorID string

	// AnswerInterval is the delay between synthetic submissions.
	AnswerInterval time.Duration

	// Duration bounds the whole run after the bot connects.
	Duration time.Duration

	// Seed fixes the synthetic data randomness. Zero means time-based.
	Seed int64

	// Verbose logs every frame instead of a summary.
	Verbose bool
}
