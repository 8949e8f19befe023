package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxAnswerLength sets the maximum accepted answer length in characters.
func WithMaxAnswerLength(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxAnswerLength = n
		}
	}
}
