package bank

import "math/rand"

// Option applies a configuration option to the Bank.
type Option func(*Bank)

// WithPrompts replaces the default question table.
func WithPrompts(table map[int]string) Option {
	return func(b *Bank) {
		if len(table) > 0 {
			b.load(table)
		}
	}
}

// WithSeed fixes the draw order for reproducible tests.
func WithSeed(seed int64) Option {
	return func(b *Bank) {
		b.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for tests
	}
}
