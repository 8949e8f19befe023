// Package bank implements the depletable prompt bank the scheduler draws from.
//
// A prompt leaves the bank the moment it is drawn; within one process run a
// prompt can never be handed out twice. Selection among the remaining
// prompts is uniformly random.
package bank

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/eldoria/harperbot/internal/domain/model"
)

// Bank holds the prompts still available for dispatch.
type Bank struct {
	mu        sync.Mutex
	remaining []model.Prompt
	rng       *rand.Rand
}

// New creates a Bank with configuration options. Without WithPrompts it is
// loaded with the default moderator question table.
func New(opts ...Option) *Bank {
	b := &Bank{}

	for _, opt := range opts {
		opt(b)
	}

	if b.remaining == nil {
		b.load(DefaultPrompts())
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // jitter, not crypto
	}

	return b
}

// load fills the remaining set from an id→text table. Sorted by id so the
// initial layout is deterministic; draw order is randomized anyway.
func (b *Bank) load(table map[int]string) {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	b.remaining = make([]model.Prompt, 0, len(ids))
	for _, id := range ids {
		b.remaining = append(b.remaining, model.Prompt{ID: id, Text: table[id]})
	}
}

// Draw removes and returns one uniformly random prompt from the remaining
// set. It fails with ErrExhausted once the bank is empty.
func (b *Bank) Draw(_ context.Context) (model.Prompt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.remaining)
	if n == 0 {
		return model.Prompt{}, ErrExhausted
	}

	i := b.rng.Intn(n)
	p := b.remaining[i]
	b.remaining[i] = b.remaining[n-1]
	b.remaining = b.remaining[:n-1]

	return p, nil
}

// Remaining returns the number of prompts still available.
func (b *Bank) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.remaining)
}
