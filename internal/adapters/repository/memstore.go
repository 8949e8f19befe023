package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxAnswerLength = 500
)

// answerKey addresses one answer in global submission order.
type answerKey struct {
	participantID string
	seq           int
}

// MemStore implements Store with plain in-memory tables. All state is lost
// on process restart.
type MemStore struct {
	mu sync.RWMutex

	maxAnswerLength int

	answers map[string][]model.Answer // per participant, append-only
	status  map[string][]model.Grade  // parallel to answers, index seq-1
	scores  map[string]int
	order   []string    // first-seen participant order, drives tie-breaks
	global  []answerKey // global submission order, drives review paging
}

// NewMemStore creates an in-memory submission store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		maxAnswerLength: defaultMaxAnswerLength,
		answers:         make(map[string][]model.Answer),
		status:          make(map[string][]model.Grade),
		scores:          make(map[string]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// touch lazily creates the participant's rows in all three tables.
// Caller must hold the write lock.
func (s *MemStore) touch(participantID string) {
	if _, ok := s.answers[participantID]; ok {
		return
	}
	s.answers[participantID] = nil
	s.status[participantID] = nil
	s.scores[participantID] = 0
	s.order = append(s.order, participantID)
	metrics.UpdateParticipantCount(len(s.order))
}

// Append records a new answer with status pending.
func (s *MemStore) Append(_ context.Context, participantID string, promptID int, text string) (int, error) {
	if text == "" {
		metrics.RecordValidationRejection()
		return 0, ErrEmptyAnswer
	}
	if len([]rune(text)) > s.maxAnswerLength {
		metrics.RecordValidationRejection()
		return 0, ErrOversizedAnswer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(participantID)

	seq := len(s.answers[participantID]) + 1
	s.answers[participantID] = append(s.answers[participantID], model.Answer{
		ParticipantID: participantID,
		PromptID:      promptID,
		Text:          text,
		Seq:           seq,
		SubmittedAt:   time.Now().UTC(),
	})
	s.status[participantID] = append(s.status[participantID], model.Grade{State: model.GradePending})
	s.global = append(s.global, answerKey{participantID: participantID, seq: seq})

	metrics.RecordAnswerSubmitted()

	return seq, nil
}

// AnswersForPrompt returns the prompt's answers in global submission order.
func (s *MemStore) AnswersForPrompt(_ context.Context, promptID int) []model.ReviewEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []model.ReviewEntry
	for _, key := range s.global {
		a := s.answers[key.participantID][key.seq-1]
		if a.PromptID != promptID {
			continue
		}
		entries = append(entries, model.ReviewEntry{
			Answer: a,
			Grade:  s.status[key.participantID][key.seq-1],
		})
	}
	return entries
}

// AllAnswers returns every answer in global submission order.
func (s *MemStore) AllAnswers(_ context.Context) []model.ReviewEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.ReviewEntry, 0, len(s.global))
	for _, key := range s.global {
		entries = append(entries, model.ReviewEntry{
			Answer: s.answers[key.participantID][key.seq-1],
			Grade:  s.status[key.participantID][key.seq-1],
		})
	}
	return entries
}

// Status returns the current grade of one answer.
func (s *MemStore) Status(_ context.Context, participantID string, seq int) (model.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grades, ok := s.status[participantID]
	if !ok || seq < 1 || seq > len(grades) {
		return model.Grade{}, ErrAnswerNotFound
	}
	return grades[seq-1], nil
}

// SetStatus overwrites the grade of one answer.
func (s *MemStore) SetStatus(_ context.Context, participantID string, seq int, grade model.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grades, ok := s.status[participantID]
	if !ok || seq < 1 || seq > len(grades) {
		return ErrAnswerNotFound
	}
	grades[seq-1] = grade
	return nil
}

// AddScore adds delta to a participant's cumulative score.
func (s *MemStore) AddScore(_ context.Context, participantID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[participantID]; !ok {
		return 0, ErrAnswerNotFound
	}
	s.scores[participantID] += delta
	return s.scores[participantID], nil
}

// Score returns a participant's cumulative score.
func (s *MemStore) Score(_ context.Context, participantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[participantID]
}

// Leaderboard returns the score snapshot, highest first. The stable sort
// keeps first-seen participants ahead on ties.
func (s *MemStore) Leaderboard(_ context.Context) []model.ScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.ScoreEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, model.ScoreEntry{ParticipantID: id, Score: s.scores[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// AnsweredPrompts returns prompt ids with at least one answer, ascending.
func (s *MemStore) AnsweredPrompts(_ context.Context) []PromptCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, key := range s.global {
		counts[s.answers[key.participantID][key.seq-1].PromptID]++
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]PromptCount, 0, len(ids))
	for _, id := range ids {
		out = append(out, PromptCount{PromptID: id, Answers: counts[id]})
	}
	return out
}

// Participants returns the number of participants seen so far.
func (s *MemStore) Participants(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
