package simulator

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Sample answer fragments composed into synthetic submissions.
var answerFragments = []string{
	"check the audit log first",
	"escalate to the senior moderator on duty",
	"apply a short timeout and document the reason",
	"ask for context before acting",
	"use the configured command for that",
	"review the recent message history",
	"warn once, then remove repeat offenders",
	"defer to the posted community guidelines",
}

// generator produces synthetic gateway events for one run.
type generator struct {
	rng          *rand.Rand
	participants []string
}

func newGenerator(participants int, seed int64) *generator {
	g := &generator{rng: rand.New(rand.NewSource(seed))}
	for i := 1; i <= participants; i++ {
		g.participants = append(g.participants, fmt.Sprintf("member-%03d", i))
	}
	return g
}

// answerEvent builds one synthetic answer submission for a known prompt.
func (g *generator) answerEvent(promptID int) map[string]any {
	participant := g.participants[g.rng.Intn(len(g.participants))]
	text := answerFragments[g.rng.Intn(len(answerFragments))]
	return map[string]any{
		"op":   "event",
		"id":   uuid.NewString(),
		"type": "answer_submit",
		"data": map[string]any{
			"interaction_id": uuid.NewString(),
			"participant_id": participant,
			"prompt_id":      promptID,
			"text":           text,
		},
	}
}

// commandEvent builds one synthetic operator command.
func (g *generator) commandEvent(invokerID, name string, fields map[string]any) map[string]any {
	data := map[string]any{
		"interaction_id": uuid.NewString(),
		"invoker_id":     invokerID,
		"name":           name,
	}
	for k, v := range fields {
		data[k] = v
	}
	return map[string]any{
		"op":   "event",
		"id":   uuid.NewString(),
		"type": "command",
		"data": data,
	}
}
