package gateway

import (
	"fmt"
	"strings"

	"github.com/eldoria/harperbot/internal/adapters/repository"
	service "github.com/eldoria/harperbot/internal/app"
	"github.com/eldoria/harperbot/internal/domain/model"
)

// Preview lengths for review listings.
const (
	answerPreviewLen   = 100
	questionPreviewLen = 80
)

var medals = []string{"🥇", "🥈", "🥉"}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func renderPrompt(p model.Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 **Question %d**\n%s\n\n", p.ID, p.Text)
	b.WriteString("Use the answer form below — one submission per press, 500 characters max.")
	return b.String()
}

func renderScoreboard(entries []model.ScoreEntry) string {
	if len(entries) == 0 {
		return "No scores yet."
	}
	var b strings.Builder
	b.WriteString("🏆 **Scoreboard**\n")
	for _, e := range entries {
		marker := fmt.Sprintf("%2d.", e.Rank)
		if e.Rank <= len(medals) {
			marker = medals[e.Rank-1]
		}
		fmt.Fprintf(&b, "%s <%s> — %d points\n", marker, e.ParticipantID, e.Score)
	}
	return b.String()
}

func (s *Session) questionPreview(promptID int) string {
	if text, ok := s.prompts[promptID]; ok {
		return truncate(text, questionPreviewLen)
	}
	return fmt.Sprintf("question %d", promptID)
}

func (s *Session) renderAnswersPage(page service.ReviewPage) string {
	if page.Total == 0 {
		return "No answers recorded yet."
	}
	var b strings.Builder
	b.WriteString("📋 **Recorded answers**\n")
	for _, e := range page.Entries {
		fmt.Fprintf(&b, "%s <%s> #%d · Q%d: %s\n    %s\n",
			e.Grade.State.Glyph(),
			e.Answer.ParticipantID,
			e.Answer.Seq,
			e.Answer.PromptID,
			s.questionPreview(e.Answer.PromptID),
			truncate(e.Answer.Text, answerPreviewLen),
		)
	}
	fmt.Fprintf(&b, "\nPage %d/%d (%d answers)", page.Page, page.Pages, page.Total)
	return b.String()
}

func (s *Session) renderGradingSession(sess service.GradingSession) string {
	e := sess.Entry
	var b strings.Builder
	fmt.Fprintf(&b, "%s Grading Q%d: %s\n", e.Grade.State.Glyph(), sess.PromptID, s.questionPreview(sess.PromptID))
	fmt.Fprintf(&b, "<%s> #%d (current score %d):\n%s\n", e.Answer.ParticipantID, e.Answer.Seq, sess.Score, e.Answer.Text)
	if sess.Remaining > 0 {
		fmt.Fprintf(&b, "\n%d more answer(s) to this question — re-run the command for the next one.", sess.Remaining)
	}
	return b.String()
}

func (s *Session) renderAnsweredPrompts(counts []repository.PromptCount) string {
	if len(counts) == 0 {
		return "No questions have been answered yet."
	}
	var b strings.Builder
	b.WriteString("❓ **Answered questions**\n")
	for _, c := range counts {
		fmt.Fprintf(&b, "Q%d (%d answer(s)): %s\n", c.PromptID, c.Answers, s.questionPreview(c.PromptID))
	}
	return b.String()
}

func renderGradeAnnouncement(participantID string, accepted bool, points, total int) string {
	if accepted {
		return fmt.Sprintf("✅ <%s> answered correctly and earned %d points! Total: %d", participantID, points, total)
	}
	return fmt.Sprintf("❌ <%s> gave a wrong answer but gets %d point for trying. Total: %d", participantID, points, total)
}
