package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eldoria/harperbot/internal/adapters/repository"
	service "github.com/eldoria/harperbot/internal/app"
	"github.com/eldoria/harperbot/internal/domain/grading"
	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const operatorID = "operator-1"

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakePresenter captures every outbound call.
type fakePresenter struct {
	mu        sync.Mutex
	prompts   []model.Prompt
	acks      []service.Ack
	grades    []string
	failGrade bool
}

func (p *fakePresenter) ShowPrompt(_ context.Context, prompt model.Prompt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	return nil
}

func (p *fakePresenter) ConfirmSubmission(_ context.Context, ack service.Ack) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acks = append(p.acks, ack)
	return nil
}

func (p *fakePresenter) AnnounceGrade(_ context.Context, participantID string, accepted bool, points, total int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failGrade {
		return errors.New("announce failed")
	}
	p.grades = append(p.grades, fmt.Sprintf("%s:%v:%d:%d", participantID, accepted, points, total))
	return nil
}

func newStartedService(t *testing.T, presenter *fakePresenter, opts ...service.Option) *service.Service {
	t.Helper()
	base := []service.Option{
		service.WithOperatorID(operatorID),
		service.WithPrompts(map[int]string{1: "q1", 2: "q2", 3: "q3"}),
		service.WithSeed(11),
		service.WithWarmup(time.Hour), // keep the scheduler quiet unless a test wants it
	}
	svc := service.New(presenter, append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Submit(t *testing.T) {
	Convey("Given a started service", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter)
		ctx := context.Background()

		Convey("When a participant submits an answer", func() {
			seq, err := svc.Submit(ctx, "alice", 1, "escalate and document")

			Convey("Then it should be recorded with sequence 1 and acked", func() {
				So(err, ShouldBeNil)
				So(seq, ShouldEqual, 1)
				So(presenter.acks, ShouldHaveLength, 1)
				So(presenter.acks[0], ShouldResemble, service.Ack{ParticipantID: "alice", PromptID: 1, Seq: 1})
			})
		})

		Convey("When the answer text is oversized", func() {
			_, err := svc.Submit(ctx, "alice", 1, strings.Repeat("x", 501))

			Convey("Then it should fail with the validation error and no ack", func() {
				So(errors.Is(err, repository.ErrOversizedAnswer), ShouldBeTrue)
				So(presenter.acks, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(&fakePresenter{})

		Convey("Then submissions should be refused", func() {
			_, err := svc.Submit(context.Background(), "alice", 1, "text")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Authorization(t *testing.T) {
	Convey("Given a started service", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter)
		ctx := context.Background()
		_, _ = svc.Submit(ctx, "alice", 1, "answer")

		Convey("Then every privileged call should reject a non-operator", func() {
			_, err := svc.ListScores(ctx, "impostor")
			So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)

			_, err = svc.ListAnswers(ctx, "impostor", 1)
			So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)

			_, err = svc.GradeQuestion(ctx, "impostor", 1)
			So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)

			_, err = svc.AnsweredPrompts(ctx, "impostor")
			So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)

			_, err = svc.RejectAnswer(ctx, "impostor", "alice", 1)
			So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)

			_, err = svc.AcceptAnswer(ctx, "impostor", "alice", 1, 3)
			So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)
		})

		Convey("And unauthorized grading should leave the answer pending", func() {
			_, _ = svc.AcceptAnswer(ctx, "impostor", "alice", 1, 3)
			sess, err := svc.GradeQuestion(ctx, operatorID, 1)
			So(err, ShouldBeNil)
			So(sess.Entry.Grade.State, ShouldEqual, model.GradePending)
		})
	})
}

func TestService_Grading(t *testing.T) {
	Convey("Given a service with one answer", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter)
		ctx := context.Background()
		_, _ = svc.Submit(ctx, "alice", 2, "check the audit log")

		Convey("When the operator accepts it for 4 points", func() {
			total, err := svc.AcceptAnswer(ctx, operatorID, "alice", 1, 4)

			Convey("Then the score and announcement should reflect the award", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 4)
				So(presenter.grades, ShouldResemble, []string{"alice:true:4:4"})
			})

			Convey("And regrading should fail with no second announcement", func() {
				_, err := svc.AcceptAnswer(ctx, operatorID, "alice", 1, 3)
				So(errors.Is(err, grading.ErrAlreadyGraded), ShouldBeTrue)
				So(presenter.grades, ShouldHaveLength, 1)
			})
		})

		Convey("When the operator rejects it", func() {
			total, err := svc.RejectAnswer(ctx, operatorID, "alice", 1)

			Convey("Then the attempt credit should be announced", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 1)
				So(presenter.grades, ShouldResemble, []string{"alice:false:1:1"})
			})
		})

		Convey("When the announcement fails", func() {
			presenter.failGrade = true
			total, err := svc.AcceptAnswer(ctx, operatorID, "alice", 1, 2)

			Convey("Then the grade should still stand", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 2)
				sess, err := svc.GradeQuestion(ctx, operatorID, 2)
				So(err, ShouldBeNil)
				So(sess.Entry.Grade.State, ShouldEqual, model.GradeAccepted)
			})
		})
	})
}

func TestService_GradeQuestion(t *testing.T) {
	Convey("Given answers from several participants to one prompt", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter)
		ctx := context.Background()
		_, _ = svc.Submit(ctx, "alice", 3, "first in")
		_, _ = svc.Submit(ctx, "bob", 3, "second in")
		_, _ = svc.Submit(ctx, "carol", 1, "different prompt")

		Convey("When opening a grading session", func() {
			sess, err := svc.GradeQuestion(ctx, operatorID, 3)

			Convey("Then it should surface the first answer and the remainder count", func() {
				So(err, ShouldBeNil)
				So(sess.Entry.Answer.ParticipantID, ShouldEqual, "alice")
				So(sess.Remaining, ShouldEqual, 1)
				So(sess.Score, ShouldEqual, 0)
			})
		})

		Convey("When the prompt has no answers", func() {
			_, err := svc.GradeQuestion(ctx, operatorID, 2)
			So(errors.Is(err, service.ErrNoAnswers), ShouldBeTrue)
		})

		Convey("When listing answered prompts", func() {
			counts, err := svc.AnsweredPrompts(ctx, operatorID)
			So(err, ShouldBeNil)
			So(counts, ShouldResemble, []repository.PromptCount{
				{PromptID: 1, Answers: 1},
				{PromptID: 3, Answers: 2},
			})
		})
	})
}

func TestService_ListAnswers(t *testing.T) {
	Convey("Given 25 recorded answers", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter)
		ctx := context.Background()
		for i := 0; i < 25; i++ {
			_, _ = svc.Submit(ctx, fmt.Sprintf("p%02d", i%5), 1, fmt.Sprintf("answer %d", i))
		}

		Convey("Then paging should split them 10/10/5", func() {
			page, err := svc.ListAnswers(ctx, operatorID, 1)
			So(err, ShouldBeNil)
			So(page.Pages, ShouldEqual, 3)
			So(page.Total, ShouldEqual, 25)
			So(page.Entries, ShouldHaveLength, 10)

			page, _ = svc.ListAnswers(ctx, operatorID, 3)
			So(page.Entries, ShouldHaveLength, 5)
		})

		Convey("And out-of-range pages should clamp", func() {
			page, err := svc.ListAnswers(ctx, operatorID, 99)
			So(err, ShouldBeNil)
			So(page.Page, ShouldEqual, 3)

			page, _ = svc.ListAnswers(ctx, operatorID, -1)
			So(page.Page, ShouldEqual, 1)
		})
	})

	Convey("Given no answers at all", t, func() {
		svc := newStartedService(t, &fakePresenter{})

		Convey("Then the page should be empty with zero pages", func() {
			page, err := svc.ListAnswers(context.Background(), operatorID, 1)
			So(err, ShouldBeNil)
			So(page.Total, ShouldEqual, 0)
			So(page.Pages, ShouldEqual, 0)
			So(page.Entries, ShouldBeEmpty)
		})
	})
}

func TestService_ListScores(t *testing.T) {
	Convey("Given graded answers", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter)
		ctx := context.Background()
		_, _ = svc.Submit(ctx, "alice", 1, "a")
		_, _ = svc.Submit(ctx, "bob", 1, "b")
		_, _ = svc.AcceptAnswer(ctx, operatorID, "bob", 1, 5)
		_, _ = svc.RejectAnswer(ctx, operatorID, "alice", 1)

		Convey("Then the leaderboard should rank by score", func() {
			lb, err := svc.ListScores(ctx, operatorID)
			So(err, ShouldBeNil)
			So(lb, ShouldHaveLength, 2)
			So(lb[0].ParticipantID, ShouldEqual, "bob")
			So(lb[0].Score, ShouldEqual, 5)
			So(lb[1].ParticipantID, ShouldEqual, "alice")
			So(lb[1].Score, ShouldEqual, 1)
		})
	})
}

func TestService_Ready(t *testing.T) {
	Convey("Given a service with a one-question bank and a fast scheduler", t, func() {
		presenter := &fakePresenter{}
		svc := newStartedService(t, presenter,
			service.WithPrompts(map[int]string{1: "only question"}),
			service.WithWarmup(time.Millisecond),
			service.WithIntervalRange(time.Millisecond, 2*time.Millisecond),
			service.WithBudget(1),
		)
		ctx := context.Background()

		Convey("When the session becomes ready twice (reconnect)", func() {
			svc.Ready(ctx)
			svc.Ready(ctx)

			// Wait for the single dispatch to land.
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				presenter.mu.Lock()
				n := len(presenter.prompts)
				presenter.mu.Unlock()
				if n > 0 {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}

			Convey("Then exactly one dispatch loop should have run", func() {
				time.Sleep(20 * time.Millisecond) // would surface a second loop's dispatch
				presenter.mu.Lock()
				defer presenter.mu.Unlock()
				So(presenter.prompts, ShouldHaveLength, 1)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newStartedService(t, &fakePresenter{})

		Convey("Then stats should report the component states", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["schedulerState"], ShouldEqual, "idle")
			So(stats["promptsRemaining"], ShouldEqual, 3)
		})
	})
}
