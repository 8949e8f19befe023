package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/eldoria/harperbot/internal/adapters/gateway"
	"github.com/eldoria/harperbot/internal/adapters/repository"
	service "github.com/eldoria/harperbot/internal/app"
	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeHandler records gateway dispatches and plays back canned results.
type fakeHandler struct {
	mu         sync.Mutex
	readyCalls int
	submits    []string
	submitErr  error
	scores     []model.ScoreEntry
	scoresErr  error
}

func (h *fakeHandler) Ready(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readyCalls++
}

func (h *fakeHandler) Submit(_ context.Context, participantID string, _ int, _ string) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.submitErr != nil {
		return 0, h.submitErr
	}
	h.submits = append(h.submits, participantID)
	return len(h.submits), nil
}

func (h *fakeHandler) ListScores(context.Context, string) ([]model.ScoreEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scores, h.scoresErr
}

func (h *fakeHandler) ListAnswers(context.Context, string, int) (service.ReviewPage, error) {
	return service.ReviewPage{}, nil
}

func (h *fakeHandler) GradeQuestion(context.Context, string, int) (service.GradingSession, error) {
	return service.GradingSession{}, nil
}

func (h *fakeHandler) AnsweredPrompts(context.Context, string) ([]repository.PromptCount, error) {
	return nil, nil
}

func (h *fakeHandler) RejectAnswer(context.Context, string, string, int) (int, error) {
	return 1, nil
}

func (h *fakeHandler) AcceptAnswer(context.Context, string, string, int, int) (int, error) {
	return 4, nil
}

func (h *fakeHandler) submitted() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.submits...)
}

func (h *fakeHandler) ready() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.readyCalls
}

// testServer is a minimal gateway endpoint: it accepts one websocket
// client, records every frame it sends, and lets tests push events.
type testServer struct {
	srv    *httptest.Server
	url    string
	frames chan map[string]any

	mu   sync.Mutex
	conn *websocket.Conn

	connected chan struct{}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		frames:    make(chan map[string]any, 64),
		connected: make(chan struct{}, 4),
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.conn = conn
		ts.mu.Unlock()
		ts.connected <- struct{}{}
		for {
			var f map[string]any
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			ts.frames <- f
		}
	}))
	t.Cleanup(ts.srv.Close)
	ts.url = "ws" + ts.srv.URL[len("http"):]
	return ts
}

func (ts *testServer) push(t *testing.T, f any) {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if err := ts.conn.WriteJSON(f); err != nil {
		t.Fatalf("push frame: %v", err)
	}
}

// waitFrame drains server-received frames until one matches op.
func (ts *testServer) waitFrame(t *testing.T, op string) map[string]any {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case f := <-ts.frames:
			if f["op"] == op {
				return f
			}
		case <-deadline:
			t.Fatalf("no %q frame within deadline", op)
			return nil
		}
	}
}

func (ts *testServer) waitConnected(t *testing.T) {
	t.Helper()
	select {
	case <-ts.connected:
	case <-time.After(5 * time.Second):
		t.Fatal("client never connected")
	}
}

func event(id, typ string, data map[string]any) map[string]any {
	return map[string]any{"op": "event", "id": id, "type": typ, "data": data}
}

func startSession(t *testing.T, ts *testServer, h gateway.Handler, opts ...gateway.Option) *gateway.Session {
	t.Helper()
	base := []gateway.Option{
		gateway.WithChannels([]string{"chan-1"}),
		gateway.WithSeed(7),
	}
	sess, err := gateway.New(ts.url, "bot-token", append(base, opts...)...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sess.SetHandler(h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sess.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	ts.waitConnected(t)
	return sess
}

func eventually(check func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestSession_New(t *testing.T) {
	Convey("Given a session without a token", t, func() {
		_, err := gateway.New("ws://example", "")

		Convey("Then construction should fail", func() {
			So(errors.Is(err, gateway.ErrMissingToken), ShouldBeTrue)
		})
	})
}

func TestSession_IdentifyAndReady(t *testing.T) {
	Convey("Given a connected session", t, func() {
		ts := newTestServer(t)
		h := &fakeHandler{}
		startSession(t, ts, h)

		Convey("Then it should identify with its token", func() {
			f := ts.waitFrame(t, "identify")
			data, _ := f["data"].(map[string]any)
			So(data["token"], ShouldEqual, "bot-token")
			So(f["nonce"], ShouldNotBeEmpty)
		})

		Convey("When the platform signals ready", func() {
			ts.push(t, event("ev-1", "ready", map[string]any{"session_id": "sess-1"}))

			Convey("Then the handler should be notified", func() {
				So(eventually(func() bool { return h.ready() == 1 }), ShouldBeTrue)
			})
		})
	})
}

func TestSession_AnswerFlow(t *testing.T) {
	Convey("Given a connected session", t, func() {
		ts := newTestServer(t)
		h := &fakeHandler{}
		startSession(t, ts, h)
		ts.waitFrame(t, "identify")

		Convey("When an answer submission arrives", func() {
			ts.push(t, event("ev-1", "answer_submit", map[string]any{
				"interaction_id": "int-1",
				"participant_id": "alice",
				"prompt_id":      3,
				"text":           "rotate the keys",
			}))

			Convey("Then it should reach the handler", func() {
				So(eventually(func() bool { return len(h.submitted()) == 1 }), ShouldBeTrue)
				So(h.submitted()[0], ShouldEqual, "alice")
			})
		})

		Convey("When the submission is rejected as oversized", func() {
			h.submitErr = repository.ErrOversizedAnswer
			ts.push(t, event("ev-2", "answer_submit", map[string]any{
				"interaction_id": "int-2",
				"participant_id": "alice",
				"prompt_id":      3,
				"text":           "way too long",
			}))

			Convey("Then an ephemeral error reply should go out", func() {
				f := ts.waitFrame(t, "reply")
				data, _ := f["data"].(map[string]any)
				So(data["interaction_id"], ShouldEqual, "int-2")
				So(data["ephemeral"], ShouldEqual, true)
				So(data["content"], ShouldContainSubstring, "too long")
			})
		})
	})
}

func TestSession_Dedupe(t *testing.T) {
	Convey("Given a connected session", t, func() {
		ts := newTestServer(t)
		h := &fakeHandler{}
		startSession(t, ts, h)
		ts.waitFrame(t, "identify")

		Convey("When the same event id is delivered twice", func() {
			submit := map[string]any{
				"interaction_id": "int-1",
				"participant_id": "alice",
				"prompt_id":      1,
				"text":           "answer",
			}
			ts.push(t, event("dup-1", "answer_submit", submit))
			ts.push(t, event("dup-1", "answer_submit", submit))
			ts.push(t, event("ev-2", "answer_submit", map[string]any{
				"interaction_id": "int-2",
				"participant_id": "bob",
				"prompt_id":      1,
				"text":           "answer",
			}))

			Convey("Then the duplicate should be dropped", func() {
				So(eventually(func() bool {
					s := h.submitted()
					return len(s) == 2 && s[1] == "bob"
				}), ShouldBeTrue)
			})
		})
	})
}

func TestSession_CommandRouting(t *testing.T) {
	Convey("Given a connected session", t, func() {
		ts := newTestServer(t)
		h := &fakeHandler{
			scores: []model.ScoreEntry{
				{Rank: 1, ParticipantID: "alice", Score: 9},
				{Rank: 2, ParticipantID: "bob", Score: 4},
			},
		}
		startSession(t, ts, h)
		ts.waitFrame(t, "identify")

		Convey("When the scoreboard command arrives", func() {
			ts.push(t, event("ev-1", "command", map[string]any{
				"interaction_id": "int-1",
				"invoker_id":     "operator-1",
				"name":           "scoreboard",
			}))

			Convey("Then the reply should carry the ranked board", func() {
				f := ts.waitFrame(t, "reply")
				data, _ := f["data"].(map[string]any)
				content, _ := data["content"].(string)
				So(content, ShouldContainSubstring, "🥇 <alice> — 9 points")
				So(content, ShouldContainSubstring, "🥈 <bob> — 4 points")
			})
		})

		Convey("When the invoker is not the operator", func() {
			h.scoresErr = service.ErrUnauthorized
			ts.push(t, event("ev-2", "command", map[string]any{
				"interaction_id": "int-2",
				"invoker_id":     "impostor",
				"name":           "scoreboard",
			}))

			Convey("Then an ephemeral refusal should go out", func() {
				f := ts.waitFrame(t, "reply")
				data, _ := f["data"].(map[string]any)
				So(data["ephemeral"], ShouldEqual, true)
				So(data["content"], ShouldContainSubstring, "not allowed")
			})
		})

		Convey("When the command name is unknown", func() {
			ts.push(t, event("ev-3", "command", map[string]any{
				"interaction_id": "int-3",
				"invoker_id":     "operator-1",
				"name":           "bogus",
			}))

			Convey("Then the reply should say the command failed", func() {
				f := ts.waitFrame(t, "reply")
				data, _ := f["data"].(map[string]any)
				So(data["content"], ShouldContainSubstring, "Command failed")
			})
		})
	})
}

func TestSession_Presenter(t *testing.T) {
	Convey("Given a connected session", t, func() {
		ts := newTestServer(t)
		h := &fakeHandler{}
		sess := startSession(t, ts, h)
		ts.waitFrame(t, "identify")
		ctx := context.Background()

		Convey("When a prompt is shown", func() {
			err := sess.ShowPrompt(ctx, model.Prompt{ID: 7, Text: "What does the audit log record?"})

			Convey("Then a channel message should go out", func() {
				So(err, ShouldBeNil)
				f := ts.waitFrame(t, "message")
				data, _ := f["data"].(map[string]any)
				So(data["channel_id"], ShouldEqual, "chan-1")
				So(data["content"], ShouldContainSubstring, "Question 7")
				So(data["content"], ShouldContainSubstring, "audit log")
			})
		})

		Convey("When a submission is confirmed", func() {
			err := sess.ConfirmSubmission(ctx, service.Ack{ParticipantID: "alice", PromptID: 2, Seq: 3})

			Convey("Then an ephemeral direct message should go out", func() {
				So(err, ShouldBeNil)
				f := ts.waitFrame(t, "message")
				data, _ := f["data"].(map[string]any)
				So(data["to"], ShouldEqual, "alice")
				So(data["ephemeral"], ShouldEqual, true)
				So(data["content"], ShouldContainSubstring, "Answer #3")
			})
		})

		Convey("When a grade is announced", func() {
			err := sess.AnnounceGrade(ctx, "alice", true, 5, 12)

			Convey("Then the award should be broadcast", func() {
				So(err, ShouldBeNil)
				f := ts.waitFrame(t, "message")
				data, _ := f["data"].(map[string]any)
				So(data["content"], ShouldContainSubstring, "earned 5 points")
				So(data["content"], ShouldContainSubstring, "Total: 12")
			})
		})
	})

	Convey("Given a session that never connected", t, func() {
		sess, err := gateway.New("ws://127.0.0.1:1", "bot-token", gateway.WithChannels([]string{"chan-1"}))
		So(err, ShouldBeNil)

		Convey("Then presenting should fail cleanly", func() {
			err := sess.ShowPrompt(context.Background(), model.Prompt{ID: 1, Text: "q"})
			So(errors.Is(err, gateway.ErrNotConnected), ShouldBeTrue)
		})
	})

	Convey("Given a session with no broadcast channels", t, func() {
		sess, err := gateway.New("ws://127.0.0.1:1", "bot-token")
		So(err, ShouldBeNil)

		Convey("Then showing a prompt should fail", func() {
			err := sess.ShowPrompt(context.Background(), model.Prompt{ID: 1, Text: "q"})
			So(errors.Is(err, gateway.ErrNoChannels), ShouldBeTrue)
		})
	})
}
