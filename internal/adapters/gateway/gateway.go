// Package gateway maintains the websocket session to the chat platform:
// it identifies, reads event frames, routes them to the service, and
// renders the service's outbound surface back onto the wire.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/eldoria/harperbot/internal/adapters/repository"
	service "github.com/eldoria/harperbot/internal/app"
	"github.com/eldoria/harperbot/internal/domain/bank"
	"github.com/eldoria/harperbot/internal/domain/grading"
	"github.com/eldoria/harperbot/internal/domain/model"
	"github.com/eldoria/harperbot/pkg/logger"
	"github.com/eldoria/harperbot/pkg/metrics"
)

// Connection tuning constants.
const (
	defaultHeartbeat  = 30 * time.Second
	defaultMaxBackoff = time.Minute
	initialBackoff    = time.Second
	writeWait         = 10 * time.Second
	sendBuffer        = 32
)

// Handler receives decoded gateway events. *service.Service satisfies it.
type Handler interface {
	Ready(ctx context.Context)
	Submit(ctx context.Context, participantID string, promptID int, text string) (int, error)
	ListScores(ctx context.Context, invokerID string) ([]model.ScoreEntry, error)
	ListAnswers(ctx context.Context, invokerID string, page int) (service.ReviewPage, error)
	GradeQuestion(ctx context.Context, invokerID string, promptID int) (service.GradingSession, error)
	AnsweredPrompts(ctx context.Context, invokerID string) ([]repository.PromptCount, error)
	RejectAnswer(ctx context.Context, invokerID, participantID string, seq int) (int, error)
	AcceptAnswer(ctx context.Context, invokerID, participantID string, seq, points int) (int, error)
}

// Session is one logical gateway client. It survives connection drops:
// Run reconnects with capped backoff until its context is canceled.
type Session struct {
	url      string
	token    string
	channels []string
	prompts  map[int]string

	handler    Handler
	seen       *seenCache
	dialer     *websocket.Dialer
	heartbeat  time.Duration
	maxBackoff time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	// send is swapped on every (re)connect; nil while disconnected.
	sendMu sync.RWMutex
	send   chan outbound

	logger logger.Logger
}

// New constructs a Session for the given gateway URL.
func New(url, token string, opts ...Option) (*Session, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	s := &Session{
		url:        url,
		token:      token,
		prompts:    bank.DefaultPrompts(),
		seen:       newSeenCache(0),
		dialer:     websocket.DefaultDialer,
		heartbeat:  defaultHeartbeat,
		maxBackoff: defaultMaxBackoff,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("gateway")
	}

	return s, nil
}

// SetHandler binds the event handler. Must be called before Run; split
// from New because the service and the session reference each other.
func (s *Session) SetHandler(h Handler) {
	s.handler = h
}

// Run connects and serves until ctx is canceled, reconnecting on any
// connection failure with exponential backoff.
func (s *Session) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		start := time.Now()
		err := s.serve(ctx)
		if ctx.Err() != nil {
			s.logger.Info(ctx, "gateway session closed")
			return nil
		}
		s.logger.Warn(ctx, "gateway connection lost",
			logger.Error(err),
			logger.Duration("backoff", backoff),
		)
		metrics.RecordGatewayReconnect()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		// A session that held for a while earns a fresh backoff.
		if time.Since(start) > s.maxBackoff {
			backoff = initialBackoff
		} else if backoff *= 2; backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
	}
}

// serve runs one connection: identify, pump writes, read until error.
func (s *Session) serve(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dialing gateway: %w", err)
	}
	defer conn.Close()

	send := make(chan outbound, sendBuffer)
	writerDone := make(chan struct{})
	go s.writer(conn, send, writerDone)
	defer func() {
		close(send)
		<-writerDone
	}()

	s.sendMu.Lock()
	s.send = send
	s.sendMu.Unlock()
	// Detach before close so no enqueue can hit a closed channel.
	defer func() {
		s.sendMu.Lock()
		s.send = nil
		s.sendMu.Unlock()
	}()

	// Unblock the read loop when the context goes away.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	conn.SetReadDeadline(time.Now().Add(2 * s.heartbeat))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * s.heartbeat))
	})

	send <- outbound{Op: opIdentify, Nonce: uuid.NewString(), Data: identifyPayload{Token: s.token}}
	s.logger.Info(ctx, "gateway connected", logger.String("url", s.url))

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("reading gateway frame: %w", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * s.heartbeat))
		if f.Op != opEvent {
			continue
		}
		s.handleEvent(ctx, f)
	}
}

// writer owns all writes to conn: queued frames plus heartbeat pings.
func (s *Session) writer(conn *websocket.Conn, send <-chan outbound, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Error(context.Background(), "gateway write failed", logger.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands a frame to the current connection's writer. Never
// blocks: a saturated buffer drops the frame with an error.
func (s *Session) enqueue(out outbound) error {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()

	if s.send == nil {
		return ErrNotConnected
	}
	select {
	case s.send <- out:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (s *Session) handleEvent(ctx context.Context, f frame) {
	if f.ID != "" && s.seen.seenAndRecord(f.ID) {
		s.logger.Debug(ctx, "duplicate event dropped", logger.String("event_id", f.ID))
		return
	}
	metrics.RecordGatewayEvent(f.Type)

	switch f.Type {
	case eventReady:
		var ev readyEvent
		if err := json.Unmarshal(f.Data, &ev); err == nil && ev.SessionID != "" {
			s.logger.Info(ctx, "gateway ready", logger.String("session_id", ev.SessionID))
		}
		s.handler.Ready(ctx)
	case eventAnswerSubmit:
		s.handleAnswer(ctx, f.Data)
	case eventCommand:
		s.handleCommand(ctx, f.Data)
	default:
		s.logger.Debug(ctx, "unhandled event type", logger.String("type", f.Type))
	}
}

func (s *Session) handleAnswer(ctx context.Context, data json.RawMessage) {
	var ev answerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.logger.Error(ctx, "malformed answer event", logger.Error(err))
		return
	}

	if _, err := s.handler.Submit(ctx, ev.ParticipantID, ev.PromptID, ev.Text); err != nil {
		s.reply(ev.InteractionID, true, submitErrorText(err))
	}
	// The success path is acknowledged by the service through
	// ConfirmSubmission, so nothing more to do here.
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, repository.ErrOversizedAnswer):
		return "That answer is too long — 500 characters max."
	case errors.Is(err, repository.ErrEmptyAnswer):
		return "An empty answer can't be recorded."
	default:
		return "Your answer could not be recorded, please try again."
	}
}

func (s *Session) handleCommand(ctx context.Context, data json.RawMessage) {
	var cmd commandEvent
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.logger.Error(ctx, "malformed command event", logger.Error(err))
		return
	}

	content, ephemeral, err := s.runCommand(ctx, cmd)
	if err != nil {
		s.reply(cmd.InteractionID, true, commandErrorText(err))
		return
	}
	s.reply(cmd.InteractionID, ephemeral, content)
}

func (s *Session) runCommand(ctx context.Context, cmd commandEvent) (content string, ephemeral bool, err error) {
	switch cmd.Name {
	case cmdScoreboard:
		entries, err := s.handler.ListScores(ctx, cmd.InvokerID)
		if err != nil {
			return "", false, err
		}
		return renderScoreboard(entries), false, nil
	case cmdAnswers:
		page, err := s.handler.ListAnswers(ctx, cmd.InvokerID, cmd.Page)
		if err != nil {
			return "", false, err
		}
		return s.renderAnswersPage(page), true, nil
	case cmdGrade:
		sess, err := s.handler.GradeQuestion(ctx, cmd.InvokerID, cmd.PromptID)
		if err != nil {
			return "", false, err
		}
		return s.renderGradingSession(sess), true, nil
	case cmdAnswered:
		counts, err := s.handler.AnsweredPrompts(ctx, cmd.InvokerID)
		if err != nil {
			return "", false, err
		}
		return s.renderAnsweredPrompts(counts), true, nil
	case cmdAccept:
		total, err := s.handler.AcceptAnswer(ctx, cmd.InvokerID, cmd.ParticipantID, cmd.Seq, cmd.Points)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Accepted for %d points. <%s> now has %d.", cmd.Points, cmd.ParticipantID, total), true, nil
	case cmdReject:
		total, err := s.handler.RejectAnswer(ctx, cmd.InvokerID, cmd.ParticipantID, cmd.Seq)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Rejected with the attempt credit. <%s> now has %d.", cmd.ParticipantID, total), true, nil
	default:
		return "", false, fmt.Errorf("unknown command %q", cmd.Name)
	}
}

func commandErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return "You are not allowed to use this command."
	case errors.Is(err, service.ErrNoAnswers):
		return "Nobody has answered that question yet."
	case errors.Is(err, grading.ErrAlreadyGraded):
		return "That answer has already been graded."
	case errors.Is(err, grading.ErrInvalidPoints):
		return "Points must be between 2 and 5."
	case errors.Is(err, repository.ErrAnswerNotFound):
		return "No such answer."
	default:
		return "Command failed: " + err.Error()
	}
}

func (s *Session) reply(interactionID string, ephemeral bool, content string) {
	if interactionID == "" {
		return
	}
	err := s.enqueue(outbound{
		Op:    opReply,
		Nonce: uuid.NewString(),
		Data:  replyOut{InteractionID: interactionID, Ephemeral: ephemeral, Content: content},
	})
	if err != nil {
		s.logger.Error(context.Background(), "interaction reply failed",
			logger.String("interaction_id", interactionID),
			logger.Error(err),
		)
	}
}

// pickChannel selects a random broadcast channel for a prompt.
func (s *Session) pickChannel() (string, error) {
	if len(s.channels) == 0 {
		return "", ErrNoChannels
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.channels[s.rng.Intn(len(s.channels))], nil
}

// ShowPrompt posts a freshly drawn question to a random broadcast
// channel. Implements the service's Presenter.
func (s *Session) ShowPrompt(ctx context.Context, prompt model.Prompt) error {
	channel, err := s.pickChannel()
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "posting prompt",
		logger.Int("prompt_id", prompt.ID),
		logger.String("channel", channel),
	)
	return s.enqueue(outbound{
		Op:    opMessage,
		Nonce: uuid.NewString(),
		Data:  messageOut{ChannelID: channel, Content: renderPrompt(prompt)},
	})
}

// ConfirmSubmission acknowledges a recorded answer privately.
func (s *Session) ConfirmSubmission(ctx context.Context, ack service.Ack) error {
	content := fmt.Sprintf("Answer #%d to question %d recorded. Good luck!", ack.Seq, ack.PromptID)
	return s.enqueue(outbound{
		Op:    opMessage,
		Nonce: uuid.NewString(),
		Data:  messageOut{To: ack.ParticipantID, Ephemeral: true, Content: content},
	})
}

// AnnounceGrade publishes a grading outcome to a broadcast channel.
func (s *Session) AnnounceGrade(ctx context.Context, participantID string, accepted bool, points, total int) error {
	channel, err := s.pickChannel()
	if err != nil {
		return err
	}
	return s.enqueue(outbound{
		Op:    opMessage,
		Nonce: uuid.NewString(),
		Data:  messageOut{ChannelID: channel, Content: renderGradeAnnouncement(participantID, accepted, points, total)},
	})
}
