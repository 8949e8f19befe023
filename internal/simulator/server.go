// Package simulator runs a stand-in chat platform gateway for local
// testing: it accepts the bot's websocket session, replays synthetic
// participant answers against whatever questions the bot posts, and
// reports what came back.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eldoria/harperbot/pkg/logger"
)

// Server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var promptPattern = regexp.MustCompile(`Question (\d+)`)

// Server is one fake gateway endpoint. It handles a single bot session
// at a time.
type Server struct {
	cfg *Config
	gen *generator

	mu      sync.Mutex
	prompts []int          // prompt ids seen in bot messages
	frames  map[string]int // op -> count
	replies []string

	logger logger.Logger
}

// NewServer builds a simulator from config.
func NewServer(cfg *Config) *Server {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Server{
		cfg:    cfg,
		gen:    newGenerator(cfg.Participants, seed),
		frames: make(map[string]int),
		logger: logger.Get().Named("simulator"),
	}
}

// Run serves the fake gateway until ctx is canceled or the configured
// duration elapses, then logs a run summary.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Duration)
		defer cancel()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Error(ctx, "upgrade failed", logger.Error(err))
			return
		}
		defer conn.Close()
		s.handleSession(ctx, conn)
	})

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "fake gateway listening",
		logger.String("addr", s.cfg.Addr),
		logger.Int("participants", s.cfg.Participants),
		logger.Int("answers", s.cfg.Answers),
	)

	err := srv.ListenAndServe()
	s.summarize(ctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleSession drives one bot connection: identify handshake, then
// synthetic traffic until the answer quota or the context runs out.
func (s *Server) handleSession(ctx context.Context, conn *websocket.Conn) {
	s.logger.Info(ctx, "bot connected")

	var writeMu sync.Mutex
	send := func(frame any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(frame)
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var f struct {
				Op   string          `json:"op"`
				Data json.RawMessage `json:"data"`
			}
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			s.record(ctx, f.Op, f.Data)
			if f.Op == "identify" {
				_ = send(map[string]any{
					"op":   "event",
					"id":   "ready-1",
					"type": "ready",
					"data": map[string]any{"session_id": "sim-session"},
				})
			}
		}
	}()

	// Unblock the reader when we stop.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	ticker := time.NewTicker(s.cfg.AnswerInterval)
	defer ticker.Stop()

	sent := 0
	for sent < s.cfg.Answers {
		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			return
		case <-ticker.C:
		}

		promptID, ok := s.anyPrompt()
		if !ok {
			continue // nothing posted yet
		}
		if err := send(s.gen.answerEvent(promptID)); err != nil {
			return
		}
		sent++
	}

	// Close out the run with an operator's-eye view.
	_ = send(s.gen.commandEvent(s.cfg.OperatorID, "answered", nil))
	_ = send(s.gen.commandEvent(s.cfg.OperatorID, "scoreboard", nil))

	select {
	case <-ctx.Done():
	case <-readerDone:
	}
}

// record tallies one bot frame and harvests prompt ids from messages.
func (s *Server) record(ctx context.Context, op string, data json.RawMessage) {
	s.mu.Lock()
	s.frames[op]++
	s.mu.Unlock()

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Content == "" {
		return
	}

	if s.cfg.Verbose {
		s.logger.Info(ctx, "bot frame", logger.String("op", op), logger.String("content", payload.Content))
	}

	switch op {
	case "message":
		if m := promptPattern.FindStringSubmatch(payload.Content); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return
			}
			s.mu.Lock()
			s.prompts = append(s.prompts, id)
			s.mu.Unlock()
			s.logger.Info(ctx, "question posted", logger.Int("prompt_id", id))
		}
	case "reply":
		s.mu.Lock()
		s.replies = append(s.replies, payload.Content)
		s.mu.Unlock()
	}
}

// anyPrompt picks a random already-posted prompt id.
func (s *Server) anyPrompt() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return 0, false
	}
	return s.prompts[s.gen.rng.Intn(len(s.prompts))], true
}

func (s *Server) summarize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info(ctx, "simulation finished",
		logger.Int("questions_posted", len(s.prompts)),
		logger.Int("replies_received", len(s.replies)),
		logger.Any("frames_by_op", s.frames),
	)
}
