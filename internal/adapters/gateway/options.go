package gateway

import (
	"math/rand"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eldoria/harperbot/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithChannels sets the broadcast channels prompts and announcements
// are posted to. One is picked at random per message.
func WithChannels(ids []string) Option {
	return func(s *Session) {
		s.channels = ids
	}
}

// WithPrompts sets the question table used for review previews.
func WithPrompts(table map[int]string) Option {
	return func(s *Session) {
		if len(table) > 0 {
			s.prompts = table
		}
	}
}

// WithDialer sets a custom websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(s *Session) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithHeartbeat sets the ping interval. The read deadline is twice it.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.heartbeat = d
		}
	}
}

// WithMaxBackoff caps the reconnect backoff.
func WithMaxBackoff(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.maxBackoff = d
		}
	}
}

// WithSeenLimit bounds the duplicate-event cache.
func WithSeenLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.seen = newSeenCache(n)
		}
	}
}

// WithSeed fixes channel-pick randomness for reproducible tests.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
