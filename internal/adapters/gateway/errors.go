package gateway

import "errors"

// Sentinel kinds for gateway errors.
var (
	// ErrNotConnected is returned when an outbound send is attempted with
	// no live gateway connection.
	ErrNotConnected = errors.New("gateway not connected")
	// ErrSendBufferFull is returned when the outbound queue is saturated.
	// The message is dropped rather than blocking the caller.
	ErrSendBufferFull = errors.New("gateway send buffer full")
	// ErrNoChannels is returned when a prompt must be shown but no
	// broadcast channels are configured.
	ErrNoChannels = errors.New("no broadcast channels configured")
	// ErrMissingToken is returned when the session is built without an
	// authentication token.
	ErrMissingToken = errors.New("gateway token is required")
)
