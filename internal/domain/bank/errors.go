package bank

import "errors"

// Sentinel kinds for bank errors.
var (
	// ErrExhausted is returned by Draw once every prompt has been handed out.
	ErrExhausted = errors.New("prompt bank exhausted")
)
