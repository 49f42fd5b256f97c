package server

import "errors"

// Connection-level errors.
var (
	// ErrUnknownVerb marks the synthetic response the reader produces
	// when a command's verb has no registered handler.
	ErrUnknownVerb = errors.New("server: command unknown")

	// ErrPeerDisconnected indicates the socket was closed by the
	// remote side rather than via a local shutdown signal.
	ErrPeerDisconnected = errors.New("server: peer disconnected")
)
