// Package metrics provides interfaces and implementations for collecting
// imapd server metrics. This package defines the Collector interface for
// recording metrics and the Server interface for exposing them.
package metrics

import "context"

// Collector defines the interface for recording imapd server metrics.
type Collector interface {
	// Connection metrics
	ConnectionOpened()
	ConnectionClosed()

	// AuthAttempt records a LOGIN outcome.
	AuthAttempt(success bool)

	// CommandProcessed records a dispatched command by verb.
	CommandProcessed(verb string)

	// SelectCompleted records a successful SELECT against a mailbox.
	SelectCompleted(mailbox string)

	// FetchCompleted records a successful FETCH.
	FetchCompleted()
}

// Server defines the interface for a metrics HTTP server.
type Server interface {
	// Start begins serving metrics. It blocks until the context is canceled
	// or an error occurs.
	Start(ctx context.Context) error

	// Shutdown gracefully stops the metrics server.
	Shutdown(ctx context.Context) error
}
