// Package handlers implements the per-verb command handler workers:
// LOGIN, LOGOUT, SELECT, FETCH, and CAPABILITY. Each worker drains its
// own request channel until it closes, validating, consulting the
// session snapshot, emitting events, and sending exactly one response
// batch per request.
package handlers

import (
	"context"

	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

// Handler is the contract every command worker satisfies.
type Handler interface {
	// Verb is the uppercased command name this handler owns.
	Verb() string
	// Start drains requests until the channel closes, returning nil on
	// clean close.
	Start(ctx context.Context, requests <-chan dispatch.Request) error
}

// badVerbMismatch is the defense-in-depth response a worker sends if
// it somehow receives a request for a verb it does not own; routing
// is otherwise guaranteed by the dispatcher.
func badVerbMismatch(tag string) []wire.Response {
	return []wire.Response{wire.Tagged(tag, wire.BAD, "verb mismatch")}
}

func badInsufficientArgs(tag string) []wire.Response {
	return []wire.Response{wire.Tagged(tag, wire.BAD, "insufficient arguments")}
}

// send delivers a response batch, respecting ctx cancellation so a
// handler never blocks forever writing to a reader that has gone
// away.
func send(ctx context.Context, responses chan<- []wire.Response, batch []wire.Response) error {
	select {
	case responses <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sendEvent(ctx context.Context, events chan<- session.Event, ev session.Event) error {
	select {
	case events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
