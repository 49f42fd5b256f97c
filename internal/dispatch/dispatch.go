// Package dispatch routes a parsed Command to the handler worker
// registered for its verb.
package dispatch

import (
	"fmt"

	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

// Request is what the connection runtime's reader sends to a handler
// worker: the command itself, channels for the handler's response
// batch and session events, and a read-locked snapshot of the
// session context taken before dispatch.
type Request struct {
	Command   wire.Command
	Responses chan<- []wire.Response
	Events    chan<- session.Event
	Snapshot  session.Snapshot
}

// Dispatcher is an immutable map from verb to a handler's request
// channel, built once at startup. Reads require no locking.
type Dispatcher struct {
	routes map[string]chan<- Request
}

// NewDispatcher builds a Dispatcher from the given verb routes. The
// map is copied so later mutation of routes by the caller has no
// effect.
func NewDispatcher(routes map[string]chan<- Request) *Dispatcher {
	copied := make(map[string]chan<- Request, len(routes))
	for verb, ch := range routes {
		copied[verb] = ch
	}
	return &Dispatcher{routes: copied}
}

// Lookup returns the request channel registered for verb, or false if
// no handler owns it.
func (d *Dispatcher) Lookup(verb string) (chan<- Request, bool) {
	ch, ok := d.routes[verb]
	return ch, ok
}

// Builder accumulates verb routes before a Dispatcher is frozen via
// Build. It exists so server wiring can register handlers one at a
// time without exposing the mutable map beyond startup.
type Builder struct {
	routes map[string]chan<- Request
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{routes: make(map[string]chan<- Request)}
}

// Register binds verb to ch. Registering the same verb twice panics,
// since it indicates a wiring bug at startup, not a runtime condition.
func (b *Builder) Register(verb string, ch chan<- Request) *Builder {
	if _, exists := b.routes[verb]; exists {
		panic(fmt.Sprintf("dispatch: verb %q already registered", verb))
	}
	b.routes[verb] = ch
	return b
}

// Build freezes the accumulated routes into a Dispatcher.
func (b *Builder) Build() *Dispatcher {
	return NewDispatcher(b.routes)
}
