// Package session defines the per-connection SessionContext and the
// Event stream handlers use to mutate it. The context is owned
// exclusively by a connection's state-manager goroutine; every other
// reader sees only read-locked snapshots.
package session

import (
	"sync"

	"github.com/infodancer/imapd/internal/auth"
)

// EventKind enumerates the mutations a handler may request of a
// connection's state manager.
type EventKind int

const (
	// Authenticated records a successful LOGIN.
	Authenticated EventKind = iota
	// Selected records a successful SELECT.
	Selected
	// Unauthenticated clears both user and selected folder, e.g. on LOGOUT.
	Unauthenticated
)

// Event is one state transition emitted by a handler. Only the field
// matching Kind is meaningful.
type Event struct {
	Kind    EventKind
	User    auth.User
	Mailbox string
}

// AuthenticatedEvent builds an Authenticated event.
func AuthenticatedEvent(user auth.User) Event {
	return Event{Kind: Authenticated, User: user}
}

// SelectedEvent builds a Selected event.
func SelectedEvent(mailbox string) Event {
	return Event{Kind: Selected, Mailbox: mailbox}
}

// UnauthenticatedEvent builds an Unauthenticated event.
func UnauthenticatedEvent() Event {
	return Event{Kind: Unauthenticated}
}

// Snapshot is a read-only copy of a Context taken at dispatch time.
// Handlers consult it but may never mutate it; all mutation flows
// through Events applied by the state manager.
type Snapshot struct {
	User           auth.User
	Authenticated  bool
	SelectedFolder string
	Selected       bool
}

// Context is the mutable per-connection session state. It is guarded
// by a read/write lock: the state-manager goroutine is the sole
// writer; the reader goroutine takes read locks to build a Snapshot
// before dispatch.
type Context struct {
	mu             sync.RWMutex
	user           auth.User
	authenticated  bool
	selectedFolder string
	selected       bool
}

// NewContext builds an empty, unauthenticated session context.
func NewContext() *Context {
	return &Context{}
}

// Snapshot takes a read-locked copy of the current state.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		User:           c.user,
		Authenticated:  c.authenticated,
		SelectedFolder: c.selectedFolder,
		Selected:       c.selected,
	}
}

// Apply mutates the context according to ev. It is the only mutator
// and must be called exclusively from the state-manager goroutine.
func (c *Context) Apply(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch ev.Kind {
	case Authenticated:
		c.user = ev.User
		c.authenticated = true
	case Selected:
		c.selectedFolder = ev.Mailbox
		c.selected = true
	case Unauthenticated:
		c.user = auth.User{}
		c.authenticated = false
		c.selectedFolder = ""
		c.selected = false
	}
}
