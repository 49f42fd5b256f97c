// Package mailbox defines the Index contract consulted by SELECT (and,
// transitively, FETCH) to resolve a mailbox name to a descriptor, plus
// an in-memory implementation.
package mailbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Permission is the access mode granted to a session for a mailbox.
// It reflects what was granted to the requesting session, not an
// intrinsic property of the mailbox.
type Permission int

const (
	ReadOnly Permission = iota
	ReadWrite
)

func (p Permission) String() string {
	if p == ReadWrite {
		return "READ-WRITE"
	}
	return "READ-ONLY"
}

// Flag is a message flag a mailbox supports.
type Flag struct {
	Value     string
	Permanent bool
}

// Mailbox is a resolved mailbox descriptor.
type Mailbox struct {
	Name        string
	Count       uint64
	Flags       []Flag
	Permission  Permission
	UIDValidity uint32
	UIDNext     uint32
}

// Error is the failure taxonomy for Index lookups.
type Error struct {
	Kind Kind
	Name string
	// User and Action are populated only for Kind == InsufficientPermissions.
	User   string
	Action string
}

// Kind enumerates the possible mailbox-lookup failures.
type Kind int

const (
	DoesNotExist Kind = iota
	Exists
	InsufficientPermissions
)

func (e *Error) Error() string {
	switch e.Kind {
	case Exists:
		return fmt.Sprintf("mailbox: %s already exists", e.Name)
	case InsufficientPermissions:
		return fmt.Sprintf("mailbox: user %s does not have sufficient permissions to %s on mailbox %s", e.User, e.Action, e.Name)
	default:
		return fmt.Sprintf("mailbox: %s does not exist", e.Name)
	}
}

// Index resolves a mailbox name plus a requested Permission to a
// Mailbox descriptor. Implementations are shared immutably across all
// connections and are responsible for their own internal
// synchronization. A canonical "INBOX" name (ASCII case-insensitive)
// must be auto-created with ReadOnly permission on first lookup if
// absent.
type Index interface {
	GetMailbox(ctx context.Context, name string, permission Permission) (Mailbox, error)
	AddMailbox(ctx context.Context, mailbox Mailbox) error
}

// defaultFlags is the fixed flag set every in-memory mailbox reports,
// matching the flags advertised by SELECT.
func defaultFlags() []Flag {
	return []Flag{
		{Value: `\Answered`},
		{Value: `\Flagged`},
		{Value: `\Deleted`, Permanent: true},
		{Value: `\Seen`, Permanent: true},
		{Value: `\Draft`},
	}
}

// InMemoryIndex is an Index backed by a map guarded by a mutex, since
// GetMailbox auto-creates INBOX on first lookup and AddMailbox may run
// concurrently with lookups from any connection.
type InMemoryIndex struct {
	mu         sync.Mutex
	mailboxes  map[string]Mailbox
	nextUIDVal uint32
}

// NewInMemoryIndex builds an empty index. INBOX is created lazily on
// first lookup rather than eagerly here, matching the lookup-time
// auto-create contract.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{
		mailboxes:  make(map[string]Mailbox),
		nextUIDVal: 1,
	}
}

// AddMailbox registers a new mailbox. Fails with Error{Kind: Exists}
// if the name is already present.
func (idx *InMemoryIndex) AddMailbox(ctx context.Context, mailbox Mailbox) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.mailboxes[mailbox.Name]; ok {
		return &Error{Kind: Exists, Name: mailbox.Name}
	}
	idx.mailboxes[mailbox.Name] = idx.newMailboxLocked(mailbox.Name)
	return nil
}

// GetMailbox resolves name to a Mailbox with the given Permission
// stamped in. If name canonically matches "INBOX" and is absent, it is
// created on the fly with ReadOnly permission before the requested
// Permission is applied to the returned copy.
func (idx *InMemoryIndex) GetMailbox(ctx context.Context, name string, permission Permission) (Mailbox, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if mb, ok := idx.mailboxes[name]; ok {
		mb.Permission = permission
		return mb, nil
	}

	if strings.EqualFold(name, "INBOX") {
		mb, ok := idx.mailboxes["INBOX"]
		if !ok {
			mb = idx.newMailboxLocked("INBOX")
			idx.mailboxes["INBOX"] = mb
		}
		mb.Permission = permission
		return mb, nil
	}

	return Mailbox{}, &Error{Kind: DoesNotExist, Name: name}
}

// newMailboxLocked builds a fresh zero-message mailbox and assigns it
// the next UID validity value. Callers must hold idx.mu.
func (idx *InMemoryIndex) newMailboxLocked(name string) Mailbox {
	validity := idx.nextUIDVal
	idx.nextUIDVal++
	return Mailbox{
		Name:        name,
		Count:       0,
		Flags:       defaultFlags(),
		Permission:  ReadOnly,
		UIDValidity: validity,
		// TODO: track highest assigned UID per mailbox once APPEND/STORE
		// exist; a fixed seed is a placeholder until messages are added.
		UIDNext: 1,
	}
}
