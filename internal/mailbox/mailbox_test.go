package mailbox

import (
	"context"
	"errors"
	"testing"
)

func TestGetMailboxAutoCreatesInbox(t *testing.T) {
	idx := NewInMemoryIndex()

	mb, err := idx.GetMailbox(context.Background(), "INBOX", ReadWrite)
	if err != nil {
		t.Fatalf("GetMailbox() unexpected error: %v", err)
	}
	if mb.Name != "INBOX" {
		t.Errorf("GetMailbox() name = %q, want INBOX", mb.Name)
	}
	if mb.Permission != ReadWrite {
		t.Errorf("GetMailbox() permission = %v, want ReadWrite", mb.Permission)
	}
	if mb.UIDValidity == 0 {
		t.Errorf("GetMailbox() UIDValidity = 0, want nonzero")
	}
}

func TestGetMailboxInboxCaseInsensitive(t *testing.T) {
	idx := NewInMemoryIndex()

	first, err := idx.GetMailbox(context.Background(), "inbox", ReadOnly)
	if err != nil {
		t.Fatalf("GetMailbox() unexpected error: %v", err)
	}
	second, err := idx.GetMailbox(context.Background(), "INBOX", ReadOnly)
	if err != nil {
		t.Fatalf("GetMailbox() unexpected error: %v", err)
	}
	if first.UIDValidity != second.UIDValidity {
		t.Errorf("GetMailbox() returned distinct mailboxes for inbox/INBOX: %v != %v", first.UIDValidity, second.UIDValidity)
	}
}

func TestGetMailboxDoesNotExist(t *testing.T) {
	idx := NewInMemoryIndex()

	_, err := idx.GetMailbox(context.Background(), "Archive", ReadOnly)
	var mbErr *Error
	if !errors.As(err, &mbErr) || mbErr.Kind != DoesNotExist {
		t.Fatalf("GetMailbox() error = %v, want DoesNotExist", err)
	}
}

func TestAddMailboxThenGet(t *testing.T) {
	idx := NewInMemoryIndex()

	if err := idx.AddMailbox(context.Background(), Mailbox{Name: "Archive"}); err != nil {
		t.Fatalf("AddMailbox() unexpected error: %v", err)
	}

	mb, err := idx.GetMailbox(context.Background(), "Archive", ReadOnly)
	if err != nil {
		t.Fatalf("GetMailbox() unexpected error: %v", err)
	}
	if mb.Name != "Archive" {
		t.Errorf("GetMailbox() name = %q, want Archive", mb.Name)
	}
}

func TestAddMailboxAlreadyExists(t *testing.T) {
	idx := NewInMemoryIndex()

	if err := idx.AddMailbox(context.Background(), Mailbox{Name: "Archive"}); err != nil {
		t.Fatalf("AddMailbox() unexpected error: %v", err)
	}

	err := idx.AddMailbox(context.Background(), Mailbox{Name: "Archive"})
	var mbErr *Error
	if !errors.As(err, &mbErr) || mbErr.Kind != Exists {
		t.Fatalf("AddMailbox() error = %v, want Exists", err)
	}
}

func TestPermissionString(t *testing.T) {
	if got := ReadOnly.String(); got != "READ-ONLY" {
		t.Errorf("ReadOnly.String() = %q, want READ-ONLY", got)
	}
	if got := ReadWrite.String(); got != "READ-WRITE" {
		t.Errorf("ReadWrite.String() = %q, want READ-WRITE", got)
	}
}
