package handlers

import (
	"testing"

	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

func TestFetchHandlerSuccess(t *testing.T) {
	h := NewFetchHandler(nil)

	cmd := wire.Command{Tag: "a1", Verb: "FETCH", Args: []string{"1"}}
	batch, _ := runOnce(t, h, cmd, session.Snapshot{Authenticated: true, Selected: true})

	want := []wire.Response{
		wire.Data("1 FETCH (BODY[TEXT] {26}\r\nThis is a test email body.)"),
		wire.Tagged("a1", wire.OK, "FETCH completed."),
	}
	if len(batch) != len(want) {
		t.Fatalf("got %d responses, want %d", len(batch), len(want))
	}
	for i := range want {
		if batch[i] != want[i] {
			t.Errorf("response[%d] = %+v, want %+v", i, batch[i], want[i])
		}
	}
}

func TestFetchHandlerUnauthenticated(t *testing.T) {
	h := NewFetchHandler(nil)

	cmd := wire.Command{Tag: "a1", Verb: "FETCH", Args: []string{"1"}}
	batch, _ := runOnce(t, h, cmd, session.Snapshot{})

	want := wire.Tagged("a1", wire.NO, "cannot FETCH when un-authenticated. Login first.")
	if len(batch) != 1 || batch[0] != want {
		t.Errorf("response = %+v, want %+v", batch, want)
	}
}

func TestFetchHandlerNotSelected(t *testing.T) {
	h := NewFetchHandler(nil)

	cmd := wire.Command{Tag: "a1", Verb: "FETCH", Args: []string{"1"}}
	batch, _ := runOnce(t, h, cmd, session.Snapshot{Authenticated: true})

	want := wire.Tagged("a1", wire.NO, "cannot FETCH before SELECT. Select a mailbox first.")
	if len(batch) != 1 || batch[0] != want {
		t.Errorf("response = %+v, want %+v", batch, want)
	}
}
