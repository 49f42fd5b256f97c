package handlers

import (
	"testing"

	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

func TestCapabilityHandler(t *testing.T) {
	h := NewCapabilityHandler()

	cmd := wire.Command{Tag: "a1", Verb: "CAPABILITY"}
	batch, _ := runOnce(t, h, cmd, session.Snapshot{})

	want := []wire.Response{
		wire.Data("CAPABILITY IMAP4REV2"),
		wire.Tagged("a1", wire.OK, "CAPABILITY completed"),
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
