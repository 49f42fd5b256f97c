package handlers

import (
	"context"

	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/wire"
)

// CapabilityHandler answers CAPABILITY. It needs no session state,
// demonstrating that a worker can be registered without touching the
// connection runtime or any other handler.
type CapabilityHandler struct{}

// NewCapabilityHandler builds a CapabilityHandler.
func NewCapabilityHandler() *CapabilityHandler {
	return &CapabilityHandler{}
}

func (h *CapabilityHandler) Verb() string { return "CAPABILITY" }

func (h *CapabilityHandler) Start(ctx context.Context, requests <-chan dispatch.Request) error {
	for {
		select {
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			if err := h.handle(ctx, req); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *CapabilityHandler) handle(ctx context.Context, req dispatch.Request) error {
	cmd := req.Command
	if cmd.Verb != h.Verb() {
		return send(ctx, req.Responses, badVerbMismatch(cmd.Tag))
	}

	batch := []wire.Response{
		wire.Data("CAPABILITY IMAP4REV2"),
		wire.Tagged(cmd.Tag, wire.OK, "CAPABILITY completed"),
	}
	return send(ctx, req.Responses, batch)
}
