package handlers

import (
	"context"

	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

// LogoutHandler emits Unauthenticated and ends the session. The
// connection's state manager reacts to the event by signaling
// per-connection shutdown.
type LogoutHandler struct{}

// NewLogoutHandler builds a LogoutHandler.
func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) Verb() string { return "LOGOUT" }

func (h *LogoutHandler) Start(ctx context.Context, requests <-chan dispatch.Request) error {
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

func (h *LogoutHandler) handle(ctx context.Context, req dispatch.Request) error {
	cmd := req.Command
	if cmd.Verb != h.Verb() {
		return send(ctx, req.Responses, badVerbMismatch(cmd.Tag))
	}

	if err := sendEvent(ctx, req.Events, session.UnauthenticatedEvent()); err != nil {
		return err
	}
	return send(ctx, req.Responses, []wire.Response{
		wire.Tagged(cmd.Tag, wire.OK, "LOGOUT completed. Goodbye!"),
	})
}
