package handlers

import (
	"context"
	"fmt"

	"github.com/infodancer/imapd/internal/auth"
	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/logging"
	"github.com/infodancer/imapd/internal/metrics"
	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

// LoginHandler resolves a LOGIN command's args to a basic-auth
// principal and consults an Authenticator.
type LoginHandler struct {
	authenticator auth.Authenticator
	collector     metrics.Collector
}

// NewLoginHandler builds a LoginHandler backed by authenticator,
// recording authentication outcomes to collector.
func NewLoginHandler(authenticator auth.Authenticator, collector metrics.Collector) *LoginHandler {
	if collector == nil {
		collector = &metrics.NoopCollector{}
	}
	return &LoginHandler{authenticator: authenticator, collector: collector}
}

func (h *LoginHandler) Verb() string { return "LOGIN" }

func (h *LoginHandler) Start(ctx context.Context, requests <-chan dispatch.Request) error {
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

func (h *LoginHandler) handle(ctx context.Context, req dispatch.Request) error {
	cmd := req.Command
	if cmd.Verb != h.Verb() {
		return send(ctx, req.Responses, badVerbMismatch(cmd.Tag))
	}
	if len(cmd.Args) < 2 {
		return send(ctx, req.Responses, badInsufficientArgs(cmd.Tag))
	}

	principal := auth.BasicPrincipal{User: cmd.Args[0], Password: cmd.Args[1]}
	user, err := h.authenticator.Authenticate(ctx, principal)
	if err != nil {
		h.collector.AuthAttempt(false)
		logging.FromContext(ctx).Debug("login failed", "user", principal.User, "error", err)
		return send(ctx, req.Responses, []wire.Response{
			wire.Tagged(cmd.Tag, wire.BAD, "LOGIN failed."),
		})
	}
	h.collector.AuthAttempt(true)

	if err := sendEvent(ctx, req.Events, session.AuthenticatedEvent(user)); err != nil {
		return err
	}
	message := fmt.Sprintf("LOGIN completed. Welcome %s.", user.Name)
	return send(ctx, req.Responses, []wire.Response{
		wire.Tagged(cmd.Tag, wire.OK, message),
	})
}
