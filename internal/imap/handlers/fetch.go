package handlers

import (
	"context"
	"fmt"

	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/metrics"
	"github.com/infodancer/imapd/internal/wire"
)

// stubFetchBody is the fixed literal body FETCH reports in v1; no
// message store is wired in yet, so every FETCH returns the same
// canned text.
const stubFetchBody = "This is a test email body."

// FetchHandler serves FETCH with a stub body, gated on the session
// being authenticated and a mailbox having been selected.
type FetchHandler struct {
	collector metrics.Collector
}

// NewFetchHandler builds a FetchHandler, recording completions to
// collector.
func NewFetchHandler(collector metrics.Collector) *FetchHandler {
	if collector == nil {
		collector = &metrics.NoopCollector{}
	}
	return &FetchHandler{collector: collector}
}

func (h *FetchHandler) Verb() string { return "FETCH" }

func (h *FetchHandler) Start(ctx context.Context, requests <-chan dispatch.Request) error {
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

func (h *FetchHandler) handle(ctx context.Context, req dispatch.Request) error {
	cmd := req.Command
	if cmd.Verb != h.Verb() {
		return send(ctx, req.Responses, badVerbMismatch(cmd.Tag))
	}
	if len(cmd.Args) < 1 {
		return send(ctx, req.Responses, badInsufficientArgs(cmd.Tag))
	}

	if !req.Snapshot.Authenticated {
		return send(ctx, req.Responses, []wire.Response{
			wire.Tagged(cmd.Tag, wire.NO, "cannot FETCH when un-authenticated. Login first."),
		})
	}
	if !req.Snapshot.Selected {
		return send(ctx, req.Responses, []wire.Response{
			wire.Tagged(cmd.Tag, wire.NO, "cannot FETCH before SELECT. Select a mailbox first."),
		})
	}

	h.collector.FetchCompleted()
	batch := []wire.Response{
		wire.Data(fmt.Sprintf("1 FETCH (BODY[TEXT] {%d}\r\n%s)", len(stubFetchBody), stubFetchBody)),
		wire.Tagged(cmd.Tag, wire.OK, "FETCH completed."),
	}
	return send(ctx, req.Responses, batch)
}
