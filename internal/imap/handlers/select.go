package handlers

import (
	"context"
	"fmt"

	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/mailbox"
	"github.com/infodancer/imapd/internal/metrics"
	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
)

// SelectHandler resolves a mailbox name through an Index and reports
// its state with the standard SELECT untagged batch.
type SelectHandler struct {
	index     mailbox.Index
	collector metrics.Collector
}

// NewSelectHandler builds a SelectHandler backed by index, recording
// successful selections to collector.
func NewSelectHandler(index mailbox.Index, collector metrics.Collector) *SelectHandler {
	if collector == nil {
		collector = &metrics.NoopCollector{}
	}
	return &SelectHandler{index: index, collector: collector}
}

func (h *SelectHandler) Verb() string { return "SELECT" }

func (h *SelectHandler) Start(ctx context.Context, requests <-chan dispatch.Request) error {
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

func (h *SelectHandler) handle(ctx context.Context, req dispatch.Request) error {
	cmd := req.Command
	if cmd.Verb != h.Verb() {
		return send(ctx, req.Responses, badVerbMismatch(cmd.Tag))
	}
	if len(cmd.Args) < 1 {
		return send(ctx, req.Responses, badInsufficientArgs(cmd.Tag))
	}

	if !req.Snapshot.Authenticated {
		return send(ctx, req.Responses, []wire.Response{
			wire.Tagged(cmd.Tag, wire.NO, "cannot SELECT when un-authenticated. Please authenticate using LOGIN or AUTHENTICATE."),
		})
	}

	name := cmd.Args[0]
	mb, err := h.index.GetMailbox(ctx, name, mailbox.ReadWrite)
	if err != nil {
		return send(ctx, req.Responses, []wire.Response{
			wire.Tagged(cmd.Tag, wire.NO, "No such mailbox"),
		})
	}

	if err := sendEvent(ctx, req.Events, session.SelectedEvent(name)); err != nil {
		return err
	}
	h.collector.SelectCompleted(name)

	batch := []wire.Response{
		wire.Data(fmt.Sprintf("%d EXISTS", mb.Count)),
		wire.UntaggedStatus(wire.OK, fmt.Sprintf("[UIDVALIDITY %d] UIDs valid", mb.UIDValidity)),
		wire.UntaggedStatus(wire.OK, fmt.Sprintf("[UIDNEXT %d] Predicted next UID", mb.UIDNext)),
		wire.Data(`FLAGS (\Answered \Flagged \Deleted \Seen \Draft)`),
		wire.UntaggedStatus(wire.OK, `[PERMANENTFLAGS (\Deleted \Seen \*)] Limited`),
		wire.Data(fmt.Sprintf(`LIST () "/" %s`, mb.Name)),
		wire.Tagged(cmd.Tag, wire.OK, fmt.Sprintf("[%s] SELECT completed.", mb.Permission)),
	}
	return send(ctx, req.Responses, batch)
}
