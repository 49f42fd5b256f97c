package server

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/logging"
	"github.com/infodancer/imapd/internal/metrics"
	"github.com/infodancer/imapd/internal/session"
	"github.com/infodancer/imapd/internal/wire"
	"golang.org/x/sync/errgroup"
)

// Greeting is the single response the runtime enqueues immediately
// after binding its tasks.
const Greeting = `IMAP4rev2 server ready`

// responseBufferSize bounds how many response batches may queue for
// the writer before a sender blocks. Handler workers run independently
// of the connection's own pace, so this must not be zero.
const responseBufferSize = 16

// connection drives one accepted socket through three cooperating
// goroutines: a reader, a writer, and a state manager. Shutdown is
// triggered by either socket EOF or an Unauthenticated event, and is
// implemented as context cancellation rather than the drop-cascading
// channel closes of a reference-counted runtime: every goroutine
// selects on the connection's own ctx.Done() and exits promptly,
// and the request/response/event channels handed to handler workers
// are never closed by the connection, since those workers are shared,
// server-lifetime goroutines that must never see a send-on-closed-
// channel panic.
type connection struct {
	id         string
	conn       net.Conn
	dispatcher Dispatcher
	logger     *slog.Logger
	collector  metrics.Collector

	sessionCtx *session.Context
	responses  chan []wire.Response
	events     chan session.Event
}

// Dispatcher is the subset of dispatch.Dispatcher the connection
// runtime needs: verb lookup.
type Dispatcher interface {
	Lookup(verb string) (chan<- dispatch.Request, bool)
}

func newConnection(id string, conn net.Conn, dispatcher Dispatcher, logger *slog.Logger, collector metrics.Collector) *connection {
	if collector == nil {
		collector = &metrics.NoopCollector{}
	}
	return &connection{
		id:         id,
		conn:       conn,
		dispatcher: dispatcher,
		logger:     logger,
		collector:  collector,
		sessionCtx: session.NewContext(),
		responses:  make(chan []wire.Response, responseBufferSize),
		events:     make(chan session.Event, responseBufferSize),
	}
}

// run drives the connection to completion: it blocks until the socket
// closes, an Unauthenticated event fires, or parentCtx is cancelled
// (server shutdown), then closes the socket and returns.
func (c *connection) run(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	defer c.conn.Close()

	ctx = logging.WithLogger(ctx, c.logger)

	c.responses <- []wire.Response{wire.UntaggedStatus(wire.OK, Greeting)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.writerLoop(ctx)
		// Closing the socket once the writer is done unblocks a reader
		// parked in ReadString, so shutdown does not wait on the peer.
		_ = c.conn.Close()
		return nil
	})
	g.Go(func() error {
		c.stateManagerLoop(ctx, cancel)
		return nil
	})
	g.Go(func() error {
		return c.readerLoop(ctx, cancel)
	})

	return g.Wait()
}

// readerLoop owns the read half of the socket. It parses each line,
// snapshots the session context, dispatches to the owning handler's
// request channel, and synthesizes a BAD response for unknown verbs.
func (c *connection) readerLoop(ctx context.Context, cancel context.CancelFunc) error {
	defer cancel()

	reader := bufio.NewReader(c.conn)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, readErr := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			c.dispatchLine(ctx, line)
		}
		if readErr != nil {
			if ctx.Err() == nil {
				c.logger.Debug("reader stopped", "error", fmt.Errorf("%w: %v", ErrPeerDisconnected, readErr))
			}
			return nil
		}
	}
}

// dispatchLine parses and routes a single logical line, already
// stripped of its CRLF terminator.
func (c *connection) dispatchLine(ctx context.Context, line string) {
	cmd, err := wire.ParseCommand(line)
	if err != nil {
		tag := cmd.Tag
		if tag == "" {
			tag = wire.Untagged
		}
		c.sendResponses(ctx, []wire.Response{wire.Tagged(tag, wire.BAD, "Malformed command")})
		return
	}

	ch, ok := c.dispatcher.Lookup(cmd.Verb)
	if !ok {
		c.logger.Debug("rejecting command", "error", fmt.Errorf("%w: %s", ErrUnknownVerb, cmd.Verb))
		c.sendResponses(ctx, []wire.Response{wire.Tagged(cmd.Tag, wire.BAD, "Command unknown")})
		return
	}
	c.collector.CommandProcessed(cmd.Verb)

	req := dispatch.Request{
		Command:   cmd,
		Responses: c.responses,
		Events:    c.events,
		Snapshot:  c.sessionCtx.Snapshot(),
	}
	select {
	case ch <- req:
	case <-ctx.Done():
	}
}

// sendResponses forwards a synthetic response batch directly, without
// going through a handler, respecting ctx cancellation.
func (c *connection) sendResponses(ctx context.Context, batch []wire.Response) {
	select {
	case c.responses <- batch:
	case <-ctx.Done():
	}
}

// writerLoop owns the write half of the socket, serializing each
// response in a batch followed by CRLF. A handler's terminal response
// (e.g. LOGOUT's tagged OK) is sent independently of the event that
// triggers cancellation of ctx, so a plain select between c.responses
// and ctx.Done() could pick the cancellation arm over an already- or
// about-to-be-queued batch. writerLoop instead checks c.responses
// non-blockingly before ever blocking on ctx.Done(), and drains
// whatever landed in the buffer by the time shutdown was observed.
func (c *connection) writerLoop(ctx context.Context) {
	for {
		select {
		case batch := <-c.responses:
			if !c.writeBatch(batch) {
				return
			}
			continue
		default:
		}

		select {
		case batch := <-c.responses:
			if !c.writeBatch(batch) {
				return
			}
		case <-ctx.Done():
			c.drainResponses()
			return
		}
	}
}

// writeBatch serializes every response in batch to the socket,
// reporting whether the write succeeded.
func (c *connection) writeBatch(batch []wire.Response) bool {
	for _, resp := range batch {
		if _, err := fmt.Fprintf(c.conn, "%s\r\n", resp.Serialize()); err != nil {
			return false
		}
	}
	return true
}

// drainResponses flushes any response batches already queued at the
// moment shutdown was observed, so a handler's terminal response is
// not dropped by the race between its own send and the connection's
// cancellation.
func (c *connection) drainResponses() {
	for {
		select {
		case batch := <-c.responses:
			if !c.writeBatch(batch) {
				return
			}
		default:
			return
		}
	}
}

// stateManagerLoop owns the mutable SessionContext. An Unauthenticated
// event both clears the context and triggers connection shutdown.
func (c *connection) stateManagerLoop(ctx context.Context, cancel context.CancelFunc) {
	for {
		select {
		case ev := <-c.events:
			c.sessionCtx.Apply(ev)
			if ev.Kind == session.Unauthenticated {
				cancel()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
