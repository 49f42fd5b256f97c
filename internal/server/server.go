// Package server implements the accept loop and per-connection
// runtime: binding a listening socket, applying backpressure, and
// driving each accepted socket through a reader/writer/state-manager
// goroutine trio.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/infodancer/imapd/internal/logging"
	"github.com/infodancer/imapd/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Config holds the values the accept loop needs to bind and admit
// connections.
type Config struct {
	// Address is the TCP address to listen on, e.g. "127.0.0.1:3143".
	Address string
	// MaxConnections caps concurrent connections via Backpressure.
	MaxConnections int
	// ErrorTimeout is how long the accept loop backs off after a
	// transient accept error before retrying.
	ErrorTimeout time.Duration
	// Dispatcher routes each parsed command to its handler worker.
	Dispatcher Dispatcher
	// Logger is the base logger; each connection gets a child logger
	// with its connection id attached.
	Logger *slog.Logger
	// Collector records connection and command metrics. A NoopCollector
	// is used if nil.
	Collector metrics.Collector
}

// Server owns the TCP listener and backpressure token pool for one
// accept loop.
type Server struct {
	cfg    Config
	bp     *Backpressure
	logger *slog.Logger
}

// New builds a Server from cfg. It does not bind the listener; call
// Run to do that.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewLogger("info")
	}
	if cfg.Collector == nil {
		cfg.Collector = &metrics.NoopCollector{}
	}
	return &Server{
		cfg:    cfg,
		bp:     NewBackpressure(cfg.MaxConnections),
		logger: logger,
	}
}

// Run binds the listener and accepts connections until ctx is
// cancelled, joining all listener and connection goroutines through
// an errgroup before returning.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.cfg.Address, err)
	}
	defer listener.Close()

	s.logger.Info("accept loop started", slog.String("address", s.cfg.Address))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})

	g.Go(func() error {
		return s.acceptLoop(ctx, listener, g)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		s.logger.Info("accept loop stopped")
		return nil
	}
	return err
}

// acceptLoop admits connections until ctx is cancelled, applying
// backpressure before each accept and spawning a connection goroutine
// per admitted socket.
func (s *Server) acceptLoop(ctx context.Context, listener net.Listener, g *errgroup.Group) error {
	for {
		if err := s.bp.Acquire(ctx); err != nil {
			return nil
		}

		conn, err := listener.Accept()
		if err != nil {
			s.bp.Release()
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("accept error", slog.String("error", err.Error()))
			select {
			case <-time.After(s.cfg.ErrorTimeout):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		id := uuid.NewString()
		connLogger := s.logger.With(slog.String("conn_id", id))
		c := newConnection(id, conn, s.cfg.Dispatcher, connLogger, s.cfg.Collector)

		g.Go(func() error {
			defer s.bp.Release()
			s.cfg.Collector.ConnectionOpened()
			connLogger.Info("connection accepted", slog.String("remote_addr", conn.RemoteAddr().String()))
			err := c.run(ctx)
			s.cfg.Collector.ConnectionClosed()
			connLogger.Info("connection closed")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
}
