// Command imapd runs a stripped-down IMAP4rev2 server: a single
// listening socket, a fixed set of command handlers (LOGIN, LOGOUT,
// SELECT, FETCH, CAPABILITY), and in-memory authentication and
// mailbox indexes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/infodancer/imapd/internal/auth"
	"github.com/infodancer/imapd/internal/config"
	"github.com/infodancer/imapd/internal/dispatch"
	"github.com/infodancer/imapd/internal/imap/handlers"
	"github.com/infodancer/imapd/internal/logging"
	"github.com/infodancer/imapd/internal/mailbox"
	"github.com/infodancer/imapd/internal/metrics"
	"github.com/infodancer/imapd/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	flags := config.ParseFlags()

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)

	var collector metrics.Collector = &metrics.NoopCollector{}
	if cfg.Metrics.Enabled {
		collector = metrics.NewPrometheusCollector(prometheus.DefaultRegisterer)
	}

	authenticator := auth.NewInMemoryAuthenticator().
		WithUser("alice", "hunter2").
		WithUser("bob", "correcthorse")
	index := mailbox.NewInMemoryIndex()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := buildDispatcher(ctx, authenticator, index, collector, logger)

	srv := server.New(server.Config{
		Address:        cfg.Address,
		MaxConnections: cfg.MaxConnections,
		ErrorTimeout:   cfg.ErrorTimeoutDuration(),
		Dispatcher:     dispatcher,
		Logger:         logger,
		Collector:      collector,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewPrometheusServer(cfg.Metrics.Address, cfg.Metrics.Path)
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
		logger.Info("metrics server started", "address", cfg.Metrics.Address, "path", cfg.Metrics.Path)
	}

	logger.Info("starting imapd", "address", cfg.Address, "max_connections", cfg.MaxConnections)

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("imapd stopped")
}

// requestBufferSize bounds how many in-flight requests may queue on a
// handler's channel before a connection's reader blocks sending to it.
const requestBufferSize = 32

// buildDispatcher spawns one worker goroutine per verb handler and
// freezes their request channels into a Dispatcher. Handlers run for
// the life of the process; a handler's Start loop exits when the
// server-lifetime ctx passed to buildDispatcher is cancelled.
func buildDispatcher(ctx context.Context, authenticator auth.Authenticator, index mailbox.Index, collector metrics.Collector, logger *slog.Logger) *dispatch.Dispatcher {
	builder := dispatch.NewBuilder()

	register := func(h handlers.Handler) {
		ch := make(chan dispatch.Request, requestBufferSize)
		go func() {
			if err := h.Start(ctx, ch); err != nil && ctx.Err() == nil {
				logger.Error("handler stopped", "verb", h.Verb(), "error", err)
			}
		}()
		builder.Register(h.Verb(), ch)
	}

	register(handlers.NewLoginHandler(authenticator, collector))
	register(handlers.NewLogoutHandler())
	register(handlers.NewSelectHandler(index, collector))
	register(handlers.NewFetchHandler(collector))
	register(handlers.NewCapabilityHandler())

	return builder.Build()
}
