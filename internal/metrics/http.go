package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusServer exposes a Collector's registered metrics over HTTP.
type PrometheusServer struct {
	srv *http.Server
}

// NewPrometheusServer builds a PrometheusServer that serves the default
// registry at path on address.
func NewPrometheusServer(address, path string) *PrometheusServer {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	return &PrometheusServer{
		srv: &http.Server{
			Addr:    address,
			Handler: mux,
		},
	}
}

// Start serves metrics until ctx is canceled or ListenAndServe fails.
func (s *PrometheusServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops the metrics server.
func (s *PrometheusServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
