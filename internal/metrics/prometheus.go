package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements the Collector interface using Prometheus metrics.
type PrometheusCollector struct {
	connectionsTotal  prometheus.Counter
	connectionsActive prometheus.Gauge

	authAttemptsTotal *prometheus.CounterVec

	commandsTotal *prometheus.CounterVec

	selectsTotal *prometheus.CounterVec
	fetchesTotal prometheus.Counter
}

// NewPrometheusCollector creates a new PrometheusCollector with all metrics registered.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imapd_connections_total",
			Help: "Total number of IMAP connections opened.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imapd_connections_active",
			Help: "Number of currently active IMAP connections.",
		}),

		authAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imapd_auth_attempts_total",
			Help: "Total number of LOGIN attempts.",
		}, []string{"result"}),

		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imapd_commands_total",
			Help: "Total number of IMAP commands dispatched.",
		}, []string{"verb"}),

		selectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imapd_selects_total",
			Help: "Total number of successful SELECT operations.",
		}, []string{"mailbox"}),

		fetchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imapd_fetches_total",
			Help: "Total number of successful FETCH operations.",
		}),
	}

	reg.MustRegister(
		c.connectionsTotal,
		c.connectionsActive,
		c.authAttemptsTotal,
		c.commandsTotal,
		c.selectsTotal,
		c.fetchesTotal,
	)

	return c
}

// ConnectionOpened increments the connection counter and active gauge.
func (c *PrometheusCollector) ConnectionOpened() {
	c.connectionsTotal.Inc()
	c.connectionsActive.Inc()
}

// ConnectionClosed decrements the active connections gauge.
func (c *PrometheusCollector) ConnectionClosed() {
	c.connectionsActive.Dec()
}

// AuthAttempt increments the authentication attempts counter.
func (c *PrometheusCollector) AuthAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.authAttemptsTotal.WithLabelValues(result).Inc()
}

// CommandProcessed increments the command counter.
func (c *PrometheusCollector) CommandProcessed(verb string) {
	c.commandsTotal.WithLabelValues(verb).Inc()
}

// SelectCompleted increments the select counter for a mailbox.
func (c *PrometheusCollector) SelectCompleted(mailbox string) {
	c.selectsTotal.WithLabelValues(mailbox).Inc()
}

// FetchCompleted increments the fetch counter.
func (c *PrometheusCollector) FetchCompleted() {
	c.fetchesTotal.Inc()
}
