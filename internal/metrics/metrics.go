// Package metrics exposes Prometheus counters for logins, session checks and
// HTTP responses.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder is the metrics surface the server depends on.
type Recorder interface {
	RecordLogin(flow, result string)
	RecordSessionCheck(result string)
	RecordHTTPStatus(statusCode int)
}

// Collector records metrics into a prometheus registry.
type Collector struct {
	logins        *prometheus.CounterVec
	sessionChecks *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_logins_total",
			Help: "Login attempts by flow and result.",
		}, []string{"flow", "result"}),
		sessionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_session_checks_total",
			Help: "Session token verifications by result.",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.sessionChecks,
		c.httpStatus,
	)

	return c
}

func (c *Collector) RecordLogin(flow, result string) {
	c.logins.WithLabelValues(flow, result).Inc()
}

func (c *Collector) RecordSessionCheck(result string) {
	c.sessionChecks.WithLabelValues(result).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordLogin(string, string) {}
func (Nop) RecordSessionCheck(string)  {}
func (Nop) RecordHTTPStatus(int)       {}
