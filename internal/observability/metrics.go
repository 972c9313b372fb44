package observability

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/apprende-client/internal/platform/envutil"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

// Metrics is a small Prometheus text-format registry. All methods are nil-safe.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	clientCalls   *CounterVec
	clientLatency *HistogramVec

	persistOutcomes *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current is the process-wide registry, nil until Init.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics registry initialized")
		}
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("apprende_api_requests_total", "Dev API requests", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("apprende_api_request_seconds", "Dev API latency", []string{"method", "route"}, nil),
		apiInflight: NewGauge("apprende_api_inflight", "Dev API requests in flight"),

		clientCalls:   NewCounterVec("apprende_client_calls_total", "Course API calls made by the client", []string{"method", "route", "status"}),
		clientLatency: NewHistogramVec("apprende_client_call_seconds", "Course API call latency", []string{"method", "route"}, nil),

		persistOutcomes: NewCounterVec("apprende_persist_outcomes_total", "Optimistic edits by outcome", []string{"kind", "outcome"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.clientCalls, m.clientLatency,
		m.persistOutcomes,
	}
	for _, pw := range writers {
		if err := pw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveClientCall(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	m.clientCalls.Inc(method, route, status)
	m.clientLatency.Observe(dur.Seconds(), method, route)
}

// IncPersistOutcome counts reorder and progress edits by how they ended (saved, rolled_back, ...).
func (m *Metrics) IncPersistOutcome(kind, outcome string) {
	if m == nil {
		return
	}
	m.persistOutcomes.Inc(kind, outcome)
}
