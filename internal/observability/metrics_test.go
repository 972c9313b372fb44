package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("put", "/courses/:id/reorder", "200", 40*time.Millisecond)
	m.ObserveAPI("PUT", "/courses/:id/reorder", "200", 2*time.Second)
	m.ObserveClientCall("GET", "/courses/{courseId}", "404", time.Millisecond)
	m.IncPersistOutcome("reorder", "rolled_back")
	m.ApiInflightInc()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`apprende_api_requests_total{method="PUT",route="/courses/:id/reorder",status="200"} 2.000000`,
		`apprende_api_request_seconds_bucket{method="PUT",route="/courses/:id/reorder",le="0.05"} 1`,
		`apprende_api_request_seconds_count{method="PUT",route="/courses/:id/reorder"} 2`,
		`apprende_client_calls_total{method="GET",route="/courses/{courseId}",status="404"} 1.000000`,
		`apprende_persist_outcomes_total{kind="reorder",outcome="rolled_back"} 1.000000`,
		`apprende_api_inflight 1.000000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncPersistOutcome("progress", "saved")
	m.ApiInflightInc()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{`a"b\c`})
	if got != `{route="a\"b\\c"}` {
		t.Fatalf("labelString = %s", got)
	}
	if withLe("", "+Inf") != `{le="+Inf"}` {
		t.Fatalf("withLe on empty labels")
	}
}
