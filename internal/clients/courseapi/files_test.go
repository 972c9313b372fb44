package courseapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/session"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func clientCallsMetric(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := observability.Current().WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	return buf.String()
}

func TestDownloadCertificateIsTracedAndCounted(t *testing.T) {
	observability.Init(nil)
	rec := recordSpans(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PNG"))
	}, &fakeSession{token: "tok"})

	courseID := uuid.New()
	name, err := c.DownloadCertificate(context.Background(), courseID, io.Discard)
	if err != nil {
		t.Fatalf("DownloadCertificate: %v", err)
	}
	if name != "certificate-"+courseID.String() {
		t.Fatalf("name = %q", name)
	}

	var found bool
	for _, s := range rec.Ended() {
		if s.Name() != "courseapi GET /certificates/{courseId}/download" {
			continue
		}
		found = true
		if s.SpanKind() != trace.SpanKindClient {
			t.Fatalf("span kind = %v", s.SpanKind())
		}
		var status int64
		for _, kv := range s.Attributes() {
			if kv.Key == attribute.Key("http.response.status_code") {
				status = kv.Value.AsInt64()
			}
		}
		if status != http.StatusOK {
			t.Fatalf("span status code = %d", status)
		}
	}
	if !found {
		t.Fatalf("no certificate download span among %d ended spans", len(rec.Ended()))
	}

	want := `apprende_client_calls_total{method="GET",route="/certificates/{courseId}/download",status="200"}`
	if out := clientCallsMetric(t); !strings.Contains(out, want) {
		t.Fatalf("missing %q in:\n%s", want, out)
	}
}

func TestDownloadCertificateUnauthorizedDropsSession(t *testing.T) {
	sess := &fakeSession{token: "expired"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token inválido o expirado"}`))
	}, sess)

	var buf bytes.Buffer
	_, err := c.DownloadCertificate(context.Background(), uuid.New(), &buf)
	if KindOf(err) != KindAuth {
		t.Fatalf("kind = %q err=%v", KindOf(err), err)
	}
	if buf.Len() != 0 {
		t.Fatalf("error body leaked into writer: %q", buf.String())
	}
	if sess.Token() != "" || len(sess.cleared) != 1 || sess.cleared[0] != session.ReasonUnauthorized {
		t.Fatalf("session not cleared: token=%q cleared=%v", sess.Token(), sess.cleared)
	}
}
