package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func newTestRouter(m *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/editions/{edition}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "edition") == "missing" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func TestMetrics_RecordsByRoutePattern(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	h := newTestRouter(m)

	for _, path := range []string{"/api/editions/2025-11", "/api/editions/2025-10", "/api/editions/missing"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	const route = "/api/editions/{edition}"
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues(route, "GET", "2xx")); got != 2 {
		t.Fatalf("requests_total(2xx)=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues(route, "GET", "4xx")); got != 1 {
		t.Fatalf("requests_total(4xx)=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestErrors.WithLabelValues(route, "not_found")); got != 1 {
		t.Fatalf("request_errors_total(not_found)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues(route)); got != 3 {
		t.Fatalf("request_duration_seconds count=%d, want 3", got)
	}
	if got := metricGaugeValue(t, m.inFlight); got != 0 {
		t.Fatalf("requests_in_flight=%v, want 0", got)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	h := newTestRouter(m)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("unmatched", "GET", "4xx")); got != 1 {
		t.Fatalf("requests_total(unmatched)=%v, want 1", got)
	}
}

func TestMetrics_LiveRecorders(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.LiveOpened()
	m.LiveOpened()
	m.LiveClosed()
	m.LiveMessage("setMode")
	m.LiveMessage("setMode")
	m.WebSocketError("read")
	m.ReaderSessions(3)

	if got := metricGaugeValue(t, m.liveSessions); got != 1 {
		t.Fatalf("live_sessions=%v, want 1", got)
	}
	if got := metricGaugeValue(t, m.readerSessions); got != 3 {
		t.Fatalf("reader_sessions=%v, want 3", got)
	}
	if got := metricCounterValue(t, m.liveMessages.WithLabelValues("setMode")); got != 2 {
		t.Fatalf("live_messages_total(setMode)=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.wsErrors.WithLabelValues("read")); got != 1 {
		t.Fatalf("websocket_errors_total(read)=%v, want 1", got)
	}
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.LiveOpened()
	m.LiveClosed()
	m.LiveMessage("x")
	m.WebSocketError("x")
	m.ReaderSessions(1)
}

func TestCategorizeStatus(t *testing.T) {
	tests := map[int]string{
		400: "bad_request",
		404: "not_found",
		405: "method",
		418: "client",
		422: "malformed",
		500: "internal",
		503: "unavailable",
	}
	for status, want := range tests {
		if got := categorizeStatus(status); got != want {
			t.Errorf("categorizeStatus(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestStatusRecorder_FirstWriteHeaderWins(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusOK)
	if rec.status != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.status, http.StatusTeapot)
	}

	if _, _, err := rec.Hijack(); err == nil {
		t.Fatal("expected Hijack to fail on a recorder without hijacking")
	}
}
