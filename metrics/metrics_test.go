package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/livescores-dashboard/services"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRender(t *testing.T) {
	m := New()

	m.ObserveRender("ok", 20*time.Millisecond, 12, 4)
	m.ObserveRender("ok", 10*time.Millisecond, 12, 3)
	m.ObserveRender("load_failed", time.Millisecond, 0, 0)

	if got := testutil.ToFloat64(m.renders.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok renders, got %v", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("load_failed")); got != 1 {
		t.Errorf("expected 1 failed render, got %v", got)
	}
	if got := testutil.ToFloat64(m.rowsDisplayed); got != 3 {
		t.Errorf("expected failed run to keep last row gauge at 3, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, http.StatusOK)
	m.SetLiveSessions(2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`livescores_http_requests_total{method="GET",status="200"} 1`,
		"livescores_live_sessions 2",
		"livescores_render_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestObserveRender_EmptyTableResetsRowGauges(t *testing.T) {
	m := New()

	m.ObserveRender(services.OutcomeOK, time.Millisecond, 12, 4)
	m.ObserveRender(services.OutcomeOK, time.Millisecond, 0, 0)

	if got := testutil.ToFloat64(m.rowsLoaded); got != 0 {
		t.Errorf("expected rows_loaded 0 after an empty table, got %v", got)
	}
	if got := testutil.ToFloat64(m.rowsDisplayed); got != 0 {
		t.Errorf("expected rows_displayed 0 after an empty table, got %v", got)
	}
}
