package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersIndependentRegistries(t *testing.T) {
	first := New()
	second := New()

	first.Transitions.WithLabelValues("Pending Approval", "Processing", "seller").Inc()
	if got := testutil.ToFloat64(first.Transitions.WithLabelValues("Pending Approval", "Processing", "seller")); got != 1 {
		t.Fatalf("expected 1 transition, got %v", got)
	}
	if got := testutil.ToFloat64(second.Transitions.WithLabelValues("Pending Approval", "Processing", "seller")); got != 0 {
		t.Fatalf("registries must not share state, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.OrdersCreated.Inc()
	m.Requests.WithLabelValues("/api/orders", http.MethodPost, "201").Inc()

	resp := httptest.NewRecorder()
	m.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{"marketplace_orders_created_total 1", "marketplace_http_requests_total"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}

	families, err := m.Gatherer().Gather()
	if err != nil || len(families) == 0 {
		t.Fatalf("expected gathered families, got %d err=%v", len(families), err)
	}
}
