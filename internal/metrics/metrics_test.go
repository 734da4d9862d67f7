package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	return rr.Body.String()
}

func TestServeHTTP_EmptyRegistry(t *testing.T) {
	body := scrape(t, New())
	for _, want := range []string{
		"edgewatch_checks_total 0",
		"edgewatch_alerts_sent_total 0",
		"# TYPE edgewatch_checks_total counter",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q:\n%s", want, body)
		}
	}
}

func TestRecordCheck(t *testing.T) {
	r := New()
	r.RecordCheck(3, 2, 1)
	r.RecordCheck(1, 0, 0)

	body := scrape(t, r)
	for _, want := range []string{
		"edgewatch_checks_total 2",
		"edgewatch_entries_processed_total 4",
		"edgewatch_alerts_sent_total 2",
		"edgewatch_delivery_failures_total 1",
		"edgewatch_check_failures_total 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q:\n%s", want, body)
		}
	}
}

func TestRecordCheckFailure(t *testing.T) {
	r := New()
	r.RecordCheckFailure()

	body := scrape(t, r)
	if !strings.Contains(body, "edgewatch_checks_total 1") {
		t.Errorf("failed check not counted as attempted:\n%s", body)
	}
	if !strings.Contains(body, "edgewatch_check_failures_total 1") {
		t.Errorf("failure not counted:\n%s", body)
	}
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	New().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}
