package logsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edgewatch/edgewatch/internal/config"
)

const sampleResult = `{
  "result": [
    {
      "id": "log-2",
      "timestamp": "2024-03-01T12:04:30Z",
      "event_message": "unhandled exception",
      "event_type": "uncaught",
      "function_id": "fn-abc",
      "level": "error"
    },
    {
      "id": "log-1",
      "timestamp": "2024-03-01T12:01:00Z",
      "event_message": "worker crashed",
      "function_id": "fn-def",
      "level": "fatal"
    }
  ]
}`

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	t.Setenv("TEST_SOURCE_TOKEN", "tok-abc")
	return New(config.SourceConfig{
		Endpoint:   srv.URL,
		ProjectRef: "proj-1",
		Table:      "function_logs",
		TokenEnv:   "TEST_SOURCE_TOKEN",
		Timeout:    5 * time.Second,
	})
}

func TestFetch(t *testing.T) {
	var gotAuth, gotSQL, gotStart, gotEnd, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotSQL = r.URL.Query().Get("sql")
		gotStart = r.URL.Query().Get("iso_timestamp_start")
		gotEnd = r.URL.Query().Get("iso_timestamp_end")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResult))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	entries, err := c.Fetch(context.Background(), start, end, []string{"error", "fatal", "panic"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization: got %q, want Bearer tok-abc", gotAuth)
	}
	if gotPath != "/v1/projects/proj-1/analytics/endpoints/logs.all" {
		t.Errorf("path: got %q", gotPath)
	}
	if !strings.Contains(gotSQL, "FROM function_logs") {
		t.Errorf("sql param missing table clause: %q", gotSQL)
	}
	if gotStart != "2024-03-01T12:00:00Z" || gotEnd != "2024-03-01T12:05:00Z" {
		t.Errorf("window params: got [%s, %s)", gotStart, gotEnd)
	}

	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	first := entries[0]
	if first.ID != "log-2" || first.Severity != "error" || first.OriginID != "fn-abc" {
		t.Errorf("first entry: got %+v", first)
	}
	if first.Message != "unhandled exception" {
		t.Errorf("message: got %q", first.Message)
	}
	// Optional fields absent in the payload decode to empty strings.
	if entries[1].EventType != "" {
		t.Errorf("second entry event_type: got %q, want empty", entries[1].EventType)
	}
}

func TestFetch_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": []}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	entries, err := c.Fetch(context.Background(), time.Now().Add(-time.Minute), time.Now(), []string{"error"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries: got %d, want 0", len(entries))
	}
}

func TestFetch_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("permission denied"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), time.Now().Add(-time.Minute), time.Now(), []string{"error"})

	var srcErr *SourceUnavailableError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error type: got %T (%v), want *SourceUnavailableError", err, err)
	}
	if srcErr.Status != http.StatusForbidden {
		t.Errorf("Status: got %d, want 403", srcErr.Status)
	}
	if srcErr.Body != "permission denied" {
		t.Errorf("Body: got %q", srcErr.Body)
	}
}

func TestFetch_ConnectFailure(t *testing.T) {
	c := New(config.SourceConfig{
		Endpoint:   "http://127.0.0.1:1",
		ProjectRef: "proj-1",
		Table:      "function_logs",
		Timeout:    time.Second,
	})
	_, err := c.Fetch(context.Background(), time.Now().Add(-time.Minute), time.Now(), []string{"error"})

	var srcErr *SourceUnavailableError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error type: got %T (%v), want *SourceUnavailableError", err, err)
	}
	if srcErr.Status != 0 {
		t.Errorf("Status for transport failure: got %d, want 0", srcErr.Status)
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), time.Now().Add(-time.Minute), time.Now(), []string{"error"})

	var srcErr *SourceUnavailableError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error type: got %T (%v), want *SourceUnavailableError", err, err)
	}
}

func TestFetch_NoTokenNoHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		_, _ = w.Write([]byte(`{"result": []}`))
	}))
	defer srv.Close()

	c := New(config.SourceConfig{
		Endpoint:   srv.URL,
		ProjectRef: "proj-1",
		Table:      "function_logs",
		Timeout:    time.Second,
	})
	if _, err := c.Fetch(context.Background(), time.Now().Add(-time.Minute), time.Now(), []string{"error"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if sawAuth {
		t.Error("Authorization header sent with no token configured")
	}
}
