package logsource

import (
	"strings"
	"testing"
	"time"
)

var (
	qStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	qEnd   = time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
)

func TestBuildQuery(t *testing.T) {
	sql, err := buildQuery("function_logs", qStart, qEnd, []string{"error", "fatal", "panic"})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}

	for _, want := range []string{
		"FROM function_logs",
		"timestamp >= '2024-03-01T12:00:00Z'",
		"timestamp < '2024-03-01T12:05:00Z'",
		"LOWER(level) IN ('error', 'fatal', 'panic')",
		"ORDER BY timestamp DESC",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q:\n%s", want, sql)
		}
	}
}

func TestBuildQuery_NonUTCWindow(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	sql, err := buildQuery("function_logs", qStart.In(loc), qEnd.In(loc), []string{"error"})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	// Bounds are always rendered in UTC regardless of the input location.
	if !strings.Contains(sql, "'2024-03-01T12:00:00Z'") {
		t.Errorf("start not normalized to UTC:\n%s", sql)
	}
}

func TestBuildQuery_RejectsInvalidSeverity(t *testing.T) {
	bad := []string{
		"error' OR '1'='1",
		"ERROR",
		"fat al",
		"",
	}
	for _, s := range bad {
		if _, err := buildQuery("function_logs", qStart, qEnd, []string{s}); err == nil {
			t.Errorf("severity %q: expected error, got nil", s)
		}
	}
}

func TestBuildQuery_RejectsInvalidTable(t *testing.T) {
	if _, err := buildQuery("logs; DROP TABLE x", qStart, qEnd, []string{"error"}); err == nil {
		t.Error("expected error for malformed table name, got nil")
	}
}

func TestBuildQuery_RejectsEmptyWindow(t *testing.T) {
	if _, err := buildQuery("function_logs", qEnd, qStart, []string{"error"}); err == nil {
		t.Error("expected error for inverted window, got nil")
	}
	if _, err := buildQuery("function_logs", qStart, qStart, []string{"error"}); err == nil {
		t.Error("expected error for zero-width window, got nil")
	}
}

func TestBuildQuery_RejectsEmptySeverities(t *testing.T) {
	if _, err := buildQuery("function_logs", qStart, qEnd, nil); err == nil {
		t.Error("expected error for empty severity list, got nil")
	}
}
