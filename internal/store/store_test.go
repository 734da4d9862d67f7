package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/edgewatch/edgewatch/internal/logsource"
)

func rec(id string) Record {
	return Record{
		Entry:     logsource.Entry{ID: id, Severity: "error"},
		CheckID:   "check-1",
		Delivered: true,
	}
}

func TestAddAndRecent(t *testing.T) {
	st := New(10)
	st.Add(rec("log-1"))
	st.Add(rec("log-2"))

	got := st.Recent(time.Hour)
	if len(got) != 2 {
		t.Fatalf("Recent: got %d records, want 2", len(got))
	}
	// Newest first.
	if got[0].Entry.ID != "log-2" || got[1].Entry.ID != "log-1" {
		t.Errorf("order: got [%s, %s], want [log-2, log-1]", got[0].Entry.ID, got[1].Entry.ID)
	}
	if got[0].DispatchedAt.IsZero() {
		t.Error("DispatchedAt not stamped")
	}
}

func TestCapEvictsOldest(t *testing.T) {
	st := New(3)
	for i := 0; i < 5; i++ {
		st.Add(rec(fmt.Sprintf("log-%d", i)))
	}

	if st.Count() != 3 {
		t.Fatalf("Count: got %d, want 3", st.Count())
	}
	got := st.Recent(time.Hour)
	if got[len(got)-1].Entry.ID != "log-2" {
		t.Errorf("oldest kept: got %s, want log-2", got[len(got)-1].Entry.ID)
	}
}

func TestRecent_WindowExcludesOld(t *testing.T) {
	st := New(10)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	st.now = func() time.Time { return now.Add(-2 * time.Hour) }
	st.Add(rec("old"))
	st.now = func() time.Time { return now.Add(-time.Minute) }
	st.Add(rec("fresh"))
	st.now = func() time.Time { return now }

	got := st.Recent(time.Hour)
	if len(got) != 1 || got[0].Entry.ID != "fresh" {
		t.Fatalf("Recent(1h): got %+v, want only fresh", got)
	}
}

func TestRecent_Empty(t *testing.T) {
	st := New(10)
	if got := st.Recent(time.Hour); len(got) != 0 {
		t.Errorf("Recent on empty store: got %d records", len(got))
	}
}
