package store

import (
	"sync"
	"time"

	"github.com/edgewatch/edgewatch/internal/logsource"
)

// Record is one dispatched alert together with its delivery outcome.
type Record struct {
	Entry        logsource.Entry `json:"entry"`
	CheckID      string          `json:"check_id"`
	Delivered    bool            `json:"delivered"`
	Error        string          `json:"error,omitempty"`
	DispatchedAt time.Time       `json:"dispatched_at"`
}

// Store is a thread-safe bounded alert history, newest last.
type Store struct {
	mu   sync.RWMutex
	recs []Record
	max  int
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store holding at most max records.
func New(max int) *Store {
	return &Store{max: max, now: time.Now}
}

// Add appends rec, stamping DispatchedAt, and evicts the oldest records
// beyond the cap.
func (s *Store) Add(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.DispatchedAt = s.now()
	s.recs = append(s.recs, rec)
	if len(s.recs) > s.max {
		s.recs = s.recs[len(s.recs)-s.max:]
	}
}

// Recent returns copies of records dispatched within the past window,
// newest first.
func (s *Store) Recent(window time.Duration) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-window)
	out := make([]Record, 0, len(s.recs))
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].DispatchedAt.After(cutoff) {
			out = append(out, s.recs[i])
		}
	}
	return out
}

// Count returns the number of records currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}
