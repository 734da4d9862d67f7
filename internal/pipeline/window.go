package pipeline

import "time"

// Tracker owns the last-check cursor and computes each check's query window.
// It is not safe for concurrent use on its own; the Runner serializes access.
type Tracker struct {
	last time.Time
	now  func() time.Time // injectable for deterministic tests
}

// NewTracker returns a Tracker whose first window looks back lookback from
// now, so a fresh process picks up recent history instead of starting empty.
func NewTracker(lookback time.Duration) *Tracker {
	t := &Tracker{now: time.Now}
	t.last = t.now().Add(-lookback)
	return t
}

// Current returns the [start, end) window for the next check:
// start is the cursor, end is now.
func (t *Tracker) Current() (start, end time.Time) {
	return t.last, t.now()
}

// Advance moves the cursor to the given time unconditionally.
// The cursor never rolls back under normal operation because callers only
// advance to window ends, which are monotonically non-decreasing.
func (t *Tracker) Advance(to time.Time) {
	t.last = to
}

// Last returns the current cursor position.
func (t *Tracker) Last() time.Time {
	return t.last
}
