// Package pipeline runs one fetch → filter → notify check per external
// trigger. The Tracker owns the last-check cursor and hands each check its
// [start, end) window; the Runner fetches entries for that window, filters
// them through the alert policy, dispatches notifications concurrently, and
// advances the cursor.
//
// The cursor advances once the fetch has succeeded, even when some
// notifications fail — entries in a partially failed batch are never
// re-queried. A failed fetch leaves the cursor untouched so the next check
// retries the same, now wider, window.
package pipeline
