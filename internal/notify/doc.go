// Package notify delivers one email notification per qualifying log entry
// through a transactional email HTTP API. Each send carries both an HTML and
// a plain-text rendering of the entry and goes to every configured recipient
// in a single message. Failures are reported, never retried.
package notify
