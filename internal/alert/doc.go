// Package alert decides which log entries warrant a notification.
// The decision is a pure function of the entry and a Policy: severity must
// be one of the alert-worthy levels (error, fatal, panic — compared
// case-insensitively), and when the policy carries an origin allow-list the
// entry's origin must appear in it.
package alert
