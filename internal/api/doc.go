// Package api is the HTTP surface of edgewatch: the externally triggered
// check endpoint, a liveness endpoint, and the recent-alert listing.
// Pipeline errors are converted to JSON exactly once, here.
package api
