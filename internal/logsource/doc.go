// Package logsource queries the external log-analytics API for structured
// log entries inside a time window. Queries are built from typed inputs
// (time.Time bounds, a validated severity list) rather than interpolated
// strings, and are encoded into the request URL with url.Values.
//
// Authentication (bearer token) is handled by an authRoundTripper installed
// on the client's *http.Client; callers receive a fully configured Client
// from New().
package logsource
