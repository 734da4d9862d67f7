// Package metrics exposes pipeline counters in Prometheus text exposition
// format. The counters are plain mutex-guarded values; ServeHTTP encodes
// them with expfmt on each scrape, so there is no background collection.
package metrics
