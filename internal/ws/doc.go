// Package ws streams dispatched alerts to WebSocket subscribers (e.g. an
// operations dashboard). Clients receive the recent alert backlog on connect
// and every new alert as the pipeline dispatches it. This is a read-only
// observability surface — email remains the notification channel.
package ws
