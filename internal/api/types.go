package api

import "github.com/edgewatch/edgewatch/internal/store"

// CheckResponse is the body returned by a successful trigger.
type CheckResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	CheckID    string `json:"check_id"`
	Processed  int    `json:"processed"`
	AlertsSent int    `json:"alerts_sent"`
}

// errorResponse is the body returned for any failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	AlertsOnFile int    `json:"alerts_on_file"`
}

// AlertsResponse lists recently dispatched alerts, newest first.
type AlertsResponse struct {
	Alerts []store.Record `json:"alerts"`
}
