package logsource

// Entry is one structured log record returned by the analytics API.
// All fields except Timestamp and Message may be empty.
type Entry struct {
	// ID is the source-assigned record identifier. Used only for
	// logging and traceability — never for deduplication.
	ID string `json:"id"`

	// Timestamp is the event time as an ISO-8601 string.
	Timestamp string `json:"timestamp"`

	// Message is the free-text event body.
	Message string `json:"event_message"`

	// EventType is an optional categorical tag.
	EventType string `json:"event_type"`

	// OriginID identifies the emitting component (function/service ID).
	OriginID string `json:"function_id"`

	// Severity is the raw log level as reported by the source.
	// Compared case-insensitively downstream.
	Severity string `json:"level"`
}
