package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/edgewatch/edgewatch/internal/logsource"
)

// shortOriginLen is how much of the origin identifier appears in the subject.
const shortOriginLen = 8

// subject renders the notification subject line for e.
func subject(e logsource.Entry) string {
	return fmt.Sprintf("[%s] Edge Function Alert - %s",
		strings.ToUpper(e.Severity), shortOrigin(e.OriginID))
}

// shortOrigin returns the first 8 characters of origin, or "unknown" when
// the entry carries no origin identifier.
func shortOrigin(origin string) string {
	if origin == "" {
		return "unknown"
	}
	if len(origin) > shortOriginLen {
		return origin[:shortOriginLen]
	}
	return origin
}

// origin and eventType placeholders used in rendered bodies.
func originLabel(e logsource.Entry) string {
	if e.OriginID == "" {
		return "unknown"
	}
	return e.OriginID
}

func eventTypeLabel(e logsource.Entry) string {
	if e.EventType == "" {
		return "N/A"
	}
	return e.EventType
}

// htmlBody renders the HTML part. Field values are HTML-escaped because the
// content type demands it; the message text itself is otherwise verbatim.
func htmlBody(e logsource.Entry) string {
	var b strings.Builder
	b.WriteString("<h2>Edge Function Error Alert</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Severity:</strong> %s</p>\n", html.EscapeString(strings.ToUpper(e.Severity)))
	fmt.Fprintf(&b, "<p><strong>Function:</strong> %s</p>\n", html.EscapeString(originLabel(e)))
	fmt.Fprintf(&b, "<p><strong>Event type:</strong> %s</p>\n", html.EscapeString(eventTypeLabel(e)))
	fmt.Fprintf(&b, "<p><strong>Timestamp:</strong> %s</p>\n", html.EscapeString(e.Timestamp))
	fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(e.Message))
	return b.String()
}

// textBody renders the plain-text part. The message is included verbatim.
func textBody(e logsource.Entry) string {
	var b strings.Builder
	b.WriteString("Edge Function Error Alert\n\n")
	fmt.Fprintf(&b, "Severity: %s\n", strings.ToUpper(e.Severity))
	fmt.Fprintf(&b, "Function: %s\n", originLabel(e))
	fmt.Fprintf(&b, "Event type: %s\n", eventTypeLabel(e))
	fmt.Fprintf(&b, "Timestamp: %s\n\n", e.Timestamp)
	b.WriteString(e.Message)
	b.WriteString("\n")
	return b.String()
}
