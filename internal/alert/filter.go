package alert

import (
	"strings"

	"github.com/edgewatch/edgewatch/internal/logsource"
)

// alertSeverities is the fixed set of alert-worthy levels.
var alertSeverities = map[string]struct{}{
	"error": {},
	"fatal": {},
	"panic": {},
}

// Severities returns the alert-worthy severity levels in query order.
func Severities() []string {
	return []string{"error", "fatal", "panic"}
}

// Policy is the immutable filter configuration for one check.
type Policy struct {
	// origins is the allow-list of origin identifiers. Nil or empty
	// means every origin may alert.
	origins map[string]struct{}
}

// NewPolicy builds a Policy from an origin allow-list.
func NewPolicy(allowedOrigins []string) Policy {
	if len(allowedOrigins) == 0 {
		return Policy{}
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return Policy{origins: origins}
}

// ShouldAlert reports whether e warrants a notification under p.
// No side effects; safe to call from any goroutine.
func ShouldAlert(e logsource.Entry, p Policy) bool {
	severity := strings.ToLower(e.Severity)
	if _, ok := alertSeverities[severity]; !ok {
		return false
	}
	if len(p.origins) > 0 {
		if _, ok := p.origins[e.OriginID]; !ok {
			return false
		}
	}
	return true
}
