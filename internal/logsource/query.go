package logsource

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// severityToken matches the only shape a severity filter value may take.
// Anything else is rejected before it reaches the query text, so no caller
// input is ever interpolated raw.
var severityToken = regexp.MustCompile(`^[a-z]+$`)

// tableIdent matches a plain SQL identifier. The table name comes from
// config, not request input, but it passes through the same gate anyway.
var tableIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// buildQuery renders the analytics SQL for one check window. Timestamps are
// formatted from time.Time and severities must be lowercase alpha tokens;
// buildQuery is the only place query text is assembled.
//
// Results are ordered newest-first.
func buildQuery(table string, start, end time.Time, severities []string) (string, error) {
	if !tableIdent.MatchString(table) {
		return "", fmt.Errorf("logsource: invalid table name %q", table)
	}
	if !end.After(start) {
		return "", fmt.Errorf("logsource: window end %s not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if len(severities) == 0 {
		return "", fmt.Errorf("logsource: severity filter is empty")
	}

	quoted := make([]string, 0, len(severities))
	for _, s := range severities {
		if !severityToken.MatchString(s) {
			return "", fmt.Errorf("logsource: invalid severity token %q", s)
		}
		quoted = append(quoted, "'"+s+"'")
	}

	return fmt.Sprintf(
		"SELECT id, timestamp, event_message, event_type, function_id, level "+
			"FROM %s "+
			"WHERE timestamp >= '%s' AND timestamp < '%s' "+
			"AND LOWER(level) IN (%s) "+
			"ORDER BY timestamp DESC",
		table,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
		strings.Join(quoted, ", "),
	), nil
}
