package validation

import "time"

// FormatTimeToString renders a timestamp in the wire format used by the
// HTTP bridges (RFC 3339, UTC).
func FormatTimeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
