package sql

import "go.opentelemetry.io/otel/attribute"

// MaxTagValueLength is the longest tag value the stats backend accepts.
// SanitizeTagValue truncates to this length.
const MaxTagValueLength = 255

// Tag keys attached to every recorded data point.
var (
	keyMethod = attribute.Key("go_sql_method")
	keyError  = attribute.Key("go_sql_error")
	keyStatus = attribute.Key("go_sql_status")
)

// Status tag values.
const (
	statusOK    = "OK"
	statusError = "ERROR"
)

// SanitizeTagValue converts an arbitrary string into a valid tag value:
// the result is at most MaxTagValueLength bytes and every byte outside
// the printable ASCII range (space through tilde) is replaced with a
// space. Idempotent.
func SanitizeTagValue(v string) string {
	if len(v) > MaxTagValueLength {
		v = v[:MaxTagValueLength]
	}

	sanitized := make([]byte, len(v))
	for i := 0; i < len(v); i++ {
		if isPrintable(v[i]) {
			sanitized[i] = v[i]
		} else {
			sanitized[i] = ' '
		}
	}
	return string(sanitized)
}

func isPrintable(ch byte) bool {
	return ch >= ' ' && ch <= '~'
}
