package exporter

import (
	"fmt"
	"strconv"
	"time"

	"chartpulse/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatFloat3 formats a float64 with 3 decimal places, used for the
// Shannon diversity column.
func formatFloat3(f float64) string {
	return fmt.Sprintf("%.3f", f)
}

// formatStreams formats a stream total without a decimal tail when the
// value is whole, matching the historical exports.
func formatStreams(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatOptional renders an optional numeric, leaving the cell empty when
// the value is missing.
func formatOptional(o domain.Optional) string {
	if !o.Valid {
		return ""
	}
	return formatFloat(o.Value)
}

// formatDate renders a chart date as ISO 8601, or empty when unset
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
