package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a value for report output with the given
// precision. NaN renders as an empty cell.
func formatFloat(f float64, precision int) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// formatInt formats an integer for report output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
