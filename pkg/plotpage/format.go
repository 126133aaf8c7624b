package plotpage

import (
	"strconv"
)

// formatRange renders a half-open interval as "[lo, hi)".
func formatRange(lo, hi float64) string {
	return "[" + formatNumber(lo) + ", " + formatNumber(hi) + ")"
}

// formatNumber prints the shortest representation that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
