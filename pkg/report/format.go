package report

import (
	"github.com/dustin/go-humanize"
)

const displayDigits = 6

// formatNumber prints v with at most displayDigits decimals, trailing zeros
// trimmed.
func formatNumber(v float64) string {
	return humanize.FtoaWithDigits(v, displayDigits)
}

// formatRange renders [lo, hi) or, when closed, [lo, hi].
func formatRange(lo, hi float64, closed bool) string {
	end := ")"
	if closed {
		end = "]"
	}

	return "[" + formatNumber(lo) + ", " + formatNumber(hi) + end
}
