package terminal

import (
	"math"
	"strings"
)

const barFull = "█"

// Partial blocks by eighths, index 0 unused.
var barEighths = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// DrawBar draws a bar of value/maxValue scaled to width cells, using
// eighth-cell blocks for the remainder. The result is never wider than width.
func DrawBar(value, maxValue float64, width int) string {
	if width <= 0 || maxValue <= 0 || value <= 0 || math.IsNaN(value) {
		return ""
	}

	fraction := min(value/maxValue, 1)
	eighths := int(math.Round(fraction * float64(width) * 8))

	full, rest := eighths/8, eighths%8

	return strings.Repeat(barFull, full) + barEighths[rest]
}
