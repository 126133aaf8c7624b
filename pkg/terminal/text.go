package terminal

import (
	"strings"
	"unicode/utf8"
)

// PadRight pads s with spaces to width runes. Longer strings are unchanged.
func PadRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}

	return s + strings.Repeat(" ", width-n)
}
