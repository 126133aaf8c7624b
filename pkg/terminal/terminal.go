// Package terminal renders boxes, bars and colored text for CLI reports.
package terminal

import (
	"os"
	"strconv"

	"github.com/fatih/color"
)

// Width bounds.
const (
	DefaultWidth = 80
	MinWidth     = 40
	MaxWidth     = 160
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig detects width from COLUMNS. Color is off when noColor is set,
// NO_COLOR is present, or stdout is not a terminal.
func NewConfig(noColor bool) Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: noColor || color.NoColor || os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth returns COLUMNS clamped to [MinWidth, MaxWidth], or
// DefaultWidth when unset or invalid.
func DetectWidth() int {
	columns, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || columns <= 0 {
		return DefaultWidth
	}

	return min(max(columns, MinWidth), MaxWidth)
}
