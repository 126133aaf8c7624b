package terminal

import (
	"github.com/fatih/color"
)

// Colorize wraps text in the given attributes unless color is disabled.
func (c Config) Colorize(text string, attrs ...color.Attribute) string {
	if c.NoColor || len(attrs) == 0 {
		return text
	}

	painter := color.New(attrs...)
	painter.EnableColor()

	return painter.Sprint(text)
}
