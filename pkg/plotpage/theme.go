package plotpage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTheme is returned by ParseTheme.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme represents a color theme for visualizations.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ParseTheme validates a theme name. Empty selects ThemeDark.
func ParseTheme(name string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(name))) {
	case "", ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
}

// ThemeConfig holds theme-specific styling values.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextSecondary string
	TextMuted     string
	Accent        string
	Warning       string
	WarningSubtle string

	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// BinColor fills histogram bars, CurveColor strokes the fitted curve.
	BinColor   string
	CurveColor string
}

// GetThemeConfig returns the configuration for theme. Unknown themes get
// the light palette.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

var lightTheme = ThemeConfig{
	Background:    "#fafaf9", // stone-50.
	Surface:       "#ffffff",
	Border:        "#e7e5e4", // stone-200.
	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.
	TextMuted:     "#78716c", // stone-500.
	Accent:        "#a16207", // amber-700.
	Warning:       "#ca8a04", // yellow-600.
	WarningSubtle: "#fef9c3", // yellow-100.

	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4",
	ChartAxis:       "#a8a29e", // stone-400.
	ChartText:       "#44403c",
	ChartTextMuted:  "#78716c",

	BinColor:   "#0369a1", // sky-700.
	CurveColor: "#be185d", // pink-700.
}

var darkTheme = ThemeConfig{
	Background:    "#0c0a09", // stone-950.
	Surface:       "#1c1917", // stone-900.
	Border:        "#44403c", // stone-700.
	TextPrimary:   "#fafaf9",
	TextSecondary: "#d6d3d1", // stone-300.
	TextMuted:     "#a8a29e", // stone-400.
	Accent:        "#d97706", // amber-600.
	Warning:       "#eab308", // yellow-500.
	WarningSubtle: "#422006", // yellow-950.

	ChartBackground: "transparent",
	ChartGrid:       "#44403c",
	ChartAxis:       "#57534e", // stone-600.
	ChartText:       "#d6d3d1",
	ChartTextMuted:  "#a8a29e",

	BinColor:   "#38bdf8", // sky-400.
	CurveColor: "#f472b6", // pink-400.
}
