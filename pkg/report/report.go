// Package report turns an overlay into a serialisable report and renders it
// as text, JSON, YAML or HTML.
package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
	"github.com/Sumatoshi-tech/histogauss/pkg/histogram"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names a report encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

var formats = []Format{FormatText, FormatJSON, FormatYAML, FormatHTML}

// ParseFormat validates a format name. Empty selects FormatText.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if format == "" {
		return FormatText, nil
	}

	if !slices.Contains(formats, format) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return format, nil
}

// Extension returns the file extension for reports in this format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ContentType returns the MIME type for reports in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Meta describes where a report came from.
type Meta struct {
	Source  string
	Version string

	// IncludeMembers keeps each bin's member samples in the report.
	IncludeMembers bool
}

// Extent is histogram.Extent with its end resolved.
type Extent struct {
	Start     float64 `json:"start"     yaml:"start"`
	End       float64 `json:"end"       yaml:"end"`
	Width     float64 `json:"width"     yaml:"width"`
	Intervals int     `json:"intervals" yaml:"intervals"`
}

// Report is the serialisable result of one overlay computation.
type Report struct {
	Source  string `json:"source,omitempty"  yaml:"source,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	BinWidth float64 `json:"bin_width" yaml:"bin_width"`
	Total    int     `json:"total"     yaml:"total"`
	Valid    int     `json:"valid"     yaml:"valid"`
	Dropped  int     `json:"dropped"   yaml:"dropped"`

	ZeroVariance bool `json:"zero_variance" yaml:"zero_variance"`

	Summary stats.Summary          `json:"summary" yaml:"summary"`
	Extent  Extent                 `json:"extent"  yaml:"extent"`
	Bins    []histogram.Bin        `json:"bins"    yaml:"bins"`
	Curve   []histogram.CurvePoint `json:"curve"   yaml:"curve"`
}

// New builds a Report from overlay. Bins and curve are never nil so
// encoders emit empty lists rather than null.
func New(overlay histogram.Overlay, meta Meta) Report {
	bins := make([]histogram.Bin, len(overlay.Bins))

	for i, b := range overlay.Bins {
		if !meta.IncludeMembers {
			b.Members = nil
		}

		bins[i] = b
	}

	curve := overlay.Curve
	if curve == nil {
		curve = []histogram.CurvePoint{}
	}

	return Report{
		Source:       meta.Source,
		Version:      meta.Version,
		BinWidth:     overlay.Extent.Width,
		Total:        overlay.Total,
		Valid:        overlay.Valid(),
		Dropped:      overlay.Dropped,
		ZeroVariance: overlay.ZeroVariance,
		Summary:      overlay.Summary,
		Extent: Extent{
			Start:     overlay.Extent.Start,
			End:       overlay.Extent.End(),
			Width:     overlay.Extent.Width,
			Intervals: overlay.Extent.Intervals,
		},
		Bins:  bins,
		Curve: curve,
	}
}

// Overlay reassembles the histogram view of the report.
func (r Report) Overlay() histogram.Overlay {
	return histogram.Overlay{
		Bins: r.Bins,
		Extent: histogram.Extent{
			Start:     r.Extent.Start,
			Width:     r.Extent.Width,
			Intervals: r.Extent.Intervals,
		},
		Curve:        r.Curve,
		Summary:      r.Summary,
		Total:        r.Total,
		Dropped:      r.Dropped,
		ZeroVariance: r.ZeroVariance,
	}
}

// MaxCount returns the largest bin count.
func (r Report) MaxCount() int {
	best := 0

	for _, b := range r.Bins {
		best = max(best, b.Count)
	}

	return best
}

// Expected returns the fitted curve's expected count for a bin, evaluated at
// its center. ok is false when no curve could be fitted.
func (r Report) Expected(b histogram.Bin) (expected float64, ok bool) {
	if r.ZeroVariance || r.Summary.Count == 0 || len(r.Curve) == 0 {
		return 0, false
	}

	density := stats.NormalPDF(b.Center(), r.Summary.Mean, r.Summary.StdDev)

	return density * r.Extent.Width * float64(r.Summary.Count), true
}
