package histogram

import (
	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
)

// Overlay is a complete binning pass: the bins, the curve drawn over them and
// the statistics of the samples they were computed from.
type Overlay struct {
	Bins    []Bin         `json:"bins"    yaml:"bins"`
	Extent  Extent        `json:"extent"  yaml:"extent"`
	Curve   []CurvePoint  `json:"curve"   yaml:"curve"`
	Summary stats.Summary `json:"summary" yaml:"summary"`

	// Total is the number of samples supplied, Dropped the NaN/Inf ones.
	Total   int `json:"total"   yaml:"total"`
	Dropped int `json:"dropped" yaml:"dropped"`

	// ZeroVariance is set when the curve is the flat fallback.
	ZeroVariance bool `json:"zero_variance" yaml:"zero_variance"`
}

// Compute bins samples with width and synthesizes the curve over the
// resulting extent. Degenerate input yields an Overlay without bins or curve.
func Compute(samples []float64, width float64) Overlay {
	valid := stats.Finite(samples)

	bins, extent := Partition(valid, width)
	curve := SynthesizeCurve(valid, extent)
	summary := stats.Summarize(valid)

	return Overlay{
		Bins:         bins,
		Extent:       extent,
		Curve:        curve,
		Summary:      summary,
		Total:        len(samples),
		Dropped:      len(samples) - len(valid),
		ZeroVariance: curve != nil && flatDensity(summary.Mean, summary.StdDev),
	}
}

// Valid returns the number of samples that took part in the pass.
func (o Overlay) Valid() int {
	return o.Total - o.Dropped
}

// MaxCount returns the largest bin count, or 0 without bins.
func (o Overlay) MaxCount() int {
	best := 0

	for _, b := range o.Bins {
		best = max(best, b.Count)
	}

	return best
}
