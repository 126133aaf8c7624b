package histogram

import (
	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
)

// DistributionPointCount is the number of points in a synthesized curve.
const DistributionPointCount = 100

// minPointCount is the smallest point count that still spans a domain.
const minPointCount = 2

// CurvePoint is one vertex of the distribution polyline.
type CurvePoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SynthesizeCurve samples the normal density fitted to the finite samples at
// DistributionPointCount evenly spaced points across extent, scaled by
// sample count and bin width so it overlays raw bin counts.
func SynthesizeCurve(samples []float64, extent Extent) []CurvePoint {
	return SynthesizeCurveN(samples, extent, DistributionPointCount)
}

// SynthesizeCurveN is SynthesizeCurve with an explicit point count.
// Counts below 2 are raised to 2.
//
// It returns nil when there are no finite samples or the extent is empty.
// When the samples have zero variance the density is undefined and every
// point gets Y = 0. The same flat curve is drawn if the fit is not finite.
//
// X values are evenly spaced in exact arithmetic and never decrease. When the
// extent holds fewer representable float64 values than points, as with a
// narrow extent far from zero, neighbouring X values may be equal.
func SynthesizeCurveN(samples []float64, extent Extent, pointCount int) []CurvePoint {
	valid := stats.Finite(samples)
	if len(valid) == 0 || extent.Empty() || extent.Width == 0 {
		return nil
	}

	pointCount = max(pointCount, minPointCount)

	mean, stddev := stats.MeanStdDev(valid)
	flat := flatDensity(mean, stddev)

	lo, hi := extent.Start, extent.End()
	step := (hi - lo) / float64(pointCount-1)
	count := float64(len(valid))

	points := make([]CurvePoint, pointCount)

	for i := range pointCount {
		x := lo + float64(i)*step
		if i == pointCount-1 {
			x = hi
		}

		var y float64
		if !flat {
			y = stats.NormalPDF(x, mean, stddev) * extent.Width * count
		}

		points[i] = CurvePoint{X: x, Y: y}
	}

	return points
}

// flatDensity reports whether no density can be fitted: the stddev is zero
// or underflows when squared, or the fit is not finite.
func flatDensity(mean, stddev float64) bool {
	return stddev == 0 || stddev*stddev == 0 || !stats.IsFinite(mean) || !stats.IsFinite(stddev)
}
