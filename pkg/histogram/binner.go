// Package histogram partitions scalar samples into fixed-width bins and
// synthesizes the scaled normal curve drawn over them.
//
// Everything here works in data space. Callers map bins and curve points to
// screen coordinates themselves. All functions are pure: the caller's sample
// slice is never modified and no state survives between calls.
package histogram

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
)

// MaxIntervals bounds the number of width-sized intervals a single pass may
// span. Interval indices stay exact in float64 below it.
const MaxIntervals = 1 << 53

// minResolution is how many float64 ulps, at the magnitude of the domain,
// a width must cover for interval bounds to keep increasing.
const minResolution = 4

// ErrSpanTooLarge reports samples whose range cannot be partitioned with the
// requested width in float64.
var ErrSpanTooLarge = errors.New("sample range cannot be partitioned with this bin width")

// Bin is one non-empty fixed-width interval [Lower, Upper) and the samples in it.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
	// Index is the ordinal of the bin among emitted bins. Skipped empty
	// intervals do not consume an index.
	Index   int       `json:"index"   yaml:"index"`
	Members []float64 `json:"members,omitempty" yaml:"members,omitempty"`
}

// Center returns the midpoint of the bin.
func (b Bin) Center() float64 {
	return b.Lower + (b.Upper-b.Lower)/2
}

// Width returns Upper - Lower.
func (b Bin) Width() float64 {
	return b.Upper - b.Lower
}

// Extent is the domain covered by a binning pass.
type Extent struct {
	// Start is the largest multiple of Width not above the smallest sample.
	Start float64 `json:"start" yaml:"start"`
	Width float64 `json:"width" yaml:"width"`
	// Intervals counts the interval widths spanned from Start to the upper
	// bound of the last bin, empty intervals included.
	Intervals int `json:"intervals" yaml:"intervals"`
}

// End returns Start + Intervals*Width.
func (e Extent) End() float64 {
	return e.Start + float64(e.Intervals)*e.Width
}

// Empty reports whether the extent spans no interval.
func (e Extent) Empty() bool {
	return e.Intervals <= 0
}

// Partition sorts the finite samples and partitions them into non-empty intervals
// of |width|. NaN and infinite samples are dropped. With no finite samples
// or a zero (or non-finite) width it returns no bins and an empty Extent.
// The same degenerate result is returned when CheckSpan rejects the input.
//
// Intervals are half-open: a sample equal to an interval's upper bound
// belongs to the next interval.
func Partition(samples []float64, width float64) ([]Bin, Extent) {
	width = math.Abs(width)
	if !stats.IsFinite(width) {
		width = 0
	}

	if width == 0 {
		return nil, Extent{}
	}

	sorted := stats.Finite(samples)
	if len(sorted) == 0 {
		return nil, Extent{Width: width}
	}

	slices.Sort(sorted)

	start, ok := gridStart(sorted[0], sorted[len(sorted)-1], width)
	if !ok {
		return nil, Extent{Width: width}
	}

	var (
		bins    []Bin
		members []float64
		current int
	)

	upper := start + width

	for _, v := range sorted {
		if v >= upper {
			if len(members) > 0 {
				bins = append(bins, newBin(start, width, current, len(bins), members))
				members = nil
			}

			current = intervalOf(v, start, width, current)
			upper = lowerOf(start, width, current) + width
		}

		members = append(members, v)
	}

	bins = append(bins, newBin(start, width, current, len(bins), members))

	return bins, Extent{Start: start, Width: width, Intervals: current + 1}
}

func newBin(start, width float64, interval, index int, members []float64) Bin {
	lower := lowerOf(start, width, interval)

	return Bin{
		Lower:   lower,
		Upper:   lower + width,
		Count:   len(members),
		Index:   index,
		Members: members,
	}
}

func lowerOf(start, width float64, interval int) float64 {
	return start + float64(interval)*width
}

// intervalOf returns the interval holding v, given that v lies at or past the
// upper bound of interval from. The floor estimate is corrected against the
// same bound arithmetic the scan uses so rounding cannot break the tie-break.
func intervalOf(v, start, width float64, from int) int {
	next := from + 1
	k := max(next, int(math.Floor((v-start)/width)))

	for k > next && v < lowerOf(start, width, k) {
		k--
	}

	for v >= lowerOf(start, width, k)+width {
		k++
	}

	return k
}

// CheckSpan reports whether Partition can walk the interval grid for samples
// and width. It returns ErrSpanTooLarge when the range covers MaxIntervals
// intervals or more, when a grid bound overflows, or when width is too small
// to be resolved at the magnitude of the samples. Input that Partition treats
// as degenerate for other reasons passes.
func CheckSpan(samples []float64, width float64) error {
	width = math.Abs(width)
	if width == 0 || !stats.IsFinite(width) {
		return nil
	}

	finite := stats.Finite(samples)
	if len(finite) == 0 {
		return nil
	}

	lo, hi := stats.Min(finite), stats.Max(finite)

	if _, ok := gridStart(lo, hi, width); !ok {
		return fmt.Errorf("%w: range [%g, %g], width %g", ErrSpanTooLarge, lo, hi, width)
	}

	return nil
}

// gridStart returns the largest multiple of width not above lo. ok is false
// when the grid from there to hi cannot be walked in float64.
func gridStart(lo, hi, width float64) (start float64, ok bool) {
	start = math.Floor(lo/width) * width
	if start > lo {
		start -= width
	}

	if !stats.IsFinite(start) {
		return 0, false
	}

	span := math.Floor((hi - start) / width)
	if !stats.IsFinite(span) || span >= MaxIntervals {
		return 0, false
	}

	end := start + (span+1)*width
	if !stats.IsFinite(end) {
		return 0, false
	}

	magnitude := max(math.Abs(start), math.Abs(end))
	ulp := math.Nextafter(magnitude, math.Inf(1)) - magnitude

	return start, width >= minResolution*ulp
}
