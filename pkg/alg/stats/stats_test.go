package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestMinMax(t *testing.T) {
	t.Parallel()

	t.Run("empty_returns_zero", func(t *testing.T) {
		t.Parallel()

		assert.InDelta(t, 0, Min([]float64{}), 0.0001)
		assert.InDelta(t, 0, Max([]float64{}), 0.0001)
	})

	t.Run("multiple_elements", func(t *testing.T) {
		t.Parallel()

		values := []float64{3.0, 1.0, 4.0, 1.5, 9.0}
		assert.InDelta(t, 1.0, Min(values), 0.0001)
		assert.InDelta(t, 9.0, Max(values), 0.0001)
	})

	t.Run("int_elements", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1, Min([]int{3, 1, 4, 1, 5}))
		assert.Equal(t, 5, Max([]int{3, 1, 4, 1, 5}))
	})
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []float64
		p        float64
		expected float64
	}{
		{name: "empty_returns_zero", input: nil, p: PercentileMedian, expected: 0},
		{name: "single_element", input: []float64{7.0}, p: PercentileMedian, expected: 7.0},
		{name: "median_odd", input: []float64{3.0, 1.0, 2.0}, p: PercentileMedian, expected: 2.0},
		{name: "median_even", input: []float64{1.0, 2.0, 3.0, 4.0}, p: PercentileMedian, expected: 2.5},
		{name: "p95_of_100", input: makeSequence(100), p: 0.95, expected: 95.05},
		{name: "p0_is_min", input: []float64{5.0, 1.0, 9.0}, p: 0, expected: 1.0},
		{name: "p100_is_max", input: []float64{5.0, 1.0, 9.0}, p: 1.0, expected: 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Percentile(tt.input, tt.p)
			assert.InDelta(t, tt.expected, got, 0.1)
		})
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []float64{9.0, 1.0, 5.0}
	_ = Median(input)

	assert.Equal(t, []float64{9.0, 1.0, 5.0}, input)
}

// makeSequence returns [1.0, 2.0, ..., n].
func makeSequence(n int) []float64 {
	result := make([]float64, n)

	for i := range result {
		result[i] = float64(i + 1)
	}

	return result
}

func TestMeanStdDev(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      []float64
		wantMean   float64
		wantStdDev float64
	}{
		{name: "empty_returns_zeros", input: nil, wantMean: 0, wantStdDev: 0},
		{name: "single_element_zero_stddev", input: []float64{5.0}, wantMean: 5.0, wantStdDev: 0},
		{name: "uniform_values_zero_stddev", input: []float64{3.0, 3.0, 3.0}, wantMean: 3.0, wantStdDev: 0},
		{name: "known_population_stddev", input: []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}, wantMean: 5.0, wantStdDev: 2.0},
		{name: "divides_by_n", input: []float64{1.0, 3.0}, wantMean: 2.0, wantStdDev: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mean, stddev := MeanStdDev(tt.input)
			assert.InDelta(t, tt.wantMean, mean, 0.0001)
			assert.InDelta(t, tt.wantStdDev, stddev, 0.0001)
		})
	}
}

func TestMeanStdDev_LargeFiniteValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      []float64
		wantMean   float64
		wantStdDev float64
	}{
		{name: "sum_overflows", input: []float64{1e308, 1.5e308}, wantMean: 1.25e308, wantStdDev: 0.25e308},
		{name: "squares_overflow", input: []float64{-1.7e308, 1.7e308}, wantMean: 0, wantStdDev: 1.7e308},
		{name: "extremes", input: []float64{-math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}, wantMean: math.MaxFloat64 / 3, wantStdDev: math.MaxFloat64 * 2 * math.Sqrt2 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mean, stddev := MeanStdDev(tt.input)

			require.True(t, IsFinite(mean), "mean %v", mean)
			require.True(t, IsFinite(stddev), "stddev %v", stddev)

			if tt.wantMean == 0 {
				assert.InDelta(t, 0, mean, 0)
			} else {
				assert.InEpsilon(t, tt.wantMean, mean, 1e-12)
			}

			assert.InEpsilon(t, tt.wantStdDev, stddev, 1e-12)
		})
	}
}

func TestNormalPDF_LargeFiniteValues(t *testing.T) {
	t.Parallel()

	got := NormalPDF(1.5e308, 1.25e308, 0.25e308)
	want := math.Exp(-0.5) / 0.25e308 / math.Sqrt(2*math.Pi)

	require.True(t, IsFinite(got))
	assert.InEpsilon(t, want, got, 1e-9)

	assert.InDelta(t, 0, NormalPDF(math.MaxFloat64, -math.MaxFloat64, 1), 0)
}

func TestMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "empty_returns_zero", input: nil, expected: 0},
		{name: "single_element", input: []float64{5.0}, expected: 5.0},
		{name: "known_mean", input: []float64{1.0, 2.0, 3.0, 4.0, 5.0}, expected: 3.0},
		{name: "negative_values", input: []float64{-2.0, -4.0}, expected: -3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Mean(tt.input)
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}
}

func TestFinite(t *testing.T) {
	t.Parallel()

	input := []float64{1, math.NaN(), 2, math.Inf(1), math.Inf(-1), 3}

	got := Finite(input)

	assert.Equal(t, []float64{1, 2, 3}, got)
	assert.Len(t, input, 6)
}

func TestNormalPDF_MatchesGonum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mean, stddev float64
	}{
		{name: "standard", mean: 0, stddev: 1},
		{name: "shifted", mean: 25, stddev: 10.5},
		{name: "narrow", mean: -3, stddev: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ref := distuv.Normal{Mu: tt.mean, Sigma: tt.stddev}

			for _, x := range []float64{tt.mean - 3*tt.stddev, tt.mean - 0.5, tt.mean, tt.mean + 1.7} {
				assert.InDelta(t, ref.Prob(x), NormalPDF(x, tt.mean, tt.stddev), 1e-12)
			}
		})
	}
}

func TestNormalPDF_ZeroStdDevIsUndefined(t *testing.T) {
	t.Parallel()

	got := NormalPDF(1, 0, 0)

	assert.False(t, IsFinite(got))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, Summary{}, Summarize(nil))
	})

	t.Run("values", func(t *testing.T) {
		t.Parallel()

		got := Summarize([]float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0})

		assert.Equal(t, 8, got.Count)
		assert.InDelta(t, 5.0, got.Mean, 1e-9)
		assert.InDelta(t, 2.0, got.StdDev, 1e-9)
		assert.InDelta(t, 2.0, got.Min, 1e-9)
		assert.InDelta(t, 9.0, got.Max, 1e-9)
		assert.InDelta(t, 4.5, got.Median, 1e-9)
	})
}
