package histogram_test

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/histogauss/pkg/histogram"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	samples := append([]float64{math.NaN(), math.Inf(1)}, decades...)

	overlay := histogram.Compute(samples, 10)

	require.Len(t, overlay.Bins, 5)
	assert.Len(t, overlay.Curve, histogram.DistributionPointCount)
	assert.Equal(t, 11, overlay.Total)
	assert.Equal(t, 2, overlay.Dropped)
	assert.Equal(t, 9, overlay.Valid())
	assert.Equal(t, 9, overlay.Summary.Count)
	assert.InDelta(t, 25.0, overlay.Summary.Mean, floatTolerance)
	assert.Equal(t, 3, overlay.MaxCount())
	assert.False(t, overlay.ZeroVariance)
}

func TestCompute_ZeroVariance(t *testing.T) {
	t.Parallel()

	overlay := histogram.Compute([]float64{5, 5, 5, 5}, 1)

	require.Len(t, overlay.Bins, 1)
	assert.Equal(t, 4, overlay.Bins[0].Count)
	assert.True(t, overlay.ZeroVariance)
	assert.Len(t, overlay.Curve, histogram.DistributionPointCount)
}

func TestCompute_Degenerate(t *testing.T) {
	t.Parallel()

	t.Run("all_nan", func(t *testing.T) {
		t.Parallel()

		overlay := histogram.Compute([]float64{math.NaN(), math.NaN()}, 10)

		assert.Empty(t, overlay.Bins)
		assert.Nil(t, overlay.Curve)
		assert.Equal(t, 2, overlay.Dropped)
		assert.Equal(t, 0, overlay.Summary.Count)
		assert.Equal(t, 0, overlay.MaxCount())
		assert.False(t, overlay.ZeroVariance)
	})

	t.Run("zero_width", func(t *testing.T) {
		t.Parallel()

		overlay := histogram.Compute(decades, 0)

		assert.Empty(t, overlay.Bins)
		assert.Nil(t, overlay.Curve)
		assert.Equal(t, 9, overlay.Summary.Count)
	})
}

func TestCompute_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	samples := randomSamples(5000, 3)
	want := histogram.Compute(samples, 0.5)

	const workers = 8

	results := make([]histogram.Overlay, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i] = histogram.Compute(samples, 0.5)
		}()
	}

	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestCompute_HugeFiniteValuesStayEncodable(t *testing.T) {
	t.Parallel()

	overlay := histogram.Compute(hugeSamples, hugeWidth)

	require.Len(t, overlay.Bins, 2)
	require.Len(t, overlay.Curve, histogram.DistributionPointCount)
	assert.False(t, overlay.ZeroVariance)
	assert.InEpsilon(t, 1.25*0x1p1023, overlay.Summary.Mean, 1e-12)
	assert.InEpsilon(t, hugeWidth, overlay.Summary.StdDev, 1e-12)

	_, err := json.Marshal(overlay)
	require.NoError(t, err)
}
