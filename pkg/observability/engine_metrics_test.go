package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
)

func setupEngineMeter(t *testing.T) (*observability.EngineMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	engine, err := observability.NewEngineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return engine, reader
}

func TestEngineMetrics_RecordOverlay(t *testing.T) {
	t.Parallel()

	engine, reader := setupEngineMeter(t)
	ctx := context.Background()

	engine.RecordOverlay(ctx, observability.EngineStats{Valid: 9, Dropped: 2, Bins: 5})
	engine.RecordOverlay(ctx, observability.EngineStats{Valid: 4, Bins: 1, ZeroVariance: true})

	rm := collectMetrics(t, reader)

	samples := findMetric(rm, "histogauss.engine.samples.total")
	require.NotNil(t, samples)

	sum, ok := samples.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byValid := map[bool]int64{}

	for _, dp := range sum.DataPoints {
		valid, found := dp.Attributes.Value(attribute.Key("valid"))
		require.True(t, found)

		byValid[valid.AsBool()] += dp.Value
	}

	assert.Equal(t, int64(13), byValid[true])
	assert.Equal(t, int64(2), byValid[false])

	bins := findMetric(rm, "histogauss.engine.bins")
	require.NotNil(t, bins)

	hist, ok := bins.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, int64(6), hist.DataPoints[0].Sum)

	zeroVar := findMetric(rm, "histogauss.engine.zero_variance.total")
	require.NotNil(t, zeroVar)
	assert.Equal(t, int64(1), sumInt64(t, zeroVar))
}

func TestEngineMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var engine *observability.EngineMetrics

	assert.NotPanics(t, func() {
		engine.RecordOverlay(context.Background(), observability.EngineStats{Valid: 1, Bins: 1})
	})
}
