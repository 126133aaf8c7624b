package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricEngineSamplesTotal      = "histogauss.engine.samples.total"
	metricEngineBins              = "histogauss.engine.bins"
	metricEngineZeroVarianceTotal = "histogauss.engine.zero_variance.total"

	attrValid = "valid"
)

var binCountBoundaries = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 10000}

// EngineMetrics holds instruments describing overlay computations.
type EngineMetrics struct {
	samplesTotal metric.Int64Counter
	bins         metric.Int64Histogram
	zeroVariance metric.Int64Counter
}

// EngineStats summarizes one overlay computation, decoupled from the
// histogram types.
type EngineStats struct {
	Valid        int
	Dropped      int
	Bins         int
	ZeroVariance bool
}

// NewEngineMetrics creates engine instruments from the given meter.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	samples, err := mt.Int64Counter(metricEngineSamplesTotal,
		metric.WithDescription("Samples seen by the binning engine"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEngineSamplesTotal, err)
	}

	bins, err := mt.Int64Histogram(metricEngineBins,
		metric.WithDescription("Non-empty bins per overlay"),
		metric.WithUnit("{bin}"),
		metric.WithExplicitBucketBoundaries(binCountBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEngineBins, err)
	}

	zeroVar, err := mt.Int64Counter(metricEngineZeroVarianceTotal,
		metric.WithDescription("Overlays whose samples had zero variance"),
		metric.WithUnit("{overlay}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEngineZeroVarianceTotal, err)
	}

	return &EngineMetrics{
		samplesTotal: samples,
		bins:         bins,
		zeroVariance: zeroVar,
	}, nil
}

// RecordOverlay records one computation. Safe to call on a nil receiver.
func (em *EngineMetrics) RecordOverlay(ctx context.Context, stats EngineStats) {
	if em == nil {
		return
	}

	em.samplesTotal.Add(ctx, int64(stats.Valid), metric.WithAttributes(attribute.Bool(attrValid, true)))
	em.samplesTotal.Add(ctx, int64(stats.Dropped), metric.WithAttributes(attribute.Bool(attrValid, false)))
	em.bins.Record(ctx, int64(stats.Bins))

	if stats.ZeroVariance {
		em.zeroVariance.Add(ctx, 1)
	}
}
