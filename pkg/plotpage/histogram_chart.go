package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/histogauss/pkg/histogram"
)

// Series names shown in the chart legend.
const (
	SeriesBins  = "Bins"
	SeriesCurve = "Normal fit"
)

// HistogramChart draws the overlay's bins as bars centered on their intervals
// on a numeric x-axis, overlapped with the fitted curve. Bars leave no gap so
// each spans its bin width. If cOpts is nil, DefaultChartOpts() is used.
func HistogramChart(overlay histogram.Overlay, cOpts *ChartOpts) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	lo, hi := overlay.Extent.Start, overlay.Extent.End()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init("100%", "520px")),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.ValueXAxis("value", lo, hi)),
		charts.WithYAxisOpts(cOpts.YAxis("count")),
		charts.WithLegendOpts(cOpts.Legend()),
		charts.WithGridOpts(cOpts.Grid()),
	)

	bar.AddSeries(SeriesBins, binData(overlay.Bins),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cOpts.BinColor()}),
		charts.WithBarChartOpts(opts.BarChart{BarGap: "-100%", BarCategoryGap: "0%"}),
	)

	if len(overlay.Curve) > 0 {
		bar.Overlap(curveLine(overlay.Curve, cOpts))
	}

	return bar
}

func binData(bins []histogram.Bin) []opts.BarData {
	data := make([]opts.BarData, len(bins))

	for i, b := range bins {
		data[i] = opts.BarData{
			Name:  formatRange(b.Lower, b.Upper),
			Value: []float64{b.Center(), float64(b.Count)},
		}
	}

	return data
}

func curveLine(curve []histogram.CurvePoint, cOpts *ChartOpts) *charts.Line {
	data := make([]opts.LineData, len(curve))

	for i, p := range curve {
		data[i] = opts.LineData{Value: []float64{p.X, p.Y}}
	}

	line := charts.NewLine()
	line.AddSeries(SeriesCurve, data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: cOpts.CurveColor(), Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cOpts.CurveColor()}),
	)

	return line
}
