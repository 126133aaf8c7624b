package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/histogauss/pkg/plotpage"
)

const zeroVarianceNote = "All valid samples are equal, so the normal density is undefined; the curve is drawn flat at zero."

// HTMLEncoder renders a standalone page with the histogram chart.
type HTMLEncoder struct {
	Theme plotpage.Theme
}

// Encode implements Encoder.
func (e *HTMLEncoder) Encode(w io.Writer, rep Report) error {
	title := "Histogram"
	if rep.Source != "" {
		title = "Histogram of " + rep.Source
	}

	theme := e.Theme
	if theme == "" {
		theme = plotpage.ThemeDark
	}

	page := plotpage.NewPage(title, fmt.Sprintf("%s valid samples in %s bins of width %s",
		humanize.Comma(int64(rep.Valid)), humanize.Comma(int64(len(rep.Bins))), formatNumber(rep.BinWidth),
	)).WithTheme(theme)

	page.AddStats(
		plotpage.Stat{Label: "Samples", Value: humanize.Comma(int64(rep.Valid))},
		plotpage.Stat{Label: "Dropped", Value: humanize.Comma(int64(rep.Dropped))},
		plotpage.Stat{Label: "Mean", Value: formatNumber(rep.Summary.Mean)},
		plotpage.Stat{Label: "Std dev", Value: formatNumber(rep.Summary.StdDev)},
		plotpage.Stat{Label: "Median", Value: formatNumber(rep.Summary.Median)},
		plotpage.Stat{Label: "Range", Value: formatRange(rep.Summary.Min, rep.Summary.Max, true)},
	)

	section := plotpage.Section{
		Title:    "Distribution",
		Subtitle: "Bin counts with the fitted normal curve scaled to counts",
		Chart:    plotpage.HistogramChart(rep.Overlay(), plotpage.NewChartOpts(theme)),
	}

	if rep.ZeroVariance {
		section.Hint = plotpage.Hint{Title: "Zero variance", Items: []string{zeroVarianceNote}}
	}

	page.Add(section)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("html encode: %w", err)
	}

	return nil
}

// Format implements Encoder.
func (e *HTMLEncoder) Format() Format { return FormatHTML }
