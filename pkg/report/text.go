package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/histogauss/pkg/terminal"
)

const percent = 100

// TextEncoder renders a terminal report: header, summary, bin table.
type TextEncoder struct {
	Terminal terminal.Config
	BarWidth int
}

// Encode implements Encoder.
func (e *TextEncoder) Encode(w io.Writer, rep Report) error {
	var sb strings.Builder

	width := e.Terminal.Width
	if width <= 0 {
		width = terminal.DefaultWidth
	}

	sb.WriteString(e.Terminal.Colorize(
		terminal.DrawHeader("HISTOGRAM", humanize.Comma(int64(rep.Valid))+" samples", width),
		color.FgCyan, color.Bold,
	))
	sb.WriteString("\n")

	e.writeSummary(&sb, rep)

	if len(rep.Bins) == 0 {
		sb.WriteString(e.Terminal.Colorize("No bins: no valid samples or zero bin width.", color.FgYellow))
		sb.WriteString("\n")
	} else {
		sb.WriteString(e.binTable(rep))
		sb.WriteString("\n")
	}

	if rep.ZeroVariance {
		sb.WriteString(terminal.DrawSeparator(width))
		sb.WriteString("\n")
		sb.WriteString(e.Terminal.Colorize("Note: "+zeroVarianceNote, color.FgYellow))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("text encode: %w", err)
	}

	return nil
}

// Format implements Encoder.
func (e *TextEncoder) Format() Format { return FormatText }

func (e *TextEncoder) writeSummary(sb *strings.Builder, rep Report) {
	label := func(s string) string { return e.Terminal.Colorize(s, color.Faint) }

	if rep.Source != "" {
		fmt.Fprintf(sb, "%s %s\n", label("source:"), rep.Source)
	}

	fmt.Fprintf(sb, "%s %s   %s %s   %s %s\n",
		label("bin width:"), formatNumber(rep.BinWidth),
		label("bins:"), humanize.Comma(int64(len(rep.Bins))),
		label("domain:"), formatRange(rep.Extent.Start, rep.Extent.End, false),
	)

	fmt.Fprintf(sb, "%s %s   %s %s   %s %s   %s %s\n",
		label("mean:"), formatNumber(rep.Summary.Mean),
		label("std dev:"), formatNumber(rep.Summary.StdDev),
		label("median:"), formatNumber(rep.Summary.Median),
		label("range:"), formatRange(rep.Summary.Min, rep.Summary.Max, true),
	)

	if rep.Dropped > 0 {
		fmt.Fprintf(sb, "%s %s of %s (NaN or infinite)\n",
			label("dropped:"), humanize.Comma(int64(rep.Dropped)), humanize.Comma(int64(rep.Total)))
	}

	sb.WriteString("\n")
}

func (e *TextEncoder) binTable(rep Report) string {
	barWidth := e.BarWidth
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}

	maxCount := float64(rep.MaxCount())

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = true
	tbl.Style().Options.SeparateFooter = true

	tbl.AppendHeader(table.Row{"#", "Range", "Count", "Share", "Fit", ""})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, b := range rep.Bins {
		share := 0.0
		if rep.Valid > 0 {
			share = float64(b.Count) / float64(rep.Valid) * percent
		}

		fit := "-"
		if expected, ok := rep.Expected(b); ok {
			fit = humanize.FtoaWithDigits(expected, 1)
		}

		bar := e.Terminal.Colorize(terminal.DrawBar(float64(b.Count), maxCount, barWidth), color.FgGreen)

		tbl.AppendRow(table.Row{
			b.Index,
			formatRange(b.Lower, b.Upper, false),
			humanize.Comma(int64(b.Count)),
			fmt.Sprintf("%.1f%%", share),
			fit,
			bar,
		})
	}

	tbl.AppendFooter(table.Row{"", "Total", humanize.Comma(int64(rep.Valid)), "", "", ""})

	return tbl.Render()
}
