package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/histogauss/pkg/alg/stats"
	"github.com/Sumatoshi-tech/histogauss/pkg/config"
	"github.com/Sumatoshi-tech/histogauss/pkg/histogram"
	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
	"github.com/Sumatoshi-tech/histogauss/pkg/plotpage"
	"github.com/Sumatoshi-tech/histogauss/pkg/report"
	"github.com/Sumatoshi-tech/histogauss/pkg/samples"
	"github.com/Sumatoshi-tech/histogauss/pkg/terminal"
	"github.com/Sumatoshi-tech/histogauss/pkg/version"
)

// stdinName marks standard input as the sample source.
const stdinName = "-"

// Bin flag names.
const (
	flagWidth       = "width"
	flagFormat      = "format"
	flagOutput      = "output"
	flagTheme       = "theme"
	flagInputFormat = "input-format"
	flagCSVColumn   = "csv-column"
	flagMaxSize     = "max-size"
	flagBarWidth    = "bar-width"
	flagMembers     = "members"
	flagNoColor     = "no-color"
)

// ErrInvalidWidth is returned when --width is NaN or infinite.
var ErrInvalidWidth = errors.New("bin width must be a finite number")

// BinCommand holds flag values for the bin command.
type BinCommand struct {
	width       float64
	format      string
	output      string
	theme       string
	inputFormat string
	csvColumn   int
	maxSize     string
	barWidth    int
	members     bool
	noColor     bool
}

// binSettings is the merged result of config, document and flags.
type binSettings struct {
	input    samples.Options
	format   report.Format
	encoder  report.Options
	width    float64
	members  bool
	output   string
	source   string
	fromFile bool
}

// NewBinCommand creates the bin command.
func NewBinCommand() *cobra.Command {
	bc := &BinCommand{}

	cmd := &cobra.Command{
		Use:   "bin [file]",
		Short: "Bin samples and overlay the fitted normal curve",
		Long: `Bin numeric samples into fixed-width intervals and overlay the normal
distribution fitted to them.

Samples are read from file, or from stdin when file is omitted or "-".
Accepted inputs are whitespace separated text, CSV (one column), JSON and
YAML, optionally lz4 compressed. A bin_width carried by a JSON or YAML
document is used unless --width is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: bc.run,
	}

	cmd.Flags().Float64VarP(&bc.width, flagWidth, "w", config.DefaultBinWidth, "bin width")
	cmd.Flags().StringVarP(&bc.format, flagFormat, "f", config.DefaultOutputFormat, "output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&bc.output, flagOutput, "o", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&bc.theme, flagTheme, config.DefaultOutputTheme, "html theme: dark, light")
	cmd.Flags().StringVar(&bc.inputFormat, flagInputFormat, config.DefaultInputFormat, "input format: auto, text, csv, json, yaml")
	cmd.Flags().IntVar(&bc.csvColumn, flagCSVColumn, config.DefaultInputCSVColumn, "zero-based CSV column to read")
	cmd.Flags().StringVar(&bc.maxSize, flagMaxSize, config.DefaultInputMaxSize, "maximum decompressed input size (e.g. 64MB)")
	cmd.Flags().IntVar(&bc.barWidth, flagBarWidth, config.DefaultOutputBarWidth, "bar width in the text report")
	cmd.Flags().BoolVar(&bc.members, flagMembers, false, "include bin members in json and yaml reports")
	cmd.Flags().BoolVar(&bc.noColor, flagNoColor, false, "disable colored text output")

	return cmd
}

func (bc *BinCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	settings, err := bc.resolve(cmd, cfg, args)
	if err != nil {
		return err
	}

	return withProviders(cmd, observabilityConfig(cmd, cfg, observability.ModeCLI), func(providers observability.Providers) error {
		return bc.execute(cmd, settings, providers)
	})
}

// resolve merges configuration with explicitly set flags.
func (bc *BinCommand) resolve(cmd *cobra.Command, cfg *config.Config, args []string) (binSettings, error) {
	flags := cmd.Flags()

	pick := func(name, flagValue, cfgValue string) string {
		if flags.Changed(name) {
			return flagValue
		}

		return cfgValue
	}

	inputFormat, err := samples.ParseFormat(pick(flagInputFormat, bc.inputFormat, cfg.Input.Format))
	if err != nil {
		return binSettings{}, err
	}

	format, err := report.ParseFormat(pick(flagFormat, bc.format, cfg.Output.Format))
	if err != nil {
		return binSettings{}, err
	}

	theme, err := plotpage.ParseTheme(pick(flagTheme, bc.theme, cfg.Output.Theme))
	if err != nil {
		return binSettings{}, err
	}

	input := cfg.Input
	input.MaxSize = pick(flagMaxSize, bc.maxSize, input.MaxSize)

	maxSize, err := input.MaxBytes()
	if err != nil {
		return binSettings{}, fmt.Errorf("--%s: %w", flagMaxSize, err)
	}

	csvColumn := cfg.Input.CSVColumn
	if flags.Changed(flagCSVColumn) {
		csvColumn = bc.csvColumn
	}

	barWidth := cfg.Output.BarWidth
	if flags.Changed(flagBarWidth) {
		barWidth = bc.barWidth
	}

	width := cfg.Histogram.BinWidth
	if flags.Changed(flagWidth) {
		if !stats.IsFinite(bc.width) {
			return binSettings{}, fmt.Errorf("%w: %v", ErrInvalidWidth, bc.width)
		}

		width = bc.width
	}

	source := stdinName
	if len(args) == 1 {
		source = args[0]
	}

	fromFile := source != stdinName

	name := ""
	if fromFile {
		name = source
	}

	return binSettings{
		input: samples.Options{
			Format:    inputFormat,
			Name:      name,
			MaxSize:   maxSize,
			CSVColumn: csvColumn,
		},
		format: format,
		encoder: report.Options{
			Theme:    theme,
			Terminal: terminal.NewConfig(bc.noColor || cfg.Output.NoColor || bc.output != ""),
			BarWidth: barWidth,
		},
		width:    width,
		members:  bc.members,
		output:   bc.output,
		source:   source,
		fromFile: fromFile,
	}, nil
}

func (bc *BinCommand) execute(cmd *cobra.Command, settings binSettings, providers observability.Providers) error {
	ctx, span := providers.Tracer.Start(cmd.Context(), "histogauss.bin")
	defer span.End()

	logger := providers.Logger

	doc, err := readSamples(cmd, settings)
	if err != nil {
		return err
	}

	width := settings.width
	if doc.BinWidth != nil && !cmd.Flags().Changed(flagWidth) {
		width = *doc.BinWidth
	}

	err = histogram.CheckSpan(doc.Samples, width)
	if err != nil {
		return err
	}

	overlay := histogram.Compute(doc.Samples, width)

	span.SetAttributes(
		attribute.Int("histogauss.samples", len(doc.Samples)),
		attribute.Int("histogauss.bins", len(overlay.Bins)),
		attribute.Float64("histogauss.bin_width", width),
	)

	engine, err := observability.NewEngineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create engine metrics: %w", err)
	}

	engine.RecordOverlay(ctx, observability.EngineStats{
		Valid:        overlay.Valid(),
		Dropped:      overlay.Dropped,
		Bins:         len(overlay.Bins),
		ZeroVariance: overlay.ZeroVariance,
	})

	logger.DebugContext(ctx, "overlay computed",
		"source", settings.source,
		"samples", len(doc.Samples),
		"dropped", overlay.Dropped,
		"bins", len(overlay.Bins),
		"bin_width", width,
	)

	if overlay.ZeroVariance {
		logger.WarnContext(ctx, "all valid samples are equal; normal curve drawn flat")
	}

	source := settings.source
	if !settings.fromFile {
		source = "stdin"
	}

	rep := report.New(overlay, report.Meta{
		Source:         filepath.Base(source),
		Version:        version.Version,
		IncludeMembers: settings.members,
	})

	enc, err := report.NewEncoder(settings.format, settings.encoder)
	if err != nil {
		return err
	}

	if settings.output != "" {
		err = report.SaveFile(settings.output, rep, enc)
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "report written", "path", settings.output, "format", string(settings.format))

		return nil
	}

	return enc.Encode(cmd.OutOrStdout(), rep)
}

func readSamples(cmd *cobra.Command, settings binSettings) (samples.Document, error) {
	if settings.fromFile {
		return samples.ReadFile(settings.source, settings.input)
	}

	return samples.Read(cmd.InOrStdin(), settings.input)
}
