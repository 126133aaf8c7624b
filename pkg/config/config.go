package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Sentinel validation errors.
var (
	ErrInvalidBinWidth    = errors.New("bin width must be a finite number")
	ErrInvalidInputFormat = errors.New("unknown input format")
	ErrInvalidCSVColumn   = errors.New("csv column must not be negative")
	ErrInvalidSize        = errors.New("invalid size")
	ErrInvalidOutput      = errors.New("unknown output format")
	ErrInvalidTheme       = errors.New("unknown theme")
	ErrInvalidBarWidth    = errors.New("bar width must be positive")
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidLogLevel    = errors.New("unknown log level")
	ErrInvalidLogFormat   = errors.New("unknown log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

const maxPort = 65535

var (
	inputFormats  = []string{"auto", "text", "csv", "json", "yaml"}
	outputFormats = []string{"text", "json", "yaml", "html"}
	themes        = []string{"dark", "light"}
	logFormats    = []string{"text", "json"}
)

// Config is the top-level configuration struct for histogauss.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Histogram HistogramConfig `mapstructure:"histogram"`
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// HistogramConfig holds binning parameters.
type HistogramConfig struct {
	BinWidth float64 `mapstructure:"bin_width"`
}

// InputConfig controls how samples are read.
type InputConfig struct {
	Format    string `mapstructure:"format"`
	MaxSize   string `mapstructure:"max_size"`
	CSVColumn int    `mapstructure:"csv_column"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Theme    string `mapstructure:"theme"`
	BarWidth int    `mapstructure:"bar_width"`
	NoColor  bool   `mapstructure:"no_color"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	MaxBodySize  string        `mapstructure:"max_body_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Port         int           `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MaxBodyBytes parses MaxBodySize.
func (s ServerConfig) MaxBodyBytes() (int64, error) {
	return parseSize(s.MaxBodySize)
}

// MaxBytes parses MaxSize.
func (i InputConfig) MaxBytes() (int64, error) {
	return parseSize(i.MaxSize)
}

// SlogLevel maps Level to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// JSON reports whether logs are written as JSON.
func (l LoggingConfig) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}

// Validate checks all configuration values.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateHistogram(),
		c.validateInput(),
		c.validateOutput(),
		c.validateServer(),
		c.validateLogging(),
		c.validateTelemetry(),
	)
}

func (c *Config) validateHistogram() error {
	width := c.Histogram.BinWidth
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidBinWidth, width)
	}

	return nil
}

func (c *Config) validateInput() error {
	var errs []error

	if !slices.Contains(inputFormats, c.Input.Format) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidInputFormat, c.Input.Format))
	}

	if c.Input.CSVColumn < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidCSVColumn, c.Input.CSVColumn))
	}

	_, sizeErr := c.Input.MaxBytes()
	if sizeErr != nil {
		errs = append(errs, fmt.Errorf("input.max_size: %w", sizeErr))
	}

	return errors.Join(errs...)
}

func (c *Config) validateOutput() error {
	var errs []error

	if !slices.Contains(outputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output.Format))
	}

	if !slices.Contains(themes, c.Output.Theme) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTheme, c.Output.Theme))
	}

	if c.Output.BarWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidBarWidth, c.Output.BarWidth))
	}

	return errors.Join(errs...)
}

func (c *Config) validateServer() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port))
	}

	_, sizeErr := c.Server.MaxBodyBytes()
	if sizeErr != nil {
		errs = append(errs, fmt.Errorf("server.max_body_size: %w", sizeErr))
	}

	return errors.Join(errs...)
}

func (c *Config) validateLogging() error {
	var errs []error

	_, levelErr := c.Logging.SlogLevel()
	if levelErr != nil {
		errs = append(errs, levelErr)
	}

	if !slices.Contains(logFormats, strings.ToLower(c.Logging.Format)) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format))
	}

	return errors.Join(errs...)
}

func (c *Config) validateTelemetry() error {
	ratio := c.Telemetry.SampleRatio
	if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, ratio)
	}

	return nil
}

// parseSize parses a humanize byte size ("64MB", "1GiB").
func parseSize(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSize)
	}

	parsed, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSize, raw, err)
	}

	if parsed == 0 || parsed > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, raw)
	}

	return int64(parsed), nil
}
