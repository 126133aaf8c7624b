// Package observability provides OpenTelemetry tracing, metrics and
// structured logging for every histogauss mode (CLI, MCP, HTTP server).
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is one-shot command execution.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio server.
	ModeMCP AppMode = "mcp"
	// ModeServe is the HTTP server.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "histogauss"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporters.
	OTLPHeaders map[string]string

	ServiceName    string
	ServiceVersion string

	// Environment is the deployment environment ("production", "dev").
	Environment string

	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables OTLP export.
	OTLPEndpoint string

	// SampleRatio is the trace sampling ratio when DebugTrace is false.
	// Zero means parent-based always-on.
	SampleRatio float64

	LogLevel slog.Level

	ShutdownTimeoutSec int

	OTLPInsecure bool

	// DebugTrace forces 100% trace sampling.
	DebugTrace bool

	// LogJSON switches the log handler to JSON.
	LogJSON bool

	// Prometheus attaches a Prometheus reader to the meter provider and
	// exposes it through Providers.MetricsHandler.
	Prometheus bool
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
