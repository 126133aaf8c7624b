// Package config provides YAML-based configuration for histogauss.
package config

import "time"

// Histogram defaults.
const (
	DefaultBinWidth = 1.0
)

// Input defaults.
const (
	DefaultInputFormat    = "auto"
	DefaultInputCSVColumn = 0
	DefaultInputMaxSize   = "64MB"
)

// Output defaults.
const (
	DefaultOutputFormat   = "text"
	DefaultOutputTheme    = "dark"
	DefaultOutputBarWidth = 40
	DefaultOutputNoColor  = false
)

// Server defaults.
const (
	DefaultServerHost         = "0.0.0.0"
	DefaultServerPort         = 8080
	DefaultServerReadTimeout  = 30 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second
	DefaultServerIdleTimeout  = 120 * time.Second
	DefaultServerMaxBodySize  = "8MB"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetrySampleRatio  = 0.0
	DefaultTelemetryEnvironment  = ""
)
