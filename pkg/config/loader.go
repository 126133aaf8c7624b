package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = "histogauss"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for histogauss settings.
const envPrefix = "HISTOGAUSS"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, histogauss.yaml is searched in CWD, ./config and /etc/histogauss.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/histogauss")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration produced with no file and no environment.
func Default() Config {
	viperCfg := viper.New()
	applyDefaults(viperCfg)

	var cfg Config

	// Defaults are static and always decode.
	_ = viperCfg.Unmarshal(&cfg)

	return cfg
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("histogram.bin_width", DefaultBinWidth)

	viperCfg.SetDefault("input.format", DefaultInputFormat)
	viperCfg.SetDefault("input.csv_column", DefaultInputCSVColumn)
	viperCfg.SetDefault("input.max_size", DefaultInputMaxSize)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.theme", DefaultOutputTheme)
	viperCfg.SetDefault("output.bar_width", DefaultOutputBarWidth)
	viperCfg.SetDefault("output.no_color", DefaultOutputNoColor)

	viperCfg.SetDefault("server.host", DefaultServerHost)
	viperCfg.SetDefault("server.port", DefaultServerPort)
	viperCfg.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultServerIdleTimeout)
	viperCfg.SetDefault("server.max_body_size", DefaultServerMaxBodySize)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	viperCfg.SetDefault("telemetry.environment", DefaultTelemetryEnvironment)
}
