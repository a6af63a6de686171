package config

import (
	"fmt"

	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Output    OutputConfig    `mapstructure:"output"`
}

type LoggerConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type OutputConfig struct {
	Format  types.OutputFormat `mapstructure:"format"`
	NoColor bool               `mapstructure:"no_color"`
}

// DefaultConfig keeps stdout reserved for results: logs go to stderr and
// only errors are logged.
func DefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "error",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "intarr",
			Endpoint:    "localhost:4318",
			SampleRate:  1.0,
		},
		Output: OutputConfig{
			Format: types.OutputText,
		},
	}
}

func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.Logger.Format)
	}

	switch c.Output.Format {
	case types.OutputText, types.OutputJSON, types.OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q: must be 'text', 'json' or 'yaml'", c.Output.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry sample rate %v out of range [0, 1]", c.Telemetry.SampleRate)
		}
	}

	return nil
}
