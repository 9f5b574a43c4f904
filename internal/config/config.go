package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"frizo/margin_saving/pkg/utils"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

var (
	OutputFormats = []string{"text", "json"}
	LogFormats    = []string{"text", "json"}
)

// Config holds the application configuration.
type Config struct {
	// Input sources
	CombinationsPath string `yaml:"combinations_path"`
	PositionsPath    string `yaml:"positions_path"`

	// Logging configuration
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Output: "text" or "json"
	Output      string `yaml:"output"`
	MetricsFile string `yaml:"metrics_file"`

	// Matching
	Workers              int    `yaml:"workers"`
	StandaloneMultiplier string `yaml:"standalone_multiplier"`

	// Application configuration
	Environment string `yaml:"environment"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Output:               "text",
		Workers:              4,
		StandaloneMultiplier: "2",
		Environment:          "development",
	}
}

// Load builds the configuration: defaults, then the optional YAML file, then
// environment variables.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.CombinationsPath = getEnv("MARGIN_COMBINATIONS", c.CombinationsPath)
	c.PositionsPath = getEnv("MARGIN_POSITIONS", c.PositionsPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.Output = getEnv("MARGIN_OUTPUT", c.Output)
	c.MetricsFile = getEnv("MARGIN_METRICS_FILE", c.MetricsFile)
	c.Workers = getEnvAsInt("MARGIN_WORKERS", c.Workers)
	c.StandaloneMultiplier = getEnv("MARGIN_STANDALONE_MULTIPLIER", c.StandaloneMultiplier)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
}

// Validate checks the settings needed for a run.
func (c *Config) Validate() error {
	if c.CombinationsPath == "" {
		return fmt.Errorf("%w: combinations path cannot be empty", ErrInvalidConfig)
	}
	if c.PositionsPath == "" {
		return fmt.Errorf("%w: positions path cannot be empty", ErrInvalidConfig)
	}
	if !utils.Contains(OutputFormats, strings.ToLower(c.Output)) {
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output)
	}
	if !utils.Contains(LogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := c.Multiplier(); err != nil {
		return err
	}
	return nil
}

// Multiplier parses the standalone multiplier.
func (c *Config) Multiplier() (decimal.Decimal, error) {
	m, err := decimal.NewFromString(strings.TrimSpace(c.StandaloneMultiplier))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: standalone multiplier %q: %v", ErrInvalidConfig, c.StandaloneMultiplier, err)
	}
	if !m.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: standalone multiplier must be positive, got %s", ErrInvalidConfig, m)
	}
	return m, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvAsInt gets an environment variable as integer with a default value.
func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
