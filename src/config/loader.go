package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading from YAML or TOML files
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Load loads configuration from a YAML or TOML file with environment variable
// substitution. The format is chosen by extension (.toml, otherwise YAML).
// Environment variables can be referenced in the file using:
//   - ${VAR_NAME} - substitutes the value of VAR_NAME, empty string if not set
//   - ${VAR_NAME:-default} - substitutes VAR_NAME or "default" if not set
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath == "" {
		// No config file found, use defaults
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := l.expandEnvVars(string(data))

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return cfg, nil
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}

	defaults := []string{
		"review-bot.yaml",
		"review-bot.toml",
		"config/review-bot.yaml",
		filepath.Join(os.Getenv("HOME"), ".review-bot", "config.yaml"),
	}

	for _, path := range defaults {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// expandEnvVars expands environment variable references in the input string.
func (l *Loader) expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultVal := ""
		if len(submatches) >= 3 {
			defaultVal = submatches[2]
		}

		if val, exists := os.LookupEnv(varName); exists {
			return val
		}
		return defaultVal
	})
}

var (
	validSeverities = []string{"low", "medium", "high", "critical"}
	validFormats    = []string{"json", "markdown", "sarif", "text"}
	validWidthModes = []string{"chars", "columns"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks thresholds and enumerated values
func (c *Config) Validate() error {
	var errs []error

	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	oneOf := func(name, v string, allowed []string) {
		if !slices.Contains(allowed, v) {
			errs = append(errs, fmt.Errorf("%s: unknown value %q (want one of %s)", name, v, strings.Join(allowed, ", ")))
		}
	}

	a := c.Analysis
	positive("analysis.style.max_line_length", a.Style.MaxLineLength)
	positive("analysis.style.indent_width", a.Style.IndentWidth)
	oneOf("analysis.style.width_mode", a.Style.WidthMode, validWidthModes)
	positive("analysis.best_practices.max_function_lines", a.BestPractices.MaxFunctionLines)
	positive("analysis.best_practices.max_parameters", a.BestPractices.MaxParameters)
	positive("analysis.best_practices.max_bases", a.BestPractices.MaxBases)
	positive("concurrency.max_parallel_files", c.Concurrency.MaxParallelFiles)

	oneOf("severity.min_severity", c.Severity.MinSeverity, validSeverities)
	if c.Severity.FailOn != "" {
		oneOf("severity.fail_on", c.Severity.FailOn, validSeverities)
	}
	for _, f := range c.Output.Formats {
		oneOf("output.formats", f, validFormats)
	}
	if c.Logging.Format != "" {
		oneOf("logging.format", c.Logging.Format, validLogFormats)
	}

	return errors.Join(errs...)
}
