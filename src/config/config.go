package config

import "time"

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent" toml:"agent"`
	Analysis    AnalysisConfig    `yaml:"analysis" toml:"analysis"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" toml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" toml:"cache"`
	Exclusions  ExclusionsConfig  `yaml:"exclusions" toml:"exclusions"`
	Severity    SeverityConfig    `yaml:"severity" toml:"severity"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// AgentConfig contains agent metadata
type AgentConfig struct {
	Name        string `yaml:"name" toml:"name"`
	Version     string `yaml:"version" toml:"version"`
	Description string `yaml:"description" toml:"description"`
}

// AnalysisConfig contains settings for the analysis passes.
// It is the only section that influences findings, so the result cache
// fingerprints it.
type AnalysisConfig struct {
	Extensions    []string            `yaml:"extensions" toml:"extensions" msgpack:"extensions"`
	Style         StyleConfig         `yaml:"style" toml:"style" msgpack:"style"`
	Bugs          BugsConfig          `yaml:"bugs" toml:"bugs" msgpack:"bugs"`
	Performance   PerformanceConfig   `yaml:"performance" toml:"performance" msgpack:"performance"`
	BestPractices BestPracticesConfig `yaml:"best_practices" toml:"best_practices" msgpack:"best_practices"`
}

// StyleConfig contains style analyzer settings
type StyleConfig struct {
	Enabled       bool   `yaml:"enabled" toml:"enabled" msgpack:"enabled"`
	MaxLineLength int    `yaml:"max_line_length" toml:"max_line_length" msgpack:"max_line_length"`
	IndentWidth   int    `yaml:"indent_width" toml:"indent_width" msgpack:"indent_width"`
	WidthMode     string `yaml:"width_mode" toml:"width_mode" msgpack:"width_mode"` // chars, columns
	CheckNaming   bool   `yaml:"check_naming" toml:"check_naming" msgpack:"check_naming"`
}

// BugsConfig contains bug analyzer settings
type BugsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" msgpack:"enabled"`
	// ExtraBuiltins are added to the built-in namespace
	ExtraBuiltins []string `yaml:"extra_builtins" toml:"extra_builtins" msgpack:"extra_builtins"`
	// AssumedNames are treated as defined without an import
	AssumedNames []string `yaml:"assumed_names" toml:"assumed_names" msgpack:"assumed_names"`
}

// PerformanceConfig contains performance analyzer settings
type PerformanceConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" msgpack:"enabled"`
}

// BestPracticesConfig contains best-practices analyzer settings
type BestPracticesConfig struct {
	Enabled          bool `yaml:"enabled" toml:"enabled" msgpack:"enabled"`
	MaxFunctionLines int  `yaml:"max_function_lines" toml:"max_function_lines" msgpack:"max_function_lines"`
	MaxParameters    int  `yaml:"max_parameters" toml:"max_parameters" msgpack:"max_parameters"`
	MaxBases         int  `yaml:"max_bases" toml:"max_bases" msgpack:"max_bases"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	MaxParallelFiles int `yaml:"max_parallel_files" toml:"max_parallel_files"`
}

// CacheConfig contains caching settings
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" toml:"enabled"`
	TTL        time.Duration `yaml:"ttl" toml:"ttl"`
	Dir        string        `yaml:"dir" toml:"dir"` // empty keeps the cache in memory only
	MaxEntries int           `yaml:"max_entries" toml:"max_entries"`
}

// ExclusionsConfig contains exclusion patterns
type ExclusionsConfig struct {
	FilePatterns []string `yaml:"file_patterns" toml:"file_patterns"`
	Files        []string `yaml:"files" toml:"files"`
}

// SeverityConfig contains severity settings
type SeverityConfig struct {
	MinSeverity string `yaml:"min_severity" toml:"min_severity"`
	// FailOn makes the CLI exit non-zero when a finding meets it; empty disables
	FailOn string `yaml:"fail_on" toml:"fail_on"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats            []string `yaml:"formats" toml:"formats"`
	OutputDir          string   `yaml:"output_dir" toml:"output_dir"`
	IncludeSuggestions bool     `yaml:"include_suggestions" toml:"include_suggestions"`
	Color              bool     `yaml:"color" toml:"color"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level" toml:"level"`
	Format           string `yaml:"format" toml:"format"` // text, json
	File             string `yaml:"file" toml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp" toml:"include_timestamp"`
	IncludeCaller    bool   `yaml:"include_caller" toml:"include_caller"`
}
