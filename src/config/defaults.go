package config

import "time"

// DefaultExtensions is the source extension allowlist. Every accepted file
// is parsed with the Python grammar, so only Python sources are listed.
var DefaultExtensions = []string{".py", ".pyi"}

// DefaultAssumedNames are module names treated as defined without an import
var DefaultAssumedNames = []string{
	"os", "sys", "re", "math", "random",
	"datetime", "json", "collections", "itertools", "functools",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "review-bot",
			Version:     "1.0.0",
			Description: "Static analysis for Python change sets",
		},
		Analysis: AnalysisConfig{
			Extensions: append([]string(nil), DefaultExtensions...),
			Style: StyleConfig{
				Enabled:       true,
				MaxLineLength: 79,
				IndentWidth:   4,
				WidthMode:     "chars",
				CheckNaming:   true,
			},
			Bugs: BugsConfig{
				Enabled:      true,
				AssumedNames: append([]string(nil), DefaultAssumedNames...),
			},
			Performance: PerformanceConfig{
				Enabled: true,
			},
			BestPractices: BestPracticesConfig{
				Enabled:          true,
				MaxFunctionLines: 50,
				MaxParameters:    5,
				MaxBases:         2,
			},
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelFiles: 8,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        1 * time.Hour,
			MaxEntries: 10000,
		},
		Exclusions: ExclusionsConfig{
			FilePatterns: []string{
				"**/.git/**", "**/__pycache__/**", "**/.venv/**",
				"**/venv/**", "**/node_modules/**",
			},
		},
		Severity: SeverityConfig{
			MinSeverity: "low",
		},
		Output: OutputConfig{
			Formats:            []string{"text"},
			OutputDir:          ".",
			IncludeSuggestions: true,
			Color:              true,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
			IncludeCaller:    false,
		},
	}
}
