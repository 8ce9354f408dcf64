package util

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"review-bot/src/config"
)

// ExclusionMatcher matches file paths against exclusion patterns
type ExclusionMatcher struct {
	files        []string
	filePatterns []*regexp.Regexp
}

// NewExclusionMatcher creates a new exclusion matcher from config
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	m := &ExclusionMatcher{}
	for _, f := range cfg.Files {
		m.files = append(m.files, filepath.ToSlash(f))
	}
	for _, p := range cfg.FilePatterns {
		if re, err := globToRegexp(p); err == nil {
			m.filePatterns = append(m.filePatterns, re)
		}
	}
	return m
}

// Matches checks if a file path should be excluded
func (m *ExclusionMatcher) Matches(filePath string) bool {
	p := filepath.ToSlash(filePath)
	for _, f := range m.files {
		if p == f {
			return true
		}
	}
	for _, re := range m.filePatterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

// MatchGlob matches a slash-separated path against a glob pattern.
// "**" matches any number of path segments, "*" and "?" stay within one.
func MatchGlob(pattern, filePath string) bool {
	re, err := globToRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(filepath.ToSlash(filePath))
}

// globToRegexp converts a glob to an anchored regexp. A leading "**/"
// also matches paths with no directory prefix.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	pattern = filepath.ToSlash(pattern)
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			i++
			if i+1 < len(pattern) && pattern[i+1] == '/' {
				i++
				sb.WriteString("(?:.*/)?")
			} else {
				sb.WriteString(".*")
			}
		case c == '*':
			sb.WriteString("[^/]*")
		case c == '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// PathPolicy decides which files are analyzed
type PathPolicy struct {
	extensions map[string]bool
	exclusions *ExclusionMatcher
}

// NewPathPolicy creates a path policy from the extension allowlist and
// exclusion config
func NewPathPolicy(extensions []string, exclusions config.ExclusionsConfig) *PathPolicy {
	p := &PathPolicy{
		extensions: make(map[string]bool, len(extensions)),
		exclusions: NewExclusionMatcher(exclusions),
	}
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extensions[ext] = true
	}
	return p
}

// Allowed reports whether the extension of filename is on the allowlist.
// Matching is case-insensitive.
func (p *PathPolicy) Allowed(filename string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(filename)))
	return ext != "" && p.extensions[ext]
}

// Excluded reports whether filename matches an exclusion pattern
func (p *PathPolicy) Excluded(filename string) bool {
	return p.exclusions.Matches(filename)
}

// Accept reports whether filename should be analyzed
func (p *PathPolicy) Accept(filename string) bool {
	return p.Allowed(filename) && !p.Excluded(filename)
}
