// Package changeset reads change-set manifests: the list of changed files,
// with their content and patch, as supplied by whatever fetched them.
package changeset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File status values
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusRemoved  = "removed"
	StatusRenamed  = "renamed"
)

// File is one changed file
type File struct {
	Filename string `json:"filename" yaml:"filename"`
	Status   string `json:"status" yaml:"status"`
	Content  string `json:"content" yaml:"content"`
	Patch    string `json:"patch" yaml:"patch"`
}

// ChangeSet is a titled set of changed files
type ChangeSet struct {
	Title string `json:"title" yaml:"title"`
	Files []File `json:"files" yaml:"files"`
}

// Load reads a manifest, choosing JSON or YAML by extension
func Load(path string) (*ChangeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading change set: %w", err)
	}

	var cs ChangeSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cs)
	default:
		err = yaml.Unmarshal(data, &cs)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing change set %s: %w", path, err)
	}

	if err := cs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid change set %s: %w", path, err)
	}
	if cs.Title == "" {
		cs.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &cs, nil
}

// Validate checks that every file has a name
func (cs *ChangeSet) Validate() error {
	var errs []error
	for i, f := range cs.Files {
		if f.Filename == "" {
			errs = append(errs, fmt.Errorf("files[%d]: missing filename", i))
		}
	}
	return errors.Join(errs...)
}

// Analyzable returns the files that should be analyzed, in manifest order,
// and the names of files that were skipped because their content is empty.
// Removed files are dropped silently.
func (cs *ChangeSet) Analyzable() (files []File, empty []string) {
	for _, f := range cs.Files {
		if f.Status == StatusRemoved {
			continue
		}
		if f.Content == "" {
			empty = append(empty, f.Filename)
			continue
		}
		files = append(files, f)
	}
	return files, empty
}
