package changeset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeManifest(t, "pr-42.yaml", `
title: Add retry logic
files:
  - filename: app/retry.py
    status: added
    content: |
      def retry():
          pass
    patch: "@@ -0,0 +1,2 @@"
  - filename: app/old.py
    status: removed
  - filename: app/empty.py
    status: modified
`)
	cs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cs.Title != "Add retry logic" {
		t.Errorf("Title = %q", cs.Title)
	}
	if len(cs.Files) != 3 {
		t.Fatalf("Files = %d, want 3", len(cs.Files))
	}

	files, empty := cs.Analyzable()
	if len(files) != 1 || files[0].Filename != "app/retry.py" {
		t.Errorf("Analyzable = %+v, want only app/retry.py", files)
	}
	if !strings.HasPrefix(files[0].Content, "def retry():") {
		t.Errorf("Content = %q", files[0].Content)
	}
	if files[0].Patch != "@@ -0,0 +1,2 @@" {
		t.Errorf("Patch = %q", files[0].Patch)
	}
	if len(empty) != 1 || empty[0] != "app/empty.py" {
		t.Errorf("empty = %v, want [app/empty.py]", empty)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeManifest(t, "change.json", `{"files": [{"filename": "a.py", "status": "modified", "content": "x = 1\n"}]}`)
	cs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cs.Title != "change" {
		t.Errorf("Title = %q, want file stem", cs.Title)
	}
	if cs.Files[0].Content != "x = 1\n" {
		t.Errorf("Content = %q", cs.Files[0].Content)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad json", "cs.json", `{"files": [`},
		{"missing filename", "cs.yaml", "files:\n  - status: added\n    content: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeManifest(t, tt.file, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
