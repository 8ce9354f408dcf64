package util

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"review-bot/src/config"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, config.LoggingConfig{Level: "warn"})

	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("careful %s", "now")
	l.Error("broken")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "[INFO]") {
		t.Errorf("messages below warn were logged: %q", out)
	}
	if !strings.Contains(out, "[WARN] careful now") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] broken") {
		t.Errorf("missing error line: %q", out)
	}
	if l.GetLevel() != "warn" {
		t.Errorf("GetLevel = %q, want warn", l.GetLevel())
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	l.Info("analyzed %d files", 3)

	var entry map[string]string
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %q, want INFO", entry["level"])
	}
	if entry["msg"] != "analyzed 3 files" {
		t.Errorf("msg = %q", entry["msg"])
	}
	if _, ok := entry["time"]; ok {
		t.Error("time must be omitted when timestamps are disabled")
	}
}
