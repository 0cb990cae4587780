package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})
	log.Info("stage completed", "stage", "methodology", "duration_ms", 42)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "stage completed" {
		t.Errorf("unexpected msg: %v", record["msg"])
	}
	if record["stage"] != "methodology" {
		t.Errorf("unexpected stage attr: %v", record["stage"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "text", Output: &buf})
	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info record leaked through warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn record missing")
	}
}

func TestRedaction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})
	key := "sk-" + strings.Repeat("a", 24)
	log.Info("backend request failed", "header", "Bearer "+strings.Repeat("x", 30), "body", key)

	out := buf.String()
	if strings.Contains(out, key) {
		t.Error("API key leaked into log output")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("expected redaction placeholder")
	}
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})
	log.WithRun("run-1").WithStage("synthesis").WithBackend("openai").Debug("invoking")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["run_id"] != "run-1" || record["stage"] != "synthesis" || record["backend"] != "openai" {
		t.Errorf("missing context fields: %v", record)
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	// Must not panic or write anywhere.
	log.Info("discarded", "k", "v")
	log.WithRun("r").Error("also discarded")
}

func TestRedactorPatterns(t *testing.T) {
	r := NewRedactor()
	tests := []struct {
		name string
		in   string
		safe bool
	}{
		{"openai key", "key=sk-" + strings.Repeat("b", 22), false},
		{"google key", "AIza" + strings.Repeat("c", 35), false},
		{"short prefix is kept", "sk-123", true},
		{"plain text", "parsing section Methodology", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Redact(tt.in)
			if tt.safe && got != tt.in {
				t.Errorf("benign input modified: %q -> %q", tt.in, got)
			}
			if !tt.safe && got == tt.in {
				t.Errorf("credential survived redaction: %q", got)
			}
		})
	}
}
