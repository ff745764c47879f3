package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `anthropic:
  model: claude-sonnet-4-20250514
gate:
  max_attempts: 3
  warning_threshold: 2
execution:
  enabled: false
  timeout: 30s
report:
  dir: out
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q", cfg.Anthropic.Model)
	}
	if cfg.Gate.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Gate.MaxAttempts)
	}
	if cfg.Gate.WarningThreshold != 2 {
		t.Errorf("WarningThreshold = %d, want 2", cfg.Gate.WarningThreshold)
	}
	if cfg.Execution.Enabled {
		t.Error("Execution.Enabled = true, want false")
	}
	if cfg.Execution.Timeout != 30*time.Second {
		t.Errorf("Execution.Timeout = %s, want 30s", cfg.Execution.Timeout)
	}
	if cfg.Report.Dir != "out" {
		t.Errorf("Report.Dir = %q, want out", cfg.Report.Dir)
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Gate.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want default 5", cfg.Gate.MaxAttempts)
	}
	if cfg.Gate.WarningThreshold != 5 {
		t.Errorf("WarningThreshold = %d, want default 5", cfg.Gate.WarningThreshold)
	}
	if !cfg.Gate.CriticalFatal {
		t.Error("CriticalFatal = false, want default true")
	}
	if cfg.Execution.Interpreter != "python3" {
		t.Errorf("Interpreter = %q, want default python3", cfg.Execution.Interpreter)
	}
}

func TestLoadFromPathExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CODEGATE_KEY", "sk-test-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "anthropic:\n  api_key: ${TEST_CODEGATE_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, want expanded value", cfg.Anthropic.APIKey)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Gate.MaxAttempts != 5 || cfg.Gate.WarningThreshold != 5 {
		t.Errorf("gate defaults = %+v", cfg.Gate)
	}
	if !cfg.Gate.CriticalFatal {
		t.Error("CriticalFatal should default to true")
	}
	if cfg.Execution.Timeout != 10*time.Second {
		t.Errorf("Timeout = %s, want 10s", cfg.Execution.Timeout)
	}
}
