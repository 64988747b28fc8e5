package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	if cfg.Analysis.MaxDocumentBytes != 2097152 {
		t.Errorf("MaxDocumentBytes = %d, want 2097152", cfg.Analysis.MaxDocumentBytes)
	}

	if cfg.Analysis.Framework != "none" {
		t.Errorf("Framework = %q, want none", cfg.Analysis.Framework)
	}

	if len(cfg.Analysis.Engines) != 0 {
		t.Errorf("Engines = %v, want empty", cfg.Analysis.Engines)
	}

	if cfg.History.Enable {
		t.Error("History should be disabled by default")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
analysis:
  max_document_bytes: 524288
  framework: mjml
  engines: ["gmail-web", "outlook-windows"]
history:
  enable: true
  destination: ` + filepath.ToSlash(filepath.Join(tmpDir, "history.db")) + `
logging:
  console:
    level: normal
  file:
    level: debug
    destination: ` + filepath.ToSlash(filepath.Join(tmpDir, "test.log")) + `
    mode: append
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Analysis.MaxDocumentBytes != 524288 {
		t.Errorf("MaxDocumentBytes = %d, want 524288", cfg.Analysis.MaxDocumentBytes)
	}

	if cfg.Analysis.Framework != "mjml" {
		t.Errorf("Framework = %q, want mjml", cfg.Analysis.Framework)
	}

	if len(cfg.Analysis.Engines) != 2 || cfg.Analysis.Engines[0] != "gmail-web" {
		t.Errorf("Engines = %v", cfg.Analysis.Engines)
	}

	if !cfg.History.Enable {
		t.Error("Expected history to be enabled")
	}

	// defaults survive superimposition
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
analysis:
  max_document_bytes: 524288
  no_such_field: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for unknown configuration field")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad version", "version: 2\n"},
		{"framework out of set", "version: 1\nanalysis:\n  framework: rails\n"},
		{"ceiling too small", "version: 1\nanalysis:\n  max_document_bytes: 10\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(c.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "max_document_bytes") {
		t.Error("Prepared configuration is missing analysis section")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	dump, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(dump), "version: 1") {
		t.Errorf("Dump() output missing version:\n%s", dump)
	}
}
