package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGRIDCTL_CONFIG_EnvironmentVariable(t *testing.T) {
	dir := isolate(t)

	configFile := filepath.Join(dir, "custom.yaml")
	content := "store: memory\npage_size: 7\nformat: csv\nlocale: hr\n"
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("GRIDCTL_CONFIG", configFile)
	t.Setenv("GRIDCTL_STORE", "")

	cli := NewCLI(os.Stdout, os.Stderr)
	cfg := loadConfig(cli.viperInst)

	if cfg.Store != "memory" {
		t.Errorf("Expected store 'memory', got '%s'", cfg.Store)
	}
	if cfg.Grid.PageSize != 7 {
		t.Errorf("Expected page size 7, got %d", cfg.Grid.PageSize)
	}
	if cfg.Format != "csv" {
		t.Errorf("Expected format 'csv', got '%s'", cfg.Format)
	}
	if cfg.Grid.Locale != "hr" {
		t.Errorf("Expected locale 'hr', got '%s'", cfg.Grid.Locale)
	}
}

func TestConfigEnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	configFile := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(configFile, []byte("page_size: 7\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("GRIDCTL_CONFIG", configFile)
	t.Setenv("GRIDCTL_PAGE_SIZE", "12")

	cfg := loadConfig(NewCLI(os.Stdout, os.Stderr).viperInst)
	if cfg.Grid.PageSize != 12 {
		t.Errorf("Expected env page size 12, got %d", cfg.Grid.PageSize)
	}
}

func TestConfigDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("GRIDCTL_STORE", "")

	cfg := loadConfig(NewCLI(os.Stdout, os.Stderr).viperInst)
	if cfg.Store != "json" {
		t.Errorf("Expected default store 'json', got '%s'", cfg.Store)
	}
	if cfg.Grid.PageSize != 25 {
		t.Errorf("Expected default page size 25, got %d", cfg.Grid.PageSize)
	}
	if cfg.IDField != "id" {
		t.Errorf("Expected default id field 'id', got '%s'", cfg.IDField)
	}
	if cfg.Format != "table" {
		t.Errorf("Expected default format 'table', got '%s'", cfg.Format)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected default log level 'warn', got '%s'", cfg.LogLevel)
	}
}
