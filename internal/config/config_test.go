package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_ValidAndHasDefaultPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, ok := cfg.Presets[cfg.DefaultPreset]; !ok {
		t.Fatalf("expected default preset %q to exist in presets", cfg.DefaultPreset)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Columns != DefaultConfig().Columns {
		t.Fatalf("expected default columns %d, got %d", DefaultConfig().Columns, cfg.Columns)
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"columns: 6",
		"debounce_ms: 80",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Columns != 6 {
		t.Fatalf("expected columns 6, got %d", cfg.Columns)
	}
	if cfg.DebounceMs != 80 {
		t.Fatalf("expected debounce_ms 80, got %d", cfg.DebounceMs)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected untouched log_level to stay %q, got %q", "info", cfg.LogLevel)
	}
}

func TestLoadFromPath_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("columns: 99\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Path != "columns" {
		t.Fatalf("expected error path %q, got %q", "columns", verr.Path)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{
			name:   "columns too small",
			mutate: func(c *Config) { c.Columns = 0 },
			path:   "columns",
		},
		{
			name:   "negative spacing",
			mutate: func(c *Config) { c.SpacingY = -1 },
			path:   "spacing",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.LogLevel = "verbose" },
			path:   "log_level",
		},
		{
			name:   "missing default preset",
			mutate: func(c *Config) { c.DefaultPreset = "nope" },
			path:   "default_preset",
		},
		{
			name: "duplicate tile id",
			mutate: func(c *Config) {
				c.Presets["uniform"] = append(c.Presets["uniform"], TilePreset{ID: "t1", SpanW: 1, SpanH: 1})
			},
			path: "presets.uniform[6].id",
		},
		{
			name: "span wider than grid",
			mutate: func(c *Config) {
				c.Presets["uniform"][0].SpanW = 9
			},
			path: "presets.uniform[0].span_w",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected error path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}
