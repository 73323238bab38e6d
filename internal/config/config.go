package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TilePreset describes one tile of a named preset layout.
type TilePreset struct {
	ID    string `yaml:"id"`
	SpanW int    `yaml:"span_w"`
	SpanH int    `yaml:"span_h"`
	Label string `yaml:"label,omitempty"`
}

// Config is the user-facing configuration for the grid engine.
type Config struct {
	Columns       int                     `yaml:"columns"`
	SpacingX      float64                 `yaml:"spacing_x"`
	SpacingY      float64                 `yaml:"spacing_y"`
	CornerRadius  float64                 `yaml:"corner_radius"`
	AnimationMs   int                     `yaml:"animation_ms"`
	DebounceMs    int                     `yaml:"debounce_ms"`
	LogLevel      string                  `yaml:"log_level"`
	DefaultPreset string                  `yaml:"default_preset"`
	Presets       map[string][]TilePreset `yaml:"presets"`
}

func DefaultConfig() *Config {
	return &Config{
		Columns:       4,
		SpacingX:      8,
		SpacingY:      8,
		CornerRadius:  6,
		AnimationMs:   200,
		DebounceMs:    150,
		LogLevel:      "info",
		DefaultPreset: "dashboard",
		Presets: map[string][]TilePreset{
			"dashboard": {
				{ID: "overview", SpanW: 2, SpanH: 1, Label: "Overview"},
				{ID: "activity", SpanW: 1, SpanH: 2, Label: "Activity"},
				{ID: "alerts", SpanW: 1, SpanH: 1, Label: "Alerts"},
				{ID: "usage", SpanW: 2, SpanH: 1, Label: "Usage"},
				{ID: "notes", SpanW: 1, SpanH: 1, Label: "Notes"},
			},
			"uniform": {
				{ID: "t1", SpanW: 1, SpanH: 1},
				{ID: "t2", SpanW: 1, SpanH: 1},
				{ID: "t3", SpanW: 1, SpanH: 1},
				{ID: "t4", SpanW: 1, SpanH: 1},
				{ID: "t5", SpanW: 1, SpanH: 1},
				{ID: "t6", SpanW: 1, SpanH: 1},
			},
		},
	}
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	}
	return false
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Columns < 1 || c.Columns > 62 {
		return &ValidationError{Path: "columns", Err: fmt.Errorf("columns must be between 1 and 62")}
	}
	if c.SpacingX < 0 || c.SpacingY < 0 {
		return &ValidationError{Path: "spacing", Err: fmt.Errorf("spacing values must be >= 0")}
	}
	if c.CornerRadius < 0 {
		return &ValidationError{Path: "corner_radius", Err: fmt.Errorf("corner_radius must be >= 0")}
	}
	if c.AnimationMs < 0 {
		return &ValidationError{Path: "animation_ms", Err: fmt.Errorf("animation_ms must be >= 0")}
	}
	if c.DebounceMs < 0 {
		return &ValidationError{Path: "debounce_ms", Err: fmt.Errorf("debounce_ms must be >= 0")}
	}
	if !isValidLogLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Presets == nil {
		return &ValidationError{Path: "presets", Err: fmt.Errorf("presets must not be null")}
	}
	if c.DefaultPreset != "" {
		if _, ok := c.Presets[c.DefaultPreset]; !ok {
			return &ValidationError{Path: "default_preset", Err: fmt.Errorf("default_preset %q not found in presets", c.DefaultPreset)}
		}
	}
	for name, tiles := range c.Presets {
		if name == "" {
			return &ValidationError{Path: "presets", Err: fmt.Errorf("presets contains an empty name")}
		}
		seen := make(map[string]bool, len(tiles))
		for i, tile := range tiles {
			path := fmt.Sprintf("presets.%s[%d]", name, i)
			if tile.ID == "" {
				return &ValidationError{Path: path + ".id", Err: fmt.Errorf("tile id must not be empty")}
			}
			if seen[tile.ID] {
				return &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate tile id %q", tile.ID)}
			}
			seen[tile.ID] = true
			if tile.SpanW < 1 || tile.SpanH < 1 {
				return &ValidationError{Path: path, Err: fmt.Errorf("tile spans must be >= 1")}
			}
			if tile.SpanW > c.Columns {
				return &ValidationError{Path: path + ".span_w", Err: fmt.Errorf("span_w %d exceeds columns %d", tile.SpanW, c.Columns)}
			}
		}
	}
	return nil
}

// Save writes the config to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
