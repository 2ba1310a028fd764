// Package config loads host-side preferences. Synthesis constants are not
// configurable; this only covers seeding, logging, the visualizer and
// offline rendering.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// VisualizerConfig controls the terminal scope.
type VisualizerConfig struct {
	FPS    int `json:"fps,omitempty"`
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// RenderConfig controls `lofi render`.
type RenderConfig struct {
	Seconds float64 `json:"seconds,omitempty"`
	Path    string  `json:"path,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Seed       int64            `json:"seed,omitempty"` // 0 seeds from the clock
	Debug      bool             `json:"debug,omitempty"`
	Lead       float64          `json:"lead,omitempty"` // seconds scheduled ahead of the device
	Visualizer VisualizerConfig `json:"visualizer,omitempty"`
	Render     RenderConfig     `json:"render,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lead: 0.25,
		Visualizer: VisualizerConfig{
			FPS:    30,
			Width:  64,
			Height: 12,
		},
		Render: RenderConfig{
			Seconds: 30,
			Path:    "lofi.wav",
		},
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lofi"), nil
}

// DefaultPath returns the full path to config.json
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns where the debug log is written.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}

// Load reads the config at path, or returns defaults if it does not exist.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
