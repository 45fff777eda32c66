// Package config handles glcheck configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all glcheck settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Context ContextConfig `yaml:"context"`
	Debug   DebugConfig   `yaml:"debug"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Hidden bool   `yaml:"hidden"` // Create the window without showing it (CI, headless checks)
	VSync  bool   `yaml:"vsync"`
}

// ContextConfig selects the OpenGL context. Direct state access needs 4.5.
type ContextConfig struct {
	Major        int  `yaml:"major"`
	Minor        int  `yaml:"minor"`
	DebugContext bool `yaml:"debug_context"`
}

// DebugConfig controls driver debug output.
type DebugConfig struct {
	Output     bool   `yaml:"output"`     // Route KHR_debug messages to the "gl" logger
	Screenshot string `yaml:"screenshot"` // Directory for a PNG of the first frame; empty disables
}

// AssetsConfig holds input file paths.
type AssetsConfig struct {
	Image string `yaml:"image"` // Texture to upload; empty uses a generated checkerboard
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "glcheck",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Context: ContextConfig{
			Major:        4,
			Minor:        6,
			DebugContext: true,
		},
		Debug: DebugConfig{
			Output: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings glcheck cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Context.Major < 4 || (c.Context.Major == 4 && c.Context.Minor < 5) {
		errs = append(errs, fmt.Errorf("OpenGL %d.%d is too old, need at least 4.5", c.Context.Major, c.Context.Minor))
	}
	return errors.Join(errs...)
}
