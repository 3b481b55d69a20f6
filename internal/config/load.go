package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// fileName is the config file looked up in the working and config dirs.
const fileName = "config.yaml"

// Load builds the configuration from defaults, then the config file, then
// command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "loading config from %s", path)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file: the working
// directory wins over the user config dir.
func findConfigFile() string {
	for _, path := range []string{filepath.Join(".", fileName), DefaultPath()} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "SceneViewer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SceneViewer")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scene-viewer")
	}
	return filepath.Join(home, ".config", "scene-viewer")
}

// DefaultPath is where Save writes.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), fileName)
}

// loadFromFile merges the YAML file at path over cfg. Unknown keys are an
// error so typos do not silently fall back to defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return errors.Errorf("camera clip range [%g, %g] must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far)
	case c.Camera.MinPolar > c.Camera.MaxPolar:
		return errors.Errorf("camera polar range [%g, %g] is inverted", c.Camera.MinPolar, c.Camera.MaxPolar)
	case c.Picking.XRadius <= 0 || c.Picking.YRadius <= 0 || c.Picking.Divisor == 0:
		return errors.New("picking radii must be positive and divisor non-zero")
	case !c.Provider.Local && c.Provider.Address == "":
		return errors.New("provider address is required when the local provider is off")
	}
	for i, l := range c.Lighting.PointLights {
		if l.Distance < 0 || l.Decay < 0 {
			return errors.Errorf("point light %d: distance and decay must not be negative", i)
		}
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return errors.Wrap(err, "logging level")
	}
	return nil
}
