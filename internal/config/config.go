// Package config loads taskml.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up from the input directory upwards.
const FileName = "taskml.toml"

// Color modes accepted by [diagnostics].color.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

type Config struct {
	Parse       ParseConfig       `toml:"parse"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Check       CheckConfig       `toml:"check"`
	Schema      SchemaConfig      `toml:"schema"`
	Directives  DirectivesConfig  `toml:"directives"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type ParseConfig struct {
	Strict           bool `toml:"strict"`
	PreserveComments bool `toml:"preserve_comments"`
}

type DiagnosticsConfig struct {
	Max     int    `toml:"max"`
	Color   string `toml:"color"`
	Context int    `toml:"context"`
}

type CheckConfig struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

type SchemaConfig struct {
	// Context is a JSON Schema for ---context payloads, relative to the
	// config file.
	Context string `toml:"context"`
}

type DirectivesConfig struct {
	Known []string `toml:"known"`
}

// Default returns the settings used when no taskml.toml exists.
func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{Color: ColorAuto, Context: 1},
	}
}

// Root returns the directory holding the config file, or "" for defaults.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// SchemaPath resolves [schema].context against the config directory.
func (c Config) SchemaPath() string {
	p := strings.TrimSpace(c.Schema.Context)
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(c.Root(), filepath.FromSlash(p))
}

// Find walks from startDir up to the filesystem root looking for
// taskml.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the nearest taskml.toml. When none exists the
// defaults are returned with found=false.
func Load(startDir string) (cfg Config, found bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err = LoadFile(path)
	if err != nil {
		return Default(), true, err
	}
	return cfg, true, nil
}

// LoadFile decodes path on top of the defaults and validates it.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Diagnostics.Color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return fmt.Errorf("[diagnostics].color must be auto, on or off, got %q", c.Diagnostics.Color)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must be >= 0")
	}
	if c.Diagnostics.Context < 0 || c.Diagnostics.Context > 127 {
		return fmt.Errorf("[diagnostics].context must be within 0..127")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must be >= 0")
	}
	for _, name := range c.Directives.Known {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t@") {
			return fmt.Errorf("[directives].known: invalid directive name %q", name)
		}
	}
	return nil
}
