package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
[parse]
strict = true

[diagnostics]
max = 20
color = "off"

[check]
jobs = 4
cache = true

[schema]
context = "schemas/context.json"

[directives]
known = ["team", "milestone"]
`)
	nested := filepath.Join(root, "plans", "q3")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, found, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected config to be found")
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if !cfg.Parse.Strict || cfg.Parse.PreserveComments {
		t.Errorf("unexpected parse section: %+v", cfg.Parse)
	}
	if cfg.Diagnostics.Max != 20 || cfg.Diagnostics.Color != ColorOff {
		t.Errorf("unexpected diagnostics section: %+v", cfg.Diagnostics)
	}
	if cfg.Diagnostics.Context != 1 {
		t.Errorf("default context lost: %d", cfg.Diagnostics.Context)
	}
	if cfg.Check.Jobs != 4 || !cfg.Check.Cache {
		t.Errorf("unexpected check section: %+v", cfg.Check)
	}
	if got, want := cfg.SchemaPath(), filepath.Join(root, "schemas", "context.json"); got != want {
		t.Errorf("SchemaPath = %q, want %q", got, want)
	}
	if len(cfg.Directives.Known) != 2 {
		t.Errorf("known directives = %v", cfg.Directives.Known)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, found, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if found && cfg.Path == "" {
		t.Fatal("found config without path")
	}
	if !found && cfg.Diagnostics.Color != ColorAuto {
		t.Errorf("default color = %q", cfg.Diagnostics.Color)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[parse\nstrict = true", "failed to parse TOML"},
		{"unknown key", "[parse]\nstrickt = true\n", "unknown keys: parse.strickt"},
		{"bad color", "[diagnostics]\ncolor = \"sometimes\"\n", "[diagnostics].color"},
		{"negative jobs", "[check]\njobs = -1\n", "[check].jobs"},
		{"bad directive", "[directives]\nknown = [\"@team\"]\n", "invalid directive name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSchemaPathAbsolute(t *testing.T) {
	cfg := Config{Path: "/etc/taskml/taskml.toml", Schema: SchemaConfig{Context: "/opt/schema.json"}}
	if cfg.SchemaPath() != "/opt/schema.json" {
		t.Errorf("absolute schema path rewritten: %q", cfg.SchemaPath())
	}
	cfg.Schema.Context = ""
	if cfg.SchemaPath() != "" {
		t.Errorf("empty schema path = %q", cfg.SchemaPath())
	}
}
