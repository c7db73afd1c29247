package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("embedded defaults drifted (-hardcoded +embedded):\n%s", diff)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() is invalid: %v", err)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, ".blockfall/configs/blockfall.yaml", "randomizer: bag\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Randomizer != "bag" {
		t.Errorf("randomizer = %q, want bag", cfg.Randomizer)
	}
	if cfg.Field.Width != 10 {
		t.Errorf("unset fields should keep defaults, width = %d", cfg.Field.Width)
	}
}

func TestLoadInvalidUserConfigIsSkipped(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, ".blockfall/configs/blockfall.yaml", "gravity: {interval_ms: -5}\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gravity.IntervalMS != 1000 {
		t.Errorf("invalid user config should fall through, gravity = %d", cfg.Gravity.IntervalMS)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
field:
  width: 12
  height: 24
gravity:
  interval_ms: 250
sound:
  enabled: true
  volume: 0.8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Field = FieldConfig{Width: 12, Height: 24}
	want.Gravity.IntervalMS = 250
	want.Sound = SoundConfig{Enabled: true, Volume: 0.8}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "failed to read"},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "field: [1, 2"), "failed to parse"},
		{"invalid values", writeFile(t, dir, "invalid.yaml", "randomizer: dice\n"), "randomizer"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bag randomizer", func(c *Config) { c.Randomizer = "bag" }, true},
		{"narrow field", func(c *Config) { c.Field.Width = 3 }, false},
		{"zero gravity", func(c *Config) { c.Gravity.IntervalMS = 0 }, false},
		{"negative repeat", func(c *Config) { c.Input.RepeatDelayMS = -1 }, false},
		{"zero repeat", func(c *Config) { c.Input.RepeatDelayMS = 0 }, true},
		{"empty randomizer", func(c *Config) { c.Randomizer = "" }, false},
		{"zero flash interval", func(c *Config) { c.Effects.FlashIntervalMS = 0 }, false},
		{"loud", func(c *Config) { c.Sound.Volume = 1.5 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		want   int
	}{
		{DifficultyEasy, 1000},
		{DifficultyNormal, 800},
		{DifficultyHard, 500},
		{"", 1000}, // unchanged
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := Default()
			if err := ApplyPreset(&cfg, tc.preset); err != nil {
				t.Fatalf("ApplyPreset: %v", err)
			}
			if cfg.Gravity.IntervalMS != tc.want {
				t.Errorf("interval = %d, want %d", cfg.Gravity.IntervalMS, tc.want)
			}
		})
	}

	cfg := Default()
	if err := ApplyPreset(&cfg, "insane"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	if got := cfg.GravityInterval().Milliseconds(); got != 1000 {
		t.Errorf("GravityInterval() = %dms", got)
	}
	if got := cfg.RepeatDelay().Milliseconds(); got != 100 {
		t.Errorf("RepeatDelay() = %dms", got)
	}
	if got := cfg.FlashInterval().Milliseconds(); got != 60 {
		t.Errorf("FlashInterval() = %dms", got)
	}
}
