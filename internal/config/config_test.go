package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("Embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Embedded YAML drifted from DefaultConfig():\n got %+v\nwant %+v", cfg, DefaultConfig())
	}
}

func TestLoadCustomPathOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	data := []byte("grid:\n  size: 12\ntick:\n  interval_ms: 150\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Grid.Size != 12 {
		t.Errorf("Grid.Size = %d, expected 12", cfg.Grid.Size)
	}
	if cfg.TickInterval() != 150*time.Millisecond {
		t.Errorf("TickInterval() = %v, expected 150ms", cfg.TickInterval())
	}
	// Unnamed fields keep their defaults
	if cfg.Scoring.FoodPoints != 10 || cfg.Storage.SaveKey != "snakeGameSave" {
		t.Errorf("Defaults lost: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("grid: [1, 2"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("grid:\n  size: 1\n"), 0o644)
	if _, err := Load(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // keep any real ~/.snake out of the way
	os.MkdirAll(filepath.Join(dir, "configs"), 0o755)
	os.WriteFile(filepath.Join(dir, "configs", "snake.yaml"), []byte("scoring:\n  food_points: 25\n"), 0o644)

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Scoring.FoodPoints != 25 {
		t.Errorf("FoodPoints = %d, expected 25 from ./configs/snake.yaml", cfg.Scoring.FoodPoints)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"smallest grid", func(c *Config) { c.Grid.Size = 2 }, true},
		{"grid too small", func(c *Config) { c.Grid.Size = 1 }, false},
		{"zero tick", func(c *Config) { c.Tick.IntervalMS = 0 }, false},
		{"zero points", func(c *Config) { c.Scoring.FoodPoints = 0 }, false},
		{"negative status", func(c *Config) { c.Status.DurationMS = -1 }, false},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeoutMin = -5 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Marshal() lost data: %s", data)
	}
}
