package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Input = filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(cfg.Input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	base := validConfig(t)
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing input",
			mutate:  func(c *Config) { c.Input = "" },
			wantErr: "input is required",
		},
		{
			name:    "nonexistent input",
			mutate:  func(c *Config) { c.Input = filepath.Join(t.TempDir(), "nope.mp4") },
			wantErr: "stat input",
		},
		{
			name:    "batch with file input",
			mutate:  func(c *Config) { c.Batch = true },
			wantErr: "batch mode needs a directory",
		},
		{
			name:    "zero clip duration",
			mutate:  func(c *Config) { c.ClipDuration = 0 },
			wantErr: "clip duration must be > 0",
		},
		{
			name:    "min length above duration",
			mutate:  func(c *Config) { c.MinClipLength = 60 },
			wantErr: "exceeds clip duration",
		},
		{
			name:    "unknown quality",
			mutate:  func(c *Config) { c.Quality = "ultra" },
			wantErr: "unknown quality preset",
		},
		{
			name:    "bad scene threshold",
			mutate:  func(c *Config) { c.SceneThreshold = 1.5 },
			wantErr: "scene threshold",
		},
		{
			name:    "resume without batch",
			mutate:  func(c *Config) { c.Resume = true },
			wantErr: "resume only applies to batch",
		},
		{
			name: "scene detection with highlights",
			mutate: func(c *Config) {
				c.SceneDetection = true
				c.Highlights = true
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "weights not summing to one",
			mutate:  func(c *Config) { c.Weights.Motion = 0.9 },
			wantErr: "weights sum",
		},
		{
			name:    "negative boost factor",
			mutate:  func(c *Config) { c.Boosts.Face = -0.3 },
			wantErr: "negative",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestConfigValidate_AcceptsLegacyQualityAlias(t *testing.T) {
	cfg := validConfig(t)
	cfg.Quality = "youtube_hd"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("legacy alias rejected: %v", err)
	}
}

func TestApplyFile_OverridesOnlyNamedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidsplit.toml")
	err := os.WriteFile(path, []byte(`
clip_duration = 45.0
quality = "4k"
scene_detection = true
project_name = "conference"
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.NamingPattern = "{name}_{num}"
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.ClipDuration != 45 {
		t.Fatalf("clip duration = %v, want 45", cfg.ClipDuration)
	}
	if cfg.Quality != "4k" {
		t.Fatalf("quality = %q, want 4k", cfg.Quality)
	}
	if !cfg.SceneDetection {
		t.Fatal("scene detection not applied")
	}
	if cfg.ProjectName != "conference" {
		t.Fatalf("project name = %q", cfg.ProjectName)
	}

	// Keys the file does not name keep their existing values.
	if cfg.NamingPattern != "{name}_{num}" {
		t.Fatalf("naming pattern overwritten: %q", cfg.NamingPattern)
	}
	if cfg.OutputDir != "clips" {
		t.Fatalf("output dir overwritten: %q", cfg.OutputDir)
	}
}

func TestApplyFile_OverridesScoring(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidsplit.toml")
	err := os.WriteFile(path, []byte(`
[weights]
motion = 0.5
audio = 0.2
face = 0.1
color = 0.1
text = 0.1

[boosts]
mid_video = 1.5
audio = 0.25
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.Weights.Motion != 0.5 || cfg.Weights.Audio != 0.2 {
		t.Fatalf("weights not applied: %+v", cfg.Weights)
	}
	if err := cfg.Weights.Validate(); err != nil {
		t.Fatalf("applied weights must validate: %v", err)
	}
	if cfg.Boosts.MidVideo != 1.5 || cfg.Boosts.Audio != 0.25 {
		t.Fatalf("boosts not applied: %+v", cfg.Boosts)
	}

	// Keys the tables do not name keep the shipped defaults.
	if cfg.Boosts.Edge != 0.8 || cfg.Boosts.Face != 0.3 {
		t.Fatalf("unnamed boost keys overwritten: %+v", cfg.Boosts)
	}
}

func TestApplyFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ClipDuration != 30 || cfg.Quality != "hd" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxHighlights != 10 {
		t.Fatalf("max highlights default = %d", cfg.MaxHighlights)
	}
}
