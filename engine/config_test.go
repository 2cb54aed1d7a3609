package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("default size = %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	if !cfg.VSync {
		t.Error("vsync should default on")
	}
	if cfg.Assets.Model == "" {
		t.Error("default model path is empty")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	contents := `
name = "Custom"
width = 1280
height = 720
vsync = false
log_level = "debug"

[assets]
texture = "other.png"
watch_texture = true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Custom" || cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.VSync {
		t.Error("vsync override not applied")
	}
	if cfg.Assets.Texture != "other.png" || !cfg.Assets.WatchTexture {
		t.Errorf("asset overrides not applied: %+v", cfg.Assets)
	}
	// Unset fields keep their defaults.
	if cfg.Assets.Model != defaultConfig().Assets.Model {
		t.Errorf("model path = %q, want default", cfg.Assets.Model)
	}
}

func TestLoadConfigRejectsZeroSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	if err := os.WriteFile(path, []byte("width = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("zero width accepted")
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	if err := os.WriteFile(path, []byte("width = [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed TOML accepted")
	}
}
