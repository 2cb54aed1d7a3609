package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration, loaded from a TOML file with
// sensible defaults for anything left out.
type Config struct {
	Name     string `toml:"name"`
	Width    uint32 `toml:"width"`
	Height   uint32 `toml:"height"`
	VSync    bool   `toml:"vsync"`
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`

	Assets AssetsConfig `toml:"assets"`
}

type AssetsConfig struct {
	Model      string `toml:"model"`
	Texture    string `toml:"texture"`
	VertShader string `toml:"vert_shader"`
	FragShader string `toml:"frag_shader"`
	// Reload textures when the file changes on disk.
	WatchTexture bool `toml:"watch_texture"`
}

func defaultConfig() Config {
	return Config{
		Name:     "Prism",
		Width:    800,
		Height:   600,
		VSync:    true,
		Debug:    false,
		LogLevel: "info",
		Assets: AssetsConfig{
			Model:      "assets/models/viking_room.obj",
			Texture:    "assets/textures/viking_room.png",
			VertShader: "assets/shaders/shader.vert.spv",
			FragShader: "assets/shaders/shader.frag.spv",
		},
	}
}

// LoadConfig reads the TOML file at path. A missing file is not an error;
// the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return cfg, fmt.Errorf("config %s: window size must be non-zero", path)
	}
	return cfg, nil
}
