// Package config holds the presenter's settings. Defaults are overridden by an optional TOML
// file, which is in turn overridden by command line flags.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/vkngwrapper/presenter/internal/assets"
)

type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Assets struct {
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
	Texture        string `toml:"texture"`
}

func (a Assets) Sources() assets.Sources {
	return assets.Sources{
		VertexShader:   a.VertexShader,
		FragmentShader: a.FragmentShader,
		Texture:        a.Texture,
	}
}

type Config struct {
	AppName string `toml:"app_name"`
	Window  Window `toml:"window"`
	Assets  Assets `toml:"assets"`

	// PipelineCache is where compiled pipeline state is kept between runs. Empty disables it.
	PipelineCache string `toml:"pipeline_cache"`
	Validation    bool   `toml:"validation"`

	ClearColor [4]float32 `toml:"clear_color"`
	// AcquireTimeout of zero waits for a swapchain image indefinitely.
	AcquireTimeout Duration `toml:"acquire_timeout"`

	LogLevel      string   `toml:"log_level"`
	StatsInterval Duration `toml:"stats_interval"`
}

func Default() Config {
	return Config{
		AppName: "Presenter",
		Window:  Window{Width: 800, Height: 600},
		Assets: Assets{
			VertexShader:   "shaders/vert.spv",
			FragmentShader: "shaders/frag.spv",
			Texture:        "textures/checker.png",
		},
		PipelineCache: "pipeline_cache.bin",
		ClearColor:    [4]float32{0, 0, 0.2, 1},
		LogLevel:      "info",
		StatsInterval: Duration(5 * time.Second),
	}
}

// Load reads path over the defaults. Keys the config does not know are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	if err = toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.AppName == "" {
		return errors.New("app_name must not be empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Assets.VertexShader == "" || c.Assets.FragmentShader == "" || c.Assets.Texture == "" {
		return errors.New("assets need a vertex shader, a fragment shader and a texture")
	}
	for i, channel := range c.ClearColor {
		if channel < 0 || channel > 1 {
			return errors.Newf("clear_color[%d] = %g is outside [0, 1]", i, channel)
		}
	}
	if c.AcquireTimeout < 0 {
		return errors.New("acquire_timeout must not be negative")
	}
	if c.StatsInterval < 0 {
		return errors.New("stats_interval must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level is the configured log level.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errors.Newf("unknown log level %q", s)
	}
	return level, nil
}
