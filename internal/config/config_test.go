package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presenter.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, slog.LevelInfo, cfg.Level())
	require.Zero(t, cfg.AcquireTimeout)
	require.Equal(t, [4]float32{0, 0, 0.2, 1}, cfg.ClearColor)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app_name = "Box"
validation = true
acquire_timeout = "250ms"
log_level = "debug"
clear_color = [0.1, 0.2, 0.3, 1.0]

[window]
width = 1280
height = 720

[assets]
texture = "textures/other.png"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "Box", cfg.AppName)
	require.True(t, cfg.Validation)
	require.Equal(t, 250*time.Millisecond, cfg.AcquireTimeout.Std())
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, [4]float32{0.1, 0.2, 0.3, 1.0}, cfg.ClearColor)
	require.Equal(t, Window{Width: 1280, Height: 720}, cfg.Window)

	// Keys not in the file keep their defaults.
	require.Equal(t, "textures/other.png", cfg.Assets.Texture)
	require.Equal(t, Default().Assets.VertexShader, cfg.Assets.VertexShader)
	require.Equal(t, Default().StatsInterval, cfg.StatsInterval)
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
	}{
		{"unknown key", `frame_rate = 60`},
		{"bad duration", `acquire_timeout = "soon"`},
		{"bad level", `log_level = "loud"`},
		{"zero window", "[window]\nwidth = 0"},
		{"clear color range", `clear_color = [2.0, 0.0, 0.0, 1.0]`},
		{"syntax", `app_name = `},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
	}{
		{"empty name", func(c *Config) { c.AppName = "" }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"missing shader", func(c *Config) { c.Assets.FragmentShader = "" }},
		{"negative timeout", func(c *Config) { c.AcquireTimeout = Duration(-time.Second) }},
		{"negative interval", func(c *Config) { c.StatsInterval = Duration(-time.Second) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	require.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1m30s", string(text))

	require.Error(t, d.UnmarshalText([]byte("ninety")))
}
