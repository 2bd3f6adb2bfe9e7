package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/config"
)

func TestApplyFlagsOnlyChanged(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--width", "1280", "--validation", "--pipeline-cache", ""}))

	cfg := config.Default()
	cfg.Window.Height = 900
	cfg.LogLevel = "warn"

	flags := config.Default()
	flags.Window.Width = 1280
	flags.Validation = true
	flags.PipelineCache = ""
	applyFlags(cmd, &cfg, flags)

	require.Equal(t, 1280, cfg.Window.Width)
	require.Equal(t, 900, cfg.Window.Height)
	require.True(t, cfg.Validation)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Empty(t, cfg.PipelineCache)
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("unknown = 1\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path})
	require.Error(t, cmd.Execute())
}
