package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vkngwrapper/presenter/internal/app"
	"github.com/vkngwrapper/presenter/internal/config"
	"github.com/vkngwrapper/presenter/internal/render"
	"github.com/vkngwrapper/presenter/internal/vulkan"
)

func init() {
	// SDL and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	overrides := config.Default()

	cmd := &cobra.Command{
		Use:           "presenter",
		Short:         "Draw a spinning textured box with Vulkan",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			applyFlags(cmd, &cfg, overrides)

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
			render.SetLogger(log)
			vulkan.SetLogger(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx, cfg, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "TOML config file")
	flags.IntVar(&overrides.Window.Width, "width", overrides.Window.Width, "initial window width")
	flags.IntVar(&overrides.Window.Height, "height", overrides.Window.Height, "initial window height")
	flags.BoolVar(&overrides.Validation, "validation", overrides.Validation, "enable the Khronos validation layer")
	flags.StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "debug, info, warn or error")
	flags.StringVar(&overrides.Assets.VertexShader, "vertex-shader", overrides.Assets.VertexShader, "SPIR-V vertex shader")
	flags.StringVar(&overrides.Assets.FragmentShader, "fragment-shader", overrides.Assets.FragmentShader, "SPIR-V fragment shader")
	flags.StringVar(&overrides.Assets.Texture, "texture", overrides.Assets.Texture, "texture image")
	flags.StringVar(&overrides.PipelineCache, "pipeline-cache", overrides.PipelineCache, "pipeline cache file, empty to disable")

	cmd.SetContext(context.Background())
	return cmd
}

// applyFlags copies only the flags given on the command line, so the config file keeps
// precedence over flag defaults.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags config.Config) {
	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Window.Width = flags.Window.Width
	}
	if changed("height") {
		cfg.Window.Height = flags.Window.Height
	}
	if changed("validation") {
		cfg.Validation = flags.Validation
	}
	if changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if changed("vertex-shader") {
		cfg.Assets.VertexShader = flags.Assets.VertexShader
	}
	if changed("fragment-shader") {
		cfg.Assets.FragmentShader = flags.Assets.FragmentShader
	}
	if changed("texture") {
		cfg.Assets.Texture = flags.Assets.Texture
	}
	if changed("pipeline-cache") {
		cfg.PipelineCache = flags.PipelineCache
	}
}
