// Package app wires the window, the device context and the presenter together and runs the
// frame loop.
package app

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/assets"
	"github.com/vkngwrapper/presenter/internal/config"
	"github.com/vkngwrapper/presenter/internal/gfx"
	"github.com/vkngwrapper/presenter/internal/platform"
	"github.com/vkngwrapper/presenter/internal/profiler"
	"github.com/vkngwrapper/presenter/internal/render"
	"github.com/vkngwrapper/presenter/internal/vulkan"
)

// Run opens the window and device, presents until the window closes or ctx is done, and
// tears everything down in reverse order. It must be called from the main OS thread.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	a, err := assets.Load(ctx, cfg.Assets.Sources())
	if err != nil {
		return errors.Wrap(err, "load assets")
	}

	window, err := platform.Open(cfg.AppName, gfx.Extent{Width: cfg.Window.Width, Height: cfg.Window.Height})
	if err != nil {
		return err
	}
	defer window.Close()

	dev, err := vulkan.Open(window, vulkan.Options{
		AppName:    cfg.AppName,
		Validation: cfg.Validation,
	})
	if err != nil {
		return errors.Wrap(err, "open device")
	}
	defer dev.Close()

	presenter, err := render.New(dev, window, render.Config{
		AppName:           cfg.AppName,
		Assets:            a,
		ClearColor:        cfg.ClearColor,
		AcquireTimeout:    cfg.AcquireTimeout.Std(),
		PipelineCachePath: cfg.PipelineCache,
	})
	if err != nil {
		return errors.Wrap(err, "create presenter")
	}

	loopErr := Loop(ctx, log, window, presenter, profiler.New(log, cfg.StatsInterval.Std()))
	closeErr := errors.Wrap(presenter.Close(), "close presenter")

	log.Info("goodbye")
	return errors.CombineErrors(loopErr, closeErr)
}
