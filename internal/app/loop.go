package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/platform"
	"github.com/vkngwrapper/presenter/internal/profiler"
	"github.com/vkngwrapper/presenter/internal/render"
)

// idleBackoff is how long the loop sleeps after a frame that drew nothing, so a minimized
// window does not spin a core.
const idleBackoff = 10 * time.Millisecond

type EventSource interface {
	PollEvents() []platform.Event
}

type FrameDrawer interface {
	NotifyResize()
	DrawFrame() (render.FrameResult, error)
}

type FrameRecorder interface {
	Record(result render.FrameResult) (profiler.Stats, bool)
}

// Loop pumps window events and draws one frame per iteration until the window is closed or
// ctx is done. Both are only observed between frames. A draw error ends the loop.
func Loop(ctx context.Context, log *slog.Logger, events EventSource, frames FrameDrawer, stats FrameRecorder) error {
	for frame := 0; ; frame++ {
		if ctx.Err() != nil {
			log.Info("stopping", "reason", context.Cause(ctx))
			return nil
		}

		if closed := handleEvents(log, events.PollEvents(), frames); closed {
			log.Info("window closed")
			return nil
		}

		result, err := frames.DrawFrame()
		if err != nil {
			return errors.Wrapf(err, "draw frame %d", frame)
		}
		stats.Record(result)

		if result == render.ResultSkipped {
			select {
			case <-ctx.Done():
			case <-time.After(idleBackoff):
			}
		}
	}
}

func handleEvents(log *slog.Logger, events []platform.Event, frames FrameDrawer) bool {
	for _, event := range events {
		switch event.Kind {
		case platform.EventClose:
			return true
		case platform.EventResize, platform.EventMinimize, platform.EventRestore:
			log.Debug("surface changed", "event", event.Kind, "extent", event.Extent)
			frames.NotifyResize()
		case platform.EventKey:
			if event.Repeat {
				continue
			}
			if event.Pressed {
				log.Debug("key pressed", "key", event.KeyName())
			} else {
				log.Debug("key released", "key", event.KeyName())
			}
		}
	}
	return false
}
