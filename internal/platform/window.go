// Package platform is the SDL2 window the device context presents into.
package platform

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

// Window owns the SDL video subsystem for as long as it is open. It must be used from the
// thread that opened it.
type Window struct {
	window *sdl.Window
}

// Open initializes SDL video and creates a resizable Vulkan-capable window.
func Open(title string, extent gfx.Extent) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "init sdl")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(extent.Width), int32(extent.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	return &Window{window: window}, nil
}

func (w *Window) VulkanProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (w *Window) VulkanInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *Window) CreateSurface(instance core1_0.Instance, surfaceExtension khr_surface.ExtensionDriver) (khr_surface.Surface, error) {
	return vkng_sdl2.CreateSurface(instance, surfaceExtension, w.window)
}

// CurrentExtent is the drawable size in pixels, which differs from the window size on high
// density displays. A minimized window reports 0x0.
func (w *Window) CurrentExtent() gfx.Extent {
	if w.window.GetFlags()&sdl.WINDOW_MINIMIZED != 0 {
		return gfx.Extent{}
	}

	width, height := w.window.VulkanGetDrawableSize()
	return gfx.Extent{Width: int(width), Height: int(height)}
}

// PollEvents drains the SDL event queue without blocking.
func (w *Window) PollEvents() []Event {
	var events []Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		events = append(events, translateEvent(event))
	}
	return events
}

func (w *Window) Close() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
