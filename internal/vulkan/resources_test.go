package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func TestIsSwapchainImage(t *testing.T) {
	d := &Device{
		images:          newTable[gfx.Image, core1_0.Image]("image"),
		swapchainImages: map[gfx.Swapchain][]gfx.Image{},
	}

	owned := d.images.add(core1_0.Image{})
	first := d.images.add(core1_0.Image{})
	second := d.images.add(core1_0.Image{})
	d.swapchainImages[gfx.Swapchain(1)] = []gfx.Image{first, second}

	require.False(t, d.isSwapchainImage(owned))
	require.True(t, d.isSwapchainImage(first))
	require.True(t, d.isSwapchainImage(second))

	// Swapchain images are released with their swapchain, never one at a time.
	d.DestroyImage(first)
	_, ok := d.images.lookup(first)
	require.True(t, ok)
}
