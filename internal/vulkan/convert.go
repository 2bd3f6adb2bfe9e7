package vulkan

import (
	"time"

	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func extent2D(e gfx.Extent) core1_0.Extent2D {
	return core1_0.Extent2D{Width: e.Width, Height: e.Height}
}

func fromExtent2D(e core1_0.Extent2D) gfx.Extent {
	return gfx.Extent{Width: e.Width, Height: e.Height}
}

func fromCapabilities(caps *khr_surface.SurfaceCapabilities) gfx.SurfaceCapabilities {
	return gfx.SurfaceCapabilities{
		MinImageCount:    caps.MinImageCount,
		MaxImageCount:    caps.MaxImageCount,
		CurrentExtent:    fromExtent2D(caps.CurrentExtent),
		MinImageExtent:   fromExtent2D(caps.MinImageExtent),
		MaxImageExtent:   fromExtent2D(caps.MaxImageExtent),
		CurrentTransform: gfx.SurfaceTransform(caps.CurrentTransform),
	}
}

func bufferUsage(usage gfx.BufferUsage) core1_0.BufferUsageFlags {
	var flags core1_0.BufferUsageFlags
	if usage&gfx.BufferUsageTransferSrc != 0 {
		flags |= core1_0.BufferUsageTransferSrc
	}
	if usage&gfx.BufferUsageTransferDst != 0 {
		flags |= core1_0.BufferUsageTransferDst
	}
	if usage&gfx.BufferUsageUniform != 0 {
		flags |= core1_0.BufferUsageUniformBuffer
	}
	if usage&gfx.BufferUsageIndex != 0 {
		flags |= core1_0.BufferUsageIndexBuffer
	}
	if usage&gfx.BufferUsageVertex != 0 {
		flags |= core1_0.BufferUsageVertexBuffer
	}
	return flags
}

func imageUsage(usage gfx.ImageUsage) core1_0.ImageUsageFlags {
	var flags core1_0.ImageUsageFlags
	if usage&gfx.ImageUsageTransferDst != 0 {
		flags |= core1_0.ImageUsageTransferDst
	}
	if usage&gfx.ImageUsageSampled != 0 {
		flags |= core1_0.ImageUsageSampled
	}
	if usage&gfx.ImageUsageColorAttachment != 0 {
		flags |= core1_0.ImageUsageColorAttachment
	}
	if usage&gfx.ImageUsageDepthStencilAttachment != 0 {
		flags |= core1_0.ImageUsageDepthStencilAttachment
	}
	return flags
}

func imageAspect(aspect gfx.ImageAspect) core1_0.ImageAspectFlags {
	var flags core1_0.ImageAspectFlags
	if aspect&gfx.AspectColor != 0 {
		flags |= core1_0.ImageAspectColor
	}
	if aspect&gfx.AspectDepth != 0 {
		flags |= core1_0.ImageAspectDepth
	}
	if aspect&gfx.AspectStencil != 0 {
		flags |= core1_0.ImageAspectStencil
	}
	return flags
}

func memoryProperties(location gfx.MemoryLocation) core1_0.MemoryPropertyFlags {
	if location == gfx.MemoryHostVisible {
		return core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent
	}
	return core1_0.MemoryPropertyDeviceLocal
}

func vertexFormat(format gfx.VertexFormat) core1_0.Format {
	if format == gfx.VertexFloat2 {
		return core1_0.FormatR32G32SignedFloat
	}
	return core1_0.FormatR32G32B32SignedFloat
}

// timeout maps gfx.NoTimeout onto vkng's own unbounded value, the only one it passes to the
// driver as UINT64_MAX.
func timeout(d time.Duration) time.Duration {
	if d == gfx.NoTimeout {
		return common.NoTimeout
	}
	return d
}

// swapchainStatus turns an acquire or present result into a status. The result is checked
// before the error: out of date comes back as both.
func swapchainStatus(res common.VkResult, err error) (gfx.SwapchainStatus, error) {
	switch res {
	case khr_swapchain.VKSuboptimal:
		return gfx.StatusSuboptimal, nil
	case khr_swapchain.VKErrorOutOfDate:
		return gfx.StatusOutOfDate, nil
	case core1_0.VKTimeout, core1_0.VKNotReady:
		return gfx.StatusTimeout, nil
	}
	return gfx.StatusOK, err
}
