package vulkan

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func TestSwapchainStatus(t *testing.T) {
	deviceLost := errors.New("device lost")

	for _, tc := range []struct {
		name     string
		res      common.VkResult
		err      error
		expected gfx.SwapchainStatus
		fatal    bool
	}{
		{"success", core1_0.VKSuccess, nil, gfx.StatusOK, false},
		{"suboptimal", khr_swapchain.VKSuboptimal, nil, gfx.StatusSuboptimal, false},
		{"out of date", khr_swapchain.VKErrorOutOfDate, errors.New("out of date"), gfx.StatusOutOfDate, false},
		{"timeout", core1_0.VKTimeout, nil, gfx.StatusTimeout, false},
		{"not ready", core1_0.VKNotReady, nil, gfx.StatusTimeout, false},
		{"device lost", core1_0.VKErrorDeviceLost, deviceLost, gfx.StatusOK, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			status, err := swapchainStatus(tc.res, tc.err)
			require.Equal(t, tc.expected, status)
			if tc.fatal {
				require.ErrorIs(t, err, deviceLost)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFormatsMatchNativeValues(t *testing.T) {
	require.Equal(t, core1_0.FormatB8G8R8A8SRGB, core1_0.Format(gfx.FormatB8G8R8A8SRGB))
	require.Equal(t, core1_0.FormatR8G8B8A8SRGB, core1_0.Format(gfx.FormatR8G8B8A8SRGB))
	require.Equal(t, core1_0.FormatD32SignedFloat, core1_0.Format(gfx.FormatD32SFloat))
	require.Equal(t, core1_0.FormatD24UnsignedNormalizedS8UnsignedInt, core1_0.Format(gfx.FormatD24UNormS8UInt))
	require.Equal(t, core1_0.FormatD32SignedFloatS8UnsignedInt, core1_0.Format(gfx.FormatD32SFloatS8UInt))
}

func TestUsageFlags(t *testing.T) {
	require.Equal(t,
		core1_0.BufferUsageTransferDst|core1_0.BufferUsageVertexBuffer,
		bufferUsage(gfx.BufferUsageTransferDst|gfx.BufferUsageVertex))
	require.Equal(t, core1_0.BufferUsageUniformBuffer, bufferUsage(gfx.BufferUsageUniform))

	require.Equal(t,
		core1_0.ImageUsageTransferDst|core1_0.ImageUsageSampled,
		imageUsage(gfx.ImageUsageTransferDst|gfx.ImageUsageSampled))
	require.Equal(t, core1_0.ImageUsageDepthStencilAttachment, imageUsage(gfx.ImageUsageDepthStencilAttachment))

	require.Equal(t, core1_0.ImageAspectDepth|core1_0.ImageAspectStencil, imageAspect(gfx.AspectDepth|gfx.AspectStencil))

	require.Equal(t, core1_0.MemoryPropertyDeviceLocal, memoryProperties(gfx.MemoryDeviceLocal))
	require.Equal(t,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent,
		memoryProperties(gfx.MemoryHostVisible))
}

func TestVertexFormat(t *testing.T) {
	require.Equal(t, core1_0.FormatR32G32SignedFloat, vertexFormat(gfx.VertexFloat2))
	require.Equal(t, core1_0.FormatR32G32B32SignedFloat, vertexFormat(gfx.VertexFloat3))
}

func TestTimeout(t *testing.T) {
	require.Equal(t, time.Duration(common.NoTimeout), timeout(gfx.NoTimeout))
	require.Equal(t, 250*time.Millisecond, timeout(250*time.Millisecond))
	require.Equal(t, time.Duration(0), timeout(0))
}
