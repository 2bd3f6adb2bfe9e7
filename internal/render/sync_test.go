package render

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gfx"
	"github.com/vkngwrapper/presenter/internal/gfx/gfxtest"
)

func TestFrameSynchronizerProtocol(t *testing.T) {
	dev := gfxtest.NewDevice()
	pool := buildPool(t, dev)
	bundle, err := BuildSwapchainBundle(dev, pool, 0, gfx.Extent{Width: 800, Height: 600})
	require.NoError(t, err)

	sync, err := NewFrameSynchronizer(dev, 0)
	require.NoError(t, err)
	require.Equal(t, gfx.NoTimeout, sync.timeout)
	require.Equal(t, FrameIdle, sync.State())

	for frame := 0; frame < 4; frame++ {
		imageIndex, status, err := sync.Acquire(bundle.Swapchain())
		require.NoError(t, err)
		require.Equal(t, gfx.StatusOK, status)
		require.Equal(t, FrameAcquiring, sync.State())
		require.Equal(t, frame%2, imageIndex)

		require.NoError(t, sync.WaitInFlight())

		cb, err := bundle.CommandBuffer(imageIndex)
		require.NoError(t, err)
		require.NoError(t, sync.Submit(cb))
		require.Equal(t, FrameSubmitted, sync.State())

		status, err = sync.Present(bundle.Swapchain())
		require.NoError(t, err)
		require.Equal(t, gfx.StatusOK, status)
		require.Equal(t, FrameIdle, sync.State())
	}

	submit := dev.Submits[0]
	require.Equal(t, sync.imageAvailable, submit.Wait)
	require.Equal(t, sync.renderFinished, submit.Signal)
	require.Equal(t, sync.inFlight, submit.Fence)
	require.Equal(t, sync.renderFinished, dev.Presents[0].Wait)
	require.Equal(t, 4, dev.Calls["QueueWaitIdle"])

	sync.Destroy()
	bundle.Destroy()
	pool.Destroy()
	requireClean(t, dev)
}

func TestFrameSynchronizerStaleResults(t *testing.T) {
	dev := gfxtest.NewDevice()
	pool := buildPool(t, dev)
	defer pool.Destroy()
	bundle, err := BuildSwapchainBundle(dev, pool, 0, gfx.Extent{Width: 800, Height: 600})
	require.NoError(t, err)
	defer bundle.Destroy()

	sync, err := NewFrameSynchronizer(dev, 16*time.Millisecond)
	require.NoError(t, err)
	defer sync.Destroy()

	dev.AcquireResults = []gfxtest.AcquireResult{
		{Status: gfx.StatusOutOfDate},
		{Status: gfx.StatusTimeout},
		{Index: 1, Status: gfx.StatusOK},
	}
	dev.PresentResults = []gfx.SwapchainStatus{gfx.StatusSuboptimal}

	_, status, err := sync.Acquire(bundle.Swapchain())
	require.NoError(t, err)
	require.Equal(t, gfx.StatusOutOfDate, status)
	require.Equal(t, FrameStale, sync.State())

	sync.Reset()
	_, status, err = sync.Acquire(bundle.Swapchain())
	require.NoError(t, err)
	require.Equal(t, gfx.StatusTimeout, status)
	require.Equal(t, FrameIdle, sync.State())

	imageIndex, _, err := sync.Acquire(bundle.Swapchain())
	require.NoError(t, err)
	require.Equal(t, 1, imageIndex)
	require.NoError(t, sync.WaitInFlight())
	require.NoError(t, sync.Submit(bundle.CommandBuffers()[imageIndex]))

	status, err = sync.Present(bundle.Swapchain())
	require.NoError(t, err)
	require.Equal(t, gfx.StatusSuboptimal, status)
	require.Equal(t, FrameStale, sync.State())
	require.Equal(t, 1, dev.Presents[0].ImageIndex)
	require.Empty(t, dev.Errors())
}

func TestFrameSynchronizerAcquireError(t *testing.T) {
	dev := gfxtest.NewDevice()
	sync, err := NewFrameSynchronizer(dev, 0)
	require.NoError(t, err)
	defer sync.Destroy()

	dev.FailOn("AcquireNextImage", errors.New("device lost"))
	_, _, err = sync.Acquire(1)
	require.ErrorContains(t, err, "device lost")
	require.Equal(t, FrameIdle, sync.State())
}

func TestNewFrameSynchronizerFailure(t *testing.T) {
	for _, op := range []string{"CreateSemaphore", "CreateFence"} {
		t.Run(op, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.FailOn(op, errors.New("out of memory"))
			_, err := NewFrameSynchronizer(dev, 0)
			require.Error(t, err)
			requireClean(t, dev)
		})
	}
}
