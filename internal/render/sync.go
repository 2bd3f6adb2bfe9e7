package render

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

// MaxFramesInFlight is the number of frames the CPU may record ahead of the GPU. With one
// semaphore pair and one fence it is 1: each frame waits for the previous one to finish before
// touching the uniform buffer.
const MaxFramesInFlight = 1

type FrameState int

const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameSubmitted
	FramePresenting
	FrameStale
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameSubmitted:
		return "submitted"
	case FramePresenting:
		return "presenting"
	case FrameStale:
		return "stale"
	}
	return fmt.Sprintf("FrameState(%d)", int(s))
}

// FrameSynchronizer drives the acquire, submit and present protocol for one frame at a time.
type FrameSynchronizer struct {
	dev     gfx.Device
	timeout time.Duration

	imageAvailable gfx.Semaphore
	renderFinished gfx.Semaphore
	inFlight       gfx.Fence

	state      FrameState
	imageIndex int
}

// NewFrameSynchronizer creates the semaphore pair and the in-flight fence. A timeout of zero or
// less waits for images forever.
func NewFrameSynchronizer(dev gfx.Device, timeout time.Duration) (*FrameSynchronizer, error) {
	if timeout <= 0 {
		timeout = gfx.NoTimeout
	}
	s := &FrameSynchronizer{dev: dev, timeout: timeout}

	var err error
	s.imageAvailable, err = dev.CreateSemaphore()
	if err != nil {
		return nil, errors.Wrap(err, "create image available semaphore")
	}

	s.renderFinished, err = dev.CreateSemaphore()
	if err != nil {
		s.Destroy()
		return nil, errors.Wrap(err, "create render finished semaphore")
	}

	// Signaled so the first frame does not wait on a submit that never happened.
	s.inFlight, err = dev.CreateFence(true)
	if err != nil {
		s.Destroy()
		return nil, errors.Wrap(err, "create in flight fence")
	}

	return s, nil
}

func (s *FrameSynchronizer) State() FrameState { return s.state }

// ImageIndex is the index of the most recently acquired image.
func (s *FrameSynchronizer) ImageIndex() int { return s.imageIndex }

// Acquire requests the next image of swapchain. An out-of-date result leaves the frame stale
// with nothing signaled, and a timeout returns the frame to idle; in both cases the caller must
// not submit. A suboptimal result still acquired an image and the frame may go on.
func (s *FrameSynchronizer) Acquire(swapchain gfx.Swapchain) (int, gfx.SwapchainStatus, error) {
	s.state = FrameAcquiring

	imageIndex, status, err := s.dev.AcquireNextImage(swapchain, s.timeout, s.imageAvailable)
	if err != nil {
		s.state = FrameIdle
		return 0, status, errors.Wrap(err, "acquire next image")
	}

	switch status {
	case gfx.StatusOutOfDate:
		s.state = FrameStale
		return 0, status, nil
	case gfx.StatusTimeout:
		s.state = FrameIdle
		return 0, status, nil
	}

	s.imageIndex = imageIndex
	return imageIndex, status, nil
}

// WaitInFlight blocks until the previous frame's submission has completed and rearms the fence
// for the next one. It is called between a successful acquire and the uniform write.
func (s *FrameSynchronizer) WaitInFlight() error {
	if err := s.dev.WaitForFence(s.inFlight, gfx.NoTimeout); err != nil {
		return errors.Wrap(err, "wait for in flight fence")
	}
	return errors.Wrap(s.dev.ResetFence(s.inFlight), "reset in flight fence")
}

// Submit executes commandBuffer once the acquired image is available and signals the render
// finished semaphore and the in-flight fence when it completes.
func (s *FrameSynchronizer) Submit(commandBuffer gfx.CommandBuffer) error {
	err := s.dev.QueueSubmit(gfx.SubmitInfo{
		Wait:          s.imageAvailable,
		CommandBuffer: commandBuffer,
		Signal:        s.renderFinished,
		Fence:         s.inFlight,
	})
	if err != nil {
		return errors.Wrap(err, "submit draw command buffer")
	}
	s.state = FrameSubmitted
	return nil
}

// Present queues the acquired image for display and waits for the queue to drain. A stale
// status leaves the frame stale; the image was still consumed.
func (s *FrameSynchronizer) Present(swapchain gfx.Swapchain) (gfx.SwapchainStatus, error) {
	s.state = FramePresenting

	status, err := s.dev.QueuePresent(gfx.PresentInfo{
		Swapchain:  swapchain,
		ImageIndex: s.imageIndex,
		Wait:       s.renderFinished,
	})
	if err != nil {
		return status, errors.Wrap(err, "present")
	}

	if err = s.dev.QueueWaitIdle(); err != nil {
		return status, errors.Wrap(err, "wait for queue idle")
	}

	if status.Stale() {
		s.state = FrameStale
	} else {
		s.state = FrameIdle
	}
	return status, nil
}

// Reset returns a stale frame to idle once the swapchain has been rebuilt.
func (s *FrameSynchronizer) Reset() {
	s.state = FrameIdle
}

func (s *FrameSynchronizer) Destroy() {
	s.dev.DestroyFence(s.inFlight)
	s.dev.DestroySemaphore(s.renderFinished)
	s.dev.DestroySemaphore(s.imageAvailable)
	s.inFlight, s.renderFinished, s.imageAvailable = 0, 0, 0
}
