package render

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/assets"
	"github.com/vkngwrapper/presenter/internal/gfx"
)

// Surface is what the presenter needs from the window: the size it should render at now.
// A minimized window reports a zero extent.
type Surface interface {
	CurrentExtent() gfx.Extent
}

type Config struct {
	AppName string
	Assets  *assets.Assets

	ClearColor [4]float32
	// AcquireTimeout bounds the wait for a swapchain image. Zero waits forever.
	AcquireTimeout time.Duration
	// PipelineCachePath is read when the presenter is created and written when it is closed.
	// Empty disables the file.
	PipelineCachePath string

	// Uniforms defaults to the spinning box scene.
	Uniforms UniformSource
}

type State int

const (
	// StateReady means the swapchain bundle matches the surface and frames can be drawn.
	StateReady State = iota
	// StateStale means the bundle must be rebuilt before the next frame. There may be no
	// bundle at all when the surface had a zero extent at the last attempt.
	StateStale
	// StateFailed means a rebuild failed and there is no bundle.
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// FrameResult is what one DrawFrame call did.
type FrameResult int

const (
	// ResultPresented means an image was submitted and presented. The presenter may still
	// have become stale if the driver reported the swapchain as suboptimal.
	ResultPresented FrameResult = iota
	// ResultStale means the swapchain was out of date and nothing was submitted.
	ResultStale
	// ResultRebuilt means the call rebuilt the swapchain bundle instead of drawing.
	ResultRebuilt
	// ResultSkipped means no frame could be drawn: the surface has a zero extent or the
	// acquire timed out.
	ResultSkipped
)

func (r FrameResult) String() string {
	switch r {
	case ResultPresented:
		return "presented"
	case ResultStale:
		return "stale"
	case ResultRebuilt:
		return "rebuilt"
	case ResultSkipped:
		return "skipped"
	}
	return fmt.Sprintf("FrameResult(%d)", int(r))
}

// Presenter owns the resource pool, the current swapchain bundle and the frame synchronizer,
// and draws one frame per DrawFrame call. It is not safe for concurrent use.
type Presenter struct {
	dev      gfx.Device
	surface  Surface
	cfg      Config
	uniforms UniformSource

	pool   *ResourcePool
	sync   *FrameSynchronizer
	bundle *SwapchainBundle
	state  State
}

// New builds the resource pool, the synchronization objects and the first swapchain bundle.
// When the surface starts with a zero extent the presenter starts stale and builds the bundle
// on the first frame the surface has a size.
func New(dev gfx.Device, surface Surface, cfg Config) (*Presenter, error) {
	p := &Presenter{
		dev:      dev,
		surface:  surface,
		cfg:      cfg,
		uniforms: cfg.Uniforms,
		state:    StateStale,
	}
	if p.uniforms == nil {
		p.uniforms = NewSceneUniforms(nil)
	}

	var err error
	p.pool, err = BuildResourcePool(dev, cfg.Assets, PoolOptions{
		ClearColor: cfg.ClearColor,
		CacheSeed:  readPipelineCache(cfg.PipelineCachePath),
	})
	if err != nil {
		return nil, err
	}

	p.sync, err = NewFrameSynchronizer(dev, cfg.AcquireTimeout)
	if err != nil {
		p.pool.Destroy()
		return nil, err
	}

	if err = p.Recreate(); err != nil {
		p.sync.Destroy()
		p.pool.Destroy()
		return nil, err
	}

	logger().Info("presenter ready", "app", cfg.AppName, "state", p.state)
	return p, nil
}

func (p *Presenter) State() State                     { return p.state }
func (p *Presenter) Pool() *ResourcePool              { return p.pool }
func (p *Presenter) Synchronizer() *FrameSynchronizer { return p.sync }

// Bundle returns the current swapchain bundle, or nil when there is none.
func (p *Presenter) Bundle() *SwapchainBundle { return p.bundle }

// NotifyResize marks the swapchain stale so the next DrawFrame rebuilds it.
func (p *Presenter) NotifyResize() {
	if p.state == StateReady {
		p.state = StateStale
	}
}

// DrawFrame draws and presents one frame, or rebuilds the swapchain bundle when it is stale.
// A stale swapchain is reported through the result, never as an error; any error is fatal.
func (p *Presenter) DrawFrame() (FrameResult, error) {
	switch p.state {
	case StateClosed:
		return ResultSkipped, ErrClosed
	case StateFailed:
		return ResultSkipped, ErrNoSwapchain
	case StateStale:
		if p.surface.CurrentExtent().IsZero() {
			return ResultSkipped, nil
		}
		if err := p.Recreate(); err != nil {
			return ResultSkipped, err
		}
		if p.state != StateReady {
			return ResultSkipped, nil
		}
		return ResultRebuilt, nil
	}

	swapchain := p.bundle.Swapchain()

	imageIndex, acquired, err := p.sync.Acquire(swapchain)
	if err != nil {
		return ResultSkipped, err
	}
	switch acquired {
	case gfx.StatusOutOfDate:
		logger().Debug("swapchain out of date on acquire")
		p.state = StateStale
		return ResultStale, nil
	case gfx.StatusTimeout:
		logger().Debug("acquire timed out", "timeout", p.cfg.AcquireTimeout)
		return ResultSkipped, nil
	}

	commandBuffer, err := p.bundle.CommandBuffer(imageIndex)
	if err != nil {
		return ResultSkipped, err
	}

	if err = p.sync.WaitInFlight(); err != nil {
		return ResultSkipped, err
	}

	p.pool.WriteUniforms(p.uniforms.Uniforms(p.bundle.Extent()))

	if err = p.sync.Submit(commandBuffer); err != nil {
		return ResultSkipped, err
	}

	presented, err := p.sync.Present(swapchain)
	if err != nil {
		return ResultSkipped, err
	}

	if acquired.Stale() || presented.Stale() {
		logger().Debug("swapchain stale", "acquire", acquired, "present", presented)
		p.state = StateStale
	}
	if presented == gfx.StatusOutOfDate {
		return ResultStale, nil
	}
	return ResultPresented, nil
}

// Recreate waits for the device to go idle and replaces the swapchain bundle with one built
// at the surface's current extent. The resource pool is left untouched. When the window or
// the surface's allowed image extent is zero the rebuild is deferred, the current bundle is
// kept, and the presenter stays stale.
func (p *Presenter) Recreate() error {
	if p.state == StateClosed {
		return ErrClosed
	}

	extent := p.surface.CurrentExtent()
	if extent.IsZero() {
		logger().Debug("surface has no area, deferring swapchain rebuild", "extent", extent)
		p.state = StateStale
		return nil
	}

	caps, err := p.dev.SurfaceCapabilities()
	if err != nil {
		return errors.Wrap(err, "query surface capabilities")
	}
	if allowed := chooseExtent(caps, extent); allowed.IsZero() {
		logger().Debug("surface allows no area, deferring swapchain rebuild",
			"extent", extent, "max", caps.MaxImageExtent)
		p.state = StateStale
		return nil
	}

	if err := p.dev.WaitIdle(); err != nil {
		return errors.Wrap(err, "wait for device idle")
	}

	rebuilding := p.bundle != nil
	var previous gfx.Swapchain
	if rebuilding {
		previous = p.bundle.retire()
		p.bundle = nil
	}

	bundle, err := BuildSwapchainBundle(p.dev, p.pool, previous, extent)
	p.dev.DestroySwapchain(previous)
	if errors.Is(err, ErrZeroExtent) {
		// The surface shrank to nothing between the query above and the build.
		p.state = StateStale
		return nil
	}
	if err != nil {
		p.state = StateFailed
		return errors.Wrap(err, "build swapchain bundle")
	}

	p.bundle = bundle
	p.sync.Reset()
	p.state = StateReady

	msg := "swapchain built"
	if rebuilding {
		msg = "swapchain rebuilt"
	}
	logger().Info(msg,
		"images", bundle.ImageCount(),
		"format", bundle.Format().Format,
		"extent", bundle.Extent(),
		"requested", extent,
	)
	return nil
}

// Close waits for the device, saves the pipeline cache and releases everything the presenter
// created. Closing twice is a no-op.
func (p *Presenter) Close() error {
	if p.state == StateClosed {
		return nil
	}
	p.state = StateClosed

	err := errors.Wrap(p.dev.WaitIdle(), "wait for device idle")
	err = errors.CombineErrors(err, p.savePipelineCache())

	if p.bundle != nil {
		p.bundle.Destroy()
		p.bundle = nil
	}
	p.sync.Destroy()
	p.pool.Destroy()

	return err
}

func readPipelineCache(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger().Warn("ignoring unreadable pipeline cache", "path", path, "error", err)
		}
		return nil
	}
	return data
}

func (p *Presenter) savePipelineCache() error {
	if p.cfg.PipelineCachePath == "" {
		return nil
	}
	data, err := p.pool.PipelineCacheData()
	if err != nil {
		return errors.Wrap(err, "read pipeline cache")
	}
	if len(data) == 0 {
		return nil
	}
	if err = os.WriteFile(p.cfg.PipelineCachePath, data, 0o644); err != nil {
		return errors.Wrapf(err, "write pipeline cache %s", p.cfg.PipelineCachePath)
	}
	logger().Debug("pipeline cache saved", "path", p.cfg.PipelineCachePath, "bytes", len(data))
	return nil
}
