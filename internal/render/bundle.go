package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/assets"
	"github.com/vkngwrapper/presenter/internal/gfx"
)

type depthAttachment struct {
	image  gfx.Image
	memory gfx.Memory
	view   gfx.ImageView
}

// SwapchainBundle is the swapchain together with everything whose count or size follows it.
// Entry i of every per-image slice belongs to swapchain image i: command buffer i renders into
// framebuffer i, which wraps image view i. A bundle is built and destroyed as a whole.
type SwapchainBundle struct {
	dev  gfx.Device
	pool *ResourcePool

	swapchain gfx.Swapchain
	format    gfx.SurfaceFormat
	extent    gfx.Extent

	images         []gfx.Image
	views          []gfx.ImageView
	renderPass     gfx.RenderPass
	pipeline       gfx.Pipeline
	depth          depthAttachment
	framebuffers   []gfx.Framebuffer
	commandBuffers []gfx.CommandBuffer

	released bool
}

// BuildSwapchainBundle creates a swapchain for the requested extent, clamped to what the
// surface allows, and everything that renders into it. previous may be zero; when it is not,
// the driver may recycle it, and the caller still destroys it afterwards. When the clamped
// extent is zero nothing is created and the error is ErrZeroExtent.
func BuildSwapchainBundle(dev gfx.Device, pool *ResourcePool, previous gfx.Swapchain, requested gfx.Extent) (*SwapchainBundle, error) {
	caps, err := dev.SurfaceCapabilities()
	if err != nil {
		return nil, errors.Wrap(err, "query surface capabilities")
	}

	formats, err := dev.SurfaceFormats()
	if err != nil {
		return nil, errors.Wrap(err, "query surface formats")
	}
	surfaceFormat, err := chooseSurfaceFormat(formats)
	if err != nil {
		return nil, err
	}

	modes, err := dev.SurfacePresentModes()
	if err != nil {
		return nil, errors.Wrap(err, "query present modes")
	}

	b := &SwapchainBundle{
		dev:    dev,
		pool:   pool,
		format: surfaceFormat,
		extent: chooseExtent(caps, requested),
	}
	if b.extent.IsZero() {
		return nil, errors.Wrapf(ErrZeroExtent, "requested %s, surface allows %s to %s",
			requested, caps.MinImageExtent, caps.MaxImageExtent)
	}

	b.swapchain, err = dev.CreateSwapchain(gfx.SwapchainInfo{
		Previous:      previous,
		MinImageCount: chooseImageCount(caps),
		Format:        surfaceFormat,
		Extent:        b.extent,
		PresentMode:   choosePresentMode(modes),
		Transform:     caps.CurrentTransform,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create swapchain")
	}

	if err = b.build(); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func chooseImageCount(caps gfx.SurfaceCapabilities) int {
	count := max(caps.MinImageCount, 2)
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func chooseSurfaceFormat(formats []gfx.SurfaceFormat) (gfx.SurfaceFormat, error) {
	if len(formats) == 0 {
		return gfx.SurfaceFormat{}, errors.New("surface reports no formats")
	}
	// A lone undefined entry means the surface takes any format.
	if len(formats) == 1 && formats[0].Format == gfx.FormatUndefined {
		return gfx.SurfaceFormat{Format: gfx.FormatB8G8R8A8SRGB, ColorSpace: gfx.ColorSpaceSRGBNonlinear}, nil
	}
	return formats[0], nil
}

// choosePresentMode always answers FIFO, the one mode every driver must support.
func choosePresentMode([]gfx.PresentMode) gfx.PresentMode {
	return gfx.PresentModeFIFO
}

func chooseExtent(caps gfx.SurfaceCapabilities, requested gfx.Extent) gfx.Extent {
	return requested.Clamp(caps.MinImageExtent, caps.MaxImageExtent)
}

func (b *SwapchainBundle) build() error {
	var err error

	b.images, err = b.dev.SwapchainImages(b.swapchain)
	if err != nil {
		return errors.Wrap(err, "get swapchain images")
	}
	if len(b.images) == 0 {
		return errors.New("swapchain has no images")
	}

	if err = b.createImageViews(); err != nil {
		return err
	}

	b.renderPass, err = b.dev.CreateRenderPass(gfx.RenderPassInfo{
		ColorFormat: b.format.Format,
		DepthFormat: b.pool.depthFormat,
	})
	if err != nil {
		return errors.Wrap(err, "create render pass")
	}

	b.pipeline, err = b.dev.CreateGraphicsPipeline(gfx.PipelineInfo{
		RenderPass:     b.renderPass,
		Layout:         b.pool.pipelineLayout,
		Cache:          b.pool.pipelineCache,
		VertexShader:   b.pool.vertexShader,
		FragmentShader: b.pool.fragmentShader,
		VertexStride:   assets.VertexStride(),
		Attributes:     assets.VertexAttributes(),
	})
	if err != nil {
		return errors.Wrap(err, "create graphics pipeline")
	}

	if err = b.createDepthResources(); err != nil {
		return err
	}

	if err = b.createFramebuffers(); err != nil {
		return err
	}

	return b.createCommandBuffers()
}

func (b *SwapchainBundle) createImageViews() error {
	for _, image := range b.images {
		view, err := b.dev.CreateImageView(image, b.format.Format, gfx.AspectColor)
		if err != nil {
			return errors.Wrap(err, "create swapchain image view")
		}
		b.views = append(b.views, view)
	}
	return nil
}

func (b *SwapchainBundle) createDepthResources() error {
	format := b.pool.depthFormat

	var err error
	b.depth.image, b.depth.memory, err = b.dev.CreateImage(gfx.ImageInfo{
		Extent: b.extent,
		Format: format,
		Usage:  gfx.ImageUsageDepthStencilAttachment,
	})
	if err != nil {
		return errors.Wrap(err, "create depth image")
	}

	aspect := gfx.AspectDepth
	if format.HasStencil() {
		aspect |= gfx.AspectStencil
	}
	b.depth.view, err = b.dev.CreateImageView(b.depth.image, format, aspect)
	return errors.Wrap(err, "create depth image view")
}

func (b *SwapchainBundle) createFramebuffers() error {
	for _, view := range b.views {
		framebuffer, err := b.dev.CreateFramebuffer(gfx.FramebufferInfo{
			RenderPass:  b.renderPass,
			Attachments: []gfx.ImageView{view, b.depth.view},
			Extent:      b.extent,
		})
		if err != nil {
			return errors.Wrap(err, "create framebuffer")
		}
		b.framebuffers = append(b.framebuffers, framebuffer)
	}
	return nil
}

func (b *SwapchainBundle) createCommandBuffers() error {
	buffers, err := b.dev.AllocateCommandBuffers(b.pool.commandPool, len(b.framebuffers))
	if err != nil {
		return errors.Wrap(err, "allocate command buffers")
	}
	b.commandBuffers = buffers

	for bufferIdx, buffer := range buffers {
		err = b.dev.RecordDraw(buffer, gfx.DrawRecording{
			RenderPass:     b.renderPass,
			Framebuffer:    b.framebuffers[bufferIdx],
			Extent:         b.extent,
			ClearColor:     b.pool.clearColor,
			Pipeline:       b.pipeline,
			PipelineLayout: b.pool.pipelineLayout,
			DescriptorSet:  b.pool.descriptorSet,
			VertexBuffer:   b.pool.vertices.buffer,
			IndexBuffer:    b.pool.indices.buffer,
			IndexCount:     b.pool.indexCount,
		})
		if err != nil {
			return errors.Wrapf(err, "record command buffer %d", bufferIdx)
		}
	}
	return nil
}

func (b *SwapchainBundle) Swapchain() gfx.Swapchain     { return b.swapchain }
func (b *SwapchainBundle) ImageCount() int              { return len(b.images) }
func (b *SwapchainBundle) Extent() gfx.Extent           { return b.extent }
func (b *SwapchainBundle) Format() gfx.SurfaceFormat    { return b.format }
func (b *SwapchainBundle) DepthFormat() gfx.Format      { return b.pool.depthFormat }
func (b *SwapchainBundle) RenderPass() gfx.RenderPass   { return b.renderPass }
func (b *SwapchainBundle) Pipeline() gfx.Pipeline       { return b.pipeline }
func (b *SwapchainBundle) ImageViews() []gfx.ImageView  { return b.views }
func (b *SwapchainBundle) Framebuffers() []gfx.Framebuffer {
	return b.framebuffers
}
func (b *SwapchainBundle) CommandBuffers() []gfx.CommandBuffer {
	return b.commandBuffers
}

func (b *SwapchainBundle) CommandBuffer(imageIndex int) (gfx.CommandBuffer, error) {
	if imageIndex < 0 || imageIndex >= len(b.commandBuffers) {
		return 0, errors.Newf("image index %d out of range for %d swapchain images", imageIndex, len(b.commandBuffers))
	}
	return b.commandBuffers[imageIndex], nil
}

// retire releases everything except the swapchain itself and hands the swapchain back, so it
// can be passed to the next build as the previous swapchain. The GPU must be idle.
func (b *SwapchainBundle) retire() gfx.Swapchain {
	if b.released {
		return 0
	}
	b.released = true

	for _, framebuffer := range b.framebuffers {
		b.dev.DestroyFramebuffer(framebuffer)
	}
	b.framebuffers = nil

	if len(b.commandBuffers) > 0 {
		b.dev.FreeCommandBuffers(b.pool.commandPool, b.commandBuffers)
		b.commandBuffers = nil
	}

	b.dev.DestroyPipeline(b.pipeline)
	b.dev.DestroyRenderPass(b.renderPass)

	for _, view := range b.views {
		b.dev.DestroyImageView(view)
	}
	b.views = nil

	b.dev.DestroyImageView(b.depth.view)
	b.dev.DestroyImage(b.depth.image)
	b.dev.FreeMemory(b.depth.memory)
	b.depth = depthAttachment{}

	swapchain := b.swapchain
	b.swapchain = 0
	return swapchain
}

// Destroy releases the whole bundle. The GPU must be idle.
func (b *SwapchainBundle) Destroy() {
	b.dev.DestroySwapchain(b.retire())
}
