package gfx

import "time"

// Surface answers questions about the single surface the device presents to.
type Surface interface {
	SurfaceCapabilities() (SurfaceCapabilities, error)
	SurfaceFormats() ([]SurfaceFormat, error)
	SurfacePresentModes() ([]PresentMode, error)
}

// Swapchains creates, enumerates and drives swapchains on the device's surface.
type Swapchains interface {
	CreateSwapchain(info SwapchainInfo) (Swapchain, error)
	// SwapchainImages returns the images the driver actually created, which may be more than
	// SwapchainInfo.MinImageCount asked for.
	SwapchainImages(swapchain Swapchain) ([]Image, error)
	DestroySwapchain(swapchain Swapchain)

	AcquireNextImage(swapchain Swapchain, timeout time.Duration, signal Semaphore) (int, SwapchainStatus, error)
	QueuePresent(info PresentInfo) (SwapchainStatus, error)
}

// Resources creates and destroys device objects. Destroying a zero handle is a no-op.
type Resources interface {
	// DepthFormat picks the first depth format usable as an optimal-tiling attachment.
	DepthFormat() (Format, error)

	// CreateImage and CreateBuffer bind fresh memory to the new object. On error nothing is
	// left allocated.
	CreateImage(info ImageInfo) (Image, Memory, error)
	DestroyImage(image Image)
	CreateImageView(image Image, format Format, aspect ImageAspect) (ImageView, error)
	DestroyImageView(view ImageView)

	CreateBuffer(size int, usage BufferUsage, location MemoryLocation) (Buffer, Memory, error)
	DestroyBuffer(buffer Buffer)
	MapMemory(memory Memory, size int) ([]byte, error)
	UnmapMemory(memory Memory)
	FreeMemory(memory Memory)

	CreateSampler(info SamplerInfo) (Sampler, error)
	DestroySampler(sampler Sampler)

	CreateShaderModule(code []uint32) (ShaderModule, error)
	DestroyShaderModule(module ShaderModule)

	CreateDescriptorSetLayout() (DescriptorSetLayout, error)
	DestroyDescriptorSetLayout(layout DescriptorSetLayout)
	CreateDescriptorPool(maxSets int) (DescriptorPool, error)
	DestroyDescriptorPool(pool DescriptorPool)
	AllocateDescriptorSet(pool DescriptorPool, layout DescriptorSetLayout) (DescriptorSet, error)
	UpdateDescriptorSet(write DescriptorSetWrite) error

	CreatePipelineLayout(layout DescriptorSetLayout) (PipelineLayout, error)
	DestroyPipelineLayout(layout PipelineLayout)
	// CreatePipelineCache seeds the cache with data when its header matches the device and
	// starts empty otherwise.
	CreatePipelineCache(data []byte) (PipelineCache, error)
	PipelineCacheData(cache PipelineCache) ([]byte, error)
	DestroyPipelineCache(cache PipelineCache)

	CreateRenderPass(info RenderPassInfo) (RenderPass, error)
	DestroyRenderPass(renderPass RenderPass)
	CreateGraphicsPipeline(info PipelineInfo) (Pipeline, error)
	DestroyPipeline(pipeline Pipeline)
	CreateFramebuffer(info FramebufferInfo) (Framebuffer, error)
	DestroyFramebuffer(framebuffer Framebuffer)

	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(semaphore Semaphore)
	CreateFence(signaled bool) (Fence, error)
	WaitForFence(fence Fence, timeout time.Duration) error
	ResetFence(fence Fence) error
	DestroyFence(fence Fence)
}

// Commands records and submits work on the device's single graphics+present queue.
type Commands interface {
	// CreateCommandPool creates a pool on the queue family that supports both graphics
	// and presentation.
	CreateCommandPool() (CommandPool, error)
	DestroyCommandPool(pool CommandPool)
	AllocateCommandBuffers(pool CommandPool, count int) ([]CommandBuffer, error)
	FreeCommandBuffers(pool CommandPool, buffers []CommandBuffer)
	RecordDraw(buffer CommandBuffer, rec DrawRecording) error

	// CopyBuffer and CopyBufferToImage record a one-time command buffer, submit it and wait
	// for the queue to drain before returning. CopyBufferToImage leaves the image ready for
	// shader reads.
	CopyBuffer(pool CommandPool, src, dst Buffer, size int) error
	CopyBufferToImage(pool CommandPool, src Buffer, dst Image, extent Extent) error

	QueueSubmit(info SubmitInfo) error
	QueueWaitIdle() error
	WaitIdle() error
}

// Device is the device context: one logical device, one queue and one surface. It is owned
// by the caller; the engine only creates and destroys objects through it.
type Device interface {
	Surface
	Swapchains
	Resources
	Commands
}
