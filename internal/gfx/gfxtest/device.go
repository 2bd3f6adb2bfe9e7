// Package gfxtest provides an in-memory gfx.Device for exercising the presentation engine
// without a GPU. It tracks every live handle so tests can assert on leaks, double frees and
// use of destroyed objects, and it checks the semaphore and fence protocol of each frame.
package gfxtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

var _ gfx.Device = (*Device)(nil)

// AcquireResult scripts one AcquireNextImage call.
type AcquireResult struct {
	Index  int
	Status gfx.SwapchainStatus
}

type swapchainState struct {
	info   gfx.SwapchainInfo
	images []gfx.Image
	next   int
}

type fenceState struct {
	signaled bool
}

// Device is a fake gfx.Device. Configure the exported fields before handing it to the engine.
type Device struct {
	Capabilities gfx.SurfaceCapabilities
	Formats      []gfx.SurfaceFormat
	PresentModes []gfx.PresentMode
	Depth        gfx.Format
	// ExtraImages is added to the requested image count when a swapchain is created,
	// the way drivers are allowed to.
	ExtraImages int

	// AcquireResults and PresentResults are consumed in order; once empty every acquire
	// succeeds round-robin and every present succeeds.
	AcquireResults []AcquireResult
	PresentResults []gfx.SwapchainStatus

	Calls          map[string]int
	SwapchainInfos []gfx.SwapchainInfo
	Submits        []gfx.SubmitInfo
	Presents       []gfx.PresentInfo
	CacheSeeds     [][]byte
	CacheData      []byte

	next        uint64
	live        map[uint64]string
	failures    map[string]error
	errs        []error
	swapchains  map[gfx.Swapchain]*swapchainState
	fences      map[gfx.Fence]*fenceState
	pending     map[gfx.Semaphore]bool
	passes      map[gfx.RenderPass]gfx.RenderPassInfo
	pipelines   map[gfx.Pipeline]gfx.PipelineInfo
	framebuffer map[gfx.Framebuffer]gfx.FramebufferInfo
	recordings  map[gfx.CommandBuffer]gfx.DrawRecording
	images      map[gfx.Image]gfx.ImageInfo
	memory      map[gfx.Memory][]byte
	hostVisible map[gfx.Memory]bool
	mapped      map[gfx.Memory]bool
	bufferMem   map[gfx.Buffer]gfx.Memory
	sets        map[gfx.DescriptorSet]gfx.DescriptorSetWrite
}

// NewDevice returns a device whose surface reports min 2 images, no max, an undefined current
// extent, a 1x1 to 4096x4096 extent range, one BGRA sRGB format and FIFO presentation.
func NewDevice() *Device {
	return &Device{
		Capabilities: gfx.SurfaceCapabilities{
			MinImageCount:  2,
			CurrentExtent:  gfx.UndefinedExtent,
			MinImageExtent: gfx.Extent{Width: 1, Height: 1},
			MaxImageExtent: gfx.Extent{Width: 4096, Height: 4096},
		},
		Formats: []gfx.SurfaceFormat{
			{Format: gfx.FormatB8G8R8A8SRGB, ColorSpace: gfx.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []gfx.PresentMode{gfx.PresentModeFIFO, gfx.PresentModeMailbox},
		Depth:        gfx.FormatD32SFloat,

		Calls:       map[string]int{},
		live:        map[uint64]string{},
		failures:    map[string]error{},
		swapchains:  map[gfx.Swapchain]*swapchainState{},
		fences:      map[gfx.Fence]*fenceState{},
		pending:     map[gfx.Semaphore]bool{},
		passes:      map[gfx.RenderPass]gfx.RenderPassInfo{},
		pipelines:   map[gfx.Pipeline]gfx.PipelineInfo{},
		framebuffer: map[gfx.Framebuffer]gfx.FramebufferInfo{},
		recordings:  map[gfx.CommandBuffer]gfx.DrawRecording{},
		images:      map[gfx.Image]gfx.ImageInfo{},
		memory:      map[gfx.Memory][]byte{},
		hostVisible: map[gfx.Memory]bool{},
		mapped:      map[gfx.Memory]bool{},
		bufferMem:   map[gfx.Buffer]gfx.Memory{},
		sets:        map[gfx.DescriptorSet]gfx.DescriptorSetWrite{},
	}
}

// FailOn makes the named operation return err from now on.
func (d *Device) FailOn(op string, err error) {
	d.failures[op] = err
}

// Errors lists every protocol violation seen so far.
func (d *Device) Errors() []error {
	return d.errs
}

// Leaks lists every handle that was created and not destroyed.
func (d *Device) Leaks() []string {
	var leaks []string
	for h, kind := range d.live {
		leaks = append(leaks, fmt.Sprintf("%s#%d", kind, h))
	}
	sort.Strings(leaks)
	return leaks
}

func (d *Device) LiveCount(kind string) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

func (d *Device) Framebuffer(fb gfx.Framebuffer) gfx.FramebufferInfo {
	return d.framebuffer[fb]
}

func (d *Device) RenderPass(rp gfx.RenderPass) gfx.RenderPassInfo {
	return d.passes[rp]
}

func (d *Device) Pipeline(p gfx.Pipeline) gfx.PipelineInfo {
	return d.pipelines[p]
}

func (d *Device) Recording(cb gfx.CommandBuffer) gfx.DrawRecording {
	return d.recordings[cb]
}

func (d *Device) Image(img gfx.Image) gfx.ImageInfo {
	return d.images[img]
}

func (d *Device) DescriptorWrite(set gfx.DescriptorSet) gfx.DescriptorSetWrite {
	return d.sets[set]
}

// BufferContents returns the bytes currently backing buffer.
func (d *Device) BufferContents(buffer gfx.Buffer) []byte {
	return d.memory[d.bufferMem[buffer]]
}

func (d *Device) IsLive(handle uint64) bool {
	_, ok := d.live[handle]
	return ok
}

func (d *Device) call(op string) error {
	d.Calls[op]++
	if err, ok := d.failures[op]; ok {
		return errors.Wrap(err, op)
	}
	return nil
}

func (d *Device) violation(format string, args ...any) {
	d.errs = append(d.errs, errors.Newf(format, args...))
}

func (d *Device) alloc(kind string) uint64 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) release(handle uint64, kind string) bool {
	if handle == 0 {
		return false
	}
	got, ok := d.live[handle]
	if !ok {
		d.violation("destroy %s#%d: not live (double free?)", kind, handle)
		return false
	}
	if got != kind {
		d.violation("destroy %s#%d: handle is a %s", kind, handle, got)
		return false
	}
	delete(d.live, handle)
	return true
}

func (d *Device) use(handle uint64, kind, op string) {
	if got, ok := d.live[handle]; !ok || got != kind {
		d.violation("%s: %s#%d is not live", op, kind, handle)
	}
}

func (d *Device) SurfaceCapabilities() (gfx.SurfaceCapabilities, error) {
	return d.Capabilities, d.call("SurfaceCapabilities")
}

func (d *Device) SurfaceFormats() ([]gfx.SurfaceFormat, error) {
	return d.Formats, d.call("SurfaceFormats")
}

func (d *Device) SurfacePresentModes() ([]gfx.PresentMode, error) {
	return d.PresentModes, d.call("SurfacePresentModes")
}

func (d *Device) DepthFormat() (gfx.Format, error) {
	return d.Depth, d.call("DepthFormat")
}

func (d *Device) CreateSwapchain(info gfx.SwapchainInfo) (gfx.Swapchain, error) {
	if err := d.call("CreateSwapchain"); err != nil {
		return 0, err
	}
	if info.Previous != 0 {
		d.use(uint64(info.Previous), "swapchain", "CreateSwapchain")
	}
	caps := d.Capabilities
	if info.MinImageCount < caps.MinImageCount {
		d.violation("CreateSwapchain: %d images below surface minimum %d", info.MinImageCount, caps.MinImageCount)
	}
	if info.Extent.Width < caps.MinImageExtent.Width || info.Extent.Width > caps.MaxImageExtent.Width ||
		info.Extent.Height < caps.MinImageExtent.Height || info.Extent.Height > caps.MaxImageExtent.Height {
		d.violation("CreateSwapchain: extent %s outside surface range", info.Extent)
	}

	d.SwapchainInfos = append(d.SwapchainInfos, info)
	sc := gfx.Swapchain(d.alloc("swapchain"))
	state := &swapchainState{info: info}
	for i := 0; i < info.MinImageCount+d.ExtraImages; i++ {
		d.next++
		img := gfx.Image(d.next)
		d.images[img] = gfx.ImageInfo{Extent: info.Extent, Format: info.Format.Format, Usage: gfx.ImageUsageColorAttachment}
		state.images = append(state.images, img)
	}
	d.swapchains[sc] = state
	return sc, nil
}

func (d *Device) SwapchainImages(swapchain gfx.Swapchain) ([]gfx.Image, error) {
	if err := d.call("SwapchainImages"); err != nil {
		return nil, err
	}
	state, ok := d.swapchains[swapchain]
	if !ok {
		return nil, errors.Newf("unknown swapchain %d", swapchain)
	}
	return append([]gfx.Image(nil), state.images...), nil
}

func (d *Device) DestroySwapchain(swapchain gfx.Swapchain) {
	d.Calls["DestroySwapchain"]++
	if d.release(uint64(swapchain), "swapchain") {
		delete(d.swapchains, swapchain)
	}
}

func (d *Device) AcquireNextImage(swapchain gfx.Swapchain, _ time.Duration, signal gfx.Semaphore) (int, gfx.SwapchainStatus, error) {
	if err := d.call("AcquireNextImage"); err != nil {
		return 0, gfx.StatusOK, err
	}
	d.use(uint64(signal), "semaphore", "AcquireNextImage")
	state, ok := d.swapchains[swapchain]
	if !ok {
		return 0, gfx.StatusOK, errors.Newf("acquire on unknown swapchain %d", swapchain)
	}

	result := AcquireResult{Index: state.next % len(state.images)}
	if len(d.AcquireResults) > 0 {
		result = d.AcquireResults[0]
		d.AcquireResults = d.AcquireResults[1:]
	} else {
		state.next++
	}

	if result.Status == gfx.StatusOutOfDate || result.Status == gfx.StatusTimeout {
		return 0, result.Status, nil
	}
	if d.pending[signal] {
		d.violation("AcquireNextImage: semaphore#%d already has a pending signal", signal)
	}
	d.pending[signal] = true
	return result.Index, result.Status, nil
}

func (d *Device) QueuePresent(info gfx.PresentInfo) (gfx.SwapchainStatus, error) {
	if err := d.call("QueuePresent"); err != nil {
		return gfx.StatusOK, err
	}
	d.use(uint64(info.Swapchain), "swapchain", "QueuePresent")
	if !d.pending[info.Wait] {
		d.violation("QueuePresent: waits on semaphore#%d that nothing signaled", info.Wait)
	}
	d.pending[info.Wait] = false
	d.Presents = append(d.Presents, info)

	if len(d.PresentResults) > 0 {
		status := d.PresentResults[0]
		d.PresentResults = d.PresentResults[1:]
		return status, nil
	}
	return gfx.StatusOK, nil
}

func (d *Device) CreateImage(info gfx.ImageInfo) (gfx.Image, gfx.Memory, error) {
	if err := d.call("CreateImage"); err != nil {
		return 0, 0, err
	}
	img := gfx.Image(d.alloc("image"))
	d.images[img] = info
	mem := gfx.Memory(d.alloc("memory"))
	return img, mem, nil
}

func (d *Device) DestroyImage(image gfx.Image) {
	d.Calls["DestroyImage"]++
	d.release(uint64(image), "image")
}

func (d *Device) CreateImageView(image gfx.Image, _ gfx.Format, _ gfx.ImageAspect) (gfx.ImageView, error) {
	if err := d.call("CreateImageView"); err != nil {
		return 0, err
	}
	if _, ok := d.images[image]; !ok {
		d.violation("CreateImageView: unknown image#%d", image)
	}
	return gfx.ImageView(d.alloc("image view")), nil
}

func (d *Device) DestroyImageView(view gfx.ImageView) {
	d.Calls["DestroyImageView"]++
	d.release(uint64(view), "image view")
}

func (d *Device) CreateBuffer(size int, _ gfx.BufferUsage, location gfx.MemoryLocation) (gfx.Buffer, gfx.Memory, error) {
	if err := d.call("CreateBuffer"); err != nil {
		return 0, 0, err
	}
	buf := gfx.Buffer(d.alloc("buffer"))
	mem := gfx.Memory(d.alloc("memory"))
	d.memory[mem] = make([]byte, size)
	d.hostVisible[mem] = location == gfx.MemoryHostVisible
	d.bufferMem[buf] = mem
	return buf, mem, nil
}

func (d *Device) DestroyBuffer(buffer gfx.Buffer) {
	d.Calls["DestroyBuffer"]++
	d.release(uint64(buffer), "buffer")
}

func (d *Device) MapMemory(memory gfx.Memory, size int) ([]byte, error) {
	if err := d.call("MapMemory"); err != nil {
		return nil, err
	}
	d.use(uint64(memory), "memory", "MapMemory")
	if !d.hostVisible[memory] {
		return nil, errors.Newf("memory#%d is not host visible", memory)
	}
	if d.mapped[memory] {
		d.violation("MapMemory: memory#%d is already mapped", memory)
	}
	d.mapped[memory] = true
	return d.memory[memory][:size], nil
}

func (d *Device) UnmapMemory(memory gfx.Memory) {
	d.Calls["UnmapMemory"]++
	if !d.mapped[memory] {
		d.violation("UnmapMemory: memory#%d is not mapped", memory)
	}
	d.mapped[memory] = false
}

func (d *Device) FreeMemory(memory gfx.Memory) {
	d.Calls["FreeMemory"]++
	if d.mapped[memory] {
		d.violation("FreeMemory: memory#%d is still mapped", memory)
	}
	d.release(uint64(memory), "memory")
}

func (d *Device) CreateSampler(gfx.SamplerInfo) (gfx.Sampler, error) {
	if err := d.call("CreateSampler"); err != nil {
		return 0, err
	}
	return gfx.Sampler(d.alloc("sampler")), nil
}

func (d *Device) DestroySampler(sampler gfx.Sampler) {
	d.Calls["DestroySampler"]++
	d.release(uint64(sampler), "sampler")
}

func (d *Device) CreateShaderModule(code []uint32) (gfx.ShaderModule, error) {
	if err := d.call("CreateShaderModule"); err != nil {
		return 0, err
	}
	if len(code) == 0 {
		return 0, errors.New("empty shader module")
	}
	return gfx.ShaderModule(d.alloc("shader module")), nil
}

func (d *Device) DestroyShaderModule(module gfx.ShaderModule) {
	d.Calls["DestroyShaderModule"]++
	d.release(uint64(module), "shader module")
}

func (d *Device) CreateDescriptorSetLayout() (gfx.DescriptorSetLayout, error) {
	if err := d.call("CreateDescriptorSetLayout"); err != nil {
		return 0, err
	}
	return gfx.DescriptorSetLayout(d.alloc("descriptor set layout")), nil
}

func (d *Device) DestroyDescriptorSetLayout(layout gfx.DescriptorSetLayout) {
	d.Calls["DestroyDescriptorSetLayout"]++
	d.release(uint64(layout), "descriptor set layout")
}

func (d *Device) CreateDescriptorPool(int) (gfx.DescriptorPool, error) {
	if err := d.call("CreateDescriptorPool"); err != nil {
		return 0, err
	}
	return gfx.DescriptorPool(d.alloc("descriptor pool")), nil
}

func (d *Device) DestroyDescriptorPool(pool gfx.DescriptorPool) {
	d.Calls["DestroyDescriptorPool"]++
	d.release(uint64(pool), "descriptor pool")
}

// AllocateDescriptorSet hands out sets that live as long as their pool, so they are not
// tracked as separately destroyable handles.
func (d *Device) AllocateDescriptorSet(pool gfx.DescriptorPool, layout gfx.DescriptorSetLayout) (gfx.DescriptorSet, error) {
	if err := d.call("AllocateDescriptorSet"); err != nil {
		return 0, err
	}
	d.use(uint64(pool), "descriptor pool", "AllocateDescriptorSet")
	d.use(uint64(layout), "descriptor set layout", "AllocateDescriptorSet")
	d.next++
	return gfx.DescriptorSet(d.next), nil
}

func (d *Device) UpdateDescriptorSet(write gfx.DescriptorSetWrite) error {
	if err := d.call("UpdateDescriptorSet"); err != nil {
		return err
	}
	d.use(uint64(write.UniformBuffer), "buffer", "UpdateDescriptorSet")
	d.use(uint64(write.TextureView), "image view", "UpdateDescriptorSet")
	d.use(uint64(write.Sampler), "sampler", "UpdateDescriptorSet")
	d.sets[write.Set] = write
	return nil
}

func (d *Device) CreatePipelineLayout(layout gfx.DescriptorSetLayout) (gfx.PipelineLayout, error) {
	if err := d.call("CreatePipelineLayout"); err != nil {
		return 0, err
	}
	d.use(uint64(layout), "descriptor set layout", "CreatePipelineLayout")
	return gfx.PipelineLayout(d.alloc("pipeline layout")), nil
}

func (d *Device) DestroyPipelineLayout(layout gfx.PipelineLayout) {
	d.Calls["DestroyPipelineLayout"]++
	d.release(uint64(layout), "pipeline layout")
}

func (d *Device) CreatePipelineCache(data []byte) (gfx.PipelineCache, error) {
	if err := d.call("CreatePipelineCache"); err != nil {
		return 0, err
	}
	d.CacheSeeds = append(d.CacheSeeds, data)
	return gfx.PipelineCache(d.alloc("pipeline cache")), nil
}

func (d *Device) PipelineCacheData(cache gfx.PipelineCache) ([]byte, error) {
	if err := d.call("PipelineCacheData"); err != nil {
		return nil, err
	}
	d.use(uint64(cache), "pipeline cache", "PipelineCacheData")
	return d.CacheData, nil
}

func (d *Device) DestroyPipelineCache(cache gfx.PipelineCache) {
	d.Calls["DestroyPipelineCache"]++
	d.release(uint64(cache), "pipeline cache")
}

func (d *Device) CreateRenderPass(info gfx.RenderPassInfo) (gfx.RenderPass, error) {
	if err := d.call("CreateRenderPass"); err != nil {
		return 0, err
	}
	rp := gfx.RenderPass(d.alloc("render pass"))
	d.passes[rp] = info
	return rp, nil
}

func (d *Device) DestroyRenderPass(renderPass gfx.RenderPass) {
	d.Calls["DestroyRenderPass"]++
	d.release(uint64(renderPass), "render pass")
}

func (d *Device) CreateGraphicsPipeline(info gfx.PipelineInfo) (gfx.Pipeline, error) {
	if err := d.call("CreateGraphicsPipeline"); err != nil {
		return 0, err
	}
	d.use(uint64(info.RenderPass), "render pass", "CreateGraphicsPipeline")
	d.use(uint64(info.Layout), "pipeline layout", "CreateGraphicsPipeline")
	d.use(uint64(info.VertexShader), "shader module", "CreateGraphicsPipeline")
	d.use(uint64(info.FragmentShader), "shader module", "CreateGraphicsPipeline")
	if info.Cache != 0 {
		d.use(uint64(info.Cache), "pipeline cache", "CreateGraphicsPipeline")
	}
	p := gfx.Pipeline(d.alloc("pipeline"))
	d.pipelines[p] = info
	return p, nil
}

func (d *Device) DestroyPipeline(pipeline gfx.Pipeline) {
	d.Calls["DestroyPipeline"]++
	d.release(uint64(pipeline), "pipeline")
}

func (d *Device) CreateFramebuffer(info gfx.FramebufferInfo) (gfx.Framebuffer, error) {
	if err := d.call("CreateFramebuffer"); err != nil {
		return 0, err
	}
	d.use(uint64(info.RenderPass), "render pass", "CreateFramebuffer")
	for _, view := range info.Attachments {
		d.use(uint64(view), "image view", "CreateFramebuffer")
	}
	fb := gfx.Framebuffer(d.alloc("framebuffer"))
	d.framebuffer[fb] = info
	return fb, nil
}

func (d *Device) DestroyFramebuffer(framebuffer gfx.Framebuffer) {
	d.Calls["DestroyFramebuffer"]++
	d.release(uint64(framebuffer), "framebuffer")
}

func (d *Device) CreateSemaphore() (gfx.Semaphore, error) {
	if err := d.call("CreateSemaphore"); err != nil {
		return 0, err
	}
	return gfx.Semaphore(d.alloc("semaphore")), nil
}

func (d *Device) DestroySemaphore(semaphore gfx.Semaphore) {
	d.Calls["DestroySemaphore"]++
	d.release(uint64(semaphore), "semaphore")
}

func (d *Device) CreateFence(signaled bool) (gfx.Fence, error) {
	if err := d.call("CreateFence"); err != nil {
		return 0, err
	}
	f := gfx.Fence(d.alloc("fence"))
	d.fences[f] = &fenceState{signaled: signaled}
	return f, nil
}

func (d *Device) WaitForFence(fence gfx.Fence, _ time.Duration) error {
	if err := d.call("WaitForFence"); err != nil {
		return err
	}
	state, ok := d.fences[fence]
	if !ok {
		return errors.Newf("wait on unknown fence %d", fence)
	}
	if !state.signaled {
		d.violation("WaitForFence: fence#%d is reset and nothing will signal it", fence)
	}
	return nil
}

func (d *Device) ResetFence(fence gfx.Fence) error {
	if err := d.call("ResetFence"); err != nil {
		return err
	}
	state, ok := d.fences[fence]
	if !ok {
		return errors.Newf("reset of unknown fence %d", fence)
	}
	state.signaled = false
	return nil
}

func (d *Device) DestroyFence(fence gfx.Fence) {
	d.Calls["DestroyFence"]++
	if d.release(uint64(fence), "fence") {
		delete(d.fences, fence)
	}
}

func (d *Device) CreateCommandPool() (gfx.CommandPool, error) {
	if err := d.call("CreateCommandPool"); err != nil {
		return 0, err
	}
	return gfx.CommandPool(d.alloc("command pool")), nil
}

func (d *Device) DestroyCommandPool(pool gfx.CommandPool) {
	d.Calls["DestroyCommandPool"]++
	d.release(uint64(pool), "command pool")
}

func (d *Device) AllocateCommandBuffers(pool gfx.CommandPool, count int) ([]gfx.CommandBuffer, error) {
	if err := d.call("AllocateCommandBuffers"); err != nil {
		return nil, err
	}
	d.use(uint64(pool), "command pool", "AllocateCommandBuffers")
	buffers := make([]gfx.CommandBuffer, count)
	for i := range buffers {
		buffers[i] = gfx.CommandBuffer(d.alloc("command buffer"))
	}
	return buffers, nil
}

func (d *Device) FreeCommandBuffers(pool gfx.CommandPool, buffers []gfx.CommandBuffer) {
	d.Calls["FreeCommandBuffers"]++
	d.use(uint64(pool), "command pool", "FreeCommandBuffers")
	for _, buf := range buffers {
		if d.release(uint64(buf), "command buffer") {
			delete(d.recordings, buf)
		}
	}
}

func (d *Device) RecordDraw(buffer gfx.CommandBuffer, rec gfx.DrawRecording) error {
	if err := d.call("RecordDraw"); err != nil {
		return err
	}
	d.use(uint64(buffer), "command buffer", "RecordDraw")
	d.use(uint64(rec.RenderPass), "render pass", "RecordDraw")
	d.use(uint64(rec.Framebuffer), "framebuffer", "RecordDraw")
	d.use(uint64(rec.Pipeline), "pipeline", "RecordDraw")
	d.use(uint64(rec.PipelineLayout), "pipeline layout", "RecordDraw")
	d.use(uint64(rec.VertexBuffer), "buffer", "RecordDraw")
	d.use(uint64(rec.IndexBuffer), "buffer", "RecordDraw")
	d.recordings[buffer] = rec
	return nil
}

func (d *Device) CopyBuffer(pool gfx.CommandPool, src, dst gfx.Buffer, size int) error {
	if err := d.call("CopyBuffer"); err != nil {
		return err
	}
	d.use(uint64(pool), "command pool", "CopyBuffer")
	d.use(uint64(src), "buffer", "CopyBuffer")
	d.use(uint64(dst), "buffer", "CopyBuffer")
	copy(d.memory[d.bufferMem[dst]][:size], d.memory[d.bufferMem[src]][:size])
	return nil
}

func (d *Device) CopyBufferToImage(pool gfx.CommandPool, src gfx.Buffer, dst gfx.Image, extent gfx.Extent) error {
	if err := d.call("CopyBufferToImage"); err != nil {
		return err
	}
	d.use(uint64(pool), "command pool", "CopyBufferToImage")
	d.use(uint64(src), "buffer", "CopyBufferToImage")
	d.use(uint64(dst), "image", "CopyBufferToImage")
	if got := d.images[dst].Extent; got != extent {
		d.violation("CopyBufferToImage: extent %s does not match image extent %s", extent, got)
	}
	return nil
}

func (d *Device) QueueSubmit(info gfx.SubmitInfo) error {
	if err := d.call("QueueSubmit"); err != nil {
		return err
	}
	d.use(uint64(info.CommandBuffer), "command buffer", "QueueSubmit")
	if _, ok := d.recordings[info.CommandBuffer]; !ok {
		d.violation("QueueSubmit: command buffer#%d was never recorded", info.CommandBuffer)
	}
	if !d.pending[info.Wait] {
		d.violation("QueueSubmit: waits on semaphore#%d that nothing signaled", info.Wait)
	}
	d.pending[info.Wait] = false
	d.pending[info.Signal] = true
	if info.Fence != 0 {
		state, ok := d.fences[info.Fence]
		if !ok {
			d.violation("QueueSubmit: unknown fence#%d", info.Fence)
		} else {
			if state.signaled {
				d.violation("QueueSubmit: fence#%d is still signaled", info.Fence)
			}
			// Work completes instantly on this device.
			state.signaled = true
		}
	}
	d.Submits = append(d.Submits, info)
	return nil
}

func (d *Device) QueueWaitIdle() error {
	return d.call("QueueWaitIdle")
}

func (d *Device) WaitIdle() error {
	return d.call("WaitIdle")
}
