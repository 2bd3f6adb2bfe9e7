package gfx

import (
	"fmt"
	"time"
)

// NoTimeout makes an acquire or fence wait for as long as it takes. Backends map it onto
// their own unbounded value.
const NoTimeout = time.Duration(1<<63 - 1)

// Format values match VkFormat so a backend can convert them directly.
type Format int32

const (
	FormatUndefined       Format = 0
	FormatR8G8B8A8UNorm   Format = 37
	FormatR8G8B8A8SRGB    Format = 43
	FormatB8G8R8A8UNorm   Format = 44
	FormatB8G8R8A8SRGB    Format = 50
	FormatD32SFloat       Format = 126
	FormatD24UNormS8UInt  Format = 129
	FormatD32SFloatS8UInt Format = 130
)

var formatNames = map[Format]string{
	FormatUndefined:       "Undefined",
	FormatR8G8B8A8UNorm:   "R8G8B8A8UNorm",
	FormatR8G8B8A8SRGB:    "R8G8B8A8SRGB",
	FormatB8G8R8A8UNorm:   "B8G8R8A8UNorm",
	FormatB8G8R8A8SRGB:    "B8G8R8A8SRGB",
	FormatD32SFloat:       "D32SFloat",
	FormatD24UNormS8UInt:  "D24UNormS8UInt",
	FormatD32SFloatS8UInt: "D32SFloatS8UInt",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// HasStencil reports whether a depth format carries a stencil component.
func (f Format) HasStencil() bool {
	return f == FormatD24UNormS8UInt || f == FormatD32SFloatS8UInt
}

// ColorSpace values match VkColorSpaceKHR.
type ColorSpace int32

const ColorSpaceSRGBNonlinear ColorSpace = 0

// PresentMode values match VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeFIFO:
		return "FIFO"
	case PresentModeFIFORelaxed:
		return "FIFORelaxed"
	}
	return fmt.Sprintf("PresentMode(%d)", int32(m))
}

// SurfaceTransform is passed through untouched from the surface capabilities to the swapchain.
type SurfaceTransform uint32

type Extent struct {
	Width, Height int
}

// UndefinedExtent is reported as the current extent by surfaces whose size is chosen by the
// swapchain rather than by the window.
var UndefinedExtent = Extent{Width: -1, Height: -1}

func (e Extent) IsZero() bool {
	return e.Width <= 0 || e.Height <= 0
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// Clamp limits e to the inclusive [min, max] box.
func (e Extent) Clamp(min, max Extent) Extent {
	return Extent{
		Width:  clamp(e.Width, min.Width, max.Width),
		Height: clamp(e.Height, min.Height, max.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

type SurfaceCapabilities struct {
	MinImageCount int
	// MaxImageCount is 0 when the surface imposes no upper bound.
	MaxImageCount    int
	CurrentExtent    Extent
	MinImageExtent   Extent
	MaxImageExtent   Extent
	CurrentTransform SurfaceTransform
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// SwapchainStatus is the non-fatal outcome of an acquire or present. A stale swapchain is not
// an error: the caller rebuilds and carries on.
type SwapchainStatus int

const (
	StatusOK SwapchainStatus = iota
	StatusSuboptimal
	StatusOutOfDate
	StatusTimeout
)

func (s SwapchainStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusOutOfDate:
		return "out of date"
	case StatusTimeout:
		return "timeout"
	}
	return fmt.Sprintf("SwapchainStatus(%d)", int(s))
}

// Stale reports whether the swapchain no longer matches its surface.
func (s SwapchainStatus) Stale() bool {
	return s == StatusSuboptimal || s == StatusOutOfDate
}

type BufferUsage uint32

const (
	BufferUsageTransferSrc BufferUsage = 1 << iota
	BufferUsageTransferDst
	BufferUsageUniform
	BufferUsageIndex
	BufferUsageVertex
)

type ImageUsage uint32

const (
	ImageUsageTransferDst ImageUsage = 1 << iota
	ImageUsageSampled
	ImageUsageColorAttachment
	ImageUsageDepthStencilAttachment
)

type ImageAspect uint32

const (
	AspectColor ImageAspect = 1 << iota
	AspectDepth
	AspectStencil
)

// MemoryLocation selects between device-local memory and memory the CPU can map.
type MemoryLocation int

const (
	MemoryDeviceLocal MemoryLocation = iota
	MemoryHostVisible
)

type SwapchainInfo struct {
	// Previous is handed to the driver so it can recycle the retired swapchain's images.
	Previous      Swapchain
	MinImageCount int
	Format        SurfaceFormat
	Extent        Extent
	PresentMode   PresentMode
	Transform     SurfaceTransform
}

type ImageInfo struct {
	Extent Extent
	Format Format
	Usage  ImageUsage
}

type RenderPassInfo struct {
	ColorFormat Format
	DepthFormat Format
}

type VertexAttribute struct {
	Location int
	Format   VertexFormat
	Offset   int
}

type VertexFormat int

const (
	VertexFloat2 VertexFormat = iota
	VertexFloat3
)

// PipelineInfo names what varies between graphics pipelines. Rasterization, depth and blend
// state are fixed: back-face culling, counter-clockwise front faces, depth test less-than with
// writes, opaque color writes. Viewport and scissor are dynamic.
type PipelineInfo struct {
	RenderPass     RenderPass
	Layout         PipelineLayout
	Cache          PipelineCache
	VertexShader   ShaderModule
	FragmentShader ShaderModule
	VertexStride   int
	Attributes     []VertexAttribute
}

type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      Extent
}

type SamplerInfo struct {
	Anisotropy bool
}

type DescriptorSetWrite struct {
	Set           DescriptorSet
	UniformBuffer Buffer
	UniformRange  int
	TextureView   ImageView
	Sampler       Sampler
}

// DrawRecording is the fixed content of a pre-recorded command buffer: one render pass over
// one framebuffer, one pipeline, one descriptor set, one indexed draw.
type DrawRecording struct {
	RenderPass     RenderPass
	Framebuffer    Framebuffer
	Extent         Extent
	ClearColor     [4]float32
	Pipeline       Pipeline
	PipelineLayout PipelineLayout
	DescriptorSet  DescriptorSet
	VertexBuffer   Buffer
	IndexBuffer    Buffer
	IndexCount     int
}

type SubmitInfo struct {
	Wait          Semaphore
	CommandBuffer CommandBuffer
	Signal        Semaphore
	Fence         Fence
}

type PresentInfo struct {
	Swapchain  Swapchain
	ImageIndex int
	Wait       Semaphore
}
