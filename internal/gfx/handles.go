// Package gfx is the contract between the presentation engine and the device context it
// renders with. Every native object crosses this boundary as an opaque, comparable handle;
// the zero value of each handle type means "no object".
package gfx

type (
	Swapchain           uint64
	Image               uint64
	ImageView           uint64
	Memory              uint64
	Buffer              uint64
	Sampler             uint64
	ShaderModule        uint64
	RenderPass          uint64
	Pipeline            uint64
	PipelineLayout      uint64
	PipelineCache       uint64
	Framebuffer         uint64
	CommandPool         uint64
	CommandBuffer       uint64
	DescriptorSetLayout uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	Semaphore           uint64
	Fence               uint64
)
