package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/assets"
	"github.com/vkngwrapper/presenter/internal/gfx"
)

type PoolOptions struct {
	ClearColor [4]float32
	// CacheSeed is previously saved pipeline cache data; the device ignores it when it was
	// written by a different driver or GPU.
	CacheSeed []byte
}

type deviceBuffer struct {
	buffer gfx.Buffer
	memory gfx.Memory
}

type sampledImage struct {
	image  gfx.Image
	memory gfx.Memory
	view   gfx.ImageView
}

// ResourcePool owns every object whose shape does not depend on the swapchain. It is built
// once and outlives every swapchain bundle built from it.
type ResourcePool struct {
	dev gfx.Device

	clearColor  [4]float32
	depthFormat gfx.Format

	descriptorSetLayout gfx.DescriptorSetLayout
	pipelineLayout      gfx.PipelineLayout
	pipelineCache       gfx.PipelineCache
	vertexShader        gfx.ShaderModule
	fragmentShader      gfx.ShaderModule
	commandPool         gfx.CommandPool
	descriptorPool      gfx.DescriptorPool
	descriptorSet       gfx.DescriptorSet
	sampler             gfx.Sampler
	texture             sampledImage

	vertices   deviceBuffer
	indices    deviceBuffer
	indexCount int

	uniforms       deviceBuffer
	uniformMapping []byte

	destroyed bool
}

// BuildResourcePool uploads the mesh and texture through staging buffers and waits for the
// copies to finish, so the pool is complete when it returns. Any failure releases whatever
// was already created and is marked ErrResourceCreation.
func BuildResourcePool(dev gfx.Device, a *assets.Assets, opts PoolOptions) (*ResourcePool, error) {
	if a == nil {
		return nil, resourceError(errors.New("no assets"), "build resource pool")
	}

	p := &ResourcePool{
		dev:        dev,
		clearColor: opts.ClearColor,
		indexCount: len(a.Mesh.Indices),
	}

	if err := p.build(a, opts); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *ResourcePool) build(a *assets.Assets, opts PoolOptions) error {
	var err error

	p.depthFormat, err = p.dev.DepthFormat()
	if err != nil {
		return resourceError(err, "find depth format")
	}

	p.descriptorSetLayout, err = p.dev.CreateDescriptorSetLayout()
	if err != nil {
		return resourceError(err, "create descriptor set layout")
	}

	p.pipelineLayout, err = p.dev.CreatePipelineLayout(p.descriptorSetLayout)
	if err != nil {
		return resourceError(err, "create pipeline layout")
	}

	p.pipelineCache, err = p.dev.CreatePipelineCache(opts.CacheSeed)
	if err != nil {
		return resourceError(err, "create pipeline cache")
	}

	p.vertexShader, err = p.dev.CreateShaderModule(a.VertexShader)
	if err != nil {
		return resourceError(err, "create vertex shader")
	}

	p.fragmentShader, err = p.dev.CreateShaderModule(a.FragmentShader)
	if err != nil {
		return resourceError(err, "create fragment shader")
	}

	p.commandPool, err = p.dev.CreateCommandPool()
	if err != nil {
		return resourceError(err, "create command pool")
	}

	p.vertices, err = p.uploadBuffer(a.Mesh.VertexBytes(), gfx.BufferUsageVertex)
	if err != nil {
		return resourceError(err, "create vertex buffer")
	}

	p.indices, err = p.uploadBuffer(a.Mesh.IndexBytes(), gfx.BufferUsageIndex)
	if err != nil {
		return resourceError(err, "create index buffer")
	}

	if err = p.createTexture(a.Texture); err != nil {
		return resourceError(err, "create texture")
	}

	p.sampler, err = p.dev.CreateSampler(gfx.SamplerInfo{Anisotropy: true})
	if err != nil {
		return resourceError(err, "create sampler")
	}

	if err = p.createUniformBuffer(); err != nil {
		return resourceError(err, "create uniform buffer")
	}

	if err = p.createDescriptorSet(); err != nil {
		return resourceError(err, "create descriptor set")
	}

	return nil
}

func (p *ResourcePool) uploadBuffer(data []byte, usage gfx.BufferUsage) (deviceBuffer, error) {
	size := len(data)

	stagingBuffer, stagingMemory, err := p.dev.CreateBuffer(size, gfx.BufferUsageTransferSrc, gfx.MemoryHostVisible)
	if err != nil {
		return deviceBuffer{}, err
	}
	defer func() {
		p.dev.DestroyBuffer(stagingBuffer)
		p.dev.FreeMemory(stagingMemory)
	}()

	if err = writeData(p.dev, stagingMemory, data); err != nil {
		return deviceBuffer{}, err
	}

	buffer, memory, err := p.dev.CreateBuffer(size, gfx.BufferUsageTransferDst|usage, gfx.MemoryDeviceLocal)
	if err != nil {
		return deviceBuffer{}, err
	}

	if err = p.dev.CopyBuffer(p.commandPool, stagingBuffer, buffer, size); err != nil {
		p.dev.DestroyBuffer(buffer)
		p.dev.FreeMemory(memory)
		return deviceBuffer{}, err
	}

	return deviceBuffer{buffer: buffer, memory: memory}, nil
}

func (p *ResourcePool) createTexture(tex assets.Texture) error {
	stagingBuffer, stagingMemory, err := p.dev.CreateBuffer(tex.Size(), gfx.BufferUsageTransferSrc, gfx.MemoryHostVisible)
	if err != nil {
		return err
	}
	defer func() {
		p.dev.DestroyBuffer(stagingBuffer)
		p.dev.FreeMemory(stagingMemory)
	}()

	if err = writeData(p.dev, stagingMemory, tex.Pixels); err != nil {
		return err
	}

	p.texture.image, p.texture.memory, err = p.dev.CreateImage(gfx.ImageInfo{
		Extent: tex.Extent,
		Format: gfx.FormatR8G8B8A8SRGB,
		Usage:  gfx.ImageUsageTransferDst | gfx.ImageUsageSampled,
	})
	if err != nil {
		return err
	}

	if err = p.dev.CopyBufferToImage(p.commandPool, stagingBuffer, p.texture.image, tex.Extent); err != nil {
		return err
	}

	p.texture.view, err = p.dev.CreateImageView(p.texture.image, gfx.FormatR8G8B8A8SRGB, gfx.AspectColor)
	return err
}

// createUniformBuffer maps the uniform buffer once; it stays mapped for the pool's lifetime.
func (p *ResourcePool) createUniformBuffer() error {
	var err error
	p.uniforms.buffer, p.uniforms.memory, err = p.dev.CreateBuffer(UniformBufferSize, gfx.BufferUsageUniform, gfx.MemoryHostVisible)
	if err != nil {
		return err
	}

	p.uniformMapping, err = p.dev.MapMemory(p.uniforms.memory, UniformBufferSize)
	return err
}

func (p *ResourcePool) createDescriptorSet() error {
	var err error
	p.descriptorPool, err = p.dev.CreateDescriptorPool(1)
	if err != nil {
		return err
	}

	p.descriptorSet, err = p.dev.AllocateDescriptorSet(p.descriptorPool, p.descriptorSetLayout)
	if err != nil {
		return err
	}

	return p.dev.UpdateDescriptorSet(gfx.DescriptorSetWrite{
		Set:           p.descriptorSet,
		UniformBuffer: p.uniforms.buffer,
		UniformRange:  UniformBufferSize,
		TextureView:   p.texture.view,
		Sampler:       p.sampler,
	})
}

// WriteUniforms overwrites the mapped uniform buffer. The caller must know the GPU is done
// reading the previous contents.
func (p *ResourcePool) WriteUniforms(ubo UniformBufferObject) {
	copy(p.uniformMapping, ubo.Bytes())
}

// PipelineCacheData returns the current pipeline cache contents for saving.
func (p *ResourcePool) PipelineCacheData() ([]byte, error) {
	return p.dev.PipelineCacheData(p.pipelineCache)
}

func (p *ResourcePool) VertexBuffer() gfx.Buffer     { return p.vertices.buffer }
func (p *ResourcePool) IndexBuffer() gfx.Buffer      { return p.indices.buffer }
func (p *ResourcePool) UniformBuffer() gfx.Buffer    { return p.uniforms.buffer }
func (p *ResourcePool) IndexCount() int              { return p.indexCount }
func (p *ResourcePool) DepthFormat() gfx.Format      { return p.depthFormat }
func (p *ResourcePool) CommandPool() gfx.CommandPool { return p.commandPool }
func (p *ResourcePool) DescriptorSet() gfx.DescriptorSet {
	return p.descriptorSet
}

// Destroy releases the pool in reverse creation order. Calling it twice is a no-op.
func (p *ResourcePool) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true

	if p.uniformMapping != nil {
		p.dev.UnmapMemory(p.uniforms.memory)
		p.uniformMapping = nil
	}

	p.dev.DestroyDescriptorPool(p.descriptorPool)
	p.dev.DestroyBuffer(p.uniforms.buffer)
	p.dev.FreeMemory(p.uniforms.memory)
	p.dev.DestroySampler(p.sampler)

	p.dev.DestroyImageView(p.texture.view)
	p.dev.DestroyImage(p.texture.image)
	p.dev.FreeMemory(p.texture.memory)

	p.dev.DestroyBuffer(p.indices.buffer)
	p.dev.FreeMemory(p.indices.memory)
	p.dev.DestroyBuffer(p.vertices.buffer)
	p.dev.FreeMemory(p.vertices.memory)

	p.dev.DestroyCommandPool(p.commandPool)
	p.dev.DestroyShaderModule(p.fragmentShader)
	p.dev.DestroyShaderModule(p.vertexShader)
	p.dev.DestroyPipelineCache(p.pipelineCache)
	p.dev.DestroyPipelineLayout(p.pipelineLayout)
	p.dev.DestroyDescriptorSetLayout(p.descriptorSetLayout)
}

func writeData(dev gfx.Device, memory gfx.Memory, data []byte) error {
	mapped, err := dev.MapMemory(memory, len(data))
	if err != nil {
		return err
	}
	defer dev.UnmapMemory(memory)

	copy(mapped, data)
	return nil
}
