package vulkan

import (
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

var depthFormats = []core1_0.Format{
	core1_0.FormatD32SignedFloat,
	core1_0.FormatD32SignedFloatS8UnsignedInt,
	core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
}

func (d *Device) DepthFormat() (gfx.Format, error) {
	for _, format := range depthFormats {
		props := d.instanceDriver.GetPhysicalDeviceFormatProperties(d.physicalDevice, format)
		if props.OptimalTilingFeatures&core1_0.FormatFeatureDepthStencilAttachment == core1_0.FormatFeatureDepthStencilAttachment {
			return gfx.Format(format), nil
		}
	}
	return gfx.FormatUndefined, errors.New("no supported depth format")
}

func (d *Device) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := d.instanceDriver.GetPhysicalDeviceMemoryProperties(d.physicalDevice)
	for i, memoryType := range memProperties.MemoryTypes {
		typeBit := uint32(1 << i)

		if typeFilter&typeBit != 0 && memoryType.PropertyFlags&properties == properties {
			return i, nil
		}
	}

	return 0, errors.Newf("no memory type matches filter 0x%x with properties %v", typeFilter, properties)
}

func (d *Device) allocate(requirements *core1_0.MemoryRequirements, location gfx.MemoryLocation) (core1_0.DeviceMemory, error) {
	memoryIndex, err := d.findMemoryType(requirements.MemoryTypeBits, memoryProperties(location))
	if err != nil {
		return core1_0.DeviceMemory{}, err
	}

	memory, _, err := d.deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryIndex,
	})
	return memory, err
}

func (d *Device) CreateImage(info gfx.ImageInfo) (gfx.Image, gfx.Memory, error) {
	image, _, err := d.deviceDriver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        core1_0.Format(info.Format),
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         imageUsage(info.Usage),
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return 0, 0, err
	}

	memory, err := d.allocate(d.deviceDriver.GetImageMemoryRequirements(image), gfx.MemoryDeviceLocal)
	if err != nil {
		d.deviceDriver.DestroyImage(image, nil)
		return 0, 0, err
	}

	if _, err = d.deviceDriver.BindImageMemory(image, memory, 0); err != nil {
		d.deviceDriver.DestroyImage(image, nil)
		d.deviceDriver.FreeMemory(memory, nil)
		return 0, 0, err
	}

	return d.images.add(image), d.memory.add(memory), nil
}

// DestroyImage ignores swapchain images; DestroySwapchain releases those.
func (d *Device) DestroyImage(handle gfx.Image) {
	if d.isSwapchainImage(handle) {
		return
	}
	if image, ok := d.images.remove(handle); ok {
		d.deviceDriver.DestroyImage(image, nil)
	}
}

func (d *Device) isSwapchainImage(handle gfx.Image) bool {
	for _, images := range d.swapchainImages {
		for _, image := range images {
			if image == handle {
				return true
			}
		}
	}
	return false
}

func (d *Device) CreateImageView(handle gfx.Image, format gfx.Format, aspect gfx.ImageAspect) (gfx.ImageView, error) {
	image, err := d.images.get(handle)
	if err != nil {
		return 0, err
	}

	view, _, err := d.deviceDriver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   core1_0.Format(format),
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     imageAspect(aspect),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return 0, err
	}
	return d.imageViews.add(view), nil
}

func (d *Device) DestroyImageView(handle gfx.ImageView) {
	if view, ok := d.imageViews.remove(handle); ok {
		d.deviceDriver.DestroyImageView(view, nil)
	}
}

func (d *Device) CreateBuffer(size int, usage gfx.BufferUsage, location gfx.MemoryLocation) (gfx.Buffer, gfx.Memory, error) {
	buffer, _, err := d.deviceDriver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       bufferUsage(usage),
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return 0, 0, err
	}

	memory, err := d.allocate(d.deviceDriver.GetBufferMemoryRequirements(buffer), location)
	if err != nil {
		d.deviceDriver.DestroyBuffer(buffer, nil)
		return 0, 0, err
	}

	if _, err = d.deviceDriver.BindBufferMemory(buffer, memory, 0); err != nil {
		d.deviceDriver.DestroyBuffer(buffer, nil)
		d.deviceDriver.FreeMemory(memory, nil)
		return 0, 0, err
	}

	return d.buffers.add(buffer), d.memory.add(memory), nil
}

func (d *Device) DestroyBuffer(handle gfx.Buffer) {
	if buffer, ok := d.buffers.remove(handle); ok {
		d.deviceDriver.DestroyBuffer(buffer, nil)
	}
}

func (d *Device) MapMemory(handle gfx.Memory, size int) ([]byte, error) {
	memory, err := d.memory.get(handle)
	if err != nil {
		return nil, err
	}

	memoryPtr, _, err := d.deviceDriver.MapMemory(memory, 0, size, 0)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(memoryPtr), size), nil
}

func (d *Device) UnmapMemory(handle gfx.Memory) {
	if memory, ok := d.memory.lookup(handle); ok {
		d.deviceDriver.UnmapMemory(memory)
	}
}

func (d *Device) FreeMemory(handle gfx.Memory) {
	if memory, ok := d.memory.remove(handle); ok {
		d.deviceDriver.FreeMemory(memory, nil)
	}
}

func (d *Device) CreateSampler(info gfx.SamplerInfo) (gfx.Sampler, error) {
	samplerInfo := core1_0.SamplerCreateInfo{
		MagFilter:    core1_0.FilterLinear,
		MinFilter:    core1_0.FilterLinear,
		AddressModeU: core1_0.SamplerAddressModeRepeat,
		AddressModeV: core1_0.SamplerAddressModeRepeat,
		AddressModeW: core1_0.SamplerAddressModeRepeat,

		BorderColor: core1_0.BorderColorIntOpaqueBlack,

		MipmapMode: core1_0.SamplerMipmapModeLinear,
		MinLod:     0,
		MaxLod:     0,
	}
	if info.Anisotropy {
		samplerInfo.AnisotropyEnable = true
		samplerInfo.MaxAnisotropy = d.properties.Limits.MaxSamplerAnisotropy
	}

	sampler, _, err := d.deviceDriver.CreateSampler(nil, samplerInfo)
	if err != nil {
		return 0, err
	}
	return d.samplers.add(sampler), nil
}

func (d *Device) DestroySampler(handle gfx.Sampler) {
	if sampler, ok := d.samplers.remove(handle); ok {
		d.deviceDriver.DestroySampler(sampler, nil)
	}
}

func (d *Device) CreateShaderModule(code []uint32) (gfx.ShaderModule, error) {
	module, _, err := d.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return 0, err
	}
	return d.shaderModules.add(module), nil
}

func (d *Device) DestroyShaderModule(handle gfx.ShaderModule) {
	if module, ok := d.shaderModules.remove(handle); ok {
		d.deviceDriver.DestroyShaderModule(module, nil)
	}
}

// CreateDescriptorSetLayout creates the one layout the scene uses: the uniform buffer at
// binding 0 for the vertex stage and the texture sampler at binding 1 for the fragment stage.
func (d *Device) CreateDescriptorSetLayout() (gfx.DescriptorSetLayout, error) {
	layout, _, err := d.deviceDriver.CreateDescriptorSetLayout(nil, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: []core1_0.DescriptorSetLayoutBinding{
			{
				Binding:         0,
				DescriptorType:  core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: 1,

				StageFlags: core1_0.StageVertex,
			},
			{
				Binding:         1,
				DescriptorType:  core1_0.DescriptorTypeCombinedImageSampler,
				DescriptorCount: 1,

				StageFlags: core1_0.StageFragment,
			},
		},
	})
	if err != nil {
		return 0, err
	}
	return d.descriptorSetLayouts.add(layout), nil
}

func (d *Device) DestroyDescriptorSetLayout(handle gfx.DescriptorSetLayout) {
	if layout, ok := d.descriptorSetLayouts.remove(handle); ok {
		d.deviceDriver.DestroyDescriptorSetLayout(layout, nil)
	}
}

func (d *Device) CreateDescriptorPool(maxSets int) (gfx.DescriptorPool, error) {
	pool, _, err := d.deviceDriver.CreateDescriptorPool(nil, core1_0.DescriptorPoolCreateInfo{
		MaxSets: maxSets,
		PoolSizes: []core1_0.DescriptorPoolSize{
			{
				Type:            core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: maxSets,
			},
			{
				Type:            core1_0.DescriptorTypeCombinedImageSampler,
				DescriptorCount: maxSets,
			},
		},
	})
	if err != nil {
		return 0, err
	}
	return d.descriptorPools.add(pool), nil
}

// DestroyDescriptorPool also forgets every set allocated from the pool.
func (d *Device) DestroyDescriptorPool(handle gfx.DescriptorPool) {
	pool, ok := d.descriptorPools.remove(handle)
	if !ok {
		return
	}

	for setHandle, set := range d.descriptorSets.items {
		if set.pool == handle {
			d.descriptorSets.remove(setHandle)
		}
	}
	d.deviceDriver.DestroyDescriptorPool(pool, nil)
}

func (d *Device) AllocateDescriptorSet(poolHandle gfx.DescriptorPool, layoutHandle gfx.DescriptorSetLayout) (gfx.DescriptorSet, error) {
	pool, err := d.descriptorPools.get(poolHandle)
	if err != nil {
		return 0, err
	}
	layout, err := d.descriptorSetLayouts.get(layoutHandle)
	if err != nil {
		return 0, err
	}

	sets, _, err := d.deviceDriver.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: pool,
		SetLayouts:     []core1_0.DescriptorSetLayout{layout},
	})
	if err != nil {
		return 0, err
	}
	return d.descriptorSets.add(descriptorSet{set: sets[0], pool: poolHandle}), nil
}

func (d *Device) UpdateDescriptorSet(write gfx.DescriptorSetWrite) error {
	set, err := d.descriptorSets.get(write.Set)
	if err != nil {
		return err
	}
	buffer, err := d.buffers.get(write.UniformBuffer)
	if err != nil {
		return err
	}
	view, err := d.imageViews.get(write.TextureView)
	if err != nil {
		return err
	}
	sampler, err := d.samplers.get(write.Sampler)
	if err != nil {
		return err
	}

	return d.deviceDriver.UpdateDescriptorSets([]core1_0.WriteDescriptorSet{
		{
			DstSet:          set.set,
			DstBinding:      0,
			DstArrayElement: 0,

			DescriptorType: core1_0.DescriptorTypeUniformBuffer,

			BufferInfo: []core1_0.DescriptorBufferInfo{
				{
					Buffer: buffer,
					Offset: 0,
					Range:  write.UniformRange,
				},
			},
		},
		{
			DstSet:          set.set,
			DstBinding:      1,
			DstArrayElement: 0,

			DescriptorType: core1_0.DescriptorTypeCombinedImageSampler,

			ImageInfo: []core1_0.DescriptorImageInfo{
				{
					ImageView:   view,
					Sampler:     sampler,
					ImageLayout: core1_0.ImageLayoutShaderReadOnlyOptimal,
				},
			},
		},
	}, nil)
}

func (d *Device) CreatePipelineLayout(handle gfx.DescriptorSetLayout) (gfx.PipelineLayout, error) {
	setLayout, err := d.descriptorSetLayouts.get(handle)
	if err != nil {
		return 0, err
	}

	layout, _, err := d.deviceDriver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{
		SetLayouts: []core1_0.DescriptorSetLayout{setLayout},
	})
	if err != nil {
		return 0, err
	}
	return d.pipelineLayouts.add(layout), nil
}

func (d *Device) DestroyPipelineLayout(handle gfx.PipelineLayout) {
	if layout, ok := d.pipelineLayouts.remove(handle); ok {
		d.deviceDriver.DestroyPipelineLayout(layout, nil)
	}
}

// CreatePipelineCache seeds the cache with data only when its header was written by this
// driver on this GPU; anything else starts an empty cache.
func (d *Device) CreatePipelineCache(data []byte) (gfx.PipelineCache, error) {
	if len(data) > 0 {
		want := pipelineCacheHeader{
			VendorID: d.properties.VendorID,
			DeviceID: d.properties.DeviceID,
			UUID:     d.properties.PipelineCacheUUID,
		}
		if err := checkPipelineCache(data, want); err != nil {
			logger().Warn("discarding pipeline cache", "reason", err)
			data = nil
		}
	}

	cache, _, err := d.deviceDriver.CreatePipelineCache(nil, core1_0.PipelineCacheCreateInfo{
		InitialData: data,
	})
	if err != nil {
		return 0, err
	}
	return d.pipelineCaches.add(cache), nil
}

func (d *Device) PipelineCacheData(handle gfx.PipelineCache) ([]byte, error) {
	cache, err := d.pipelineCaches.get(handle)
	if err != nil {
		return nil, err
	}
	data, _, err := d.deviceDriver.GetPipelineCacheData(cache)
	return data, err
}

func (d *Device) DestroyPipelineCache(handle gfx.PipelineCache) {
	if cache, ok := d.pipelineCaches.remove(handle); ok {
		d.deviceDriver.DestroyPipelineCache(cache, nil)
	}
}

// CreateRenderPass creates a single subpass with a cleared color attachment, presented at the
// end of the pass, and a cleared depth attachment.
func (d *Device) CreateRenderPass(info gfx.RenderPassInfo) (gfx.RenderPass, error) {
	renderPass, _, err := d.deviceDriver.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         core1_0.Format(info.ColorFormat),
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
			{
				Format:         core1_0.Format(info.DepthFormat),
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpDontCare,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    core1_0.ImageLayoutDepthStencilAttachmentOptimal,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
				DepthStencilAttachment: &core1_0.AttachmentReference{
					Attachment: 1,
					Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageEarlyFragmentTests,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageEarlyFragmentTests,
				DstAccessMask: core1_0.AccessColorAttachmentWrite | core1_0.AccessDepthStencilAttachmentWrite,
			},
		},
	})
	if err != nil {
		return 0, err
	}
	return d.renderPasses.add(renderPass), nil
}

func (d *Device) DestroyRenderPass(handle gfx.RenderPass) {
	if renderPass, ok := d.renderPasses.remove(handle); ok {
		d.deviceDriver.DestroyRenderPass(renderPass, nil)
	}
}

func (d *Device) CreateGraphicsPipeline(info gfx.PipelineInfo) (gfx.Pipeline, error) {
	renderPass, err := d.renderPasses.get(info.RenderPass)
	if err != nil {
		return 0, err
	}
	layout, err := d.pipelineLayouts.get(info.Layout)
	if err != nil {
		return 0, err
	}
	vertShader, err := d.shaderModules.get(info.VertexShader)
	if err != nil {
		return 0, err
	}
	fragShader, err := d.shaderModules.get(info.FragmentShader)
	if err != nil {
		return 0, err
	}

	var cache *core1_0.PipelineCache
	if info.Cache != 0 {
		native, err := d.pipelineCaches.get(info.Cache)
		if err != nil {
			return 0, err
		}
		cache = &native
	}

	attributes := make([]core1_0.VertexInputAttributeDescription, 0, len(info.Attributes))
	for _, attr := range info.Attributes {
		attributes = append(attributes, core1_0.VertexInputAttributeDescription{
			Binding:  0,
			Location: attr.Location,
			Format:   vertexFormat(attr.Format),
			Offset:   attr.Offset,
		})
	}

	pipelines, _, err := d.deviceDriver.CreateGraphicsPipelines(cache, nil,
		core1_0.GraphicsPipelineCreateInfo{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				{
					Stage:  core1_0.StageVertex,
					Module: vertShader,
					Name:   "main",
				},
				{
					Stage:  core1_0.StageFragment,
					Module: fragShader,
					Name:   "main",
				},
			},
			VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{
				VertexBindingDescriptions: []core1_0.VertexInputBindingDescription{
					{
						Binding:   0,
						Stride:    info.VertexStride,
						InputRate: core1_0.VertexInputRateVertex,
					},
				},
				VertexAttributeDescriptions: attributes,
			},
			InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
				Topology:               core1_0.PrimitiveTopologyTriangleList,
				PrimitiveRestartEnable: false,
			},
			// Viewport and scissor are set when the command buffer is recorded; only the
			// counts matter here.
			ViewportState: &core1_0.PipelineViewportStateCreateInfo{
				Viewports: []core1_0.Viewport{{Width: 1, Height: 1, MaxDepth: 1}},
				Scissors:  []core1_0.Rect2D{{Extent: core1_0.Extent2D{Width: 1, Height: 1}}},
			},
			RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
				DepthClampEnable:        false,
				RasterizerDiscardEnable: false,

				PolygonMode: core1_0.PolygonModeFill,
				CullMode:    core1_0.CullModeBack,
				FrontFace:   core1_0.FrontFaceCounterClockwise,

				DepthBiasEnable: false,

				LineWidth: 1.0,
			},
			MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
				SampleShadingEnable:  false,
				RasterizationSamples: core1_0.Samples1,
				MinSampleShading:     1.0,
			},
			DepthStencilState: &core1_0.PipelineDepthStencilStateCreateInfo{
				DepthTestEnable:  true,
				DepthWriteEnable: true,
				DepthCompareOp:   core1_0.CompareOpLess,
			},
			ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
				LogicOpEnabled: false,
				LogicOp:        core1_0.LogicOpCopy,

				BlendConstants: [4]float32{0, 0, 0, 0},
				Attachments: []core1_0.PipelineColorBlendAttachmentState{
					{
						BlendEnabled:   false,
						ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
					},
				},
			},
			DynamicState: &core1_0.PipelineDynamicStateCreateInfo{
				DynamicStates: []core1_0.DynamicState{
					core1_0.DynamicStateViewport,
					core1_0.DynamicStateScissor,
				},
			},
			Layout:            layout,
			RenderPass:        renderPass,
			Subpass:           0,
			BasePipelineIndex: -1,
		},
	)
	if err != nil {
		return 0, err
	}
	return d.pipelines.add(pipelines[0]), nil
}

func (d *Device) DestroyPipeline(handle gfx.Pipeline) {
	if pipeline, ok := d.pipelines.remove(handle); ok {
		d.deviceDriver.DestroyPipeline(pipeline, nil)
	}
}

func (d *Device) CreateFramebuffer(info gfx.FramebufferInfo) (gfx.Framebuffer, error) {
	renderPass, err := d.renderPasses.get(info.RenderPass)
	if err != nil {
		return 0, err
	}

	attachments := make([]core1_0.ImageView, 0, len(info.Attachments))
	for _, handle := range info.Attachments {
		view, err := d.imageViews.get(handle)
		if err != nil {
			return 0, err
		}
		attachments = append(attachments, view)
	}

	framebuffer, _, err := d.deviceDriver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  renderPass,
		Layers:      1,
		Attachments: attachments,
		Width:       info.Extent.Width,
		Height:      info.Extent.Height,
	})
	if err != nil {
		return 0, err
	}
	return d.framebuffers.add(framebuffer), nil
}

func (d *Device) DestroyFramebuffer(handle gfx.Framebuffer) {
	if framebuffer, ok := d.framebuffers.remove(handle); ok {
		d.deviceDriver.DestroyFramebuffer(framebuffer, nil)
	}
}

func (d *Device) CreateSemaphore() (gfx.Semaphore, error) {
	semaphore, _, err := d.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return 0, err
	}
	return d.semaphores.add(semaphore), nil
}

func (d *Device) DestroySemaphore(handle gfx.Semaphore) {
	if semaphore, ok := d.semaphores.remove(handle); ok {
		d.deviceDriver.DestroySemaphore(semaphore, nil)
	}
}

func (d *Device) CreateFence(signaled bool) (gfx.Fence, error) {
	var info core1_0.FenceCreateInfo
	if signaled {
		info.Flags = core1_0.FenceCreateSignaled
	}

	fence, _, err := d.deviceDriver.CreateFence(nil, info)
	if err != nil {
		return 0, err
	}
	return d.fences.add(fence), nil
}

func (d *Device) WaitForFence(handle gfx.Fence, wait time.Duration) error {
	fence, err := d.fences.get(handle)
	if err != nil {
		return err
	}

	res, err := d.deviceDriver.WaitForFences(true, timeout(wait), fence)
	if err != nil {
		return err
	}
	if res == core1_0.VKTimeout {
		return errors.Newf("fence not signaled after %s", wait)
	}
	return nil
}

func (d *Device) ResetFence(handle gfx.Fence) error {
	fence, err := d.fences.get(handle)
	if err != nil {
		return err
	}
	_, err = d.deviceDriver.ResetFences(fence)
	return err
}

func (d *Device) DestroyFence(handle gfx.Fence) {
	if fence, ok := d.fences.remove(handle); ok {
		d.deviceDriver.DestroyFence(fence, nil)
	}
}
