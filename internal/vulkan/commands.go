package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func (d *Device) CreateCommandPool() (gfx.CommandPool, error) {
	pool, _, err := d.deviceDriver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: d.queueFamily,
	})
	if err != nil {
		return 0, err
	}
	return d.commandPools.add(pool), nil
}

// DestroyCommandPool also forgets the buffers allocated from it; the driver frees them with
// the pool.
func (d *Device) DestroyCommandPool(handle gfx.CommandPool) {
	pool, ok := d.commandPools.remove(handle)
	if !ok {
		return
	}

	for bufferHandle, buffer := range d.commandBuffers.items {
		if buffer.pool == handle {
			d.commandBuffers.remove(bufferHandle)
		}
	}
	d.deviceDriver.DestroyCommandPool(pool, nil)
}

func (d *Device) AllocateCommandBuffers(handle gfx.CommandPool, count int) ([]gfx.CommandBuffer, error) {
	pool, err := d.commandPools.get(handle)
	if err != nil {
		return nil, err
	}

	buffers, _, err := d.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, err
	}

	handles := make([]gfx.CommandBuffer, 0, len(buffers))
	for _, buffer := range buffers {
		handles = append(handles, d.commandBuffers.add(commandBuffer{buffer: buffer, pool: handle}))
	}
	return handles, nil
}

func (d *Device) FreeCommandBuffers(_ gfx.CommandPool, handles []gfx.CommandBuffer) {
	buffers := make([]core1_0.CommandBuffer, 0, len(handles))
	for _, handle := range handles {
		if buffer, ok := d.commandBuffers.remove(handle); ok {
			buffers = append(buffers, buffer.buffer)
		}
	}

	if len(buffers) > 0 {
		d.deviceDriver.FreeCommandBuffers(buffers...)
	}
}

type drawObjects struct {
	renderPass     core1_0.RenderPass
	framebuffer    core1_0.Framebuffer
	pipeline       core1_0.Pipeline
	pipelineLayout core1_0.PipelineLayout
	descriptorSet  core1_0.DescriptorSet
	vertexBuffer   core1_0.Buffer
	indexBuffer    core1_0.Buffer
}

func (d *Device) resolveDraw(rec gfx.DrawRecording) (drawObjects, error) {
	var objs drawObjects
	var err error

	if objs.renderPass, err = d.renderPasses.get(rec.RenderPass); err != nil {
		return objs, err
	}
	if objs.framebuffer, err = d.framebuffers.get(rec.Framebuffer); err != nil {
		return objs, err
	}
	if objs.pipeline, err = d.pipelines.get(rec.Pipeline); err != nil {
		return objs, err
	}
	if objs.pipelineLayout, err = d.pipelineLayouts.get(rec.PipelineLayout); err != nil {
		return objs, err
	}
	set, err := d.descriptorSets.get(rec.DescriptorSet)
	if err != nil {
		return objs, err
	}
	objs.descriptorSet = set.set
	if objs.vertexBuffer, err = d.buffers.get(rec.VertexBuffer); err != nil {
		return objs, err
	}
	if objs.indexBuffer, err = d.buffers.get(rec.IndexBuffer); err != nil {
		return objs, err
	}
	return objs, nil
}

// RecordDraw records the buffer once for reuse on every frame that draws to its framebuffer.
func (d *Device) RecordDraw(handle gfx.CommandBuffer, rec gfx.DrawRecording) error {
	cb, err := d.commandBuffers.get(handle)
	if err != nil {
		return err
	}
	buffer := cb.buffer
	objs, err := d.resolveDraw(rec)
	if err != nil {
		return err
	}

	extent := extent2D(rec.Extent)

	_, err = d.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{})
	if err != nil {
		return err
	}

	err = d.deviceDriver.CmdBeginRenderPass(buffer, core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  objs.renderPass,
			Framebuffer: objs.framebuffer,
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat(rec.ClearColor),
				core1_0.ClearValueDepthStencil{Depth: 1.0, Stencil: 0},
			},
		})
	if err != nil {
		return err
	}

	d.deviceDriver.CmdBindPipeline(buffer, core1_0.PipelineBindPointGraphics, objs.pipeline)
	d.deviceDriver.CmdSetViewport(buffer, core1_0.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	d.deviceDriver.CmdSetScissor(buffer, core1_0.Rect2D{
		Offset: core1_0.Offset2D{X: 0, Y: 0},
		Extent: extent,
	})
	d.deviceDriver.CmdBindVertexBuffers(buffer, 0, []core1_0.Buffer{objs.vertexBuffer}, []int{0})
	d.deviceDriver.CmdBindIndexBuffer(buffer, objs.indexBuffer, 0, core1_0.IndexTypeUInt32)
	d.deviceDriver.CmdBindDescriptorSets(buffer, core1_0.PipelineBindPointGraphics, objs.pipelineLayout, 0, []core1_0.DescriptorSet{
		objs.descriptorSet,
	}, nil)
	d.deviceDriver.CmdDrawIndexed(buffer, rec.IndexCount, 1, 0, 0, 0)
	d.deviceDriver.CmdEndRenderPass(buffer)

	_, err = d.deviceDriver.EndCommandBuffer(buffer)
	return err
}

func (d *Device) beginSingleTimeCommands(pool core1_0.CommandPool) (core1_0.CommandBuffer, error) {
	buffers, _, err := d.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return core1_0.CommandBuffer{}, err
	}

	buffer := buffers[0]
	_, err = d.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		d.deviceDriver.FreeCommandBuffers(buffer)
		return core1_0.CommandBuffer{}, err
	}
	return buffer, nil
}

func (d *Device) endSingleTimeCommands(buffer core1_0.CommandBuffer) error {
	defer d.deviceDriver.FreeCommandBuffers(buffer)

	_, err := d.deviceDriver.EndCommandBuffer(buffer)
	if err != nil {
		return err
	}

	_, err = d.deviceDriver.QueueSubmit(d.queue, nil,
		core1_0.SubmitInfo{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	)
	if err != nil {
		return err
	}

	_, err = d.deviceDriver.QueueWaitIdle(d.queue)
	return err
}

func (d *Device) CopyBuffer(poolHandle gfx.CommandPool, srcHandle, dstHandle gfx.Buffer, size int) error {
	pool, err := d.commandPools.get(poolHandle)
	if err != nil {
		return err
	}
	src, err := d.buffers.get(srcHandle)
	if err != nil {
		return err
	}
	dst, err := d.buffers.get(dstHandle)
	if err != nil {
		return err
	}

	buffer, err := d.beginSingleTimeCommands(pool)
	if err != nil {
		return err
	}

	err = d.deviceDriver.CmdCopyBuffer(buffer, src, dst,
		core1_0.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		},
	)
	if err != nil {
		d.deviceDriver.FreeCommandBuffers(buffer)
		return err
	}

	return d.endSingleTimeCommands(buffer)
}

func (d *Device) CopyBufferToImage(poolHandle gfx.CommandPool, srcHandle gfx.Buffer, dstHandle gfx.Image, extent gfx.Extent) error {
	pool, err := d.commandPools.get(poolHandle)
	if err != nil {
		return err
	}
	src, err := d.buffers.get(srcHandle)
	if err != nil {
		return err
	}
	dst, err := d.images.get(dstHandle)
	if err != nil {
		return err
	}

	buffer, err := d.beginSingleTimeCommands(pool)
	if err != nil {
		return err
	}

	if err = d.recordTextureUpload(buffer, src, dst, extent); err != nil {
		d.deviceDriver.FreeCommandBuffers(buffer)
		return err
	}

	return d.endSingleTimeCommands(buffer)
}

// recordTextureUpload moves the image to transfer-destination layout, copies the pixels in and
// leaves the image in shader-read layout for the fragment stage.
func (d *Device) recordTextureUpload(buffer core1_0.CommandBuffer, src core1_0.Buffer, dst core1_0.Image, extent gfx.Extent) error {
	err := d.transitionImageLayout(buffer, dst, core1_0.ImageLayoutUndefined, core1_0.ImageLayoutTransferDstOptimal)
	if err != nil {
		return err
	}

	err = d.deviceDriver.CmdCopyBufferToImage(buffer, src, dst, core1_0.ImageLayoutTransferDstOptimal,
		core1_0.BufferImageCopy{
			BufferOffset:      0,
			BufferRowLength:   0,
			BufferImageHeight: 0,

			ImageSubresource: core1_0.ImageSubresourceLayers{
				AspectMask:     core1_0.ImageAspectColor,
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageOffset: core1_0.Offset3D{X: 0, Y: 0, Z: 0},
			ImageExtent: core1_0.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		},
	)
	if err != nil {
		return err
	}

	return d.transitionImageLayout(buffer, dst, core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutShaderReadOnlyOptimal)
}

func (d *Device) transitionImageLayout(buffer core1_0.CommandBuffer, image core1_0.Image, oldLayout, newLayout core1_0.ImageLayout) error {
	var sourceStage, destStage core1_0.PipelineStageFlags
	var sourceAccess, destAccess core1_0.AccessFlags

	switch {
	case oldLayout == core1_0.ImageLayoutUndefined && newLayout == core1_0.ImageLayoutTransferDstOptimal:
		sourceAccess = 0
		destAccess = core1_0.AccessTransferWrite
		sourceStage = core1_0.PipelineStageTopOfPipe
		destStage = core1_0.PipelineStageTransfer
	case oldLayout == core1_0.ImageLayoutTransferDstOptimal && newLayout == core1_0.ImageLayoutShaderReadOnlyOptimal:
		sourceAccess = core1_0.AccessTransferWrite
		destAccess = core1_0.AccessShaderRead
		sourceStage = core1_0.PipelineStageTransfer
		destStage = core1_0.PipelineStageFragmentShader
	default:
		return errors.Newf("unexpected layout transition: %s -> %s", oldLayout, newLayout)
	}

	return d.deviceDriver.CmdPipelineBarrier(buffer, sourceStage, destStage, 0, nil, nil, []core1_0.ImageMemoryBarrier{
		{
			OldLayout:           oldLayout,
			NewLayout:           newLayout,
			SrcQueueFamilyIndex: -1,
			DstQueueFamilyIndex: -1,
			Image:               image,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			SrcAccessMask: sourceAccess,
			DstAccessMask: destAccess,
		},
	})
}

// QueueSubmit waits on info.Wait at the color-output stage, so acquire and draw overlap up to
// the point the image is written.
func (d *Device) QueueSubmit(info gfx.SubmitInfo) error {
	cb, err := d.commandBuffers.get(info.CommandBuffer)
	if err != nil {
		return err
	}
	wait, err := d.semaphores.get(info.Wait)
	if err != nil {
		return err
	}
	signal, err := d.semaphores.get(info.Signal)
	if err != nil {
		return err
	}

	var fence *core1_0.Fence
	if info.Fence != 0 {
		native, err := d.fences.get(info.Fence)
		if err != nil {
			return err
		}
		fence = &native
	}

	_, err = d.deviceDriver.QueueSubmit(d.queue, fence,
		core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{wait},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{cb.buffer},
			SignalSemaphores: []core1_0.Semaphore{signal},
		},
	)
	return err
}

func (d *Device) QueueWaitIdle() error {
	_, err := d.deviceDriver.QueueWaitIdle(d.queue)
	return err
}
