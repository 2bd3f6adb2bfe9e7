package vulkan

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func (d *Device) SurfaceCapabilities() (gfx.SurfaceCapabilities, error) {
	caps, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(d.surface, d.physicalDevice)
	if err != nil {
		return gfx.SurfaceCapabilities{}, err
	}
	return fromCapabilities(caps), nil
}

func (d *Device) SurfaceFormats() ([]gfx.SurfaceFormat, error) {
	formats, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceFormats(d.surface, d.physicalDevice)
	if err != nil {
		return nil, err
	}

	result := make([]gfx.SurfaceFormat, 0, len(formats))
	for _, format := range formats {
		result = append(result, gfx.SurfaceFormat{
			Format:     gfx.Format(format.Format),
			ColorSpace: gfx.ColorSpace(format.ColorSpace),
		})
	}
	return result, nil
}

func (d *Device) SurfacePresentModes() ([]gfx.PresentMode, error) {
	modes, _, err := d.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(d.surface, d.physicalDevice)
	if err != nil {
		return nil, err
	}

	result := make([]gfx.PresentMode, 0, len(modes))
	for _, mode := range modes {
		result = append(result, gfx.PresentMode(mode))
	}
	return result, nil
}

func (d *Device) CreateSwapchain(info gfx.SwapchainInfo) (gfx.Swapchain, error) {
	var previous khr_swapchain.Swapchain
	if info.Previous != 0 {
		var err error
		previous, err = d.swapchains.get(info.Previous)
		if err != nil {
			return 0, err
		}
	}

	// One queue family draws and presents, so the images are never shared between families.
	swapchain, _, err := d.swapchainExtension.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: d.surface,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      core1_0.Format(info.Format.Format),
		ImageColorSpace:  khr_surface.ColorSpace(info.Format.ColorSpace),
		ImageExtent:      extent2D(info.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode: core1_0.SharingModeExclusive,

		PreTransform:   khr_surface.SurfaceTransformFlags(info.Transform),
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentMode(info.PresentMode),
		Clipped:        true,
		OldSwapchain:   previous,
	})
	if err != nil {
		return 0, err
	}

	return d.swapchains.add(swapchain), nil
}

// SwapchainImages registers the driver's images on first use. They belong to the swapchain
// and are released with it, never through DestroyImage.
func (d *Device) SwapchainImages(handle gfx.Swapchain) ([]gfx.Image, error) {
	if images, ok := d.swapchainImages[handle]; ok {
		return images, nil
	}

	swapchain, err := d.swapchains.get(handle)
	if err != nil {
		return nil, err
	}

	native, _, err := d.swapchainExtension.GetSwapchainImages(swapchain)
	if err != nil {
		return nil, err
	}

	images := make([]gfx.Image, 0, len(native))
	for _, image := range native {
		images = append(images, d.images.add(image))
	}
	d.swapchainImages[handle] = images
	return images, nil
}

func (d *Device) DestroySwapchain(handle gfx.Swapchain) {
	swapchain, ok := d.swapchains.remove(handle)
	if !ok {
		return
	}

	for _, image := range d.swapchainImages[handle] {
		d.images.remove(image)
	}
	delete(d.swapchainImages, handle)

	d.swapchainExtension.DestroySwapchain(swapchain, nil)
}

func (d *Device) AcquireNextImage(handle gfx.Swapchain, wait time.Duration, signal gfx.Semaphore) (int, gfx.SwapchainStatus, error) {
	swapchain, err := d.swapchains.get(handle)
	if err != nil {
		return 0, gfx.StatusOK, err
	}
	semaphore, err := d.semaphores.get(signal)
	if err != nil {
		return 0, gfx.StatusOK, err
	}

	vkTimeout := timeout(wait)
	imageIndex, res, err := d.swapchainExtension.AcquireNextImage(swapchain, vkTimeout, &semaphore, nil)
	status, err := swapchainStatus(res, err)
	return imageIndex, status, err
}

func (d *Device) QueuePresent(info gfx.PresentInfo) (gfx.SwapchainStatus, error) {
	swapchain, err := d.swapchains.get(info.Swapchain)
	if err != nil {
		return gfx.StatusOK, err
	}
	wait, err := d.semaphores.get(info.Wait)
	if err != nil {
		return gfx.StatusOK, err
	}

	res, err := d.swapchainExtension.QueuePresent(d.queue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{wait},
		Swapchains:     []khr_swapchain.Swapchain{swapchain},
		ImageIndices:   []int{info.ImageIndex},
	})
	return swapchainStatus(res, err)
}

func (d *Device) WaitIdle() error {
	_, err := d.deviceDriver.DeviceWaitIdle()
	return errors.Wrap(err, "device wait idle")
}
