// Package vulkan implements the engine's device context on top of vkngwrapper: one instance,
// one surface, one physical device with a queue family that can both draw and present, and one
// logical device with a single queue.
package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

var _ gfx.Device = (*Device)(nil)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}
var deviceExtensions = []string{khr_swapchain.ExtensionName}

// Window is what the device context needs from the windowing layer.
type Window interface {
	VulkanProcAddr() unsafe.Pointer
	VulkanInstanceExtensions() []string
	CreateSurface(instance core1_0.Instance, surfaceExtension khr_surface.ExtensionDriver) (khr_surface.Surface, error)
}

type Options struct {
	AppName    string
	Validation bool
}

// descriptorSet remembers its pool: sets are freed with the pool, not one by one.
type descriptorSet struct {
	set  core1_0.DescriptorSet
	pool gfx.DescriptorPool
}

// commandBuffer remembers its pool so destroying the pool can forget it.
type commandBuffer struct {
	buffer core1_0.CommandBuffer
	pool   gfx.CommandPool
}

type Device struct {
	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	debugMessenger   ext_debug_utils.DebugUtilsMessenger
	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	physicalDevice core1_0.PhysicalDevice
	properties     *core1_0.PhysicalDeviceProperties
	queueFamily    int
	queue          core1_0.Queue

	swapchainExtension khr_swapchain.ExtensionDriver

	swapchains           *table[gfx.Swapchain, khr_swapchain.Swapchain]
	swapchainImages      map[gfx.Swapchain][]gfx.Image
	images               *table[gfx.Image, core1_0.Image]
	imageViews           *table[gfx.ImageView, core1_0.ImageView]
	memory               *table[gfx.Memory, core1_0.DeviceMemory]
	buffers              *table[gfx.Buffer, core1_0.Buffer]
	samplers             *table[gfx.Sampler, core1_0.Sampler]
	shaderModules        *table[gfx.ShaderModule, core1_0.ShaderModule]
	renderPasses         *table[gfx.RenderPass, core1_0.RenderPass]
	pipelines            *table[gfx.Pipeline, core1_0.Pipeline]
	pipelineLayouts      *table[gfx.PipelineLayout, core1_0.PipelineLayout]
	pipelineCaches       *table[gfx.PipelineCache, core1_0.PipelineCache]
	framebuffers         *table[gfx.Framebuffer, core1_0.Framebuffer]
	commandPools         *table[gfx.CommandPool, core1_0.CommandPool]
	commandBuffers       *table[gfx.CommandBuffer, commandBuffer]
	descriptorSetLayouts *table[gfx.DescriptorSetLayout, core1_0.DescriptorSetLayout]
	descriptorPools      *table[gfx.DescriptorPool, core1_0.DescriptorPool]
	descriptorSets       *table[gfx.DescriptorSet, descriptorSet]
	semaphores           *table[gfx.Semaphore, core1_0.Semaphore]
	fences               *table[gfx.Fence, core1_0.Fence]
}

// Open creates the instance, the surface for window and the logical device. On failure
// everything created so far is destroyed again.
func Open(window Window, opts Options) (*Device, error) {
	d := &Device{
		swapchains:           newTable[gfx.Swapchain, khr_swapchain.Swapchain]("swapchain"),
		swapchainImages:      map[gfx.Swapchain][]gfx.Image{},
		images:               newTable[gfx.Image, core1_0.Image]("image"),
		imageViews:           newTable[gfx.ImageView, core1_0.ImageView]("image view"),
		memory:               newTable[gfx.Memory, core1_0.DeviceMemory]("memory"),
		buffers:              newTable[gfx.Buffer, core1_0.Buffer]("buffer"),
		samplers:             newTable[gfx.Sampler, core1_0.Sampler]("sampler"),
		shaderModules:        newTable[gfx.ShaderModule, core1_0.ShaderModule]("shader module"),
		renderPasses:         newTable[gfx.RenderPass, core1_0.RenderPass]("render pass"),
		pipelines:            newTable[gfx.Pipeline, core1_0.Pipeline]("pipeline"),
		pipelineLayouts:      newTable[gfx.PipelineLayout, core1_0.PipelineLayout]("pipeline layout"),
		pipelineCaches:       newTable[gfx.PipelineCache, core1_0.PipelineCache]("pipeline cache"),
		framebuffers:         newTable[gfx.Framebuffer, core1_0.Framebuffer]("framebuffer"),
		commandPools:         newTable[gfx.CommandPool, core1_0.CommandPool]("command pool"),
		commandBuffers:       newTable[gfx.CommandBuffer, commandBuffer]("command buffer"),
		descriptorSetLayouts: newTable[gfx.DescriptorSetLayout, core1_0.DescriptorSetLayout]("descriptor set layout"),
		descriptorPools:      newTable[gfx.DescriptorPool, core1_0.DescriptorPool]("descriptor pool"),
		descriptorSets:       newTable[gfx.DescriptorSet, descriptorSet]("descriptor set"),
		semaphores:           newTable[gfx.Semaphore, core1_0.Semaphore]("semaphore"),
		fences:               newTable[gfx.Fence, core1_0.Fence]("fence"),
	}

	if err := d.open(window, opts); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) open(window Window, opts Options) error {
	var err error
	d.globalDriver, err = core.CreateDriverFromProcAddr(window.VulkanProcAddr())
	if err != nil {
		return errors.Wrap(err, "load vulkan")
	}

	if err = d.createInstance(window, opts); err != nil {
		return err
	}

	if opts.Validation {
		if err = d.setupDebugMessenger(); err != nil {
			return err
		}
	}

	d.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(d.instanceDriver)
	d.surface, err = window.CreateSurface(d.instanceDriver.Instance(), d.surfaceExtension)
	if err != nil {
		return errors.Wrap(err, "create surface")
	}

	if err = d.pickPhysicalDevice(); err != nil {
		return err
	}

	return d.createLogicalDevice()
}

func (d *Device) createInstance(window Window, opts Options) error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.AppName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := d.globalDriver.AvailableExtensions()
	if err != nil {
		return errors.Wrap(err, "enumerate instance extensions")
	}

	for _, ext := range window.VulkanInstanceExtensions() {
		if _, hasExt := extensions[ext]; !hasExt {
			return errors.Newf("create instance: missing window extension %s", ext)
		}
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext)
	}

	if _, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]; enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if opts.Validation {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)

		layers, _, err := d.globalDriver.AvailableLayers()
		if err != nil {
			return errors.Wrap(err, "enumerate instance layers")
		}
		for _, layer := range validationLayers {
			if _, hasValidation := layers[layer]; !hasValidation {
				return errors.Newf("create instance: validation layer %s not available, install the Vulkan SDK or disable validation", layer)
			}
			instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, layer)
		}

		// Chain a messenger so instance creation itself is validated.
		instanceOptions.Next = debugMessengerOptions()
	}

	d.instanceDriver, _, err = d.globalDriver.CreateInstance(nil, instanceOptions)
	return errors.Wrap(err, "create instance")
}

func (d *Device) setupDebugMessenger() error {
	var err error
	d.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(d.instanceDriver)
	d.debugMessenger, _, err = d.debugDriver.CreateDebugUtilsMessenger(nil, debugMessengerOptions())
	return errors.Wrap(err, "create debug messenger")
}

func debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    logDebug,
	}
}

func logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	if severity&ext_debug_utils.SeverityError != 0 {
		logger().Error(data.Message, "type", msgType)
	} else {
		logger().Warn(data.Message, "type", msgType)
	}
	return false
}

func (d *Device) pickPhysicalDevice() error {
	physicalDevices, _, err := d.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}

	for _, device := range physicalDevices {
		family, suitable, err := d.isDeviceSuitable(device)
		if err != nil {
			return err
		}
		if !suitable {
			continue
		}

		d.properties, err = d.instanceDriver.GetPhysicalDeviceProperties(device)
		if err != nil {
			return errors.Wrap(err, "get physical device properties")
		}
		d.physicalDevice = device
		d.queueFamily = family

		logger().Info("selected device",
			"name", d.properties.DeviceName,
			"type", d.properties.DriverType,
			"queue_family", family,
		)
		return nil
	}

	return errors.New("no GPU has a queue family that can both draw and present")
}

// isDeviceSuitable answers the first queue family that supports graphics and presentation to
// the surface, if the device also has the swapchain extension and sampler anisotropy.
func (d *Device) isDeviceSuitable(device core1_0.PhysicalDevice) (int, bool, error) {
	extensions, _, err := d.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return 0, false, errors.Wrap(err, "enumerate device extensions")
	}
	for _, extension := range deviceExtensions {
		if _, hasExtension := extensions[extension]; !hasExtension {
			return 0, false, nil
		}
	}

	features := d.instanceDriver.GetPhysicalDeviceFeatures(device)
	if !features.SamplerAnisotropy {
		return 0, false, nil
	}

	formats, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceFormats(d.surface, device)
	if err != nil {
		return 0, false, errors.Wrap(err, "query surface formats")
	}
	modes, _, err := d.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(d.surface, device)
	if err != nil {
		return 0, false, errors.Wrap(err, "query present modes")
	}
	if len(formats) == 0 || len(modes) == 0 {
		return 0, false, nil
	}

	queueFamilies := d.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device)
	for queueFamilyIdx, queueFamily := range queueFamilies {
		if queueFamily.QueueFlags&core1_0.QueueGraphics == 0 {
			continue
		}

		supported, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceSupport(d.surface, device, queueFamilyIdx)
		if err != nil {
			return 0, false, errors.Wrap(err, "query surface support")
		}
		if supported {
			return queueFamilyIdx, true, nil
		}
	}

	return 0, false, nil
}

func (d *Device) createLogicalDevice() error {
	extensionNames := append([]string(nil), deviceExtensions...)

	// Portability drivers such as MoltenVK require the subset extension to be enabled.
	extensions, _, err := d.instanceDriver.EnumerateDeviceExtensionProperties(d.physicalDevice)
	if err != nil {
		return errors.Wrap(err, "enumerate device extensions")
	}
	if _, supported := extensions[khr_portability_subset.ExtensionName]; supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	d.deviceDriver, _, err = d.instanceDriver.CreateDevice(d.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: d.queueFamily,
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			SamplerAnisotropy: true,
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return errors.Wrap(err, "create logical device")
	}

	d.queue = d.deviceDriver.GetQueue(d.queueFamily, 0)
	d.swapchainExtension = khr_swapchain.CreateExtensionDriverFromCoreDriver(d.deviceDriver)
	return nil
}

// DeviceName is the selected GPU's name.
func (d *Device) DeviceName() string {
	if d.properties == nil {
		return ""
	}
	return d.properties.DeviceName
}

// Close destroys the logical device, the surface and the instance. Every object created
// through the gfx.Device methods must already be destroyed.
func (d *Device) Close() {
	if n := d.liveObjects(); n > 0 {
		logger().Warn("closing device with live objects", "count", n)
	}

	if d.deviceDriver != nil {
		d.deviceDriver.DestroyDevice(nil)
		d.deviceDriver = nil
	}

	if d.debugMessenger.Initialized() {
		d.debugDriver.DestroyDebugUtilsMessenger(d.debugMessenger, nil)
		d.debugMessenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	if d.surface.Initialized() {
		d.surfaceExtension.DestroySurface(d.surface, nil)
		d.surface = khr_surface.Surface{}
	}

	if d.instanceDriver != nil {
		d.instanceDriver.DestroyInstance(nil)
		d.instanceDriver = nil
	}
}

// liveObjects counts native objects still registered, for the leak warning at close.
func (d *Device) liveObjects() int {
	return d.swapchains.len() + d.images.len() + d.imageViews.len() + d.memory.len() +
		d.buffers.len() + d.samplers.len() + d.shaderModules.len() + d.renderPasses.len() +
		d.pipelines.len() + d.pipelineLayouts.len() + d.pipelineCaches.len() +
		d.framebuffers.len() + d.commandPools.len() + d.commandBuffers.len() +
		d.descriptorSetLayouts.len() + d.descriptorPools.len() + d.semaphores.len() + d.fences.len()
}
