package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/core"
)

type Device struct {
	PhysicalDevice vk.PhysicalDevice
	LogicalDevice  vk.Device

	GraphicsQueueIndex uint32
	PresentQueueIndex  uint32
	TransferQueueIndex uint32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
	TransferQueue vk.Queue

	GraphicsCommandPool vk.CommandPool

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures
	Memory     vk.PhysicalDeviceMemoryProperties

	DepthFormat vk.Format
	MsaaSamples vk.SampleCountFlagBits
}

var requiredDeviceExtensions = []string{"VK_KHR_swapchain"}

type queueFamilyIndices struct {
	graphics int32
	present  int32
	transfer int32
}

func (q queueFamilyIndices) complete() bool {
	return q.graphics >= 0 && q.present >= 0
}

func DeviceCreate(context *Context) error {
	if err := selectPhysicalDevice(context); err != nil {
		return err
	}

	device := context.Device

	// Build one queue create info per distinct family.
	uniqueFamilies := map[uint32]bool{
		device.GraphicsQueueIndex: true,
		device.PresentQueueIndex:  true,
		device.TransferQueueIndex: true,
	}
	queuePriority := []float32{1.0}
	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, 0, len(uniqueFamilies))
	for family := range uniqueFamilies {
		queueCreateInfos = append(queueCreateInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: queuePriority,
		})
	}

	enabledFeatures := vk.PhysicalDeviceFeatures{
		SamplerAnisotropy: vk.True,
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{enabledFeatures},
		EnabledExtensionCount:   uint32(len(requiredDeviceExtensions)),
		PpEnabledExtensionNames: VulkanSafeStrings(requiredDeviceExtensions),
	}

	var logicalDevice vk.Device
	if res := vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &logicalDevice); res != vk.Success {
		err := fmt.Errorf("failed to create logical device: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	device.LogicalDevice = logicalDevice
	core.LogInfo("logical device created")

	var graphicsQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.GraphicsQueueIndex, 0, &graphicsQueue)
	device.GraphicsQueue = graphicsQueue

	var presentQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.PresentQueueIndex, 0, &presentQueue)
	device.PresentQueue = presentQueue

	var transferQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.TransferQueueIndex, 0, &transferQueue)
	device.TransferQueue = transferQueue

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: device.GraphicsQueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(device.LogicalDevice, &poolCreateInfo, context.Allocator, &pool); res != vk.Success {
		err := fmt.Errorf("failed to create graphics command pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	device.GraphicsCommandPool = pool

	if err := device.DetectDepthFormat(); err != nil {
		return err
	}

	return nil
}

func DeviceDestroy(context *Context) {
	device := context.Device
	if device == nil {
		return
	}
	if device.GraphicsCommandPool != nil {
		vk.DestroyCommandPool(device.LogicalDevice, device.GraphicsCommandPool, context.Allocator)
		device.GraphicsCommandPool = nil
	}
	if device.LogicalDevice != nil {
		vk.DestroyDevice(device.LogicalDevice, context.Allocator)
		device.LogicalDevice = nil
	}
	device.PhysicalDevice = nil
}

func selectPhysicalDevice(context *Context) error {
	var deviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &deviceCount, nil); res != vk.Success || deviceCount == 0 {
		err := fmt.Errorf("no Vulkan capable devices found")
		core.LogError(err.Error())
		return err
	}
	physicalDevices := make([]vk.PhysicalDevice, deviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &deviceCount, physicalDevices); res != vk.Success {
		err := fmt.Errorf("failed to enumerate physical devices: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}

	for _, pd := range physicalDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &properties)
		properties.Deref()
		properties.Limits.Deref()

		var features vk.PhysicalDeviceFeatures
		vk.GetPhysicalDeviceFeatures(pd, &features)
		features.Deref()

		var memory vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(pd, &memory)
		memory.Deref()

		name := vk.ToString(properties.DeviceName[:])

		if features.SamplerAnisotropy != vk.True {
			core.LogDebug("skipping device %s: no sampler anisotropy", name)
			continue
		}
		if !supportsDeviceExtensions(pd, requiredDeviceExtensions) {
			core.LogDebug("skipping device %s: missing required extensions", name)
			continue
		}

		indices := findQueueFamilies(pd, context.Surface)
		if !indices.complete() {
			core.LogDebug("skipping device %s: incomplete queue families", name)
			continue
		}

		support, err := querySwapchainSupport(pd, context.Surface)
		if err != nil || len(support.Formats) == 0 || len(support.PresentModes) == 0 {
			core.LogDebug("skipping device %s: inadequate swapchain support", name)
			continue
		}

		transfer := indices.transfer
		if transfer < 0 {
			transfer = indices.graphics
		}

		context.Device = &Device{
			PhysicalDevice:     pd,
			GraphicsQueueIndex: uint32(indices.graphics),
			PresentQueueIndex:  uint32(indices.present),
			TransferQueueIndex: uint32(transfer),
			Properties:         properties,
			Features:           features,
			Memory:             memory,
			MsaaSamples:        maxUsableSampleCount(properties),
		}

		core.LogInfo("selected GPU: %s (driver %d.%d.%d, MSAA x%d)",
			name,
			properties.DriverVersion>>22,
			(properties.DriverVersion>>12)&0x3ff,
			properties.DriverVersion&0xfff,
			context.Device.MsaaSamples)
		return nil
	}

	err := fmt.Errorf("no physical device meets the requirements")
	core.LogError(err.Error())
	return err
}

func supportsDeviceExtensions(pd vk.PhysicalDevice, required []string) bool {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil); res != vk.Success {
		return false
	}
	available := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(pd, "", &count, available); res != vk.Success {
		return false
	}

	for _, want := range required {
		found := false
		for i := range available {
			available[i].Deref()
			end := FindFirstZeroInByteArray(available[i].ExtensionName[:])
			if want == vk.ToString(available[i].ExtensionName[:end+1]) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func findQueueFamilies(pd vk.PhysicalDevice, surface vk.Surface) queueFamilyIndices {
	indices := queueFamilyIndices{graphics: -1, present: -1, transfer: -1}

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, families)

	for i := uint32(0); i < count; i++ {
		families[i].Deref()
		flags := families[i].QueueFlags

		if indices.graphics < 0 && flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			indices.graphics = int32(i)
		}
		// Prefer a family that does transfer but not graphics, to keep
		// uploads off the render queue when the hardware allows it.
		if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 && flags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			indices.transfer = int32(i)
		}

		var presentSupport vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(pd, i, surface, &presentSupport)
		if indices.present < 0 && presentSupport == vk.True {
			indices.present = int32(i)
		}
	}
	return indices
}

// QuerySwapchainSupport refreshes surface capabilities, formats and present
// modes. Called on every swapchain (re)build since the surface changes with
// the window.
func (d *Device) QuerySwapchainSupport(surface vk.Surface) (*SwapchainSupportInfo, error) {
	return querySwapchainSupport(d.PhysicalDevice, surface)
}

func querySwapchainSupport(pd vk.PhysicalDevice, surface vk.Surface) (*SwapchainSupportInfo, error) {
	support := &SwapchainSupportInfo{}

	var capabilities vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(pd, surface, &capabilities); res != vk.Success {
		err := fmt.Errorf("failed to query surface capabilities: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	support.Capabilities = capabilities

	var formatCount uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, nil); res != vk.Success {
		err := fmt.Errorf("failed to count surface formats: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	if formatCount > 0 {
		formats := make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, formats)
		for i := range formats {
			formats[i].Deref()
		}
		support.Formats = formats
	}

	var presentModeCount uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &presentModeCount, nil); res != vk.Success {
		err := fmt.Errorf("failed to count present modes: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	if presentModeCount > 0 {
		modes := make([]vk.PresentMode, presentModeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &presentModeCount, modes)
		support.PresentModes = modes
	}

	return support, nil
}

var depthFormatCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// DetectDepthFormat probes for the first depth format usable as an optimal
// tiling depth/stencil attachment.
func (d *Device) DetectDepthFormat() error {
	flags := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	for _, format := range depthFormatCandidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(d.PhysicalDevice, format, &properties)
		properties.Deref()

		if properties.OptimalTilingFeatures&flags == flags {
			d.DepthFormat = format
			return nil
		}
	}
	d.DepthFormat = vk.FormatUndefined
	err := fmt.Errorf("no supported depth format found")
	core.LogError(err.Error())
	return err
}

// maxUsableSampleCount picks the highest MSAA level both the color and
// depth framebuffers support.
func maxUsableSampleCount(properties vk.PhysicalDeviceProperties) vk.SampleCountFlagBits {
	counts := properties.Limits.FramebufferColorSampleCounts & properties.Limits.FramebufferDepthSampleCounts

	for _, bit := range []vk.SampleCountFlagBits{
		vk.SampleCount64Bit, vk.SampleCount32Bit, vk.SampleCount16Bit,
		vk.SampleCount8Bit, vk.SampleCount4Bit, vk.SampleCount2Bit,
	} {
		if counts&vk.SampleCountFlags(bit) != 0 {
			return bit
		}
	}
	return vk.SampleCount1Bit
}

// SupportsLinearBlit reports whether the format can be filtered linearly
// when blitting with optimal tiling, a precondition for mipmap generation.
func (d *Device) SupportsLinearBlit(format vk.Format) bool {
	var properties vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(d.PhysicalDevice, format, &properties)
	properties.Deref()
	return properties.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureSampledImageFilterLinearBit) != 0
}
