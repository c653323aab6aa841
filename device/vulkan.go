// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"

	"github.com/devblok/koruboot/core"
)

// NewVulkan loads the Vulkan entry points. procAddr is the address of
// vkGetInstanceProcAddr as provided by the windowing library, nil to load
// the system loader directly.
func NewVulkan(procAddr unsafe.Pointer) (*Vulkan, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}
	return &Vulkan{}, nil
}

// Vulkan implements core.Driver.
type Vulkan struct{}

var _ core.Driver = (*Vulkan)(nil)

// AvailableLayers implements core.Driver.
func (v *Vulkan) AvailableLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceLayerProperties()")
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceLayerProperties()")
	}

	names := make([]string, 0, count)
	for _, layer := range props[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// AvailableInstanceExtensions implements core.Driver.
func (v *Vulkan) AvailableInstanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}
	return extensionNames(props[:count]), nil
}

func extensionNames(props []vk.ExtensionProperties) []string {
	names := make([]string, 0, len(props))
	for _, ext := range props {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names
}

// CreateInstance implements core.Driver. When info carries a diagnostic
// callback it is chained into the creation request.
func (v *Vulkan) CreateInstance(info core.InstanceCreateInfo) (core.InstanceHandle, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(1, 0, 0),
		ApplicationVersion: makeVersion(info.Application.Version),
		PApplicationName:   safeString(info.Application.Name),
		PEngineName:        safeString(EngineName),
	}

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}
	release := chainDiagnostics(&instanceInfo, info.Diagnostics)
	defer release()

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}
	return instance, nil
}

// DestroyInstance implements core.Driver.
func (v *Vulkan) DestroyInstance(instance core.InstanceHandle) {
	vk.DestroyInstance(instance.(vk.Instance), nil)
}

// DebugReporter implements core.Driver. The debug report entry point is
// looked up on the instance and reported absent when the driver lacks it.
func (v *Vulkan) DebugReporter(instance core.InstanceHandle) (core.DebugReporter, bool) {
	inst := instance.(vk.Instance)
	if vk.GetInstanceProcAddr(inst, safeString("vkCreateDebugReportCallbackEXT")) == nil {
		return nil, false
	}
	return debugReporter{instance: inst}, true
}

// DestroySurface implements core.Driver.
func (v *Vulkan) DestroySurface(instance core.InstanceHandle, surface core.SurfaceHandle) {
	vk.DestroySurface(instance.(vk.Instance), surface.(vk.Surface), nil)
}

// EnumerateAdapters implements core.Driver.
func (v *Vulkan) EnumerateAdapters(instance core.InstanceHandle) ([]core.AdapterHandle, error) {
	inst := instance.(vk.Instance)
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(inst, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(inst, &count, devices)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}

	adapters := make([]core.AdapterHandle, 0, count)
	for _, pd := range devices[:count] {
		adapters = append(adapters, pd)
	}
	return adapters, nil
}

// AdapterProperties implements core.Driver.
func (v *Vulkan) AdapterProperties(adapter core.AdapterHandle) core.AdapterProperties {
	pd := adapter.(vk.PhysicalDevice)

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()

	var memory vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memory)
	memory.Deref()

	var total uint64
	for i := uint32(0); i < memory.MemoryHeapCount; i++ {
		heap := memory.MemoryHeaps[i]
		heap.Deref()
		total += uint64(heap.Size)
	}

	return core.AdapterProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		DriverVersion: props.DriverVersion,
		Type:          adapterType(props.DeviceType),
		Memory:        total,
	}
}

// AdapterExtensions implements core.Driver.
func (v *Vulkan) AdapterExtensions(adapter core.AdapterHandle) ([]string, error) {
	pd := adapter.(vk.PhysicalDevice)
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &count, props)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	return extensionNames(props[:count]), nil
}

// QueueFamilies implements core.Driver.
func (v *Vulkan) QueueFamilies(adapter core.AdapterHandle) []core.QueueFamily {
	pd := adapter.(vk.PhysicalDevice)
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)

	families := make([]core.QueueFamily, 0, count)
	for _, family := range props[:count] {
		family.Deref()
		families = append(families, core.QueueFamily{
			Flags: core.QueueFlags(family.QueueFlags),
			Count: family.QueueCount,
		})
	}
	return families
}

// SurfaceSupport implements core.Driver.
func (v *Vulkan) SurfaceSupport(adapter core.AdapterHandle, family uint32, surface core.SurfaceHandle) (bool, error) {
	var supported vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(adapter.(vk.PhysicalDevice), family, surface.(vk.Surface), &supported)
	if err := vk.Error(res); err != nil {
		return false, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
	}
	return supported.B(), nil
}

// SurfaceCapabilities implements core.Driver.
func (v *Vulkan) SurfaceCapabilities(adapter core.AdapterHandle, surface core.SurfaceHandle) (core.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(adapter.(vk.PhysicalDevice), surface.(vk.Surface), &caps)
	if err := vk.Error(res); err != nil {
		return core.SurfaceCapabilities{}, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	caps.Deref()

	return core.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           extent(caps.CurrentExtent),
		MinImageExtent:          extent(caps.MinImageExtent),
		MaxImageExtent:          extent(caps.MaxImageExtent),
		CurrentTransform:        core.SurfaceTransform(caps.CurrentTransform),
		SupportedCompositeAlpha: core.CompositeAlpha(caps.SupportedCompositeAlpha),
	}, nil
}

// SurfaceFormats implements core.Driver.
func (v *Vulkan) SurfaceFormats(adapter core.AdapterHandle, surface core.SurfaceHandle) ([]core.SurfaceFormat, error) {
	pd, srf := adapter.(vk.PhysicalDevice), surface.(vk.Surface)
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(pd, srf, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(pd, srf, &count, formats)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}

	out := make([]core.SurfaceFormat, 0, count)
	for _, format := range formats[:count] {
		format.Deref()
		out = append(out, core.SurfaceFormat{
			Format:     core.Format(format.Format),
			ColorSpace: core.ColorSpace(format.ColorSpace),
		})
	}
	return out, nil
}

// PresentModes implements core.Driver.
func (v *Vulkan) PresentModes(adapter core.AdapterHandle, surface core.SurfaceHandle) ([]core.PresentMode, error) {
	pd, srf := adapter.(vk.PhysicalDevice), surface.(vk.Surface)
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(pd, srf, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	modes := make([]vk.PresentMode, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(pd, srf, &count, modes)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}

	out := make([]core.PresentMode, 0, count)
	for _, mode := range modes[:count] {
		out = append(out, core.PresentMode(mode))
	}
	return out, nil
}

// CreateDevice implements core.Driver.
func (v *Vulkan) CreateDevice(adapter core.AdapterHandle, info core.DeviceCreateInfo) (core.DeviceHandle, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       uint32(len(q.Priorities)),
			PQueuePriorities: q.Priorities,
		})
	}

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(adapter.(vk.PhysicalDevice), &dci, nil, &device)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice()")
	}
	return device, nil
}

// DestroyDevice implements core.Driver.
func (v *Vulkan) DestroyDevice(device core.DeviceHandle) {
	vk.DestroyDevice(device.(vk.Device), nil)
}

// DeviceQueue implements core.Driver.
func (v *Vulkan) DeviceQueue(device core.DeviceHandle, family, index uint32) core.QueueHandle {
	var queue vk.Queue
	vk.GetDeviceQueue(device.(vk.Device), family, index, &queue)
	return queue
}

// CreateSwapchain implements core.Driver.
func (v *Vulkan) CreateSwapchain(device core.DeviceHandle, info core.SwapchainCreateInfo) (core.SwapchainHandle, error) {
	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         info.Surface.(vk.Surface),
		MinImageCount:   info.MinImageCount,
		ImageFormat:     vk.Format(info.Format.Format),
		ImageColorSpace: vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
		},
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      vk.SharingMode(info.SharingMode),
		QueueFamilyIndexCount: uint32(len(info.QueueFamilies)),
		PQueueFamilyIndices:   info.QueueFamilies,
		PreTransform:          vk.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:        vk.CompositeAlphaFlagBits(info.CompositeAlpha),
		PresentMode:           vk.PresentMode(info.PresentMode),
		Clipped:               vk.True,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(device.(vk.Device), &scci, nil, &swapchain)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateSwapchain()")
	}
	return swapchain, nil
}

// DestroySwapchain implements core.Driver.
func (v *Vulkan) DestroySwapchain(device core.DeviceHandle, swapchain core.SwapchainHandle) {
	vk.DestroySwapchain(device.(vk.Device), swapchain.(vk.Swapchain), nil)
}

// SwapchainImages implements core.Driver.
func (v *Vulkan) SwapchainImages(device core.DeviceHandle, swapchain core.SwapchainHandle) ([]core.ImageHandle, error) {
	dev, sc := device.(vk.Device), swapchain.(vk.Swapchain)
	var count uint32
	if err := vk.Error(vk.GetSwapchainImages(dev, sc, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetSwapchainImages(num)")
	}
	images := make([]vk.Image, count)
	if err := vk.Error(vk.GetSwapchainImages(dev, sc, &count, images)); err != nil {
		return nil, errors.Wrap(err, "vk.GetSwapchainImages(images)")
	}

	out := make([]core.ImageHandle, 0, count)
	for _, img := range images[:count] {
		out = append(out, img)
	}
	return out, nil
}

// CreateImageView implements core.Driver.
func (v *Vulkan) CreateImageView(device core.DeviceHandle, info core.ImageViewCreateInfo) (core.ImageViewHandle, error) {
	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    info.Image.(vk.Image),
		ViewType: vk.ImageViewType(info.ViewType),
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzle(info.Components.R),
			G: vk.ComponentSwizzle(info.Components.G),
			B: vk.ComponentSwizzle(info.Components.B),
			A: vk.ComponentSwizzle(info.Components.A),
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(info.Range.Aspect),
			BaseMipLevel:   info.Range.BaseMipLevel,
			LevelCount:     info.Range.LevelCount,
			BaseArrayLayer: info.Range.BaseArrayLayer,
			LayerCount:     info.Range.LayerCount,
		},
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(device.(vk.Device), &ivci, nil, &view)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateImageView()")
	}
	return view, nil
}

// DestroyImageView implements core.Driver.
func (v *Vulkan) DestroyImageView(device core.DeviceHandle, view core.ImageViewHandle) {
	vk.DestroyImageView(device.(vk.Device), view.(vk.ImageView), nil)
}

// chainDiagnostics hooks cb into instance creation through the PNext chain.
// The returned release frees the chained create info and must run once the
// instance has been created.
func chainDiagnostics(instanceInfo *vk.InstanceCreateInfo, cb core.DebugCallback) (release func()) {
	if cb == nil {
		return func() {}
	}
	dbg := debugReportCreateInfo(cb)
	instanceInfo.PNext = unsafe.Pointer(dbg.Ref())
	return func() {
		instanceInfo.PNext = nil
		dbg.Free()
	}
}

// debugReportCreateInfo subscribes cb to warnings, performance warnings and errors.
func debugReportCreateInfo(cb core.DebugCallback) *vk.DebugReportCallbackCreateInfo {
	return &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit | vk.DebugReportWarningBit | vk.DebugReportErrorBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint, location uint,
			messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
			cb(core.DiagnosticMessage{
				Severity: severityOf(flags),
				Layer:    pLayerPrefix,
				Code:     messageCode,
				Text:     pMessage,
			})
			// never abort the call that triggered the message
			return vk.False
		},
	}
}

type debugReporter struct {
	instance vk.Instance
}

func (r debugReporter) Install(cb core.DebugCallback) (core.DebugCallbackHandle, error) {
	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(r.instance, debugReportCreateInfo(cb), nil, &callback)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDebugReportCallback()")
	}
	return callback, nil
}

func (r debugReporter) Uninstall(handle core.DebugCallbackHandle) {
	vk.DestroyDebugReportCallback(r.instance, handle.(vk.DebugReportCallback), nil)
}
