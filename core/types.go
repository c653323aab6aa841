// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "math"

// Values of the enumerations below match their Vulkan counterparts,
// so drivers can convert them with a plain cast.

// QueueFlags describes capabilities of a queue family.
type QueueFlags uint32

// Queue family capabilities
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// QueueFamily describes one queue family of an adapter.
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

// Format is an image format.
type Format int32

// Formats the negotiator knows by name.
const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

// ColorSpace is a presentation color space.
type ColorSpace int32

// ColorSpaceSrgbNonlinear is the standard nonlinear sRGB color space.
const ColorSpaceSrgbNonlinear ColorSpace = 0

// SurfaceFormat pairs a format with a color space as reported by a surface.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PresentMode is a swapchain presentation mode.
type PresentMode int32

// Presentation modes
const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFifo
	PresentModeFifoRelaxed
)

func (p PresentMode) String() string {
	switch p {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFifo:
		return "fifo"
	case PresentModeFifoRelaxed:
		return "fifo-relaxed"
	default:
		return "unknown"
	}
}

// Extent2D is a size in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// UndefinedExtent is the width a surface reports as its current extent
// when the swapchain is free to pick the size.
const UndefinedExtent = math.MaxUint32

// SurfaceTransform is a surface pre-transform bit.
type SurfaceTransform uint32

// SurfaceTransformIdentity leaves images untransformed.
const SurfaceTransformIdentity SurfaceTransform = 1

// CompositeAlpha is a compositing mode bit.
type CompositeAlpha uint32

// Compositing modes, in the order they are preferred.
const (
	CompositeAlphaOpaque CompositeAlpha = 1 << iota
	CompositeAlphaPreMultiplied
	CompositeAlphaPostMultiplied
	CompositeAlphaInherit
)

// SurfaceCapabilities is the capability descriptor of an adapter and surface pair.
type SurfaceCapabilities struct {
	MinImageCount uint32
	// MaxImageCount of zero means there is no upper bound.
	MaxImageCount uint32

	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D

	CurrentTransform        SurfaceTransform
	SupportedCompositeAlpha CompositeAlpha
}

// SwapChainSupport is queried live for one adapter and surface pair.
type SwapChainSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// Adequate reports whether a swapchain can be created at all.
func (s SwapChainSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// AdapterType is the kind of hardware behind an adapter.
type AdapterType int32

// Adapter kinds
const (
	AdapterTypeOther AdapterType = iota
	AdapterTypeIntegratedGPU
	AdapterTypeDiscreteGPU
	AdapterTypeVirtualGPU
	AdapterTypeCPU
)

func (a AdapterType) String() string {
	switch a {
	case AdapterTypeIntegratedGPU:
		return "integrated"
	case AdapterTypeDiscreteGPU:
		return "discrete"
	case AdapterTypeVirtualGPU:
		return "virtual"
	case AdapterTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// AdapterProperties describes an adapter, used for logging and reports.
type AdapterProperties struct {
	Name          string
	VendorID      uint32
	DeviceID      uint32
	DriverVersion uint32
	Type          AdapterType
	Memory        uint64
}

// ApplicationInfo is informational metadata handed to the driver.
type ApplicationInfo struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// InstanceCreateInfo is the context creation request.
type InstanceCreateInfo struct {
	Application ApplicationInfo
	Extensions  []string
	Layers      []string

	// Diagnostics, if set, is chained into the creation request so
	// messages emitted while the instance is being created are captured.
	Diagnostics DebugCallback
}

// QueueCreateInfo requests queues from one family.
type QueueCreateInfo struct {
	Family     uint32
	Priorities []float32
}

// DeviceCreateInfo is the logical device creation request.
type DeviceCreateInfo struct {
	Queues     []QueueCreateInfo
	Extensions []string
	Layers     []string
}

// SharingMode tells how swapchain images are shared between queue families.
type SharingMode int32

// Sharing modes
const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

// SwapchainCreateInfo is the swapchain creation request.
type SwapchainCreateInfo struct {
	Surface       SurfaceHandle
	MinImageCount uint32
	Format        SurfaceFormat
	Extent        Extent2D
	PresentMode   PresentMode

	SharingMode SharingMode
	// QueueFamilies is set only for concurrent sharing.
	QueueFamilies []uint32

	PreTransform   SurfaceTransform
	CompositeAlpha CompositeAlpha
}

// ImageViewType is the dimensionality of a view.
type ImageViewType int32

// ImageViewType2D views a single 2D image.
const ImageViewType2D ImageViewType = 1

// ComponentSwizzle remaps one channel of a view.
type ComponentSwizzle int32

// ComponentSwizzleIdentity keeps the channel as is.
const ComponentSwizzleIdentity ComponentSwizzle = 0

// ComponentMapping is the per-channel swizzle of a view.
type ComponentMapping struct {
	R, G, B, A ComponentSwizzle
}

// ImageAspect selects the aspect of an image a view covers.
type ImageAspect uint32

// ImageAspectColor is the color aspect.
const ImageAspectColor ImageAspect = 1

// SubresourceRange selects mip levels and array layers of an image.
type SubresourceRange struct {
	Aspect         ImageAspect
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// ImageViewCreateInfo is the image view creation request.
type ImageViewCreateInfo struct {
	Image      ImageHandle
	ViewType   ImageViewType
	Format     Format
	Components ComponentMapping
	Range      SubresourceRange
}
