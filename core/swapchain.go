// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/sirupsen/logrus"

// PresentChain is the created swapchain with the images the driver handed out.
// Images are owned by the swapchain and never destroyed individually.
type PresentChain struct {
	Handle      SwapchainHandle
	Format      SurfaceFormat
	Extent      Extent2D
	PresentMode PresentMode
	Images      []ImageHandle
}

// ChooseSurfaceFormat prefers 8 bit BGRA sRGB with a nonlinear sRGB color space
// and falls back to the first reported format. formats must not be empty.
func ChooseSurfaceFormat(formats []SurfaceFormat) SurfaceFormat {
	for _, format := range formats {
		if format.Format == FormatB8G8R8A8Srgb && format.ColorSpace == ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return formats[0]
}

// ChoosePresentMode prefers mailbox, otherwise fifo which every implementation supports.
func ChoosePresentMode(modes []PresentMode) PresentMode {
	for _, mode := range modes {
		if mode == PresentModeMailbox {
			return mode
		}
	}
	return PresentModeFifo
}

// ChooseExtent uses the surface's current extent when the windowing system fixed it,
// otherwise clamps the framebuffer size into the supported range.
func ChooseExtent(caps SurfaceCapabilities, framebuffer func() (uint32, uint32)) Extent2D {
	if caps.CurrentExtent.Width != UndefinedExtent {
		return caps.CurrentExtent
	}

	width, height := framebuffer()
	return Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image above the minimum, capped by a nonzero maximum.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// ChooseCompositeAlpha returns the first supported compositing mode,
// opaque when the surface reports none.
func ChooseCompositeAlpha(supported CompositeAlpha) CompositeAlpha {
	for _, mode := range []CompositeAlpha{
		CompositeAlphaOpaque,
		CompositeAlphaPreMultiplied,
		CompositeAlphaPostMultiplied,
		CompositeAlphaInherit,
	} {
		if supported&mode != 0 {
			return mode
		}
	}
	return CompositeAlphaOpaque
}

// ChooseSharing shares images concurrently between distinct graphics and present
// families, exclusive ownership otherwise.
func ChooseSharing(indices QueueFamilyIndices) (SharingMode, []uint32) {
	graphics, present := indices.Graphics.MustGet(), indices.Present.MustGet()
	if graphics != present {
		return SharingModeConcurrent, []uint32{graphics, present}
	}
	return SharingModeExclusive, nil
}

func clamp(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// newSwapchainCreateInfo negotiates every swapchain parameter from the queried support.
func newSwapchainCreateInfo(support SwapChainSupport, surface SurfaceHandle, indices QueueFamilyIndices, window Window) SwapchainCreateInfo {
	caps := support.Capabilities
	sharing, families := ChooseSharing(indices)
	return SwapchainCreateInfo{
		Surface:        surface,
		MinImageCount:  ChooseImageCount(caps),
		Format:         ChooseSurfaceFormat(support.Formats),
		Extent:         ChooseExtent(caps, window.FramebufferSize),
		PresentMode:    ChoosePresentMode(support.PresentModes),
		SharingMode:    sharing,
		QueueFamilies:  families,
		PreTransform:   caps.CurrentTransform,
		CompositeAlpha: ChooseCompositeAlpha(caps.SupportedCompositeAlpha),
	}
}

// createPresentChain creates the swapchain and retrieves its images. On failure
// after the swapchain was created it is destroyed before returning.
func createPresentChain(driver Driver, device *LogicalDevice, adapter AdapterHandle, surface SurfaceHandle, window Window, log logrus.FieldLogger) (*PresentChain, error) {
	support, err := QuerySwapChainSupport(driver, adapter, surface)
	if err != nil {
		return nil, failure(ErrPresentChainCreationFailed, err, "")
	}
	if !support.Adequate() {
		return nil, failure(ErrPresentChainCreationFailed, nil, "surface reports no formats or present modes")
	}

	info := newSwapchainCreateInfo(support, surface, device.Families, window)
	log.WithFields(logrus.Fields{
		"images":       info.MinImageCount,
		"format":       info.Format.Format,
		"extent":       info.Extent,
		"present_mode": info.PresentMode.String(),
		"sharing":      info.SharingMode,
	}).Debug("negotiated swapchain")

	handle, err := driver.CreateSwapchain(device.Handle, info)
	if err != nil {
		return nil, failure(ErrPresentChainCreationFailed, err, "")
	}

	// the driver may create more images than requested
	images, err := driver.SwapchainImages(device.Handle, handle)
	if err != nil {
		driver.DestroySwapchain(device.Handle, handle)
		return nil, failure(ErrPresentChainCreationFailed, err, "retrieving swapchain images")
	}

	return &PresentChain{
		Handle:      handle,
		Format:      info.Format,
		Extent:      info.Extent,
		PresentMode: info.PresentMode,
		Images:      images,
	}, nil
}
