// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core brings up a presentable GPU context: it creates the API instance,
// binds it to a window surface, selects an adapter, creates the logical device
// with its queues, negotiates the swapchain and wraps its images in views.
//
// The package talks to the graphics runtime and to the windowing system only
// through the Driver and Window interfaces, so every stage can be run against
// fakes.
package core

// Opaque driver handles. The concrete values are owned by the Driver
// implementation; core only passes them back to the Driver it got them from.
type (
	InstanceHandle      interface{}
	SurfaceHandle       interface{}
	AdapterHandle       interface{}
	DeviceHandle        interface{}
	QueueHandle         interface{}
	SwapchainHandle     interface{}
	ImageHandle         interface{}
	ImageViewHandle     interface{}
	DebugCallbackHandle interface{}
)

// Window describes the windowing system the context is presented to.
type Window interface {
	// RequiredInstanceExtensions returns the instance extensions
	// the platform needs for surface creation.
	RequiredInstanceExtensions() []string

	// CreateSurface binds the instance to the native window.
	CreateSurface(InstanceHandle) (SurfaceHandle, error)

	// FramebufferSize returns the current drawable size in pixels.
	FramebufferSize() (width, height uint32)
}

// Driver describes the graphics runtime primitives the bootstrap sequence needs.
// Every Create* has a matching Destroy*; enumeration calls return slices
// in the order the runtime reports them.
type Driver interface {
	// AvailableLayers lists the instance layers installed on the system.
	AvailableLayers() ([]string, error)

	// AvailableInstanceExtensions lists instance level extensions.
	AvailableInstanceExtensions() ([]string, error)

	CreateInstance(InstanceCreateInfo) (InstanceHandle, error)
	DestroyInstance(InstanceHandle)

	// DebugReporter looks up the optional diagnostic callback entry points.
	// It returns false when the running driver does not expose them,
	// which is not an error.
	DebugReporter(InstanceHandle) (DebugReporter, bool)

	DestroySurface(InstanceHandle, SurfaceHandle)

	EnumerateAdapters(InstanceHandle) ([]AdapterHandle, error)
	AdapterProperties(AdapterHandle) AdapterProperties
	AdapterExtensions(AdapterHandle) ([]string, error)
	QueueFamilies(AdapterHandle) []QueueFamily
	SurfaceSupport(adapter AdapterHandle, family uint32, surface SurfaceHandle) (bool, error)

	SurfaceCapabilities(AdapterHandle, SurfaceHandle) (SurfaceCapabilities, error)
	SurfaceFormats(AdapterHandle, SurfaceHandle) ([]SurfaceFormat, error)
	PresentModes(AdapterHandle, SurfaceHandle) ([]PresentMode, error)

	CreateDevice(AdapterHandle, DeviceCreateInfo) (DeviceHandle, error)
	DestroyDevice(DeviceHandle)
	DeviceQueue(device DeviceHandle, family, index uint32) QueueHandle

	CreateSwapchain(DeviceHandle, SwapchainCreateInfo) (SwapchainHandle, error)
	DestroySwapchain(DeviceHandle, SwapchainHandle)
	SwapchainImages(DeviceHandle, SwapchainHandle) ([]ImageHandle, error)

	CreateImageView(DeviceHandle, ImageViewCreateInfo) (ImageViewHandle, error)
	DestroyImageView(DeviceHandle, ImageViewHandle)
}

// DebugReporter installs diagnostic callbacks on an instance.
type DebugReporter interface {
	Install(DebugCallback) (DebugCallbackHandle, error)
	Uninstall(DebugCallbackHandle)
}
