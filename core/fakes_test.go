// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"fmt"

	"github.com/devblok/koruboot/core"
)

const swapchainExtension = "VK_KHR_swapchain"

type handle struct {
	kind string
	id   int
}

func (h handle) String() string {
	return fmt.Sprintf("%s#%d", h.kind, h.id)
}

type queue struct {
	family, index uint32
}

type fakeAdapter struct {
	name       string
	props      core.AdapterProperties
	families   []core.QueueFamily
	present    map[uint32]bool
	extensions []string

	// supportErr fails the surface support query of a family.
	supportErr map[uint32]error

	caps    core.SurfaceCapabilities
	formats []core.SurfaceFormat
	modes   []core.PresentMode

	// extraImages is added to the requested image count by the swapchain.
	extraImages uint32
}

func newAdapter(name string) *fakeAdapter {
	return &fakeAdapter{
		name:       name,
		props:      core.AdapterProperties{Name: name, Type: core.AdapterTypeDiscreteGPU},
		families:   []core.QueueFamily{{Flags: core.QueueGraphics | core.QueueCompute, Count: 1}},
		present:    map[uint32]bool{0: true},
		extensions: []string{swapchainExtension},
		caps: core.SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           8,
			CurrentExtent:           core.Extent2D{Width: 800, Height: 600},
			MinImageExtent:          core.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:          core.Extent2D{Width: 4096, Height: 4096},
			CurrentTransform:        core.SurfaceTransformIdentity,
			SupportedCompositeAlpha: core.CompositeAlphaOpaque,
		},
		formats: []core.SurfaceFormat{{Format: core.FormatB8G8R8A8Srgb, ColorSpace: core.ColorSpaceSrgbNonlinear}},
		modes:   []core.PresentMode{core.PresentModeFifo, core.PresentModeMailbox},
	}
}

// fakeDriver is an in-memory Driver recording every creation and destruction.
type fakeDriver struct {
	layers             []string
	layersErr          error
	instanceExtensions []string
	adapters           []*fakeAdapter
	adaptersErr        error
	noDebugReporter    bool

	failInstance  error
	failInstall   error
	failDevice    error
	failSwapchain error
	failImages    error
	// failViewAt fails the n-th image view creation, counting from 1.
	failViewAt int

	nextID         int
	live           map[string]int
	created        []string
	destroyed      []string
	layerQueries   int
	supportQueries map[string]int
	views          int
	images         map[handle]uint32

	instanceInfo  core.InstanceCreateInfo
	deviceInfo    core.DeviceCreateInfo
	swapchainInfo core.SwapchainCreateInfo
	viewInfos     []core.ImageViewCreateInfo
}

func newDriver(adapters ...*fakeAdapter) *fakeDriver {
	return &fakeDriver{
		layers:             []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_LUNARG_monitor"},
		instanceExtensions: []string{"VK_KHR_surface", core.DiagnosticExtensionName},
		adapters:           adapters,
		live:               make(map[string]int),
		supportQueries:     make(map[string]int),
		images:             make(map[handle]uint32),
	}
}

func (d *fakeDriver) create(kind string) handle {
	d.nextID++
	h := handle{kind: kind, id: d.nextID}
	d.live[kind]++
	d.created = append(d.created, h.String())
	return h
}

func (d *fakeDriver) destroy(h interface{}) {
	hh := h.(handle)
	d.live[hh.kind]--
	d.destroyed = append(d.destroyed, hh.String())
}

func (d *fakeDriver) liveTotal() int {
	var total int
	for _, n := range d.live {
		total += n
	}
	return total
}

func (d *fakeDriver) AvailableLayers() ([]string, error) {
	d.layerQueries++
	return d.layers, d.layersErr
}

func (d *fakeDriver) AvailableInstanceExtensions() ([]string, error) {
	return d.instanceExtensions, nil
}

func (d *fakeDriver) CreateInstance(info core.InstanceCreateInfo) (core.InstanceHandle, error) {
	d.instanceInfo = info
	if d.failInstance != nil {
		return nil, d.failInstance
	}
	if info.Diagnostics != nil {
		info.Diagnostics(core.DiagnosticMessage{
			Severity: core.SeverityWarning,
			Layer:    "fake",
			Code:     7,
			Text:     "message during instance creation",
		})
	}
	return d.create("instance"), nil
}

func (d *fakeDriver) DestroyInstance(i core.InstanceHandle) { d.destroy(i) }

func (d *fakeDriver) DebugReporter(core.InstanceHandle) (core.DebugReporter, bool) {
	if d.noDebugReporter {
		return nil, false
	}
	return fakeReporter{d}, true
}

func (d *fakeDriver) DestroySurface(_ core.InstanceHandle, s core.SurfaceHandle) { d.destroy(s) }

func (d *fakeDriver) EnumerateAdapters(core.InstanceHandle) ([]core.AdapterHandle, error) {
	if d.adaptersErr != nil {
		return nil, d.adaptersErr
	}
	out := make([]core.AdapterHandle, 0, len(d.adapters))
	for _, a := range d.adapters {
		out = append(out, a)
	}
	return out, nil
}

func (d *fakeDriver) AdapterProperties(a core.AdapterHandle) core.AdapterProperties {
	return a.(*fakeAdapter).props
}

func (d *fakeDriver) AdapterExtensions(a core.AdapterHandle) ([]string, error) {
	return a.(*fakeAdapter).extensions, nil
}

func (d *fakeDriver) QueueFamilies(a core.AdapterHandle) []core.QueueFamily {
	return a.(*fakeAdapter).families
}

func (d *fakeDriver) SurfaceSupport(a core.AdapterHandle, family uint32, _ core.SurfaceHandle) (bool, error) {
	fa := a.(*fakeAdapter)
	if err := fa.supportErr[family]; err != nil {
		return false, err
	}
	return fa.present[family], nil
}

func (d *fakeDriver) SurfaceCapabilities(a core.AdapterHandle, _ core.SurfaceHandle) (core.SurfaceCapabilities, error) {
	fa := a.(*fakeAdapter)
	d.supportQueries[fa.name]++
	return fa.caps, nil
}

func (d *fakeDriver) SurfaceFormats(a core.AdapterHandle, _ core.SurfaceHandle) ([]core.SurfaceFormat, error) {
	fa := a.(*fakeAdapter)
	d.supportQueries[fa.name]++
	return fa.formats, nil
}

func (d *fakeDriver) PresentModes(a core.AdapterHandle, _ core.SurfaceHandle) ([]core.PresentMode, error) {
	fa := a.(*fakeAdapter)
	d.supportQueries[fa.name]++
	return fa.modes, nil
}

func (d *fakeDriver) CreateDevice(a core.AdapterHandle, info core.DeviceCreateInfo) (core.DeviceHandle, error) {
	d.deviceInfo = info
	if d.failDevice != nil {
		return nil, d.failDevice
	}
	return d.create("device"), nil
}

func (d *fakeDriver) DestroyDevice(dev core.DeviceHandle) { d.destroy(dev) }

func (d *fakeDriver) DeviceQueue(_ core.DeviceHandle, family, index uint32) core.QueueHandle {
	return queue{family: family, index: index}
}

func (d *fakeDriver) CreateSwapchain(_ core.DeviceHandle, info core.SwapchainCreateInfo) (core.SwapchainHandle, error) {
	d.swapchainInfo = info
	if d.failSwapchain != nil {
		return nil, d.failSwapchain
	}
	h := d.create("swapchain")
	count := info.MinImageCount
	for _, a := range d.adapters {
		count += a.extraImages
	}
	d.images[h] = count
	return h, nil
}

func (d *fakeDriver) DestroySwapchain(_ core.DeviceHandle, s core.SwapchainHandle) { d.destroy(s) }

func (d *fakeDriver) SwapchainImages(_ core.DeviceHandle, s core.SwapchainHandle) ([]core.ImageHandle, error) {
	if d.failImages != nil {
		return nil, d.failImages
	}
	count := d.images[s.(handle)]
	images := make([]core.ImageHandle, count)
	for i := range images {
		images[i] = handle{kind: "image", id: i}
	}
	return images, nil
}

func (d *fakeDriver) CreateImageView(_ core.DeviceHandle, info core.ImageViewCreateInfo) (core.ImageViewHandle, error) {
	d.views++
	if d.failViewAt == d.views {
		return nil, fmt.Errorf("out of device memory")
	}
	d.viewInfos = append(d.viewInfos, info)
	return d.create("image view"), nil
}

func (d *fakeDriver) DestroyImageView(_ core.DeviceHandle, v core.ImageViewHandle) { d.destroy(v) }

type fakeReporter struct {
	d *fakeDriver
}

func (r fakeReporter) Install(core.DebugCallback) (core.DebugCallbackHandle, error) {
	if r.d.failInstall != nil {
		return nil, r.d.failInstall
	}
	return r.d.create("debug callback"), nil
}

func (r fakeReporter) Uninstall(h core.DebugCallbackHandle) { r.d.destroy(h) }

// fakeWindow creates surfaces that are tracked by its driver.
type fakeWindow struct {
	d             *fakeDriver
	extensions    []string
	width, height uint32
	surfaceErr    error
	nilSurface    bool
}

func newWindow(d *fakeDriver) *fakeWindow {
	return &fakeWindow{
		d:          d,
		extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
		width:      800,
		height:     600,
	}
}

func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) CreateSurface(core.InstanceHandle) (core.SurfaceHandle, error) {
	if w.surfaceErr != nil {
		return nil, w.surfaceErr
	}
	if w.nilSurface {
		return nil, nil
	}
	return w.d.create("surface"), nil
}

func (w *fakeWindow) FramebufferSize() (uint32, uint32) {
	return w.width, w.height
}

func testConfig(diagnostics bool) core.Configuration {
	cfg := core.DefaultConfiguration()
	cfg.EnableDiagnostics = diagnostics
	return cfg
}
