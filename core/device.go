// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

// queuePriority is used for the single queue requested per family.
const queuePriority float32 = 1.0

// LogicalDevice is the created device with its graphics and present queues.
// Both queues are the same handle when the families coincide.
type LogicalDevice struct {
	Handle   DeviceHandle
	Families QueueFamilyIndices

	GraphicsQueue QueueHandle
	PresentQueue  QueueHandle
}

// newDeviceCreateInfo requests one queue for every distinct family. Device
// layers mirror the instance layers for implementations that still honour them.
func newDeviceCreateInfo(indices QueueFamilyIndices, cfg Configuration) DeviceCreateInfo {
	info := DeviceCreateInfo{
		Extensions: append([]string(nil), cfg.RequiredDeviceExtensions...),
	}
	for _, family := range indices.Unique() {
		info.Queues = append(info.Queues, QueueCreateInfo{
			Family:     family,
			Priorities: []float32{queuePriority},
		})
	}
	if cfg.EnableDiagnostics {
		info.Layers = append([]string(nil), cfg.RequiredLayers...)
	}
	return info
}

func createLogicalDevice(driver Driver, adapter AdapterHandle, indices QueueFamilyIndices, cfg Configuration) (*LogicalDevice, error) {
	if !indices.IsComplete() {
		return nil, failure(ErrDeviceCreationFailed, nil, "adapter queue families are incomplete")
	}

	handle, err := driver.CreateDevice(adapter, newDeviceCreateInfo(indices, cfg))
	if err != nil {
		return nil, failure(ErrDeviceCreationFailed, err, "")
	}

	return &LogicalDevice{
		Handle:        handle,
		Families:      indices,
		GraphicsQueue: driver.DeviceQueue(handle, indices.Graphics.MustGet(), 0),
		PresentQueue:  driver.DeviceQueue(handle, indices.Present.MustGet(), 0),
	}, nil
}
