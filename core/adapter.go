// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// QueueFamilyIndices holds the queue families the bootstrap needs.
// Graphics and Present may refer to the same family.
type QueueFamilyIndices struct {
	Graphics Optional[uint32]
	Present  Optional[uint32]
}

// IsComplete returns true if all families have been found.
func (q QueueFamilyIndices) IsComplete() bool {
	return q.Graphics.HasValue() && q.Present.HasValue()
}

// Unique returns the distinct family indices, graphics first.
// Only valid on complete indices.
func (q QueueFamilyIndices) Unique() []uint32 {
	graphics, present := q.Graphics.MustGet(), q.Present.MustGet()
	if graphics == present {
		return []uint32{graphics}
	}
	return []uint32{graphics, present}
}

// FindQueueFamilies scans the adapter's families in index order, recording the
// first graphics capable family and, independently, the first family that can
// present to surface.
func FindQueueFamilies(driver Driver, adapter AdapterHandle, surface SurfaceHandle, log logrus.FieldLogger) QueueFamilyIndices {
	var indices QueueFamilyIndices
	for i, family := range driver.QueueFamilies(adapter) {
		idx := uint32(i)
		if !indices.Graphics.HasValue() && family.Flags&QueueGraphics != 0 {
			indices.Graphics.Set(idx)
		}

		if !indices.Present.HasValue() {
			supported, err := driver.SurfaceSupport(adapter, idx, surface)
			if err != nil {
				log.WithError(err).WithField("family", idx).Warn("querying surface support failed")
			} else if supported {
				indices.Present.Set(idx)
			}
		}

		if indices.IsComplete() {
			break
		}
	}
	return indices
}

// MissingExtensions returns the required names the adapter does not expose.
func MissingExtensions(required, available []string) []string {
	remaining := make(map[string]struct{}, len(required))
	for _, name := range required {
		remaining[name] = struct{}{}
	}
	for _, name := range available {
		delete(remaining, name)
	}

	// keep the order of required for stable messages
	var missing []string
	for _, name := range required {
		if _, ok := remaining[name]; ok {
			missing = append(missing, name)
			delete(remaining, name)
		}
	}
	return missing
}

// QuerySwapChainSupport reads capabilities, formats and present modes
// of an adapter and surface pair.
func QuerySwapChainSupport(driver Driver, adapter AdapterHandle, surface SurfaceHandle) (SwapChainSupport, error) {
	var (
		support SwapChainSupport
		err     error
	)
	if support.Capabilities, err = driver.SurfaceCapabilities(adapter, surface); err != nil {
		return SwapChainSupport{}, errors.Wrap(err, "surface capabilities")
	}
	if support.Formats, err = driver.SurfaceFormats(adapter, surface); err != nil {
		return SwapChainSupport{}, errors.Wrap(err, "surface formats")
	}
	if support.PresentModes, err = driver.PresentModes(adapter, surface); err != nil {
		return SwapChainSupport{}, errors.Wrap(err, "present modes")
	}
	return support, nil
}

// adapterSelector evaluates adapters against one surface.
type adapterSelector struct {
	driver     Driver
	surface    SurfaceHandle
	extensions []string
	log        logrus.FieldLogger
}

// isSuitable checks queue families, extension support and, only when the
// extensions are present, swapchain adequacy. If not suitable the string
// contains the reason.
func (s adapterSelector) isSuitable(adapter AdapterHandle) (bool, string) {
	indices := FindQueueFamilies(s.driver, adapter, s.surface, s.log)

	available, err := s.driver.AdapterExtensions(adapter)
	if err != nil {
		return false, "enumerating extensions: " + err.Error()
	}
	if missing := MissingExtensions(s.extensions, available); len(missing) > 0 {
		return false, "missing extensions " + strings.Join(missing, ", ")
	}

	support, err := QuerySwapChainSupport(s.driver, adapter, s.surface)
	if err != nil {
		return false, "querying swapchain support: " + err.Error()
	}

	switch {
	case !indices.Graphics.HasValue():
		return false, "no graphics queue family"
	case !indices.Present.HasValue():
		return false, "no queue family can present to the surface"
	case !support.Adequate():
		return false, fmt.Sprintf("inadequate swapchain support (%d formats, %d present modes)",
			len(support.Formats), len(support.PresentModes))
	}
	return true, ""
}

// pick returns the first adapter in enumeration order that is suitable.
func (s adapterSelector) pick(instance InstanceHandle) (AdapterHandle, error) {
	adapters, err := s.driver.EnumerateAdapters(instance)
	if err != nil {
		return nil, failure(ErrNoAdaptersFound, err, "enumerating adapters")
	}
	if len(adapters) == 0 {
		return nil, failure(ErrNoAdaptersFound, nil, "")
	}

	for _, adapter := range adapters {
		props := s.driver.AdapterProperties(adapter)
		entry := s.log.WithFields(logrus.Fields{
			"adapter": props.Name,
			"type":    props.Type.String(),
		})
		if ok, reason := s.isSuitable(adapter); !ok {
			entry.WithField("reason", reason).Info("adapter rejected")
			continue
		}
		entry.Info("adapter selected")
		return adapter, nil
	}
	return nil, failure(ErrNoSuitableAdapter, nil, fmt.Sprintf("none of %d adapters qualify", len(adapters)))
}
