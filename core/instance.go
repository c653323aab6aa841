// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/sirupsen/logrus"

// instanceExtensions returns the platform extensions followed by the
// diagnostic extension when diagnostics are enabled.
func instanceExtensions(window Window, diagnostics bool) []string {
	platform := window.RequiredInstanceExtensions()
	extensions := make([]string, 0, len(platform)+1)
	extensions = append(extensions, platform...)
	if diagnostics {
		extensions = append(extensions, DiagnosticExtensionName)
	}
	return extensions
}

// newInstanceCreateInfo builds the context creation request. Layers and the chained
// diagnostic callback are only set with diagnostics enabled.
func newInstanceCreateInfo(cfg Configuration, extensions []string, cb DebugCallback) InstanceCreateInfo {
	info := InstanceCreateInfo{
		Application: cfg.Application,
		Extensions:  extensions,
	}
	if cfg.EnableDiagnostics {
		info.Layers = append([]string(nil), cfg.RequiredLayers...)
		info.Diagnostics = cb
	}
	return info
}

func createInstance(driver Driver, info InstanceCreateInfo) (InstanceHandle, error) {
	instance, err := driver.CreateInstance(info)
	if err != nil {
		return nil, failure(ErrContextCreationFailed, err, "")
	}
	return instance, nil
}

func logInstanceExtensions(driver Driver, log logrus.FieldLogger) {
	available, err := driver.AvailableInstanceExtensions()
	if err != nil {
		log.WithError(err).Warn("could not enumerate instance extensions")
		return
	}
	for _, ext := range available {
		log.WithField("extension", ext).Debug("available instance extension")
	}
}
