// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AdapterInfo describes one adapter as reported by DescribeAdapters.
type AdapterInfo struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	VendorID      uint32   `json:"vendorId"`
	DeviceID      uint32   `json:"deviceId"`
	DriverVersion uint32   `json:"driverVersion"`
	Memory        uint64   `json:"memory"`
	Extensions    []string `json:"extensions"`

	// MissingExtensions lists required device extensions the adapter lacks.
	MissingExtensions []string `json:"missingExtensions,omitempty"`
}

// DescribeAdapters creates a windowless instance, describes every adapter
// it exposes and destroys the instance again. Diagnostic messages go to
// logger, the standard logger when nil.
func DescribeAdapters(driver Driver, cfg Configuration, logger logrus.FieldLogger) ([]AdapterInfo, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.EnableDiagnostics {
		if err := checkValidationSupport(driver, cfg.RequiredLayers); err != nil {
			return nil, err
		}
	}

	var extensions []string
	if cfg.EnableDiagnostics {
		extensions = []string{DiagnosticExtensionName}
	}
	instance, err := createInstance(driver, newInstanceCreateInfo(cfg, extensions, LogDiagnostics(logger)))
	if err != nil {
		return nil, err
	}
	defer driver.DestroyInstance(instance)

	adapters, err := driver.EnumerateAdapters(instance)
	if err != nil {
		return nil, failure(ErrNoAdaptersFound, err, "enumerating adapters")
	}

	infos := make([]AdapterInfo, 0, len(adapters))
	for _, adapter := range adapters {
		props := driver.AdapterProperties(adapter)
		available, err := driver.AdapterExtensions(adapter)
		if err != nil {
			return nil, errors.Wrapf(err, "extensions of %s", props.Name)
		}
		infos = append(infos, AdapterInfo{
			Name:              props.Name,
			Type:              props.Type.String(),
			VendorID:          props.VendorID,
			DeviceID:          props.DeviceID,
			DriverVersion:     props.DriverVersion,
			Memory:            props.Memory,
			Extensions:        available,
			MissingExtensions: MissingExtensions(cfg.RequiredDeviceExtensions, available),
		})
	}
	return infos, nil
}
