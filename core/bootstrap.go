// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Bootstrap is a fully brought up presentable context. All of its
// resources are released together by Destroy.
type Bootstrap struct {
	driver Driver
	log    logrus.FieldLogger
	stack  releaseStack

	config     Configuration
	instance   InstanceHandle
	surface    SurfaceHandle
	adapter    AdapterHandle
	device     *LogicalDevice
	chain      *PresentChain
	imageViews []ImageViewHandle
}

// NewBootstrap runs every stage in order against driver and window. On any
// failure the resources created so far are released in reverse order and
// the error is returned; no partially built Bootstrap is ever returned.
func NewBootstrap(driver Driver, window Window, cfg Configuration, logger logrus.FieldLogger) (*Bootstrap, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	b := &Bootstrap{
		driver: driver,
		log:    logger,
		config: cfg,
		stack:  releaseStack{log: logger},
	}
	if err := b.run(window); err != nil {
		b.stack.unwind()
		return nil, err
	}
	return b, nil
}

func (b *Bootstrap) stage(name string) logrus.FieldLogger {
	l := b.log.WithField("stage", name)
	l.Debug("starting")
	return l
}

func (b *Bootstrap) run(window Window) error {
	var (
		driver = b.driver
		cfg    = b.config
		err    error
	)

	if cfg.EnableDiagnostics {
		log := b.stage("validation")
		if err = checkValidationSupport(driver, cfg.RequiredLayers); err != nil {
			return err
		}
		logInstanceExtensions(driver, log)
	}

	b.stage("instance")
	diagnostics := LogDiagnostics(b.log.WithField("source", "diagnostics"))
	info := newInstanceCreateInfo(cfg, instanceExtensions(window, cfg.EnableDiagnostics), diagnostics)
	if b.instance, err = createInstance(driver, info); err != nil {
		return err
	}
	instance := b.instance
	b.stack.push("instance", func() { driver.DestroyInstance(instance) })

	if cfg.EnableDiagnostics {
		log := b.stage("debug callback")
		reporter, handle, err := installDebugCallback(driver, instance, diagnostics)
		switch {
		case err != nil:
			log.WithError(err).Warn("installing diagnostic callback failed")
		case reporter == nil:
			log.Warn("diagnostic callback entry points are not available")
		default:
			b.stack.push("debug callback", func() { reporter.Uninstall(handle) })
		}
	}

	b.stage("surface")
	if b.surface, err = createSurface(window, instance); err != nil {
		return err
	}
	surface := b.surface
	b.stack.push("surface", func() { driver.DestroySurface(instance, surface) })

	log := b.stage("adapter")
	selector := adapterSelector{
		driver:     driver,
		surface:    surface,
		extensions: cfg.RequiredDeviceExtensions,
		log:        log,
	}
	if b.adapter, err = selector.pick(instance); err != nil {
		return err
	}

	log = b.stage("device")
	indices := FindQueueFamilies(driver, b.adapter, surface, log)
	if b.device, err = createLogicalDevice(driver, b.adapter, indices, cfg); err != nil {
		return err
	}
	device := b.device.Handle
	b.stack.push("device", func() { driver.DestroyDevice(device) })

	log = b.stage("present chain")
	if b.chain, err = createPresentChain(driver, b.device, b.adapter, surface, window, log); err != nil {
		return err
	}
	swapchain := b.chain.Handle
	b.stack.push("present chain", func() { driver.DestroySwapchain(device, swapchain) })

	b.stage("image views")
	if b.imageViews, err = createImageViews(driver, device, b.chain.Images, b.chain.Format.Format); err != nil {
		return err
	}
	views := b.imageViews
	b.stack.push("image views", func() {
		for i := len(views) - 1; i >= 0; i-- {
			driver.DestroyImageView(device, views[i])
		}
	})

	b.log.WithFields(logrus.Fields{
		"images": len(views),
		"extent": b.chain.Extent,
	}).Info("context ready")
	return nil
}

// Instance returns the API instance.
func (b *Bootstrap) Instance() InstanceHandle {
	return b.instance
}

// Surface returns the window surface.
func (b *Bootstrap) Surface() SurfaceHandle {
	return b.surface
}

// Adapter returns the selected adapter.
func (b *Bootstrap) Adapter() AdapterHandle {
	return b.adapter
}

// Device returns the logical device and its queues.
func (b *Bootstrap) Device() *LogicalDevice {
	return b.device
}

// PresentChain returns the swapchain with its images, format and extent.
func (b *Bootstrap) PresentChain() *PresentChain {
	return b.chain
}

// ImageViews returns one view per present chain image in the same order.
func (b *Bootstrap) ImageViews() []ImageViewHandle {
	return b.imageViews
}

// Config returns the configuration the context was built with.
func (b *Bootstrap) Config() Configuration {
	return b.config
}

// Destroy releases every resource in reverse creation order.
// Calling it again is a no-op.
func (b *Bootstrap) Destroy() {
	b.stack.unwind()
}
