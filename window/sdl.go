// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window provides the SDL window the context is presented to.
package window

import (
	"context"
	"time"
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/koruboot/core"
)

// SDL is a Vulkan capable SDL window. SDL must be driven from the
// thread that created it, callers lock the OS thread.
type SDL struct {
	window *sdl.Window
	log    logrus.FieldLogger
}

var _ core.Window = (*SDL)(nil)

// NewSDL initialises SDL, loads the Vulkan library and opens a window.
func NewSDL(title string, width, height uint32, log logrus.FieldLogger) (*SDL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl.Init()")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(width),
		int32(height),
		sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}

	return &SDL{window: window, log: log}, nil
}

// ProcAddr returns vkGetInstanceProcAddr of the library SDL loaded.
func (s *SDL) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// RequiredInstanceExtensions implements core.Window.
func (s *SDL) RequiredInstanceExtensions() []string {
	return s.window.VulkanGetInstanceExtensions()
}

// CreateSurface implements core.Window.
func (s *SDL) CreateSurface(instance core.InstanceHandle) (core.SurfaceHandle, error) {
	ptr, err := s.window.VulkanCreateSurface(instance)
	if err != nil {
		return nil, errors.Wrap(err, "window.VulkanCreateSurface()")
	}
	return vk.SurfaceFromPointer(uintptr(ptr)), nil
}

// FramebufferSize implements core.Window.
func (s *SDL) FramebufferSize() (uint32, uint32) {
	w, h := s.window.VulkanGetDrawableSize()
	return uint32(w), uint32(h)
}

// Run polls window events every pollDelay until the window is closed,
// Escape is pressed or ctx is done.
func (s *SDL) Run(ctx context.Context, pollDelay time.Duration) {
	ticker := time.NewTicker(pollDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("event loop cancelled")
			return
		case <-ticker.C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						s.log.Debug("escape pressed, leaving event loop")
						return
					}
				case *sdl.QuitEvent:
					s.log.Debug("window closed, leaving event loop")
					return
				}
			}
		}
	}
}

// Destroy closes the window and shuts SDL down.
func (s *SDL) Destroy() {
	if s.window != nil {
		if err := s.window.Destroy(); err != nil {
			s.log.WithError(err).Warn("destroying window failed")
		}
		s.window = nil
	}
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}
