// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/koruboot/core"
)

var (
	preferred = core.SurfaceFormat{Format: core.FormatB8G8R8A8Srgb, ColorSpace: core.ColorSpaceSrgbNonlinear}
	rgbaUnorm = core.SurfaceFormat{Format: core.FormatR8G8B8A8Unorm, ColorSpace: core.ColorSpaceSrgbNonlinear}
	bgraUnorm = core.SurfaceFormat{Format: core.FormatB8G8R8A8Unorm, ColorSpace: core.ColorSpaceSrgbNonlinear}
	// right format in an extended color space
	bgraOther = core.SurfaceFormat{Format: core.FormatB8G8R8A8Srgb, ColorSpace: 1000104001}
)

func TestChooseSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []core.SurfaceFormat
		want    core.SurfaceFormat
	}{
		{"only preferred", []core.SurfaceFormat{preferred}, preferred},
		{"preferred first", []core.SurfaceFormat{preferred, rgbaUnorm}, preferred},
		{"preferred last", []core.SurfaceFormat{rgbaUnorm, bgraUnorm, preferred}, preferred},
		{"fallback to first", []core.SurfaceFormat{rgbaUnorm, bgraUnorm}, rgbaUnorm},
		{"color space must match", []core.SurfaceFormat{bgraUnorm, bgraOther}, bgraUnorm},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			qt.Assert(t, core.ChooseSurfaceFormat(tc.formats), qt.Equals, tc.want)
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		modes []core.PresentMode
		want  core.PresentMode
	}{
		{[]core.PresentMode{core.PresentModeFifo, core.PresentModeMailbox}, core.PresentModeMailbox},
		{[]core.PresentMode{core.PresentModeMailbox}, core.PresentModeMailbox},
		{[]core.PresentMode{core.PresentModeFifo}, core.PresentModeFifo},
		{[]core.PresentMode{core.PresentModeImmediate, core.PresentModeFifoRelaxed}, core.PresentModeFifo},
		{nil, core.PresentModeFifo},
	}
	for _, tc := range tests {
		qt.Check(t, core.ChoosePresentMode(tc.modes), qt.Equals, tc.want, qt.Commentf("modes %v", tc.modes))
	}
}

func TestChooseExtent(t *testing.T) {
	bounded := core.SurfaceCapabilities{
		CurrentExtent:  core.Extent2D{Width: core.UndefinedExtent, Height: core.UndefinedExtent},
		MinImageExtent: core.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: core.Extent2D{Width: 1920, Height: 1080},
	}
	fixed := bounded
	fixed.CurrentExtent = core.Extent2D{Width: 1280, Height: 720}

	tests := []struct {
		name          string
		caps          core.SurfaceCapabilities
		width, height uint32
		want          core.Extent2D
	}{
		{"inside range", bounded, 800, 600, core.Extent2D{Width: 800, Height: 600}},
		{"above range", bounded, 4000, 3000, core.Extent2D{Width: 1920, Height: 1080}},
		{"below range", bounded, 10, 20, core.Extent2D{Width: 100, Height: 100}},
		{"clamped independently", bounded, 5000, 50, core.Extent2D{Width: 1920, Height: 100}},
		{"current extent wins", fixed, 4000, 10, core.Extent2D{Width: 1280, Height: 720}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var queried bool
			got := core.ChooseExtent(tc.caps, func() (uint32, uint32) {
				queried = true
				return tc.width, tc.height
			})
			qt.Assert(t, got, qt.Equals, tc.want)
			qt.Assert(t, queried, qt.Equals, tc.caps.CurrentExtent.Width == core.UndefinedExtent)
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		min, max, want uint32
	}{
		{2, 0, 3},
		{2, 2, 2},
		{2, 8, 3},
		{1, 3, 2},
		{3, 3, 3},
	}
	for _, tc := range tests {
		caps := core.SurfaceCapabilities{MinImageCount: tc.min, MaxImageCount: tc.max}
		qt.Check(t, core.ChooseImageCount(caps), qt.Equals, tc.want, qt.Commentf("min %d max %d", tc.min, tc.max))
	}
}

func TestChooseCompositeAlpha(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.ChooseCompositeAlpha(core.CompositeAlphaOpaque|core.CompositeAlphaInherit), qt.Equals, core.CompositeAlphaOpaque)
	c.Assert(core.ChooseCompositeAlpha(core.CompositeAlphaPostMultiplied|core.CompositeAlphaInherit), qt.Equals, core.CompositeAlphaPostMultiplied)
	c.Assert(core.ChooseCompositeAlpha(core.CompositeAlphaInherit), qt.Equals, core.CompositeAlphaInherit)
	c.Assert(core.ChooseCompositeAlpha(0), qt.Equals, core.CompositeAlphaOpaque)
}

func TestChooseSharing(t *testing.T) {
	c := qt.New(t)

	split := core.QueueFamilyIndices{Graphics: core.Some(uint32(0)), Present: core.Some(uint32(2))}
	mode, families := core.ChooseSharing(split)
	c.Assert(mode, qt.Equals, core.SharingModeConcurrent)
	c.Assert(families, qt.DeepEquals, []uint32{0, 2})

	same := core.QueueFamilyIndices{Graphics: core.Some(uint32(1)), Present: core.Some(uint32(1))}
	mode, families = core.ChooseSharing(same)
	c.Assert(mode, qt.Equals, core.SharingModeExclusive)
	c.Assert(families, qt.IsNil)
}
