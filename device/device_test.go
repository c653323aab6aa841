// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"testing"

	vk "github.com/devblok/vulkan"
	qt "github.com/frankban/quicktest"

	"github.com/devblok/koruboot/core"
)

func TestSafeStrings(t *testing.T) {
	c := qt.New(t)
	c.Assert(safeString("VK_KHR_swapchain"), qt.Equals, "VK_KHR_swapchain\x00")
	c.Assert(safeString("VK_KHR_surface\x00"), qt.Equals, "VK_KHR_surface\x00")
	c.Assert(safeStrings([]string{"a", "b\x00"}), qt.DeepEquals, []string{"a\x00", "b\x00"})
	c.Assert(safeStrings(nil), qt.HasLen, 0)
}

func TestMakeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"1.0.0", vk.MakeVersion(1, 0, 0)},
		{"1.2.3", vk.MakeVersion(1, 2, 3)},
		{"2", vk.MakeVersion(2, 0, 0)},
		{"", vk.MakeVersion(0, 0, 0)},
		{"1.x.4", vk.MakeVersion(1, 0, 4)},
	}
	for _, tc := range tests {
		qt.Check(t, makeVersion(tc.in), qt.Equals, tc.want, qt.Commentf("version %q", tc.in))
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		flags vk.DebugReportFlagBits
		want  core.Severity
	}{
		{vk.DebugReportErrorBit, core.SeverityError},
		{vk.DebugReportWarningBit, core.SeverityWarning},
		{vk.DebugReportPerformanceWarningBit, core.SeverityPerformance},
		{vk.DebugReportInformationBit, core.SeverityInformation},
		{vk.DebugReportDebugBit, core.SeverityDebug},
		{vk.DebugReportWarningBit | vk.DebugReportErrorBit, core.SeverityError},
	}
	for _, tc := range tests {
		qt.Check(t, severityOf(vk.DebugReportFlags(tc.flags)), qt.Equals, tc.want)
	}
}

func TestAdapterType(t *testing.T) {
	c := qt.New(t)
	c.Assert(adapterType(vk.PhysicalDeviceTypeDiscreteGpu), qt.Equals, core.AdapterTypeDiscreteGPU)
	c.Assert(adapterType(vk.PhysicalDeviceTypeIntegratedGpu), qt.Equals, core.AdapterTypeIntegratedGPU)
	c.Assert(adapterType(vk.PhysicalDeviceTypeCpu), qt.Equals, core.AdapterTypeCPU)
	c.Assert(adapterType(vk.PhysicalDeviceTypeOther), qt.Equals, core.AdapterTypeOther)
}

func TestChainDiagnostics(t *testing.T) {
	c := qt.New(t)

	var info vk.InstanceCreateInfo
	release := chainDiagnostics(&info, nil)
	c.Assert(info.PNext, qt.IsNil)
	release()

	release = chainDiagnostics(&info, func(core.DiagnosticMessage) {})
	c.Assert(info.PNext, qt.Not(qt.IsNil))
	release()
	c.Assert(info.PNext, qt.IsNil)
}
