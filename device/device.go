// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device implements the graphics driver used by core on top of Vulkan.
package device

import (
	"strconv"
	"strings"

	vk "github.com/devblok/vulkan"

	"github.com/devblok/koruboot/core"
)

// EngineName is reported to the driver as the engine of every instance.
const EngineName = "Koru3D"

// safeString returns s null-terminated, as the driver expects names.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, safeString(s))
	}
	return out
}

// makeVersion packs a dotted "major.minor.patch" version. Missing or
// malformed parts count as zero.
func makeVersion(v string) uint32 {
	var parts [3]int
	for i, field := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 0 {
			continue
		}
		parts[i] = n
	}
	return vk.MakeVersion(parts[0], parts[1], parts[2])
}

// severityOf maps debug report flags to a severity, most severe bit first.
func severityOf(flags vk.DebugReportFlags) core.Severity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return core.SeverityError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return core.SeverityWarning
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return core.SeverityPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return core.SeverityInformation
	default:
		return core.SeverityDebug
	}
}

func adapterType(t vk.PhysicalDeviceType) core.AdapterType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return core.AdapterTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return core.AdapterTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return core.AdapterTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return core.AdapterTypeCPU
	default:
		return core.AdapterTypeOther
	}
}

func extent(e vk.Extent2D) core.Extent2D {
	e.Deref()
	return core.Extent2D{Width: e.Width, Height: e.Height}
}
