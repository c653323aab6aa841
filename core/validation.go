// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Severity of a diagnostic message.
type Severity int

// Diagnostic severities
const (
	SeverityDebug Severity = iota
	SeverityInformation
	SeverityPerformance
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInformation:
		return "information"
	case SeverityPerformance:
		return "performance"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// DiagnosticMessage is a message emitted by a diagnostic layer.
type DiagnosticMessage struct {
	Severity Severity
	Layer    string
	Code     int32
	Text     string
}

// DebugCallback receives diagnostic messages. It must not block.
type DebugCallback func(DiagnosticMessage)

// MissingLayers returns the requested layers absent from available.
// Names are compared exactly, order does not matter.
func MissingLayers(requested, available []string) []string {
	present := make(map[string]struct{}, len(available))
	for _, name := range available {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range requested {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// checkValidationSupport fails with ErrUnavailableCapability unless every
// requested layer is installed. It is only called with diagnostics enabled.
func checkValidationSupport(driver Driver, requested []string) error {
	available, err := driver.AvailableLayers()
	if err != nil {
		return failure(ErrUnavailableCapability, err, "enumerating instance layers")
	}
	if missing := MissingLayers(requested, available); len(missing) > 0 {
		return failure(ErrUnavailableCapability, nil, "layers "+strings.Join(missing, ", "))
	}
	return nil
}

// installDebugCallback installs cb if the driver exposes the diagnostic entry points.
// An absent entry point is reported as (nil, false, nil).
func installDebugCallback(driver Driver, instance InstanceHandle, cb DebugCallback) (DebugReporter, DebugCallbackHandle, error) {
	reporter, ok := driver.DebugReporter(instance)
	if !ok {
		return nil, nil, nil
	}
	handle, err := reporter.Install(cb)
	if err != nil {
		return nil, nil, err
	}
	return reporter, handle, nil
}

// LogDiagnostics returns a DebugCallback writing messages to l
// at a level matching their severity.
func LogDiagnostics(l logrus.FieldLogger) DebugCallback {
	return func(msg DiagnosticMessage) {
		entry := l.WithFields(logrus.Fields{
			"layer":    msg.Layer,
			"code":     msg.Code,
			"severity": msg.Severity.String(),
		})
		switch msg.Severity {
		case SeverityError:
			entry.Error(msg.Text)
		case SeverityWarning, SeverityPerformance:
			entry.Warn(msg.Text)
		case SeverityInformation:
			entry.Info(msg.Text)
		default:
			entry.Debug(msg.Text)
		}
	}
}
