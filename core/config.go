// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by ApplyEnvironment.
const (
	EnvEnableDiagnostics  = "KORU_ENABLE_DIAGNOSTICS"
	EnvWindowWidth        = "KORU_WINDOW_WIDTH"
	EnvWindowHeight       = "KORU_WINDOW_HEIGHT"
	EnvRequiredLayers     = "KORU_REQUIRED_LAYERS"
	EnvDeviceExtensions   = "KORU_REQUIRED_DEVICE_EXTENSIONS"
	EnvEventPollDelay     = "KORU_EVENT_POLL_DELAY_MS"
	EnvApplicationName    = "KORU_APPLICATION_NAME"
	EnvApplicationVersion = "KORU_APPLICATION_VERSION"
)

// DiagnosticExtensionName is the instance extension carrying the diagnostic callback.
const DiagnosticExtensionName = "VK_EXT_debug_report"

// Configuration defines everything the bootstrap sequence is parameterised with.
type Configuration struct {
	Application ApplicationInfo `yaml:"application"`

	// EnableDiagnostics turns on validation layers and the
	// diagnostic callback. Defaults to the build configuration.
	EnableDiagnostics bool `yaml:"enable_diagnostics"`

	WindowWidth  uint32 `yaml:"window_width"`
	WindowHeight uint32 `yaml:"window_height"`

	RequiredLayers           []string `yaml:"required_layers"`
	RequiredDeviceExtensions []string `yaml:"required_device_extensions"`

	// EventPollDelay is the window event polling interval in milliseconds
	EventPollDelay int `yaml:"event_poll_delay_ms"`
}

// DefaultConfiguration returns the configuration used when nothing is overridden.
func DefaultConfiguration() Configuration {
	return Configuration{
		Application: ApplicationInfo{
			Name:    "Koru3D",
			Version: "1.0.0",
		},
		EnableDiagnostics: diagnosticsEnabled,
		WindowWidth:       800,
		WindowHeight:      600,
		RequiredLayers: []string{
			"VK_LAYER_KHRONOS_validation",
		},
		RequiredDeviceExtensions: []string{
			"VK_KHR_swapchain",
		},
		EventPollDelay: 50,
	}
}

// Validate checks that the configuration can drive a bootstrap.
func (c Configuration) Validate() error {
	if c.WindowWidth == 0 || c.WindowHeight == 0 {
		return errors.Errorf("invalid window size %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if len(c.RequiredDeviceExtensions) == 0 {
		return errors.New("no required device extensions, presentation needs at least the swapchain extension")
	}
	if c.EventPollDelay <= 0 {
		return errors.Errorf("invalid event poll delay %dms", c.EventPollDelay)
	}
	return nil
}

// ParseConfiguration decodes YAML on top of the defaults.
// Keys missing from data keep their default values.
func ParseConfiguration(data []byte) (Configuration, error) {
	cfg := DefaultConfiguration()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Configuration{}, errors.Wrap(err, "yaml.Unmarshal()")
	}
	return cfg, nil
}

// LoadConfiguration reads and decodes a YAML configuration file.
func LoadConfiguration(path string) (Configuration, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Configuration{}, errors.Wrap(err, "reading configuration")
	}
	return ParseConfiguration(data)
}

// ApplyEnvironment overrides cfg with any KORU_* variables that are set.
func ApplyEnvironment(cfg Configuration) (Configuration, error) {
	if v := envy.Get(EnvEnableDiagnostics, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrap(err, EnvEnableDiagnostics)
		}
		cfg.EnableDiagnostics = b
	}

	for key, dst := range map[string]*uint32{
		EnvWindowWidth:  &cfg.WindowWidth,
		EnvWindowHeight: &cfg.WindowHeight,
	} {
		if v := envy.Get(key, ""); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return cfg, errors.Wrap(err, key)
			}
			*dst = uint32(n)
		}
	}

	if v := envy.Get(EnvEventPollDelay, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, EnvEventPollDelay)
		}
		cfg.EventPollDelay = n
	}

	if v := envy.Get(EnvRequiredLayers, ""); v != "" {
		cfg.RequiredLayers = splitList(v)
	}
	if v := envy.Get(EnvDeviceExtensions, ""); v != "" {
		cfg.RequiredDeviceExtensions = splitList(v)
	}

	cfg.Application.Name = envy.Get(EnvApplicationName, cfg.Application.Name)
	cfg.Application.Version = envy.Get(EnvApplicationVersion, cfg.Application.Version)
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
