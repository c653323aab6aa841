// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/koruboot/core"
	"github.com/devblok/koruboot/device"
)

var (
	configFile = flag.String("config", "", "YAML configuration file")
	_          = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
)

// korucli prints every Vulkan adapter with its properties and extensions as JSON.
func main() {
	flag.Parse()

	cfg := core.DefaultConfiguration()
	if *configFile != "" {
		var err error
		if cfg, err = core.LoadConfiguration(*configFile); err != nil {
			log.Fatal(err)
		}
	}

	driver, err := device.NewVulkan(nil)
	if err != nil {
		log.Fatal(err)
	}

	applyFlags(flag.CommandLine, &cfg)

	adapters, err := core.DescribeAdapters(driver, cfg, log.StandardLogger())
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(adapters); err != nil {
		log.Fatal(err)
	}
}

// applyFlags overrides cfg with the flags that were given explicitly,
// values from the configuration file are kept otherwise.
func applyFlags(fs *flag.FlagSet, cfg *core.Configuration) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "vkdbg" {
			cfg.EnableDiagnostics = f.Value.(flag.Getter).Get().(bool)
		}
	})
}
