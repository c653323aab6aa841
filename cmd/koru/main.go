// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/koruboot/core"
	"github.com/devblok/koruboot/device"
	"github.com/devblok/koruboot/window"
)

func init() {
	runtime.LockOSThread()
}

var (
	configFile = flag.String("config", "", "YAML configuration file, the built-in one when empty")
	envFile    = flag.String("env", "", "Load KORU_* variables from a dotenv file")
	logLevel   = flag.String("loglevel", "info", "Log level")
	cpuProfile = flag.String("cpuprof", "", "Profile CPU usage to file")
)

// Resources holds the built-in configuration.
var Resources = packr.NewBox("./resources")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.WithError(err).Error("koru failed")
		os.Exit(1)
	}
}

func run() error {
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	logger := log.WithField("app", cfg.Application.Name)
	logger.WithField("diagnostics", cfg.EnableDiagnostics).Info("starting")

	win, err := window.NewSDL(cfg.Application.Name, cfg.WindowWidth, cfg.WindowHeight, logger)
	if err != nil {
		return err
	}
	defer win.Destroy()

	driver, err := device.NewVulkan(win.ProcAddr())
	if err != nil {
		return err
	}

	boot, err := core.NewBootstrap(driver, win, cfg, logger)
	if err != nil {
		return err
	}
	defer boot.Destroy()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	win.Run(ctx, time.Duration(cfg.EventPollDelay)*time.Millisecond)

	logger.Info("event loop exited")
	return nil
}

func loadConfiguration() (core.Configuration, error) {
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return core.Configuration{}, errors.Wrap(err, "loading env file")
		}
		envy.Reload()
	}

	var (
		cfg core.Configuration
		err error
	)
	if *configFile != "" {
		cfg, err = core.LoadConfiguration(*configFile)
	} else {
		var data []byte
		if data, err = Resources.Find("koru.yaml"); err != nil {
			return core.Configuration{}, errors.Wrap(err, "built-in configuration")
		}
		cfg, err = core.ParseConfiguration(data)
	}
	if err != nil {
		return core.Configuration{}, err
	}
	return core.ApplyEnvironment(cfg)
}
