package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/keyboard"
)

// runFlags are the command-line overrides of the config file.
type runFlags struct {
	configPath string
	words      string
	camera     int
	dwellMS    int
	layout     string
	selector   string
	headless   bool
	tray       bool
	mirror     bool
	stats      bool
	plugin     string
	serverAddr string
	logLevel   string
}

func (f *runFlags) register(cmd *cobra.Command) {
	d := config.Defaults()
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", config.DefaultConfigPath(), "config file path")
	fl.StringVar(&f.words, "words", d.Words, "word list for suggestions, one word per line")
	fl.IntVar(&f.camera, "camera", d.Camera, "camera device index")
	fl.IntVar(&f.dwellMS, "dwell-ms", int(d.Dwell/time.Millisecond), "dwell time before a key is pressed")
	fl.StringVar(&f.layout, "layout", string(d.Layout), "functional key: tab or caps")
	fl.StringVar(&f.selector, "selector", d.Selector, "key selection: dwell or pinch")
	fl.BoolVar(&f.headless, "headless", false, "run without the camera window")
	fl.BoolVar(&f.tray, "tray", d.Tray, "show a system tray menu (headless only)")
	fl.BoolVar(&f.mirror, "mirror", d.Mirror, "mirror the camera image")
	fl.BoolVar(&f.stats, "stats", d.Stats, "record per-key usage statistics")
	fl.StringVar(&f.plugin, "plugin", d.Plugin, "output plugin receiving key presses")
	fl.StringVar(&f.serverAddr, "server", d.ServerAddr, "preview server address, e.g. 127.0.0.1:8765")
	fl.StringVar(&f.logLevel, "log-level", d.LogLevel, "debug, info, warn or error")
}

// resolveSettings layers defaults, the config file and changed flags.
func resolveSettings(cmd *cobra.Command, f *runFlags) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	s, err := fileCfg.Apply(config.Defaults())
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid config %s: %w", f.configPath, err)
	}

	flags := cmd.Flags()
	if flags.Changed("words") {
		s.Words = f.words
	}
	if flags.Changed("camera") {
		s.Camera = f.camera
	}
	if flags.Changed("dwell-ms") {
		s.Dwell = time.Duration(f.dwellMS) * time.Millisecond
	}
	if flags.Changed("layout") {
		s.Layout = keyboard.Variant(f.layout)
	}
	if flags.Changed("selector") {
		s.Selector = f.selector
	}
	if flags.Changed("headless") {
		s.Display = config.DisplayWindow
		if f.headless {
			s.Display = config.DisplayHeadless
		}
	}
	if flags.Changed("tray") {
		s.Tray = f.tray
	}
	if flags.Changed("mirror") {
		s.Mirror = f.mirror
	}
	if flags.Changed("stats") {
		s.Stats = f.stats
	}
	if flags.Changed("plugin") {
		s.Plugin = f.plugin
	}
	if flags.Changed("server") {
		s.ServerAddr = f.serverAddr
	}
	if flags.Changed("log-level") {
		s.LogLevel = f.logLevel
	}

	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}
