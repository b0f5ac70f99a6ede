// Package config loads the airkeys TOML configuration and resolves it
// against built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/keyboard"
	"github.com/ayusman/airkeys/internal/selection"
	"github.com/ayusman/airkeys/internal/suggest"
)

// Selector names.
const (
	SelectorDwell = "dwell"
	SelectorPinch = "pinch"
)

// Display modes.
const (
	DisplayWindow   = "window"
	DisplayHeadless = "headless"
)

// FileConfig represents the TOML configuration file. Pointer fields are nil
// when the key is absent.
type FileConfig struct {
	Camera      *int               `toml:"camera"`
	Width       *int               `toml:"width"`
	Height      *int               `toml:"height"`
	Mirror      *bool              `toml:"mirror"`
	DwellMS     *int               `toml:"dwell_ms"`
	Suggestions *int               `toml:"suggestions"`
	Words       *string            `toml:"words"`
	Layout      *string            `toml:"layout"`
	Selector    *string            `toml:"selector"`
	Display     *string            `toml:"display"`
	Tray        *bool              `toml:"tray"`
	Plugin      *string            `toml:"plugin"`
	PluginDir   *string            `toml:"plugin_dir"`
	Stats       *bool              `toml:"stats"`
	LogLevel    *string            `toml:"log_level"`
	LogFormat   *string            `toml:"log_format"`
	Server      ServerFileConfig   `toml:"server"`
	Detector    DetectorFileConfig `toml:"detector"`
}

// ServerFileConfig maps the [server] table.
type ServerFileConfig struct {
	Addr *string `toml:"addr"`
}

// DetectorFileConfig maps the [detector] table.
type DetectorFileConfig struct {
	MaxHands        *int     `toml:"max_hands"`
	MinConfidence   *float64 `toml:"min_confidence"`
	MinTrackingConf *float64 `toml:"min_tracking"`
	Script          *string  `toml:"script"`
	PinchThreshold  *float64 `toml:"pinch_threshold"`
	PinchRelease    *float64 `toml:"pinch_release"`
}

// Settings is the fully resolved configuration used at runtime.
type Settings struct {
	Camera      int
	Width       int
	Height      int
	Mirror      bool
	Dwell       time.Duration
	Suggestions int
	Words       string
	Layout      keyboard.Variant
	Selector    string
	Display     string
	Tray        bool
	Plugin      string
	PluginDir   string
	Stats       bool
	DBPath      string
	LogLevel    string
	LogFormat   string
	ServerAddr  string
	Detector    detector.Config

	PinchThreshold float64
	PinchRelease   float64
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Camera:         0,
		Width:          1280,
		Height:         720,
		Mirror:         true,
		Dwell:          selection.DefaultDwell,
		Suggestions:    suggest.DefaultLimit,
		Words:          DefaultWordListPath(),
		Layout:         keyboard.VariantTab,
		Selector:       SelectorDwell,
		Display:        DisplayWindow,
		PluginDir:      DefaultPluginDir(),
		Stats:          true,
		DBPath:         DefaultDBPath(),
		LogLevel:       "info",
		LogFormat:      "text",
		Detector:       detector.DefaultConfig(),
		PinchThreshold: selection.DefaultPinchThreshold,
		PinchRelease:   selection.DefaultPinchRelease,
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Apply overlays the file values onto s and validates the result.
func (f FileConfig) Apply(s Settings) (Settings, error) {
	setInt(&s.Camera, f.Camera)
	setInt(&s.Width, f.Width)
	setInt(&s.Height, f.Height)
	setBool(&s.Mirror, f.Mirror)
	if f.DwellMS != nil {
		s.Dwell = time.Duration(*f.DwellMS) * time.Millisecond
	}
	setInt(&s.Suggestions, f.Suggestions)
	setString(&s.Words, f.Words)
	if f.Layout != nil {
		s.Layout = keyboard.Variant(*f.Layout)
	}
	setString(&s.Selector, f.Selector)
	setString(&s.Display, f.Display)
	setBool(&s.Tray, f.Tray)
	setString(&s.Plugin, f.Plugin)
	setString(&s.PluginDir, f.PluginDir)
	setBool(&s.Stats, f.Stats)
	setString(&s.LogLevel, f.LogLevel)
	setString(&s.LogFormat, f.LogFormat)
	setString(&s.ServerAddr, f.Server.Addr)

	setInt(&s.Detector.MaxHands, f.Detector.MaxHands)
	setFloat(&s.Detector.MinConfidence, f.Detector.MinConfidence)
	setFloat(&s.Detector.MinTrackingConf, f.Detector.MinTrackingConf)
	setString(&s.Detector.Script, f.Detector.Script)
	setFloat(&s.PinchThreshold, f.Detector.PinchThreshold)
	setFloat(&s.PinchRelease, f.Detector.PinchRelease)

	s.Words = expandHome(s.Words)
	s.PluginDir = expandHome(s.PluginDir)
	s.Detector.Script = expandHome(s.Detector.Script)

	return s, s.Validate()
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	switch {
	case s.Camera < 0:
		return fmt.Errorf("camera must be >= 0, got %d", s.Camera)
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("frame size must be positive, got %dx%d", s.Width, s.Height)
	case s.Dwell <= 0:
		return fmt.Errorf("dwell_ms must be positive, got %s", s.Dwell)
	case s.Suggestions < 0:
		return fmt.Errorf("suggestions must be >= 0, got %d", s.Suggestions)
	}
	switch s.Layout {
	case keyboard.VariantTab, keyboard.VariantCaps:
	default:
		return fmt.Errorf("unknown layout %q (want tab or caps)", s.Layout)
	}
	switch s.Selector {
	case SelectorDwell, SelectorPinch:
	default:
		return fmt.Errorf("unknown selector %q (want dwell or pinch)", s.Selector)
	}
	switch s.Display {
	case DisplayWindow, DisplayHeadless:
	default:
		return fmt.Errorf("unknown display %q (want window or headless)", s.Display)
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", s.LogFormat)
	}
	if s.PinchThreshold <= 0 {
		return fmt.Errorf("pinch_threshold must be positive, got %v", s.PinchThreshold)
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
