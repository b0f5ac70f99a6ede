package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Template is the commented default config written by `airkeys config`.
const Template = `# airkeys configuration

# Camera device index and capture size.
camera = 0
width = 1280
height = 720
mirror = true

# How long the fingertip must rest on a key before it is pressed.
dwell_ms = 600

# Number of word suggestions shown under the text box (0 disables them).
suggestions = 3
# words = "~/.config/airkeys/words.txt"

# Functional key: "tab" or "caps".
layout = "tab"

# Key selection: "dwell" or "pinch".
selector = "dwell"

# "window" shows the camera window; "headless" runs without one.
display = "window"
tray = false

# Forward key presses to an output plugin from plugin_dir.
# plugin = "keystroke"
# plugin_dir = "~/.config/airkeys/plugins"

# Record per-key usage statistics.
stats = true

log_level = "info"
log_format = "text"

[server]
# addr = "127.0.0.1:8765"

[detector]
max_hands = 1
min_confidence = 0.7
min_tracking = 0.5
pinch_threshold = 0.25
pinch_release = 0.35
`

// ErrConfigExists is returned by WriteTemplate when the file already exists.
var ErrConfigExists = errors.New("config file already exists")

// WriteTemplate writes Template to path, creating parent directories. It
// refuses to overwrite an existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
