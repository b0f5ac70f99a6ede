// Package tray provides the system tray menu used when airkeys runs headless.
package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/airkeys/internal/hub"
)

// Tray is the system tray menu: pause toggle, last key, preview link and quit.
type Tray struct {
	onPause   func(paused bool)
	onPreview func()
	onQuit    func()
	paused    bool
	lastKey   string
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuPause   *systray.MenuItem
	menuLastKey *systray.MenuItem
}

// New creates a new Tray in the running (not paused) state.
func New() *Tray {
	return &Tray{}
}

// OnPause sets the callback invoked with the new state when pause is toggled.
func (t *Tray) OnPause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnPreview adds an "Open Preview" item invoking fn. It must be set before Run.
func (t *Tray) OnPreview(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPreview = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application on the calling goroutine, which
// must be the main one. It blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("airkeys")
	systray.SetTooltip("airkeys virtual keyboard")

	t.mu.Lock()
	t.menuPause = systray.AddMenuItem(pauseTitle(t.paused), "Pause or resume key selection")
	systray.AddSeparator()

	t.menuLastKey = systray.AddMenuItem(lastKeyTitle(t.lastKey), "Last pressed key")
	t.menuLastKey.Disable()
	systray.AddSeparator()

	var previewCh chan struct{}
	if t.onPreview != nil {
		previewCh = systray.AddMenuItem("Open Preview...", "Open the preview in a browser").ClickedCh
		systray.AddSeparator()
	}
	menuQuit := systray.AddMenuItem("Quit", "Quit airkeys")
	pauseCh := t.menuPause.ClickedCh
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-pauseCh:
				t.togglePause()
			case <-previewCh:
				t.handlePreview()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused
	if t.menuPause != nil {
		t.menuPause.SetTitle(pauseTitle(paused))
	}
	callback := t.onPause
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

func (t *Tray) handlePreview() {
	t.mu.RLock()
	callback := t.onPreview
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastKey updates the last key display in the menu.
func (t *Tray) SetLastKey(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastKey = label
	if t.menuLastKey != nil {
		t.menuLastKey.SetTitle(lastKeyTitle(label))
	}
}

// LastKey returns the label shown as the last key.
func (t *Tray) LastKey() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastKey
}

// IsPaused returns the current pause state.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}

// Follow updates the last key from published snapshots until ctx is done or
// the hub closes.
func (t *Tray) Follow(ctx context.Context, h *hub.Hub) {
	updates, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if act := h.Latest().View.Activation; act != nil {
				t.SetLastKey(act.Label)
			}
		}
	}
}

func pauseTitle(paused bool) string {
	if paused {
		return "○ Paused"
	}
	return "● Typing"
}

func lastKeyTitle(label string) string {
	switch label {
	case "":
		return "Last: none"
	case " ":
		return "Last: Space"
	default:
		return "Last: " + label
	}
}
