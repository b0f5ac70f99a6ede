package selection

import (
	"time"

	"github.com/ayusman/airkeys/internal/keyboard"
)

// HoverState is the dwell engine's memory between frames. Since is only
// meaningful while Hovered != NoButton.
type HoverState struct {
	Hovered int       `json:"hovered"`
	Since   time.Time `json:"since"`
}

// Idle returns a state with nothing hovered.
func Idle() HoverState {
	return HoverState{Hovered: NoButton}
}

// Step advances the dwell state machine by one frame. It returns the next
// state and, when the cursor has rested on the same button for at least
// dwell, the activation for that button. Activating clears the hover so the
// cursor has to leave the key and come back to press it again.
func Step(state HoverState, layout keyboard.Layout, cursor Sample, now time.Time, dwell time.Duration) (HoverState, Activation, bool) {
	if !cursor.Present {
		return Idle(), Activation{}, false
	}

	idx, ok := layout.HitTest(cursor.Point)
	if !ok {
		return Idle(), Activation{}, false
	}

	if idx != state.Hovered {
		return HoverState{Hovered: idx, Since: now}, Activation{}, false
	}

	if now.Sub(state.Since) >= dwell {
		return Idle(), Activation{Button: idx, Label: layout.Buttons[idx].Label}, true
	}
	return state, Activation{}, false
}

// Progress returns min(elapsed/dwell, 1) for the hovered button, or 0 when
// nothing is hovered.
func Progress(state HoverState, now time.Time, dwell time.Duration) float64 {
	if state.Hovered == NoButton {
		return 0
	}
	if dwell <= 0 {
		return 1
	}
	elapsed := now.Sub(state.Since)
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(dwell)
	if p > 1 {
		return 1
	}
	return p
}

// Dwell is the hover-and-dwell Selector.
type Dwell struct {
	layout keyboard.Layout
	dwell  time.Duration
	state  HoverState
}

// NewDwell creates a dwell selector over layout. A non-positive dwell uses
// DefaultDwell.
func NewDwell(layout keyboard.Layout, dwell time.Duration) *Dwell {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	return &Dwell{
		layout: layout,
		dwell:  dwell,
		state:  Idle(),
	}
}

// Process implements Selector.
func (d *Dwell) Process(cursor Sample, now time.Time) (Activation, bool) {
	var (
		act Activation
		ok  bool
	)
	d.state, act, ok = Step(d.state, d.layout, cursor, now, d.dwell)
	return act, ok
}

// Hovered implements Selector.
func (d *Dwell) Hovered() int {
	return d.state.Hovered
}

// Progress implements Selector.
func (d *Dwell) Progress(now time.Time) float64 {
	return Progress(d.state, now, d.dwell)
}

// Reset implements Selector.
func (d *Dwell) Reset() {
	d.state = Idle()
}

// State returns a copy of the current hover state.
func (d *Dwell) State() HoverState {
	return d.state
}

// DwellTime returns the configured dwell duration.
func (d *Dwell) DwellTime() time.Duration {
	return d.dwell
}
