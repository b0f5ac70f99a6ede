package selection

import (
	"time"

	"github.com/ayusman/airkeys/internal/keyboard"
)

// Pinch thresholds, as a fraction of the wrist-to-middle-knuckle distance.
const (
	DefaultPinchThreshold = 0.25
	DefaultPinchRelease   = 0.35
)

// Pinch is a Selector that presses the hovered key when thumb and index tips
// close below the threshold. It re-arms once they open past the release
// distance or the hand is lost.
type Pinch struct {
	layout    keyboard.Layout
	threshold float64
	release   float64
	hovered   int
	pinched   bool
}

// NewPinch creates a pinch selector. Non-positive values use the defaults and
// release is never allowed below threshold.
func NewPinch(layout keyboard.Layout, threshold, release float64) *Pinch {
	if threshold <= 0 {
		threshold = DefaultPinchThreshold
	}
	if release <= 0 {
		release = DefaultPinchRelease
	}
	if release < threshold {
		release = threshold
	}
	return &Pinch{
		layout:    layout,
		threshold: threshold,
		release:   release,
		hovered:   NoButton,
	}
}

// Process implements Selector.
func (p *Pinch) Process(cursor Sample, now time.Time) (Activation, bool) {
	if !cursor.Present {
		p.Reset()
		return Activation{}, false
	}

	idx, ok := p.layout.HitTest(cursor.Point)
	if !ok {
		idx = NoButton
	}
	p.hovered = idx

	if p.pinched {
		if cursor.Pinch > p.release {
			p.pinched = false
		}
		return Activation{}, false
	}

	if cursor.Pinch >= p.threshold {
		return Activation{}, false
	}

	// Closing the pinch away from any key still latches, so sliding onto a
	// key with the fingers closed does not type.
	p.pinched = true
	if idx == NoButton {
		return Activation{}, false
	}
	return Activation{Button: idx, Label: p.layout.Buttons[idx].Label}, true
}

// Hovered implements Selector.
func (p *Pinch) Hovered() int {
	return p.hovered
}

// Progress implements Selector. It is 1 while the pinch is held over a key.
func (p *Pinch) Progress(time.Time) float64 {
	if p.pinched && p.hovered != NoButton {
		return 1
	}
	return 0
}

// Reset implements Selector.
func (p *Pinch) Reset() {
	p.hovered = NoButton
	p.pinched = false
}
