// Package selection turns per-frame cursor samples into discrete key
// activations.
package selection

import (
	"image"
	"time"
)

// NoButton is the hovered index when the cursor is not over any button.
const NoButton = -1

// DefaultDwell is how long the cursor must rest on a key to press it.
const DefaultDwell = 600 * time.Millisecond

// Sample is one frame's cursor observation. Present is false when no hand was
// tracked in the frame.
type Sample struct {
	Point   image.Point `json:"point"`
	Present bool        `json:"present"`
	// Pinch is the thumb-to-index distance normalized by hand size. Only the
	// pinch selector reads it.
	Pinch float64 `json:"pinch,omitempty"`
}

// At returns a present sample at p.
func At(p image.Point) Sample {
	return Sample{Point: p, Present: true}
}

// None returns an absent sample.
func None() Sample {
	return Sample{}
}

// Activation is a debounced key press.
type Activation struct {
	Button int    `json:"button"`
	Label  string `json:"label"`
}

// Selector resolves cursor samples into activations, one call per frame.
type Selector interface {
	// Process consumes the sample for the frame taken at now and returns an
	// activation if a key was pressed.
	Process(cursor Sample, now time.Time) (Activation, bool)

	// Hovered returns the index of the hovered button, or NoButton.
	Hovered() int

	// Progress returns how far the current press has advanced, in [0, 1].
	Progress(now time.Time) float64

	// Reset forgets any hover in progress.
	Reset()
}
