// Package detector provides hand tracking interfaces and types.
package detector

import (
	"image"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Cursor maps the index fingertip to pixel coordinates of a width x height
// frame. The landmarks must come from the same (mirrored) frame the keyboard
// is drawn on.
func (h *HandLandmarks) Cursor(width, height int) image.Point {
	tip := h.Points[IndexTip]
	return image.Point{
		X: int(tip.X * float64(width)),
		Y: int(tip.Y * float64(height)),
	}
}

// Scale returns the wrist to middle-finger MCP distance, used as the hand
// size unit.
func (h *HandLandmarks) Scale() float64 {
	return distance3D(h.Points[Wrist], h.Points[MiddleMCP])
}

// PinchDistance returns the thumb-tip to index-tip distance in hand size
// units, so it does not depend on how far the hand is from the camera.
// A degenerate hand reports +Inf (never pinched).
func (h *HandLandmarks) PinchDistance() float64 {
	scale := h.Scale()
	if scale < 1e-10 {
		return math.Inf(1)
	}
	return distance3D(h.Points[ThumbTip], h.Points[IndexTip]) / scale
}
