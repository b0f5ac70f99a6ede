package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results. Queued results are
// returned one per Detect call before falling back to the fixed hands.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results. A nil entry is a frame with no hand.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next queued result, or the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointingLandmarks returns a right hand pointing with the index finger, the
// index tip at normalized (x, y). The thumb is held away from the index
// finger.
func PointingLandmarks(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Built with the index tip at the origin, then shifted into place.
	rel := [NumLandmarks]Point3D{
		Wrist: {X: -0.02, Y: 0.35},

		ThumbCMC: {X: 0.03, Y: 0.31, Z: 0.01},
		ThumbMCP: {X: 0.08, Y: 0.27, Z: 0.02},
		ThumbIP:  {X: 0.12, Y: 0.23, Z: 0.02},
		ThumbTip: {X: 0.15, Y: 0.20, Z: 0.02},

		IndexMCP: {X: 0.01, Y: 0.21},
		IndexPIP: {X: 0.00, Y: 0.13},
		IndexDIP: {X: 0.00, Y: 0.06},
		IndexTip: {X: 0.00, Y: 0.00},

		MiddleMCP: {X: -0.03, Y: 0.20, Z: -0.02},
		MiddlePIP: {X: -0.03, Y: 0.23, Z: -0.05},
		MiddleDIP: {X: -0.04, Y: 0.25, Z: -0.04},
		MiddleTip: {X: -0.04, Y: 0.27, Z: -0.02},

		RingMCP: {X: -0.07, Y: 0.21, Z: -0.02},
		RingPIP: {X: -0.07, Y: 0.24, Z: -0.05},
		RingDIP: {X: -0.08, Y: 0.26, Z: -0.04},
		RingTip: {X: -0.08, Y: 0.28, Z: -0.02},

		PinkyMCP: {X: -0.10, Y: 0.23, Z: -0.02},
		PinkyPIP: {X: -0.10, Y: 0.26, Z: -0.05},
		PinkyDIP: {X: -0.11, Y: 0.28, Z: -0.04},
		PinkyTip: {X: -0.11, Y: 0.30, Z: -0.02},
	}

	for i, p := range rel {
		landmarks.Points[i] = Point3D{X: x + p.X, Y: y + p.Y, Z: p.Z}
	}
	return landmarks
}

// PinchingLandmarks returns PointingLandmarks with the thumb tip brought
// against the index tip.
func PinchingLandmarks(x, y float64) HandLandmarks {
	landmarks := PointingLandmarks(x, y)
	landmarks.Points[ThumbIP] = Point3D{X: x + 0.04, Y: y + 0.05, Z: 0.01}
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.01, Y: y + 0.01}
	return landmarks
}
