package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// motionBlur is the Gaussian kernel applied before differencing.
	motionBlur = 21
	// motionPixelDelta is the grey-level change that marks a pixel as moved.
	motionPixelDelta = 25
)

// MotionDetector reports whether consecutive frames differ inside a watched
// region, usually the keyboard. Movement elsewhere in the picture is ignored.
// The frame loop uses it to pick a frame rate.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	region    image.Rectangle

	// prevGray is the blurred baseline; initialized reports whether it holds
	// a frame of the current region size.
	prevGray    gocv.Mat
	initialized bool

	// scratch mats reused across frames
	gray, blurred, diff gocv.Mat
}

// NewMotionDetector returns a detector that reports motion once more than
// threshold percent of the watched pixels change between frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
		gray:      gocv.NewMat(),
		blurred:   gocv.NewMat(),
		diff:      gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and returns whether it moved
// and the changed share of pixels in percent. The first frame, and the first
// after the region changes, only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	src := *frame
	if roi := m.region.Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows())); !roi.Empty() {
		src = frame.Region(roi)
		defer src.Close()
	}

	if src.Channels() > 1 {
		gocv.CvtColor(src, &m.gray, gocv.ColorBGRToGray)
	} else {
		src.CopyTo(&m.gray)
	}
	gocv.GaussianBlur(m.gray, &m.blurred, image.Pt(motionBlur, motionBlur), 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != m.blurred.Rows() || m.prevGray.Cols() != m.blurred.Cols() {
		m.blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	gocv.AbsDiff(m.blurred, m.prevGray, &m.diff)
	gocv.Threshold(m.diff, &m.diff, motionPixelDelta, 255, gocv.ThresholdBinary)
	changed := 100 * float64(gocv.CountNonZero(m.diff)) / float64(m.diff.Rows()*m.diff.Cols())

	m.blurred.CopyTo(&m.prevGray)
	return changed > m.threshold, changed
}

// SetRegion watches only r. An empty rectangle watches the whole frame. The
// next frame becomes the baseline.
func (m *MotionDetector) SetRegion(r image.Rectangle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.region = r.Canon()
	m.initialized = false
}

// SetThreshold changes the motion threshold in percent. Non-positive values
// are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Reset drops the baseline so the next frame starts over.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

// Close releases the detector's buffers. It is safe to call more than once.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropBaseline()
	for _, mat := range []*gocv.Mat{&m.gray, &m.blurred, &m.diff} {
		if !mat.Empty() {
			mat.Close()
			*mat = gocv.NewMat()
		}
	}
}

func (m *MotionDetector) dropBaseline() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}
