package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func blackFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
}

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{name: "default threshold", threshold: 1.0},
		{name: "high threshold", threshold: 5.0},
		{name: "low threshold", threshold: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			if md == nil {
				t.Fatal("NewMotionDetector returned nil")
			}
			defer md.Close()

			if md.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.threshold)
			}
			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame1 := blackFrame()
	defer frame1.Close()
	frame2 := blackFrame()
	defer frame2.Close()

	detected, changePercent := md.Detect(&frame1)
	if detected || changePercent != 0 {
		t.Errorf("first frame = (%v, %f), want (false, 0)", detected, changePercent)
	}

	detected, changePercent = md.Detect(&frame2)
	if detected {
		t.Errorf("identical frames should not detect motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_WithMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := blackFrame()
	defer black.Close()
	white := blackFrame()
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	detected, changePercent := md.Detect(&white)
	if !detected {
		t.Errorf("black to white should detect motion, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% for black to white transition", changePercent)
	}
}

func TestMotionDetector_Region(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	white := color.RGBA{R: 255, G: 255, B: 255}

	t.Run("change outside region is ignored", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		md.SetRegion(image.Rect(0, 0, 320, 240))

		before := blackFrame()
		defer before.Close()
		after := blackFrame()
		defer after.Close()
		gocv.Rectangle(&after, image.Rect(400, 300, 640, 480), white, -1)

		md.Detect(&before)
		if detected, pct := md.Detect(&after); detected {
			t.Errorf("change outside region detected, changePercent = %f", pct)
		}
	})

	t.Run("change inside region is detected", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		md.SetRegion(image.Rect(0, 0, 320, 240))

		before := blackFrame()
		defer before.Close()
		after := blackFrame()
		defer after.Close()
		gocv.Rectangle(&after, image.Rect(50, 50, 250, 200), white, -1)

		md.Detect(&before)
		if detected, pct := md.Detect(&after); !detected {
			t.Errorf("change inside region not detected, changePercent = %f", pct)
		}
	})

	t.Run("region outside frame uses whole frame", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		md.SetRegion(image.Rect(2000, 2000, 2100, 2100))

		before := blackFrame()
		defer before.Close()
		after := blackFrame()
		defer after.Close()
		after.SetTo(gocv.NewScalar(255, 255, 255, 0))

		md.Detect(&before)
		if detected, _ := md.Detect(&after); !detected {
			t.Error("expected whole-frame detection")
		}
	})
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := blackFrame()
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Error("detector should be initialized after first Detect")
	}

	md.Reset()
	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}
	if !md.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", md.threshold)
	}

	// Non-positive thresholds are ignored
	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("negative threshold should be ignored, got %f", md.threshold)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)

	// Close multiple times should not panic
	md.Close()
	md.Close()
}
