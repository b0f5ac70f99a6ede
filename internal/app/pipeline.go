package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/selection"
)

// errLogEvery limits repeated collaborator errors to one log line per this
// many consecutive failures.
const errLogEvery = 30

// Run opens the camera and processes frames until ctx is cancelled, the
// display asks to quit, or the source ends. Per frame:
//  1. read a frame (read errors are logged and the frame skipped)
//  2. mirror it
//  3. check motion over the keyboard to pick the frame rate
//  4. read the clock once
//  5. detect the hand and derive the cursor (errors count as no cursor)
//  6. step the session
//  7. render, publish and show
//
// The camera is closed on return. A camera that cannot be opened, or that
// reports ErrCameraNotOpen, ends Run with an error.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.frames = 0
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	cam := a.opts.Camera
	if err := cam.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			a.logger.Warn("error closing camera", "error", err)
		}
	}()

	if a.opts.Motion != nil {
		a.opts.Motion.SetRegion(a.opts.Session.Layout().Bounds())
		cam.SetFPS(ActiveFPS)
	}

	rate := newRateController(cam, a.opts.Motion != nil)
	var ticker *time.Ticker
	if !a.opts.Unpaced {
		ticker = time.NewTicker(frameInterval(cam.FPS()))
		defer ticker.Stop()
	}

	a.logger.Info("frame loop started", "fps", cam.FPS(), "mirror", a.opts.Mirror)
	defer a.logger.Info("frame loop stopped", "frames", a.frames)

	var readErrs, detectErrs int
	for {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			switch {
			case errors.Is(err, capture.ErrEndOfStream):
				return nil
			case errors.Is(err, capture.ErrCameraNotOpen):
				return err
			}
			if readErrs%errLogEvery == 0 {
				a.logger.Warn("failed to read frame", "error", err, "consecutive", readErrs+1)
			}
			readErrs++
			continue
		}
		readErrs = 0

		quit, detectErr := a.processFrame(frame, rate)
		frame.Close()
		a.frames++

		if detectErr != nil {
			if detectErrs%errLogEvery == 0 {
				a.logger.Warn("hand detection failed", "error", detectErr, "consecutive", detectErrs+1)
			}
			detectErrs++
		} else {
			detectErrs = 0
		}

		if quit {
			return nil
		}
		if ticker != nil && rate.changed() {
			ticker.Reset(frameInterval(cam.FPS()))
		}
	}
}

// processFrame runs one logical frame. It reports whether the display asked
// to quit and any detection error.
func (a *App) processFrame(frame *gocv.Mat, rate *rateController) (bool, error) {
	if a.opts.Mirror {
		capture.Mirror(frame)
	}

	now := a.opts.Clock()

	if a.opts.Motion != nil {
		moving, _ := a.opts.Motion.Detect(frame)
		if mode, switched := rate.observe(moving, now); switched {
			a.logger.Debug("frame rate changed", "mode", mode, "fps", a.opts.Camera.FPS())
		}
	}

	cursor, detectErr := a.cursor(frame)

	if paused, ok := a.takePause(); ok {
		a.opts.Session.SetPaused(paused)
		a.logger.Info("input paused", "paused", paused)
	}
	view := a.opts.Session.Step(cursor, now)
	if view.Activation != nil {
		a.logger.Debug("key activated", "key", view.Activation.Label, "text_len", len(view.Text))
	}

	if a.opts.Renderer != nil {
		a.opts.Renderer.Render(frame, view)
	}

	if a.opts.Hub != nil {
		var jpeg []byte
		if a.opts.PublishFrames {
			jpeg = a.encode(frame)
		}
		a.opts.Hub.Publish(view, jpeg)
	}

	if a.opts.Display != nil && a.opts.Display.Show(frame) {
		return true, detectErr
	}
	return false, detectErr
}

// cursor detects hands in frame and maps the first one to a cursor sample.
func (a *App) cursor(frame *gocv.Mat) (selection.Sample, error) {
	hands, err := a.opts.Detector.Detect(frame)
	if err != nil {
		return selection.None(), err
	}
	if len(hands) == 0 {
		return selection.None(), nil
	}
	hand := &hands[0]
	sample := selection.At(hand.Cursor(frame.Cols(), frame.Rows()))
	sample.Pinch = hand.PinchDistance()
	return sample, nil
}

func (a *App) encode(frame *gocv.Mat) []byte {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame,
		[]int{int(gocv.IMWriteJpegQuality), a.opts.JPEGQuality})
	if err != nil {
		a.logger.Debug("failed to encode frame", "error", err)
		return nil
	}
	defer buf.Close()
	// The native buffer is released on Close, so copy it out.
	return append([]byte(nil), buf.GetBytes()...)
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
