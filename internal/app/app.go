// Package app runs the airkeys frame loop: capture, track, select, type,
// render and publish, one frame at a time on a single goroutine.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/hub"
	"github.com/ayusman/airkeys/internal/render"
	"github.com/ayusman/airkeys/internal/session"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when nothing moves over the keyboard.
	IdleFPS = 10
	// ActiveFPS is the frame rate while a hand moves over the keyboard.
	ActiveFPS = 30
	// IdleTimeout is how long the keyboard must be still before dropping to IdleFPS.
	IdleTimeout = 2 * time.Second
	// DefaultMotionThreshold is the percentage of changed pixels counted as motion.
	DefaultMotionThreshold = 1.0
	// DefaultJPEGQuality is used for frames published to the hub.
	DefaultJPEGQuality = 75
)

// Display shows rendered frames. Show reports whether the user asked to quit.
type Display interface {
	Show(frame *gocv.Mat) bool
}

// Options wires the collaborators of the frame loop. Camera, Detector and
// Session are required.
type Options struct {
	Camera   capture.Camera
	Detector detector.Detector
	Session  *session.Session

	// Renderer draws the view onto the frame. Nil skips drawing.
	Renderer render.Renderer
	// Display shows the rendered frame. Nil runs headless.
	Display Display
	// Hub receives every view. Nil publishes nothing.
	Hub *hub.Hub
	// PublishFrames also JPEG-encodes each rendered frame into the hub.
	PublishFrames bool
	JPEGQuality   int

	// Mirror flips frames horizontally before tracking and drawing.
	Mirror bool
	// Motion switches the camera between IdleFPS and ActiveFPS. Nil keeps
	// the camera rate.
	Motion *capture.MotionDetector
	// Unpaced reads frames back to back instead of at the camera rate.
	Unpaced bool

	// Clock is read once per frame. Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// App owns the frame loop.
type App struct {
	opts   Options
	logger *slog.Logger

	mu           sync.Mutex
	pendingPause *bool
	running      bool

	frames int
}

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("app is already running")

// New creates an App.
func New(opts Options) (*App, error) {
	switch {
	case opts.Camera == nil:
		return nil, errors.New("app: camera is required")
	case opts.Detector == nil:
		return nil, errors.New("app: detector is required")
	case opts.Session == nil:
		return nil, errors.New("app: session is required")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &App{opts: opts, logger: opts.Logger}, nil
}

// SetPaused asks the loop to pause or resume input. It is safe to call from
// any goroutine; the change takes effect on the next frame.
func (a *App) SetPaused(paused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingPause = &paused
}

// takePause returns a pending pause request, if any.
func (a *App) takePause() (bool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pendingPause == nil {
		return false, false
	}
	p := *a.pendingPause
	a.pendingPause = nil
	return p, true
}

// Frames returns the number of frames processed by the last or current Run.
// Only meaningful after Run returns or from the loop goroutine.
func (a *App) Frames() int {
	return a.frames
}

// Session returns the session driven by the loop.
func (a *App) Session() *session.Session {
	return a.opts.Session
}
