package render

import "gocv.io/x/gocv"

// Window shows frames in a desktop window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays frame and polls the keyboard. It reports whether the user
// asked to quit with 'q' or Esc, or closed the window.
func (w *Window) Show(frame *gocv.Mat) bool {
	w.win.IMShow(*frame)
	key := w.win.WaitKey(1)
	if key == 'q' || key == 27 {
		return true
	}
	return !w.win.IsOpen()
}

// Close closes the window.
func (w *Window) Close() error {
	return w.win.Close()
}
