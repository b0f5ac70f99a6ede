// Package session runs the input-resolution core for one frame at a time:
// cursor sample in, rendering view out.
package session

import (
	"time"

	"github.com/ayusman/airkeys/internal/keyboard"
	"github.com/ayusman/airkeys/internal/selection"
	"github.com/ayusman/airkeys/internal/suggest"
	"github.com/ayusman/airkeys/internal/typing"
)

// View is everything a renderer needs to draw one frame. It is a snapshot;
// renderers never write back into the session.
type View struct {
	Buttons     []keyboard.Button     `json:"buttons"`
	Hovered     int                   `json:"hovered"`
	Progress    float64               `json:"progress"`
	Cursor      selection.Sample      `json:"cursor"`
	Text        string                `json:"text"`
	Shift       bool                  `json:"shift"`
	Caps        bool                  `json:"caps"`
	Suggestions []string              `json:"suggestions"`
	Activation  *selection.Activation `json:"activation,omitempty"`
	Paused      bool                  `json:"paused"`
	Time        time.Time             `json:"time"`
}

// HoveredButton returns the hovered button, if any.
func (v View) HoveredButton() (keyboard.Button, bool) {
	if v.Hovered < 0 || v.Hovered >= len(v.Buttons) {
		return keyboard.Button{}, false
	}
	return v.Buttons[v.Hovered], true
}

// Observer is notified of every activation after the buffer has been
// updated. Observers run on the frame loop and must not block.
type Observer func(act selection.Activation, text string)

// Session owns the per-process input state: the selector's hover memory and
// the text buffer. It is not safe for concurrent use.
type Session struct {
	layout    keyboard.Layout
	selector  selection.Selector
	buffer    *typing.Buffer
	suggester *suggest.Engine
	observers []Observer
	paused    bool
}

// New creates a session. A nil selector defaults to dwell selection with the
// default dwell time, and a nil engine yields no suggestions.
func New(layout keyboard.Layout, sel selection.Selector, engine *suggest.Engine) *Session {
	if sel == nil {
		sel = selection.NewDwell(layout, selection.DefaultDwell)
	}
	if engine == nil {
		engine = suggest.NewEngine(nil, suggest.DefaultLimit)
	}
	return &Session{
		layout:    layout,
		selector:  sel,
		buffer:    typing.NewBuffer(),
		suggester: engine,
	}
}

// OnActivation registers an observer.
func (s *Session) OnActivation(fn Observer) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Step processes the cursor sample for a frame captured at now and returns
// the resulting view. now must be read once per frame by the caller.
func (s *Session) Step(cursor selection.Sample, now time.Time) View {
	input := cursor
	if s.paused {
		input = selection.None()
	}

	var last *selection.Activation
	if act, ok := s.selector.Process(input, now); ok {
		s.buffer.Apply(act.Label)
		last = &act
		text := s.buffer.Text()
		for _, fn := range s.observers {
			fn(act, text)
		}
	}

	v := s.view(now)
	v.Cursor = cursor
	v.Activation = last
	return v
}

func (s *Session) view(now time.Time) View {
	text := s.buffer.Text()
	return View{
		Buttons:     s.layout.Buttons,
		Hovered:     s.selector.Hovered(),
		Progress:    s.selector.Progress(now),
		Text:        text,
		Shift:       s.buffer.Shift(),
		Caps:        s.buffer.Caps(),
		Suggestions: s.suggester.Suggest(text),
		Paused:      s.paused,
		Time:        now,
	}
}

// SetPaused stops or resumes input. While paused every frame is treated as
// having no cursor, so hover state is cleared.
func (s *Session) SetPaused(paused bool) {
	s.paused = paused
	if paused {
		s.selector.Reset()
	}
}

// Paused reports whether input is paused.
func (s *Session) Paused() bool {
	return s.paused
}

// Text returns the current typed text.
func (s *Session) Text() string {
	return s.buffer.Text()
}

// Layout returns the keyboard layout.
func (s *Session) Layout() keyboard.Layout {
	return s.layout
}

// Clear empties the text buffer and forgets any hover.
func (s *Session) Clear() {
	s.buffer.Reset()
	s.selector.Reset()
}
