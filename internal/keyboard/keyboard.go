// Package keyboard provides the on-screen keyboard layout and hit-testing.
package keyboard

import (
	"fmt"
	"image"
)

// Special key labels.
const (
	LabelBackspace = "<-"
	LabelShift     = "Shift"
	LabelSpace     = " "
	LabelTab       = "Tab"
	LabelCaps      = "Caps"
)

// Button is a single rectangular key. Buttons are plain data and are never
// mutated after the layout is built.
type Button struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
	Label string `json:"label"`
}

// IsOver reports whether p lies strictly inside b. Points on the border are
// outside the button.
func IsOver(b Button, p image.Point) bool {
	return b.X < p.X && p.X < b.X+b.W && b.Y < p.Y && p.Y < b.Y+b.H
}

// Rect returns the button bounds as an image.Rectangle.
func (b Button) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Center returns the center point of the button.
func (b Button) Center() image.Point {
	return image.Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Layout is an ordered list of buttons. Declaration order is the hit-test
// priority.
type Layout struct {
	Buttons []Button
}

// HitTest returns the index of the first button containing p.
func (l Layout) HitTest(p image.Point) (int, bool) {
	for i, b := range l.Buttons {
		if IsOver(b, p) {
			return i, true
		}
	}
	return -1, false
}

// Len returns the number of buttons.
func (l Layout) Len() int {
	return len(l.Buttons)
}

// Button returns the button at index i.
func (l Layout) Button(i int) (Button, bool) {
	if i < 0 || i >= len(l.Buttons) {
		return Button{}, false
	}
	return l.Buttons[i], true
}

// Bounds returns the smallest rectangle enclosing every button.
func (l Layout) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, b := range l.Buttons {
		r = r.Union(b.Rect())
	}
	return r
}

// Validate returns an error if any two buttons overlap.
func (l Layout) Validate() error {
	for i := 0; i < len(l.Buttons); i++ {
		for j := i + 1; j < len(l.Buttons); j++ {
			if l.Buttons[i].Rect().Overlaps(l.Buttons[j].Rect()) {
				return fmt.Errorf("buttons %q and %q overlap", l.Buttons[i].Label, l.Buttons[j].Label)
			}
		}
	}
	return nil
}
