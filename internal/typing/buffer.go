// Package typing applies key activations to the typed text.
package typing

import (
	"unicode"
	"unicode/utf8"

	"github.com/ayusman/airkeys/internal/keyboard"
)

// Buffer holds the typed text and modifier state. The zero value is an empty
// buffer in the normal (unshifted) state.
type Buffer struct {
	text  []rune
	shift bool
	caps  bool
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Apply applies one activation label and reports whether the text changed.
//
// Shift is one-shot: it is cleared by the next character-producing key
// (printable or space) and left alone by Backspace, Tab and Caps. Labels that
// are neither special keys nor a single printable rune are ignored.
func (b *Buffer) Apply(label string) bool {
	switch label {
	case keyboard.LabelBackspace:
		if len(b.text) == 0 {
			return false
		}
		b.text = b.text[:len(b.text)-1]
		return true
	case keyboard.LabelShift:
		b.shift = !b.shift
		return false
	case keyboard.LabelCaps:
		b.caps = !b.caps
		return false
	case keyboard.LabelTab:
		return false
	case keyboard.LabelSpace:
		b.text = append(b.text, ' ')
		b.shift = false
		return true
	}

	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError || size != len(label) || !unicode.IsPrint(r) {
		return false
	}

	if b.shift != b.caps {
		r = unicode.ToUpper(r)
	} else {
		r = unicode.ToLower(r)
	}
	b.text = append(b.text, r)
	b.shift = false
	return true
}

// Text returns the typed text.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Len returns the number of typed runes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// Shift reports whether the one-shot shift is armed.
func (b *Buffer) Shift() bool {
	return b.shift
}

// Caps reports whether caps lock is on.
func (b *Buffer) Caps() bool {
	return b.caps
}

// Reset clears the text and modifiers.
func (b *Buffer) Reset() {
	b.text = b.text[:0]
	b.shift = false
	b.caps = false
}
