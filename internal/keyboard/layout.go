package keyboard

import "image"

// Variant selects the last key of the functional row.
type Variant string

const (
	// VariantTab ends the functional row with a reserved Tab key.
	VariantTab Variant = "tab"
	// VariantCaps ends the functional row with a Caps Lock key.
	VariantCaps Variant = "caps"
)

// Default layout geometry, in pixels.
const (
	DefaultOriginX = 50
	DefaultOriginY = 50
	DefaultKeySize = 80
	DefaultGap     = 10
)

// Rows is the QWERTY-like character grid.
var Rows = [3][10]string{
	{"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P"},
	{"A", "S", "D", "F", "G", "H", "J", "K", "L", ";"},
	{"Z", "X", "C", "V", "B", "N", "M", ",", ".", "/"},
}

// LayoutOptions controls layout construction. Zero values fall back to the
// defaults, so a layout always keeps a dead zone between keys and a margin
// from the frame edge.
type LayoutOptions struct {
	Origin  image.Point
	KeySize int
	// Gap must be positive; keys never touch.
	Gap     int
	Variant Variant
}

// DefaultLayoutOptions returns the options of the standard 1280x720 layout.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Origin:  image.Point{X: DefaultOriginX, Y: DefaultOriginY},
		KeySize: DefaultKeySize,
		Gap:     DefaultGap,
		Variant: VariantTab,
	}
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	d := DefaultLayoutOptions()
	if o.Origin == (image.Point{}) {
		o.Origin = d.Origin
	}
	if o.KeySize <= 0 {
		o.KeySize = d.KeySize
	}
	if o.Gap <= 0 {
		o.Gap = d.Gap
	}
	if o.Variant == "" {
		o.Variant = d.Variant
	}
	return o
}

// NewLayout builds the keyboard: three rows of ten character keys followed by
// the functional row (Shift, Space, Backspace, Tab or Caps).
func NewLayout(opts LayoutOptions) Layout {
	opts = opts.withDefaults()
	k, g := opts.KeySize, opts.Gap
	ox, oy := opts.Origin.X, opts.Origin.Y
	pitch := k + g

	buttons := make([]Button, 0, len(Rows)*len(Rows[0])+4)
	for i, row := range Rows {
		for j, label := range row {
			buttons = append(buttons, Button{
				X:     ox + j*pitch,
				Y:     oy + i*pitch,
				W:     k,
				H:     k,
				Label: label,
			})
		}
	}

	// Wide keys keep the 80px/10px proportions of the reference layout:
	// Shift and Backspace are 125px, Space 445px.
	wide := k * 25 / 16
	space := k * 89 / 16
	y := oy + len(Rows)*pitch
	x := ox

	last := LabelTab
	if opts.Variant == VariantCaps {
		last = LabelCaps
	}
	for _, fk := range []struct {
		label string
		w     int
	}{
		{LabelShift, wide},
		{LabelSpace, space},
		{LabelBackspace, wide},
		{last, wide},
	} {
		buttons = append(buttons, Button{X: x, Y: y, W: fk.w, H: k, Label: fk.label})
		x += fk.w + g
	}

	return Layout{Buttons: buttons}
}

// TextAreaHeight is the height of the typed-text display.
const TextAreaHeight = 70

// TextArea returns the rectangle below the keyboard where typed text is
// shown, two gaps under the functional row and as wide as the keyboard.
func TextArea(l Layout, gap int) image.Rectangle {
	b := l.Bounds()
	if b.Empty() {
		return image.Rectangle{}
	}
	top := b.Max.Y + 2*gap
	return image.Rect(b.Min.X, top, b.Max.X, top+TextAreaHeight)
}
