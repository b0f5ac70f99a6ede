package keyboard

import (
	"image"
	"testing"
)

func TestIsOver_StrictBounds(t *testing.T) {
	b := Button{X: 10, Y: 10, W: 80, H: 80, Label: "Q"}

	tests := []struct {
		name  string
		point image.Point
		want  bool
	}{
		{name: "top-left corner", point: image.Pt(10, 10), want: false},
		{name: "just inside top-left", point: image.Pt(11, 11), want: true},
		{name: "center", point: image.Pt(50, 50), want: true},
		{name: "just inside bottom-right", point: image.Pt(89, 89), want: true},
		{name: "bottom-right corner", point: image.Pt(90, 90), want: false},
		{name: "left edge", point: image.Pt(10, 50), want: false},
		{name: "top edge", point: image.Pt(50, 10), want: false},
		{name: "right edge", point: image.Pt(90, 50), want: false},
		{name: "bottom edge", point: image.Pt(50, 90), want: false},
		{name: "outside", point: image.Pt(200, 5), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOver(b, tt.point); got != tt.want {
				t.Errorf("IsOver(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestLayout_HitTestFirstMatchWins(t *testing.T) {
	l := Layout{Buttons: []Button{
		{X: 0, Y: 0, W: 100, H: 100, Label: "A"},
		{X: 50, Y: 50, W: 100, H: 100, Label: "B"},
	}}

	i, ok := l.HitTest(image.Pt(75, 75))
	if !ok || i != 0 {
		t.Errorf("HitTest in overlap = (%d, %v), want (0, true)", i, ok)
	}

	i, ok = l.HitTest(image.Pt(120, 120))
	if !ok || i != 1 {
		t.Errorf("HitTest = (%d, %v), want (1, true)", i, ok)
	}

	if err := l.Validate(); err == nil {
		t.Error("Validate() should report overlapping buttons")
	}
}

func TestLayout_EmptyNeverMatches(t *testing.T) {
	var l Layout
	if i, ok := l.HitTest(image.Pt(1, 1)); ok {
		t.Errorf("empty layout matched button %d", i)
	}
	if _, ok := l.Button(0); ok {
		t.Error("Button(0) on empty layout should not be found")
	}
	if !TextArea(l, DefaultGap).Empty() {
		t.Error("TextArea of empty layout should be empty")
	}
}

func TestNewLayout_Default(t *testing.T) {
	l := NewLayout(DefaultLayoutOptions())

	if got, want := l.Len(), 34; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("default layout should not overlap: %v", err)
	}

	first := l.Buttons[0]
	if first != (Button{X: 50, Y: 50, W: 80, H: 80, Label: "Q"}) {
		t.Errorf("first button = %+v", first)
	}

	// "/" is the last key of the third row.
	slash := l.Buttons[29]
	if slash.Label != "/" || slash.X != 50+9*90 || slash.Y != 50+2*90 {
		t.Errorf("last grid button = %+v", slash)
	}

	want := []Button{
		{X: 50, Y: 320, W: 125, H: 80, Label: LabelShift},
		{X: 185, Y: 320, W: 445, H: 80, Label: LabelSpace},
		{X: 640, Y: 320, W: 125, H: 80, Label: LabelBackspace},
		{X: 775, Y: 320, W: 125, H: 80, Label: LabelTab},
	}
	for i, w := range want {
		if got := l.Buttons[30+i]; got != w {
			t.Errorf("functional button %d = %+v, want %+v", i, got, w)
		}
	}

	area := TextArea(l, DefaultGap)
	if area != image.Rect(50, 420, 900, 490) {
		t.Errorf("TextArea() = %v", area)
	}
}

func TestNewLayout_CapsVariant(t *testing.T) {
	l := NewLayout(LayoutOptions{Variant: VariantCaps})
	last := l.Buttons[l.Len()-1]
	if last.Label != LabelCaps {
		t.Errorf("last label = %q, want %q", last.Label, LabelCaps)
	}
	if last.X != 775 || last.Y != 320 {
		t.Errorf("Caps at (%d,%d), want (775,320)", last.X, last.Y)
	}
	if w := l.Buttons[1]; w.X != 140 {
		t.Errorf("W key X = %d, want 140", w.X)
	}
	if a := l.Buttons[10]; a.Y != 140 {
		t.Errorf("A key Y = %d, want 140", a.Y)
	}
}

func TestNewLayout_ZeroOptionsKeepGap(t *testing.T) {
	tests := []struct {
		name string
		opts LayoutOptions
	}{
		{name: "zero", opts: LayoutOptions{}},
		{name: "variant only", opts: LayoutOptions{Variant: VariantTab}},
		{name: "explicit zero gap", opts: LayoutOptions{Gap: 0, KeySize: DefaultKeySize}},
	}
	want := NewLayout(DefaultLayoutOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLayout(tt.opts)
			if got.Len() != want.Len() {
				t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
			}
			for i := range want.Buttons {
				if got.Buttons[i] != want.Buttons[i] {
					t.Errorf("button %d = %+v, want %+v", i, got.Buttons[i], want.Buttons[i])
				}
			}
		})
	}
}

func TestNewLayout_CustomGeometry(t *testing.T) {
	l := NewLayout(LayoutOptions{Origin: image.Pt(20, 30), KeySize: 48, Gap: 6})
	if err := l.Validate(); err != nil {
		t.Fatalf("custom layout should not overlap: %v", err)
	}
	if b := l.Buttons[1]; b.X != 20+54 || b.Y != 30 || b.W != 48 {
		t.Errorf("second button = %+v", b)
	}
	if i, ok := l.HitTest(l.Buttons[12].Center()); !ok || i != 12 {
		t.Errorf("HitTest(center of 12) = (%d, %v)", i, ok)
	}
}
