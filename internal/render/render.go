// Package render draws the keyboard view onto camera frames.
package render

import (
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/airkeys/internal/keyboard"
	"github.com/ayusman/airkeys/internal/session"
)

// Renderer draws a view onto a frame.
type Renderer interface {
	Render(dst *gocv.Mat, v session.View)
}

// Style holds colors and sizes. Colors are given as RGBA and converted to
// BGR by gocv.
type Style struct {
	KeyFill       color.RGBA
	KeyBorder     color.RGBA
	KeyHover      color.RGBA
	KeyText       color.RGBA
	FillAlpha     float64
	BlurKernel    int
	Cursor        color.RGBA
	CursorRadius  int
	Progress      color.RGBA
	ProgressRing  int
	DisplayText   color.RGBA
	Suggestion    color.RGBA
	Indicator     color.RGBA
	Font          gocv.HersheyFont
	KeyFontScale  float64
	TextFontScale float64
}

// DefaultStyle is a translucent "frosted glass" keyboard with dark labels.
func DefaultStyle() Style {
	return Style{
		KeyFill:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		KeyBorder:     color.RGBA{R: 200, G: 200, B: 200, A: 255},
		KeyHover:      color.RGBA{R: 0, G: 200, B: 255, A: 255},
		KeyText:       color.RGBA{A: 255},
		FillAlpha:     0.3,
		BlurKernel:    21,
		Cursor:        color.RGBA{R: 255, B: 255, A: 255},
		CursorRadius:  10,
		Progress:      color.RGBA{G: 255, A: 255},
		ProgressRing:  30,
		DisplayText:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Suggestion:    color.RGBA{R: 255, G: 230, B: 120, A: 255},
		Indicator:     color.RGBA{G: 255, A: 255},
		Font:          gocv.FontHersheySimplex,
		KeyFontScale:  1.0,
		TextFontScale: 1.2,
	}
}

// Overlay is the gocv Renderer.
type Overlay struct {
	style Style
	gap   int
}

// NewOverlay creates an Overlay. gap is the spacing used to place the text
// display and suggestions under the keyboard.
func NewOverlay(style Style, gap int) *Overlay {
	if gap < 0 {
		gap = keyboard.DefaultGap
	}
	return &Overlay{style: style, gap: gap}
}

// Render implements Renderer.
func (o *Overlay) Render(dst *gocv.Mat, v session.View) {
	if dst == nil || dst.Empty() {
		return
	}
	bounds := image.Rect(0, 0, dst.Cols(), dst.Rows())
	layout := keyboard.Layout{Buttons: v.Buttons}

	o.drawKeys(dst, bounds, v)

	area := keyboard.TextArea(layout, o.gap)
	if !area.Empty() {
		o.drawText(dst, area, v.Text)
		o.drawSuggestions(dst, image.Pt(area.Min.X, area.Max.Y+o.gap), v.Suggestions)
	}

	o.drawIndicators(dst, bounds, v)

	if v.Cursor.Present {
		o.drawCursor(dst, v)
	}
}

func (o *Overlay) drawKeys(dst *gocv.Mat, bounds image.Rectangle, v session.View) {
	if len(v.Buttons) == 0 {
		return
	}

	// Blur what is behind each key, then blend a white layer over the keys.
	overlay := dst.Clone()
	defer overlay.Close()

	k := o.style.BlurKernel
	for _, b := range v.Buttons {
		r := b.Rect()
		if !r.In(bounds) {
			continue
		}
		if k > 1 {
			roi := dst.Region(r)
			gocv.GaussianBlur(roi, &roi, image.Pt(k|1, k|1), 0, 0, gocv.BorderDefault)
			roi.Close()
		}
		gocv.Rectangle(&overlay, r, o.style.KeyFill, -1)
	}
	gocv.AddWeighted(overlay, o.style.FillAlpha, *dst, 1-o.style.FillAlpha, 0, dst)

	for i, b := range v.Buttons {
		border, thickness := o.style.KeyBorder, 2
		if i == v.Hovered {
			border, thickness = o.style.KeyHover, 4
		}
		gocv.Rectangle(dst, b.Rect(), border, thickness)
		o.drawLabel(dst, b)
	}
}

// keyCaption is the text drawn on a key.
func keyCaption(label string) string {
	switch label {
	case keyboard.LabelSpace:
		return "Space"
	default:
		return label
	}
}

func (o *Overlay) drawLabel(dst *gocv.Mat, b keyboard.Button) {
	caption := keyCaption(b.Label)
	scale := o.style.KeyFontScale
	if len(caption) > 1 {
		scale *= 0.7
	}
	size := gocv.GetTextSize(caption, o.style.Font, scale, 2)
	c := b.Center()
	org := image.Pt(c.X-size.X/2, c.Y+size.Y/2)
	gocv.PutText(dst, caption, org, o.style.Font, scale, o.style.KeyText, 2)
}

func (o *Overlay) drawText(dst *gocv.Mat, area image.Rectangle, text string) {
	gocv.Rectangle(dst, area, o.style.KeyBorder, 2)

	pad := 15
	visible := FitTail(text, area.Dx()-2*pad, func(s string) int {
		return gocv.GetTextSize(s, o.style.Font, o.style.TextFontScale, 2).X
	})
	h := gocv.GetTextSize("Ag", o.style.Font, o.style.TextFontScale, 2).Y
	org := image.Pt(area.Min.X+pad, area.Min.Y+(area.Dy()+h)/2)
	gocv.PutText(dst, visible, org, o.style.Font, o.style.TextFontScale, o.style.DisplayText, 2)
}

func (o *Overlay) drawSuggestions(dst *gocv.Mat, at image.Point, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	scale := o.style.TextFontScale * 0.8
	h := gocv.GetTextSize("Ag", o.style.Font, scale, 2).Y
	org := image.Pt(at.X, at.Y+h)
	gocv.PutText(dst, strings.Join(suggestions, "   "), org, o.style.Font, scale, o.style.Suggestion, 2)
}

func (o *Overlay) drawIndicators(dst *gocv.Mat, bounds image.Rectangle, v session.View) {
	var flags []string
	if v.Paused {
		flags = append(flags, "PAUSED")
	}
	if v.Caps {
		flags = append(flags, "CAPS")
	}
	if v.Shift {
		flags = append(flags, "SHIFT")
	}
	if len(flags) == 0 {
		return
	}
	text := strings.Join(flags, " ")
	size := gocv.GetTextSize(text, gocv.FontHersheyPlain, 3, 3)
	org := image.Pt(bounds.Max.X-size.X-30, 40)
	gocv.PutText(dst, text, org, gocv.FontHersheyPlain, 3, o.style.Indicator, 3)
}

func (o *Overlay) drawCursor(dst *gocv.Mat, v session.View) {
	p := v.Cursor.Point
	gocv.Circle(dst, p, o.style.CursorRadius, o.style.Cursor, -1)

	if v.Hovered < 0 {
		return
	}
	if r := progressRadius(v.Progress, o.style.ProgressRing); r > 0 {
		gocv.Circle(dst, p, r, o.style.Progress, 4)
	}
}

// progressRadius grows the dwell ring with progress, up to full.
func progressRadius(progress float64, full int) int {
	return int(math.Max(0, math.Min(progress, 1)) * float64(full))
}

// FitTail returns the longest suffix of text whose measured width fits in
// width, so the most recently typed characters stay visible.
func FitTail(text string, width int, measure func(string) int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	// Suffix width shrinks as the cut moves right: find the first cut that
	// fits.
	cut := sort.Search(len(runes), func(i int) bool {
		return measure(string(runes[i:])) <= width
	})
	return string(runes[cut:])
}
