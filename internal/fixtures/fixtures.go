// Package fixtures provides shared test inputs: a small word list and
// scripted detector frames that press keys.
package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/keyboard"
	"github.com/ayusman/airkeys/internal/suggest"
)

//go:embed words.txt
var wordsTxt []byte

// Words returns the embedded test word list.
func Words() (suggest.WordList, error) {
	return suggest.Parse(bytes.NewReader(wordsTxt))
}

// Press returns the detector frames of a finger held over label for hold
// frames and then lifted for one frame. Coordinates are normalized to a
// width x height camera frame.
func Press(layout keyboard.Layout, label string, width, height, hold int) ([][]detector.HandLandmarks, error) {
	for _, b := range layout.Buttons {
		if b.Label != label {
			continue
		}
		c := b.Center()
		hand := detector.PointingLandmarks(float64(c.X)/float64(width), float64(c.Y)/float64(height))
		frames := make([][]detector.HandLandmarks, 0, hold+1)
		for i := 0; i < hold; i++ {
			frames = append(frames, []detector.HandLandmarks{hand})
		}
		return append(frames, nil), nil
	}
	return nil, fmt.Errorf("no key labelled %q", label)
}

// Type chains Press for the key of every rune of text. Letters map to their
// key regardless of case.
func Type(layout keyboard.Layout, text string, width, height, hold int) ([][]detector.HandLandmarks, error) {
	var out [][]detector.HandLandmarks
	for _, r := range text {
		frames, err := Press(layout, strings.ToUpper(string(r)), width, height, hold)
		if err != nil {
			return nil, err
		}
		out = append(out, frames...)
	}
	return out, nil
}
