package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airkeys/internal/keyboard"
)

func TestWords(t *testing.T) {
	words, err := Words()
	require.NoError(t, err)
	assert.Contains(t, words, "hello")
	for _, w := range words {
		assert.NotContains(t, w, "#", "comments are skipped")
	}
}

func TestPress(t *testing.T) {
	layout := keyboard.NewLayout(keyboard.DefaultLayoutOptions())

	frames, err := Press(layout, "Q", 1280, 720, 5)
	require.NoError(t, err)
	require.Len(t, frames, 6)
	assert.Nil(t, frames[5], "hand lifted after the hold")

	b, _ := layout.Button(0)
	cursor := frames[0][0].Cursor(1280, 720)
	assert.True(t, keyboard.IsOver(b, cursor), "cursor %v should be over %q", cursor, b.Label)

	_, err = Press(layout, "Ctrl", 1280, 720, 5)
	assert.Error(t, err)
}

func TestType(t *testing.T) {
	layout := keyboard.NewLayout(keyboard.DefaultLayoutOptions())

	frames, err := Type(layout, "hi there", 1280, 720, 3)
	require.NoError(t, err)
	assert.Len(t, frames, 8*4)
}
