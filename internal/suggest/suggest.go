// Package suggest completes the word currently being typed from a static
// word list.
package suggest

import "strings"

// DefaultLimit is the number of completions shown under the keyboard.
const DefaultLimit = 3

// Suggest returns up to limit words from words, in list order, that start
// with the partial word at the end of text. Matching is case-insensitive.
// Text that is empty or ends in a space has no partial word.
func Suggest(text string, words []string, limit int) []string {
	if limit <= 0 || text == "" || strings.HasSuffix(text, " ") {
		return nil
	}

	current := text
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		current = text[i+1:]
	}
	current = strings.ToLower(current)
	if current == "" {
		return nil
	}

	var out []string
	for _, w := range words {
		if strings.HasPrefix(strings.ToLower(w), current) {
			out = append(out, w)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Engine binds a word list to a result limit.
type Engine struct {
	words WordList
	limit int
}

// NewEngine creates an Engine. A non-positive limit uses DefaultLimit.
func NewEngine(words WordList, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Engine{words: words, limit: limit}
}

// Suggest returns completions for text.
func (e *Engine) Suggest(text string) []string {
	return Suggest(text, e.words, e.limit)
}

// Words returns the engine's word list.
func (e *Engine) Words() WordList {
	return e.words
}
