package suggest

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// WordList is an ordered list of lowercase words. It is never modified after
// loading.
type WordList []string

// Load reads a word list from path. A missing or unreadable file is not an
// error: it is logged once and an empty list is returned, so suggestions are
// simply empty for the session.
func Load(path string, logger *slog.Logger) WordList {
	if logger == nil {
		logger = slog.Default()
	}
	words, err := LoadStrict(path)
	if err != nil {
		logger.Warn("word list unavailable, suggestions disabled", "path", path, "error", err)
		return WordList{}
	}
	logger.Info("word list loaded", "path", path, "words", len(words))
	return words
}

// LoadStrict reads a word list from path and returns any error.
func LoadStrict(path string) (WordList, error) {
	if path == "" {
		return nil, fmt.Errorf("word list path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	words, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}

// Parse reads one word per line. Lines are trimmed and lowercased; blank
// lines and lines starting with '#' are skipped.
func Parse(r io.Reader) (WordList, error) {
	var words WordList
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
