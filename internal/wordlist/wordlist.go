// Package wordlist loads vocabulary decks from files.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/vocatype/internal/model"
)

// LoadWords reads a deck with one entry per line:
//
//	text[<TAB>translation[<TAB>difficulty]]
//
// Blank lines and lines starting with # are skipped.
func LoadWords(path, lang string) ([]model.Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()

	var words []model.Word
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, err := parseLine(line, lang)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("deck %s is empty", path)
	}
	return words, nil
}

func parseLine(line, lang string) (model.Word, error) {
	fields := strings.Split(line, "\t")
	w := model.Word{Text: strings.TrimSpace(fields[0]), Lang: lang}
	if w.Text == "" {
		return model.Word{}, fmt.Errorf("empty word: %w", model.ErrInvalidInput)
	}
	if len(fields) > 1 {
		w.Translation = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		d, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return model.Word{}, fmt.Errorf("difficulty %q: %w", fields[2], model.ErrInvalidInput)
		}
		w.Difficulty = d
	}
	return w, nil
}
