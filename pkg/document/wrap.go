package document

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most maxWidth runes using greedy word wrap.
// Words longer than maxWidth are placed on their own line unsplit. Empty input
// yields a single empty line so the caller still reserves a row.
func Wrap(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	currentLen := utf8.RuneCountInString(current)

	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+1+wordLen <= maxWidth {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}
		lines = append(lines, current)
		current = word
		currentLen = wordLen
	}

	return append(lines, current)
}
