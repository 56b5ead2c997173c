package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{"empty", "", 10, []string{""}},
		{"whitespace only", "   \t ", 10, []string{""}},
		{"single word", "Consulting", 42, []string{"Consulting"}},
		{"joined length equal to width fits", "a b c", 3, []string{"a b", "c"}},
		{"each word alone", "a b c", 2, []string{"a", "b", "c"}},
		{"long word unsplit", "supercalifragilistic is long", 5, []string{"supercalifragilistic", "is", "long"}},
		{"collapses whitespace", "one   two\nthree", 20, []string{"one two three"}},
		{"greedy fill", "the quick brown fox jumps", 10, []string{"the quick", "brown fox", "jumps"}},
		{"counts runes not bytes", "café café", 9, []string{"café café"}},
		{"zero width", "a b", 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrap_DescriptionColumn(t *testing.T) {
	desc := "Website maintenance including plugin updates, security patching and monthly backups"
	lines := Wrap(desc, DescriptionWidth)

	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line)), DescriptionWidth, "line %q", line)
	}
}
