package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Tafsir", 10, "Tafsir"},
		{"Tafsir Al-Baqarah", 10, "Tafsir ..."},
		{"École du soir", 6, "Éco..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestHighlightKeepsText(t *testing.T) {
	// styles may render without color in tests; the text must survive intact
	out := Highlight("Tafsir", []int{0, 1, 99}, false)
	assert.Contains(t, out, "Ta")
	assert.Contains(t, out, "fsir")
}
