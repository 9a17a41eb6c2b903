package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Highlight returns the rune indexes in title of the characters matched by
// query, for rendering. It returns nil when query does not match.
func Highlight(query, title string) []int {
	query = strings.TrimSpace(query)
	if query == "" || title == "" {
		return nil
	}

	// ToLower maps rune for rune, so rune indexes into lower are valid for title
	lower := strings.ToLower(title)
	matches := fuzzy.Find(strings.ToLower(query), []string{lower})
	if len(matches) == 0 {
		return nil
	}

	// fuzzy reports byte offsets
	offsets := matches[0].MatchedIndexes
	runes := make([]int, len(offsets))
	for i, off := range offsets {
		runes[i] = utf8.RuneCountInString(lower[:off])
	}
	return runes
}
