package search

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// Suggestion is a fuzzy title match from the global index
type Suggestion struct {
	Video    domain.VideoSummary `json:"video"`
	Distance int                 `json:"distance"` // lower is closer
}

// Suggest returns up to limit titles from the global index that fuzzily
// match query, closest first. Matching ignores case and diacritics so
// "tafsir" finds "Tafsīr". Unlike Search, characters of query only need to
// appear in order, not contiguously.
func (a *Aggregator) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit == 0 {
		return nil, nil
	}

	idx, err := a.scope(ctx, Options{})
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		titles[i] = e.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	if limit < 0 || limit > len(ranks) {
		limit = len(ranks)
	}
	out := make([]Suggestion, 0, limit)
	for _, r := range ranks[:limit] {
		out = append(out, Suggestion{
			Video:    idx.entries[r.OriginalIndex].Summary(),
			Distance: r.Distance,
		})
	}
	return out, nil
}
