package domain

import (
	"fmt"
	"net/url"
)

// Resource paths of the generated content tree. Every path is a pure
// function of its inputs so it doubles as the cache key.
const (
	IndexPath          = "/index.json"
	SearchManifestPath = "/search/manifest.json"
)

// ListingPath returns the page fragment path for a listing.
// A playlist selector wins over a category selector, which wins over the
// unfiltered listing. Category names are percent-encoded.
func ListingPath(sort SortMode, category, playlist string, page int) string {
	switch {
	case playlist != "":
		return fmt.Sprintf("/playlists/%s/%s/page-%d.json", url.PathEscape(playlist), sort, page)
	case category != "":
		return fmt.Sprintf("/categories/%s/%s/page-%d.json", url.PathEscape(category), sort, page)
	default:
		return fmt.Sprintf("/videos/%s/page-%d.json", sort, page)
	}
}

// VideoPath returns the detail document path for a video id
func VideoPath(id string) string {
	return fmt.Sprintf("/video/%s.json", url.PathEscape(id))
}

// SearchChunkPath returns the path of the 1-indexed global search chunk i
func SearchChunkPath(i int) string {
	return fmt.Sprintf("/search/chunk-%d.json", i)
}

// SearchCategoryPath returns the per-category search file path
func SearchCategoryPath(category string) string {
	return fmt.Sprintf("/search/category/%s.json", url.PathEscape(category))
}

// SearchPlaylistPath returns the per-playlist search file path
func SearchPlaylistPath(id string) string {
	return fmt.Sprintf("/search/playlist/%s.json", url.PathEscape(id))
}
