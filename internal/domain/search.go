package domain

// SearchEntry is the compact projection of a video used by the search index.
// Field names are abbreviated to keep the chunk files small.
type SearchEntry struct {
	ID           string `json:"i"`
	Title        string `json:"t"`
	PublishedAt  string `json:"p,omitempty"`
	Duration     string `json:"d,omitempty"`
	Thumbnail    string `json:"th,omitempty"`
	ViewCount    int64  `json:"v,omitempty"`
	PlaylistID   string `json:"pl,omitempty"`
	PlaylistName string `json:"pn,omitempty"`
	Category     string `json:"c,omitempty"`
}

// Summary expands the entry into a VideoSummary
func (e SearchEntry) Summary() VideoSummary {
	return VideoSummary{
		ID:           e.ID,
		Title:        e.Title,
		PublishedAt:  e.PublishedAt,
		Duration:     e.Duration,
		Thumbnail:    e.Thumbnail,
		ViewCount:    e.ViewCount,
		PlaylistID:   e.PlaylistID,
		PlaylistName: e.PlaylistName,
		Category:     e.Category,
	}
}

// SearchManifest describes how the global search index is chunked
type SearchManifest struct {
	TotalChunks int `json:"totalChunks"`
}

// SearchChunk is one numbered slice of the global search index
type SearchChunk struct {
	Entries []SearchEntry `json:"entries"`
}
