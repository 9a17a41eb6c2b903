package domain

import (
	"fmt"
	"strings"
)

// SortMode orders a video listing
type SortMode string

const (
	SortDate   SortMode = "date"   // Newest first
	SortOldest SortMode = "oldest" // Oldest first
	SortViews  SortMode = "views"  // Most viewed first
)

// ParseSortMode returns the sort mode for s, falling back to SortDate
// for empty or unknown values.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortViews:
		return SortViews
	default:
		return SortDate
	}
}

// VideoSummary is the list-level view of a video
type VideoSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	PublishedAt  string `json:"publishedAt"`            // RFC 3339 timestamp from the sync job
	Duration     string `json:"duration"`               // Display duration, e.g. "12:34"
	Thumbnail    string `json:"thumbnail"`              // Thumbnail URL
	ViewCount    int64  `json:"viewCount"`              // Views at sync time
	PlaylistID   string `json:"playlistId,omitempty"`   // Containing playlist, if any
	PlaylistName string `json:"playlistName,omitempty"` // Containing playlist display name
	Category     string `json:"category,omitempty"`     // Category name, if any
}

// FormattedViews returns the view count in a compact human-readable format
func (v VideoSummary) FormattedViews() string {
	switch {
	case v.ViewCount >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(v.ViewCount)/1_000_000)
	case v.ViewCount >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(v.ViewCount)/1_000)
	case v.ViewCount == 1:
		return "1 view"
	default:
		return fmt.Sprintf("%d views", v.ViewCount)
	}
}

// Navigation locates a video within its containing playlist or category
type Navigation struct {
	PrevID   *string `json:"prevId"`   // nil at the start of the collection
	NextID   *string `json:"nextId"`   // nil at the end of the collection
	Position int     `json:"position"` // 1-based position in the collection
	Total    int     `json:"total"`    // Videos in the collection
}

// VideoDetail is the full per-video document
type VideoDetail struct {
	VideoSummary

	Description  string     `json:"description"`
	LikeCount    *int64     `json:"likeCount,omitempty"`
	CommentCount *int64     `json:"commentCount,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Navigation   Navigation `json:"navigation"`
}

// Summary returns the list-level projection of the detail
func (d *VideoDetail) Summary() *VideoSummary {
	s := d.VideoSummary
	return &s
}

// VideoPage is one page of a listing or search result
type VideoPage struct {
	Items      []VideoSummary `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// EmptyPage returns a page with no items that echoes the requested page and size
func EmptyPage(page, pageSize int) VideoPage {
	return VideoPage{
		Items:    []VideoSummary{},
		Page:     page,
		PageSize: pageSize,
	}
}

// TotalPages returns how many pages of size pageSize are needed for total items
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Playlist is a playlist entry from the site index
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	VideoCount int    `json:"videoCount"`
}

// GetDescription returns secondary info for display
func (p Playlist) GetDescription() string {
	if p.VideoCount == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", p.VideoCount)
}

// SiteStats holds the aggregate counters of the catalog
type SiteStats struct {
	TotalVideos     int    `json:"totalVideos"`
	TotalPlaylists  int    `json:"totalPlaylists"`
	TotalCategories int    `json:"totalCategories"`
	LastUpdated     string `json:"lastUpdated"`
}

// PageCount describes how a collection is paginated on disk
type PageCount struct {
	TotalVideos int `json:"totalVideos"`
	TotalPages  int `json:"totalPages"`
}

// Pagination holds page counts for every listable collection
type Pagination struct {
	All        PageCount            `json:"all"`
	Categories map[string]PageCount `json:"categories,omitempty"`
	Playlists  map[string]PageCount `json:"playlists,omitempty"`
}

// SiteIndex is the catalog-wide index document
type SiteIndex struct {
	Stats      SiteStats  `json:"stats"`
	Categories []string   `json:"categories"`
	Playlists  []Playlist `json:"playlists"`
	Pagination Pagination `json:"pagination"`
}

// FindPlaylist returns the playlist with the given id
func (idx *SiteIndex) FindPlaylist(id string) (Playlist, bool) {
	for _, p := range idx.Playlists {
		if p.ID == id {
			return p, true
		}
	}
	return Playlist{}, false
}
