package tui

import (
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
)

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// HomeLoadedMsg signals that the index and first listing page are ready
type HomeLoadedMsg struct {
	Home *catalog.HomeData
}

// VideosLoadedMsg signals that a listing page is ready
type VideosLoadedMsg struct {
	Page domain.VideoPage
	Opts catalog.ListOptions
}

// SearchResultsMsg signals that search results are ready
type SearchResultsMsg struct {
	Page  domain.VideoPage
	Query string
}

// VideoPageLoadedMsg signals that a video page is ready
type VideoPageLoadedMsg struct {
	View *catalog.VideoPageView
}

// VideoNotFoundMsg signals that a requested video does not exist
type VideoNotFoundMsg struct {
	ID string
}
