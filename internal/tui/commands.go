package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/search"
)

// Command factories for async operations

// LoadHomeCmd loads the site index and the first listing page
func LoadHomeCmd(svc *catalog.Service, opts catalog.ListOptions, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		home, err := svc.LoadHome(ctx, opts)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading catalog"}
		}
		return HomeLoadedMsg{Home: home}
	}
}

// LoadVideosCmd loads one listing page
func LoadVideosCmd(svc *catalog.Service, opts catalog.ListOptions, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return VideosLoadedMsg{Page: svc.GetVideos(ctx, opts), Opts: opts}
	}
}

// SearchCmd runs a title search
func SearchCmd(svc *catalog.Service, query string, opts search.Options, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := svc.Search(ctx, query, opts)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Page: page, Query: query}
	}
}

// LoadVideoPageCmd loads a video with its neighbors
func LoadVideoPageCmd(svc *catalog.Service, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		view, ok := svc.LoadVideoPage(ctx, id)
		if !ok {
			return VideoNotFoundMsg{ID: id}
		}
		return VideoPageLoadedMsg{View: view}
	}
}
