package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
	"golang.org/x/term"
)

const defaultWidth = 100

// printer writes command output, styled only when stdout is a terminal
type printer struct {
	w      io.Writer
	styled bool
	width  int
}

func newPrinter(f *os.File) *printer {
	p := &printer{w: f, width: defaultWidth}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		p.styled = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			p.width = w
		}
	}
	return p
}

func (p *printer) render(style func(...string) string, s string) string {
	if !p.styled {
		return s
	}
	return style(s)
}

func (p *printer) Index(idx *domain.SiteIndex) {
	fmt.Fprintln(p.w, p.render(styles.TitleStyle.Render, "Catalog"))
	fmt.Fprintf(p.w, "  videos:     %d\n", idx.Stats.TotalVideos)
	fmt.Fprintf(p.w, "  playlists:  %d\n", idx.Stats.TotalPlaylists)
	fmt.Fprintf(p.w, "  categories: %d\n", idx.Stats.TotalCategories)
	if idx.Stats.LastUpdated != "" {
		fmt.Fprintf(p.w, "  updated:    %s\n", idx.Stats.LastUpdated)
	}

	if len(idx.Categories) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.render(styles.TitleStyle.Render, "Categories"))
		for _, c := range idx.Categories {
			pages := idx.Pagination.Categories[c]
			fmt.Fprintf(p.w, "  %s %s\n", c, p.render(styles.DimStyle.Render, fmt.Sprintf("(%d videos)", pages.TotalVideos)))
		}
	}

	if len(idx.Playlists) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.render(styles.TitleStyle.Render, "Playlists"))
		for _, pl := range idx.Playlists {
			fmt.Fprintf(p.w, "  %-24s %s %s\n", pl.ID, pl.Name, p.render(styles.DimStyle.Render, "("+pl.GetDescription()+")"))
		}
	}
}

// Page prints a listing or search page. A non-empty query highlights matches.
func (p *printer) Page(page domain.VideoPage, query string) {
	if len(page.Items) == 0 {
		fmt.Fprintln(p.w, p.render(styles.DimStyle.Render, "No videos"))
	}

	titleWidth := max(p.width-40, 20)
	for _, v := range page.Items {
		p.summaryLine(v, query, titleWidth)
	}

	footer := fmt.Sprintf("page %d of %d · %d videos", page.Page, max(page.TotalPages, 1), page.Total)
	fmt.Fprintln(p.w, p.render(styles.DimStyle.Render, footer))
}

func (p *printer) summaryLine(v domain.VideoSummary, query string, titleWidth int) {
	title := styles.Truncate(v.Title, titleWidth)
	if p.styled && query != "" {
		title = styles.Highlight(title, search.Highlight(query, title), false)
	}
	meta := fmt.Sprintf("%s · %s", v.Duration, v.FormattedViews())
	fmt.Fprintf(p.w, "%-14s %s  %s\n", v.ID, title, p.render(styles.DimStyle.Render, meta))
}

func (p *printer) Video(view *catalog.VideoPageView) {
	v := view.Video
	fmt.Fprintln(p.w, p.render(styles.TitleStyle.Render, v.Title))
	fmt.Fprintln(p.w, p.render(styles.SubtitleStyle.Render,
		fmt.Sprintf("%s · %s · %s", v.Duration, v.FormattedViews(), v.PublishedAt)))

	position := view.PlaylistName
	if view.PlaylistVideoCount > 0 {
		position = fmt.Sprintf("%s (%d of %d)", view.PlaylistName, view.CurrentIndex, view.PlaylistVideoCount)
	}
	fmt.Fprintln(p.w, p.render(styles.AccentStyle.Render, position))

	if v.Description != "" {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, strings.TrimSpace(v.Description))
	}
	if len(v.Tags) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.render(styles.DimStyle.Render, "tags: "+strings.Join(v.Tags, ", ")))
	}

	fmt.Fprintln(p.w)
	if view.PrevVideo != nil {
		fmt.Fprintf(p.w, "prev: %s  %s\n", view.PrevVideo.ID, view.PrevVideo.Title)
	}
	if view.NextVideo != nil {
		fmt.Fprintf(p.w, "next: %s  %s\n", view.NextVideo.ID, view.NextVideo.Title)
	}
}

func (p *printer) Suggestions(suggestions []search.Suggestion, query string) {
	if len(suggestions) == 0 {
		fmt.Fprintln(p.w, p.render(styles.DimStyle.Render, "No suggestions"))
		return
	}
	titleWidth := max(p.width-40, 20)
	for _, s := range suggestions {
		p.summaryLine(s.Video, query, titleWidth)
	}
}
