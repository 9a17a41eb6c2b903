package main

import (
	"bytes"
	"testing"

	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
)

func plainPrinter() (*printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return &printer{w: &buf, width: defaultWidth}, &buf
}

func TestPrinterPage(t *testing.T) {
	p, buf := plainPrinter()
	p.Page(domain.VideoPage{
		Items:      []domain.VideoSummary{{ID: "v1", Title: "Tafsir Al-Fatiha", Duration: "12:34", ViewCount: 1500}},
		Total:      1,
		Page:       1,
		TotalPages: 1,
	}, "fatiha")

	out := buf.String()
	assert.Contains(t, out, "Tafsir Al-Fatiha")
	assert.Contains(t, out, "12:34 · 1.5K views")
	assert.Contains(t, out, "page 1 of 1 · 1 videos")
}

func TestPrinterEmptyPage(t *testing.T) {
	p, buf := plainPrinter()
	p.Page(domain.EmptyPage(999, 24), "")
	assert.Contains(t, buf.String(), "No videos")
	assert.Contains(t, buf.String(), "page 999 of 1")
}

func TestPrinterVideo(t *testing.T) {
	p, buf := plainPrinter()
	p.Video(&catalog.VideoPageView{
		Video: &domain.VideoDetail{
			VideoSummary: domain.VideoSummary{ID: "v2", Title: "Tafsir Al-Baqarah"},
			Description:  "Second lesson.",
			Tags:         []string{"tafsir"},
		},
		PlaylistName:       "Tafsir",
		PrevVideo:          &domain.VideoSummary{ID: "v1", Title: "Tafsir Al-Fatiha"},
		PlaylistVideoCount: 3,
		CurrentIndex:       2,
	})

	out := buf.String()
	assert.Contains(t, out, "Tafsir (2 of 3)")
	assert.Contains(t, out, "Second lesson.")
	assert.Contains(t, out, "tags: tafsir")
	assert.Contains(t, out, "prev: v1")
	assert.NotContains(t, out, "next:")
}

func TestPrinterIndex(t *testing.T) {
	p, buf := plainPrinter()
	p.Index(&domain.SiteIndex{
		Stats:      domain.SiteStats{TotalVideos: 3, TotalPlaylists: 1, TotalCategories: 1},
		Categories: []string{"Tafsir"},
		Playlists:  []domain.Playlist{{ID: "PL1", Name: "Tafsir", VideoCount: 1}},
		Pagination: domain.Pagination{Categories: map[string]domain.PageCount{"Tafsir": {TotalVideos: 3}}},
	})

	out := buf.String()
	assert.Contains(t, out, "videos:     3")
	assert.Contains(t, out, "Tafsir (3 videos)")
	assert.Contains(t, out, "(1 video)")
}
