package catalog

import (
	"context"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/sync/errgroup"
)

// HomeData is the view model of the home page
type HomeData struct {
	Index  *domain.SiteIndex `json:"index"`
	Videos domain.VideoPage  `json:"videos"`
}

// VideoPageView is the view model of a video page
type VideoPageView struct {
	Video              *domain.VideoDetail  `json:"video"`
	PlaylistName       string               `json:"playlistName"`
	PrevVideo          *domain.VideoSummary `json:"prevVideo"`
	NextVideo          *domain.VideoSummary `json:"nextVideo"`
	PlaylistVideoCount int                  `json:"playlistVideoCount"`
	CurrentIndex       int                  `json:"currentIndex"`
}

// LoadHome loads the site index and a listing page concurrently.
// The listing degrades on its own; an index failure is returned once both
// branches have finished.
func (s *Service) LoadHome(ctx context.Context, opts ListOptions) (*HomeData, error) {
	var (
		g      errgroup.Group
		index  *domain.SiteIndex
		videos domain.VideoPage
	)

	g.Go(func() error {
		var err error
		index, err = s.GetIndex(ctx)
		return err
	})
	g.Go(func() error {
		videos = s.GetVideos(ctx, opts)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &HomeData{Index: index, Videos: videos}, nil
}

// LoadVideoPage loads a video and resolves its neighbors concurrently.
// It reports false when the video does not exist. A neighbor that is
// absent from the navigation block is not fetched; one that fails to load
// is left nil.
func (s *Service) LoadVideoPage(ctx context.Context, id string) (*VideoPageView, bool) {
	video, ok := s.GetVideo(ctx, id)
	if !ok {
		return nil, false
	}

	var (
		g          errgroup.Group
		prev, next *domain.VideoSummary
		nav        = video.Navigation
	)

	if nav.PrevID != nil && *nav.PrevID != "" {
		g.Go(func() error {
			prev = s.neighbor(ctx, *nav.PrevID)
			return nil
		})
	}
	if nav.NextID != nil && *nav.NextID != "" {
		g.Go(func() error {
			next = s.neighbor(ctx, *nav.NextID)
			return nil
		})
	}
	g.Wait()

	playlistName := video.PlaylistName
	if playlistName == "" {
		playlistName = s.defaultPlaylistName
	}

	return &VideoPageView{
		Video:              video,
		PlaylistName:       playlistName,
		PrevVideo:          prev,
		NextVideo:          next,
		PlaylistVideoCount: nav.Total,
		CurrentIndex:       nav.Position,
	}, true
}

func (s *Service) neighbor(ctx context.Context, id string) *domain.VideoSummary {
	v, ok := s.GetVideo(ctx, id)
	if !ok {
		s.logger.Debug("neighbor unavailable", "id", id)
		return nil
	}
	return v.Summary()
}
