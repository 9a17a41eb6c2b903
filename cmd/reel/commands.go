package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/httpapi"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
)

// listFlags registers the listing selectors on fs
func listFlags(fs *flag.FlagSet) *catalog.ListOptions {
	opts := &catalog.ListOptions{Sort: domain.SortDate}
	fs.IntVar(&opts.Page, "page", 1, "page number")
	fs.Func("sort", "sort order: date, oldest or views", func(s string) error {
		opts.Sort = domain.ParseSortMode(s)
		return nil
	})
	fs.StringVar(&opts.Category, "category", "", "restrict to a category")
	fs.StringVar(&opts.Playlist, "playlist", "", "restrict to a playlist")
	return opts
}

func (a *app) serve(ctx context.Context) error {
	// raw fragments are only served when they are on local disk
	var dataRoot string
	if a.source.Kind == config.SourceFile {
		dataRoot = a.cfg.Content.Root
	}

	srv := &nethttp.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           httpapi.NewServer(a.svc, a.fetcher, dataRoot, a.logger),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr, "data", dataRoot)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
	a.logger.Info("server stopped")
	return nil
}

func (a *app) index(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	idx, err := a.svc.GetIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to load site index: %w", err)
	}
	a.out.Index(idx)
	return nil
}

func (a *app) videos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("videos", flag.ContinueOnError)
	opts := listFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	a.out.Page(a.svc.GetVideos(ctx, *opts), "")
	return nil
}

func (a *app) video(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: video takes exactly one id", errUsage)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	view, ok := a.svc.LoadVideoPage(ctx, args[0])
	if !ok {
		return fmt.Errorf("video %s not found", args[0])
	}
	a.out.Video(view)
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	var opts search.Options
	fs.IntVar(&opts.Page, "page", 1, "page number")
	fs.StringVar(&opts.Category, "category", "", "search within a category")
	fs.StringVar(&opts.Playlist, "playlist", "", "search within a playlist")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search needs a query", errUsage)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	page, err := a.svc.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	a.out.Page(page, query)
	return nil
}

func (a *app) suggest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "maximum suggestions")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	query := strings.Join(fs.Args(), " ")

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	suggestions, err := a.svc.Suggest(ctx, query, *limit)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}
	a.out.Suggestions(suggestions, query)
	return nil
}

func (a *app) browse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	opts := listFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	model := tui.NewModel(a.svc, *opts, a.cfg.Content.Timeout, a.logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runPack(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: pack takes exactly one output path", errUsage)
	}

	n, err := store.Pack(cfg.Content.Root, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("packed %d fragments from %s into %s\n", n, cfg.Content.Root, args[0])
	return nil
}
