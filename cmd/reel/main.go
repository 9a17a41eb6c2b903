package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/fetch"
	"github.com/mmcdole/reel/internal/log"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/transport"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `usage: reel [flags] <command> [args]

commands:
  serve              serve the JSON API
  index              print catalog statistics, categories and playlists
  videos             list one page of videos
  video <id>         show a video with its neighbors
  search <query>     search video titles
  suggest <query>    fuzzy title suggestions
  browse             interactive browser
  pack <out.db>      pack the content root into a bundle

flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	var (
		showVersion bool
		configPath  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "config file (default ~/.config/reel/config.yaml)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	if err := run(configPath, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	// the TUI owns the terminal, so console logging is silenced there
	if args[0] == "browse" && cfg.Logging.File == "" {
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Debug("starting reel", "version", Version, "command", args[0])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]

	// pack reads the content root directly
	if cmd == "pack" {
		return runPack(cfg, rest)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "serve":
		return a.serve(ctx)
	case "index":
		return a.index(ctx)
	case "videos":
		return a.videos(ctx, rest)
	case "video":
		return a.video(ctx, rest)
	case "search":
		return a.search(ctx, rest)
	case "suggest":
		return a.suggest(ctx, rest)
	case "browse":
		return a.browse(rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// app wires the content source, fragment cache and catalog service
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	source  *transport.Source
	fetcher *fetch.Fetcher
	svc     *catalog.Service
	out     *printer
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	source, err := transport.New(&cfg.Content, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create content source: %w", err)
	}
	logger.Info("content source ready", "source", source.Kind)

	fetcher := fetch.NewFetcher(source, cfg.Cache.Capacity, logger)
	fetcher.SetFlightTimeout(cfg.Content.Timeout)
	searcher := search.NewAggregator(fetcher, logger)
	svc := catalog.NewService(fetcher, searcher, cfg.Catalog, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		source:  source,
		fetcher: fetcher,
		svc:     svc,
		out:     newPrinter(os.Stdout),
	}, nil
}

func (a *app) Close() error {
	return a.source.Close()
}

// requestContext bounds one CLI query by the configured content timeout
func (a *app) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Content.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Content.Timeout)
}
