package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/mmcdole/movied/internal/adapter"
	"github.com/mmcdole/movied/internal/adapter/tmdb"
	"github.com/mmcdole/movied/internal/autocomplete"
	"github.com/mmcdole/movied/internal/catalog"
	"github.com/mmcdole/movied/internal/query"
	"github.com/mmcdole/movied/internal/route"
	"github.com/mmcdole/movied/internal/store"
	"github.com/mmcdole/movied/internal/tui"
	"github.com/mmcdole/movied/internal/web"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	pruneInterval   = 5 * time.Minute
	refreshChanSize = 64
)

type options struct {
	serve      bool
	addr       string
	start      string
	clearCache bool
}

func main() {
	var showVersion bool
	var opts options
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&opts.serve, "serve", false, "run the web front end instead of the terminal UI")
	flag.StringVar(&opts.addr, "addr", "", "listen address for -serve (overrides server.addr)")
	flag.StringVar(&opts.start, "route", "/", "page to open in the terminal UI, e.g. /movie/438631")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "remove the persistent cache and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("movied %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.clearCache {
		if err := adapter.ClearCache(); err != nil {
			return err
		}
		fmt.Println("✓ Cache cleared")
		return nil
	}

	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting movied", "version", Version)

	if !cfg.IsConfigured() {
		if opts.serve || !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("%w: set tmdb.token in the config file or MOVIED_TMDB_TOKEN", cfg.Validate())
		}
		return runSetupFlow()
	}

	start, err := route.Parse(opts.start)
	if err != nil {
		return err
	}

	// Warm tier; memory-only when persistence is off
	qs, err := store.NewQueryStore(cfg.CacheDir(), cfg.CacheScope())
	if err != nil {
		logger.Warn("persistent cache unavailable, continuing without it", "error", err)
		qs, _ = store.NewQueryStore("", "")
	}
	defer qs.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := query.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	cache := query.New(
		query.WithStore(qs),
		query.WithMetrics(metrics),
		query.WithLogger(logger),
		query.WithDefaultStaleAfter(cfg.Cache.CatalogTTL),
	)
	defer cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cache.Run(ctx, pruneInterval)

	client := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.Token, cfg.TMDB.Language, logger)
	svc := catalog.NewService(client, cache, catalog.Config{
		CatalogTTL: cfg.Cache.CatalogTTL,
		SearchTTL:  cfg.Cache.SearchTTL,
		Persist:    cfg.Cache.Persist,
	}, logger)

	if opts.serve {
		return serve(ctx, cfg, svc, reg, opts.addr, logger)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the terminal UI needs a TTY; use -serve for the web front end")
	}

	observer := tui.NewChannelObserver(svc, refreshChanSize)
	defer observer.Close()

	model := tui.NewModel(tui.Deps{
		Catalog:  svc,
		Launcher: adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger),
		Hub:      autocomplete.NewHub(),
		Search: autocomplete.New(autocomplete.Config{
			Debounce:      cfg.UI.Debounce,
			GuardShortcut: cfg.UI.GuardShortcut,
		}),
		Refresh: observer.C(),
		Logger:  logger,
		Start:   start,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI", "route", start.String())

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func serve(ctx context.Context, cfg *adapter.Config, svc *catalog.Service, reg *prometheus.Registry, addr string, logger *slog.Logger) error {
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv, err := web.New(web.Options{
		Catalog:      svc,
		Logger:       logger,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Gatherer:     reg,
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	fmt.Printf("movied listening on http://%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

// runSetupFlow asks for the API token and saves it to the config file
func runSetupFlow() error {
	fmt.Println()
	fmt.Println("Welcome to movied!")
	fmt.Println()
	fmt.Println("movied needs a TMDB API read access token.")
	fmt.Println("Create one at https://www.themoviedb.org/settings/api")
	fmt.Println()

	var token string
	for {
		fmt.Print("Paste your read access token: ")
		input, err := readSecret()
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		token = strings.TrimSpace(input)

		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}
		break
	}

	if err := adapter.SaveToken(token); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run movied again to start the application.")
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	return bufio.NewReader(os.Stdin).ReadString('\n')
}
