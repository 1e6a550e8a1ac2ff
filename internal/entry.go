// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/airtable"
	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/meta"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/state"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/syncer"
)

// pipeline bundles the long-lived components shared by the serve, sync,
// and mcp commands.
type pipeline struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	db     *state.DB
	client *airtable.Client
}

func newPipeline(cfg *Config) (*pipeline, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("init artifact storage: %w", err)
	}

	db, err := state.Open(cfg.Output.StatePath)
	if err != nil {
		return nil, fmt.Errorf("init sync state: %w", err)
	}

	client := airtable.New(cfg.Airtable.BaseID, cfg.Airtable.Token)

	return &pipeline{
		cfg:    cfg,
		logger: logger,
		store:  store,
		db:     db,
		client: client,
	}, nil
}

func (p *pipeline) close() {
	if err := p.db.Close(); err != nil {
		p.logger.Error("close sync state", slog.String("error", err.Error()))
	}
}

func (p *pipeline) syncConfig() syncer.Config {
	t := p.cfg.Airtable.Tables
	return syncer.Config{
		Tables: syncer.Tables{
			Projects:  t.Projects,
			Journal:   t.Journal,
			Settings:  t.Settings,
			Festivals: t.Festivals,
			Clients:   t.Clients,
		},
		SortField:     p.cfg.Airtable.SortField,
		ModifiedField: p.cfg.Airtable.ModifiedField,
		DataFile:      p.cfg.Output.DataFile,
		ShareFile:     p.cfg.Output.ShareFile,
	}
}

// sourceChain builds the tiered data sources the rewriter and API read
// from: published CDN data first, then the CDN share manifest, then the
// local share manifest artifact.
func (p *pipeline) sourceChain() *meta.Chain {
	var sources []meta.Source
	if prefix := p.cfg.Site.CDNPrefix; prefix != "" {
		mode := p.cfg.Site.Mode
		sources = append(sources,
			&meta.DataURLSource{URL: prefix + "/" + meta.DataFileForMode(mode)},
			&meta.ShareURLSource{URL: prefix + "/" + meta.ShareFileForMode(mode)},
		)
	}
	sources = append(sources, &meta.ShareFileSource{Store: p.store, Path: p.cfg.Output.ShareFile})
	return &meta.Chain{Sources: sources, Logger: p.logger}
}

func resolveApp(opts []Option) (*Config, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app.config, nil
}

// Run starts the HTTP server with the given options: API routes, SSE
// events, and the share-meta rewriter proxying the static site origin.
func Run(ctx context.Context, opts ...Option) error {
	cfg, err := resolveApp(opts)
	if err != nil {
		return err
	}
	if cfg.Site.OriginURL == "" {
		return fmt.Errorf("site.origin_url is required to serve")
	}
	origin, err := url.Parse(cfg.Site.OriginURL)
	if err != nil {
		return fmt.Errorf("parse origin URL: %w", err)
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.close()

	logger := p.logger
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("mode", cfg.Site.Mode),
		slog.String("origin", cfg.Site.OriginURL),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker for sync and artifact events.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	orch := syncer.New(p.client, p.store, p.db, p.syncConfig(), logger, broker.PublishSyncEvent)

	cache := meta.NewCache(p.sourceChain(), cfg.Site.CacheTTL, nil)
	profile := meta.ProfileForMode(cfg.Site.Mode, cfg.Site.BaseURL)

	// Build API service and router.
	svc := api.NewService(cache, orch, p.db)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// The rewriter fronts the static site origin and injects share meta
	// into HTML responses.
	rewriter := meta.NewRewriter(httputil.NewSingleHostReverseProxy(origin), cache, profile, logger)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Everything else flows through the rewriter to the origin.
	r.Handle("/*", rewriter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the artifact files so out-of-band syncs (CLI, cron) refresh
	// the cache and notify preview clients.
	g.Go(func() error {
		tracked := []string{cfg.Output.DataFile, cfg.Output.ShareFile}
		err := storage.Watch(gCtx, p.store, tracked, logger, func(path string) {
			cache.Invalidate()
			broker.PublishDataUpdated(path)
		})
		if err != nil {
			logger.Warn("artifact watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunSync performs one sync cycle and exits. Used by the CLI sync
// command and cron-style schedulers.
func RunSync(ctx context.Context, incremental bool, opts ...Option) error {
	cfg, err := resolveApp(opts)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.close()

	orch := syncer.New(p.client, p.store, p.db, p.syncConfig(), p.logger, nil)

	var result *syncer.Result
	if incremental {
		result, err = orch.RunIncremental(ctx)
	} else {
		result, err = orch.Run(ctx)
	}
	if err != nil {
		return err
	}

	p.logger.Info("Sync finished",
		slog.String("mode", result.Mode),
		slog.Int("projects", result.Projects),
		slog.Int("posts", result.Posts),
		slog.Bool("skipped", result.Skipped),
		slog.Duration("duration", result.Duration))
	return nil
}

// RunMCP starts the MCP server on stdio, exposing portfolio tools to
// LLM clients.
func RunMCP(_ context.Context, opts ...Option) error {
	cfg, err := resolveApp(opts)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.close()

	orch := syncer.New(p.client, p.store, p.db, p.syncConfig(), p.logger, nil)
	cache := meta.NewCache(p.sourceChain(), cfg.Site.CacheTTL, nil)
	profile := meta.ProfileForMode(cfg.Site.Mode, cfg.Site.BaseURL)
	svc := api.NewService(cache, orch, p.db)

	return mcpserver.New(svc, profile).ServeStdio()
}
