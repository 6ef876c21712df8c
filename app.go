package almanac

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/almanac/pkg/content"
	"github.com/vango-dev/almanac/pkg/middleware"
	"github.com/vango-dev/almanac/pkg/registry"
	"github.com/vango-dev/almanac/pkg/session"
	"github.com/vango-dev/almanac/pkg/source"
	"github.com/vango-dev/almanac/pkg/theme"
)

// =============================================================================
// App Type
// =============================================================================

// App is the magazine reader: the content registry, resolver and theme
// engine behind one http.Handler.
//
// Create an App with almanac.New:
//
//	app, err := almanac.New(ctx, almanac.Config{
//	    Source: source.NewFS(os.DirFS("magazine")),
//	    Static: almanac.StaticConfig{Dir: "public", Prefix: "/"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer app.Close()
//	http.ListenAndServe(":8080", app)
type App struct {
	source   source.Source
	registry *registry.Registry
	resolver *content.Resolver
	engine   *theme.Engine
	global   content.Global
	sessions *session.Manager
	live     *liveHub

	metrics  *middleware.Metrics
	promReg  *prometheus.Registry
	handler  http.Handler
	staticFS http.FileSystem

	config Config
	logger *slog.Logger
}

// New discovers the editions in cfg.Source, reads the global files and
// builds the HTTP surface. Edition files are only read on demand.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Source == nil {
		return nil, stderrors.New("almanac: Config.Source is required")
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = "/"
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = DefaultSessionConfig().IdleTTL
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "almanac"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		source: cfg.Source,
		config: cfg,
		logger: logger.With("component", "app"),
	}

	var resolverOpts []content.Option
	if cfg.Metrics.Enabled {
		a.promReg = cfg.Metrics.Registry
		if a.promReg == nil {
			a.promReg = prometheus.NewRegistry()
			a.promReg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		a.metrics = middleware.NewMetrics(
			middleware.WithRegistry(a.promReg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		resolverOpts = append(resolverOpts,
			content.WithRegistry(a.promReg),
			content.WithNamespace(cfg.Metrics.Namespace),
		)
	}

	reg, err := registry.Discover(ctx, cfg.Source, logger.With("component", "registry"))
	if err != nil {
		return nil, fmt.Errorf("discover editions: %w", err)
	}
	a.registry = reg
	a.resolver = content.NewResolver(reg, append(resolverOpts, content.WithLogger(logger))...)

	global, err := content.LoadGlobal(ctx, cfg.Source, logger.With("component", "content"))
	if err != nil {
		return nil, err
	}
	a.global = global
	a.engine = theme.NewEngine(global.Style)

	sessionOpts := []session.ManagerOption{
		session.WithIdleTTL(cfg.Session.IdleTTL),
		session.WithMaxSessions(cfg.Session.MaxSessions),
		session.WithLogger(logger),
		session.WithCountHook(a.metrics.ReaderSessions),
	}
	a.sessions = session.NewManager(sessionOpts...)
	a.live = newLiveHub(a)

	if cfg.Static.Dir != "" {
		a.staticFS = http.Dir(cfg.Static.Dir)
	}
	a.handler = a.routes()

	a.logger.Info("almanac ready",
		"editions", reg.Len(),
		"magazine", global.Config.MagazineName,
		"static", cfg.Static.Dir,
	)
	return a, nil
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Handler returns the App as an http.Handler.
func (a *App) Handler() http.Handler {
	return a
}

// =============================================================================
// Component Access
// =============================================================================

// Registry returns the edition registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Resolver returns the content resolver.
func (a *App) Resolver() *content.Resolver {
	return a.resolver
}

// Engine returns the theme engine.
func (a *App) Engine() *theme.Engine {
	return a.engine
}

// Global returns the site-wide configuration.
func (a *App) Global() content.Global {
	return a.global
}

// Sessions returns the reader session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

// Close disconnects live readers and stops the session manager.
func (a *App) Close() error {
	a.live.closeAll()
	return a.sessions.Close()
}

// =============================================================================
// Running
// =============================================================================

// ServerOptions configures Run.
type ServerOptions struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Run serves the App until ctx is done or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (a *App) Run(ctx context.Context, opts ServerOptions) error {
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           a,
		ReadHeaderTimeout: opts.ReadTimeout,
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "address", opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.Close()
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		a.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		// Hijacked websocket connections are not tracked by Shutdown.
		a.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown error", "error", err)
			return err
		}
		a.logger.Info("server shutdown complete")
		return nil
	}
}
