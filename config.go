package almanac

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/almanac/internal/config"
	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/source"
	"github.com/vango-dev/almanac/pkg/theme"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the application configuration.
//
// Most programs build it from almanac.json with FromFile; tests build it
// directly around an in-memory source.
type Config struct {
	// Source is the content tree. Required.
	Source source.Source

	// Static configures the presentation bundle.
	Static StaticConfig

	// Session configures reader sessions on the live endpoint.
	Session SessionConfig

	// Security configures the live endpoint's origin check.
	Security SecurityConfig

	// Metrics configures Prometheus collection.
	Metrics MetricsConfig

	// DefaultMode is the display mode of new reader sessions and of API
	// requests without a mode parameter.
	DefaultMode theme.Mode

	// DevMode disables static caching and the origin check.
	DevMode bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing the presentation bundle (e.g., "public").
	// Empty disables static serving.
	Dir string

	// Prefix is the URL path prefix for static files (e.g., "/").
	// A file at public/styles.css with Prefix="/" is served at /styles.css.
	Prefix string

	// CacheControl determines caching behavior for static files.
	// Default: CacheControlNone (no caching headers).
	CacheControl CacheControlStrategy

	// Headers are custom headers to add to all static file responses.
	Headers map[string]string
}

// SessionConfig configures reader sessions.
type SessionConfig struct {
	// IdleTTL is how long a session without activity is kept.
	// Default: 30 minutes.
	IdleTTL time.Duration

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int
}

// SecurityConfig configures the live endpoint's origin check.
type SecurityConfig struct {
	// AllowedOrigins lists origins allowed to open the live endpoint.
	AllowedOrigins []string

	// AllowSameOrigin accepts requests whose Origin matches the Host.
	// Default: true.
	AllowSameOrigin bool
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	// Enabled registers collectors and serves /metrics.
	Enabled bool

	// Namespace prefixes metric names (default: "almanac").
	Namespace string

	// Registry is where collectors are registered. When nil a fresh
	// registry is created, which keeps several Apps in one process apart.
	Registry *prometheus.Registry
}

// CacheControlStrategy determines caching behavior for static files.
type CacheControlStrategy int

const (
	// CacheControlNone adds no caching headers.
	// Use in development for instant updates.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction uses appropriate caching:
	// - Fingerprinted files (*.abc123.css): immutable, 1 year max-age
	// - Other files: short cache with revalidation
	CacheControlProduction
)

// =============================================================================
// Default Configurations
// =============================================================================

// DefaultConfig returns a Config with sensible defaults and no source.
func DefaultConfig() Config {
	return Config{
		Static:   DefaultStaticConfig(),
		Session:  DefaultSessionConfig(),
		Security: SecurityConfig{AllowSameOrigin: true},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "almanac",
		},
		DefaultMode: theme.Light,
	}
}

// DefaultStaticConfig returns a StaticConfig with sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Prefix:       "/",
		CacheControl: CacheControlNone,
	}
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		IdleTTL: 30 * time.Minute,
	}
}

// FromFile builds a Config from a validated almanac.json, opening the
// configured content source.
func FromFile(ctx context.Context, fc *config.Config, logger *slog.Logger) (Config, error) {
	if err := fc.Validate(); err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	cfg.Logger = logger
	cfg.DevMode = fc.Dev
	cfg.Static.Dir = fc.StaticPath()
	cfg.Static.Prefix = fc.Static.Prefix
	if !fc.Dev {
		cfg.Static.CacheControl = CacheControlProduction
	}
	cfg.Session.IdleTTL = fc.IdleTTL()
	cfg.Session.MaxSessions = fc.Session.MaxSessions
	cfg.Metrics.Enabled = fc.Metrics.Enabled
	cfg.Metrics.Namespace = fc.Metrics.Namespace
	if m, ok := theme.ParseMode(fc.DefaultMode); ok {
		cfg.DefaultMode = m
	}

	src, err := OpenSource(ctx, fc)
	if err != nil {
		return Config{}, err
	}
	cfg.Source = src
	return cfg, nil
}

// OpenSource returns the content source almanac.json names.
func OpenSource(_ context.Context, fc *config.Config) (source.Source, error) {
	switch fc.Content.Source {
	case config.SourceFS:
		dir := fc.ContentPath()
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.New("A122").
				WithDetailf("content directory %q is not readable", dir).
				WithSuggestion("Set content.dir in almanac.json or pass --content")
		}
		return source.NewFS(os.DirFS(dir)), nil
	case config.SourceS3:
		s3cfg := fc.Content.S3
		client := source.NewS3Client(source.S3Options{
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			SessionToken:    s3cfg.SessionToken,
			UsePathStyle:    s3cfg.UsePathStyle,
		})
		return source.NewS3(client, s3cfg.Bucket, s3cfg.Prefix), nil
	default:
		return nil, errors.New("A121").WithDetailf("unknown content source %q", fc.Content.Source)
	}
}
