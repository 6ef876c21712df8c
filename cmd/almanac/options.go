package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/almanac"
	"github.com/vango-dev/almanac/internal/config"
	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/theme"
)

// lookupEnv reads the environment. Tests replace it.
var lookupEnv = os.LookupEnv

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	contentDir string
	logLevel   string
	logFormat  string
}

// loadConfig layers almanac.json, then the environment, then flags.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		fc  *config.Config
		err error
	)
	if o.configPath != "" {
		fc, err = config.LoadFile(o.configPath)
	} else {
		fc, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}
	if err := fc.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}

	if o.contentDir != "" {
		dir, err := filepath.Abs(o.contentDir)
		if err != nil {
			return nil, errors.New("A140").Wrap(err)
		}
		fc.Content.Source = config.SourceFS
		fc.Content.Dir = dir
	}
	if o.logLevel != "" {
		fc.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		fc.Log.Format = o.logFormat
	}
	return fc, nil
}

// openApp builds an App for one-shot commands. Metrics are off: nothing
// scrapes a process that exits after one view.
func (o *globalOptions) openApp(ctx context.Context, stderr io.Writer) (*almanac.App, error) {
	fc, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	fc.Metrics.Enabled = false
	cfg, err := almanac.FromFile(ctx, fc, newLogger(fc, stderr))
	if err != nil {
		return nil, err
	}
	return almanac.New(ctx, cfg)
}

func newLogger(fc *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(fc.Log.Level)}
	if fc.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseMode parses a --mode flag. Empty selects fallback.
func parseMode(s string, fallback theme.Mode) (theme.Mode, error) {
	if s == "" {
		return fallback, nil
	}
	m, ok := theme.ParseMode(s)
	if !ok {
		return 0, errors.New("A140").
			WithDetailf("unknown mode %q", s).
			WithSuggestion("Use --mode=light or --mode=dark")
	}
	return m, nil
}
