package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	errs "github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/edition"
	"github.com/vango-dev/almanac/pkg/source"
)

// Paths of the site-wide files.
const (
	GlobalConfigPath = "global/config.json"
	GlobalStylePath  = "global/styles.json"
)

// Global is the site-wide configuration, read once at startup and passed
// explicitly to whatever needs it.
type Global struct {
	Config edition.GlobalConfig
	Style  edition.GlobalStyle
}

// LoadGlobal reads the site-wide files from src. Missing files leave the
// corresponding zero value, so built-in defaults apply. Files that exist
// but do not decode are an error.
func LoadGlobal(ctx context.Context, src source.Source, logger *slog.Logger) (Global, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var g Global

	data, err := src.ReadFile(ctx, GlobalConfigPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("global config missing, using defaults", "path", GlobalConfigPath)
	case err != nil:
		return Global{}, fmt.Errorf("read %s: %w", GlobalConfigPath, err)
	default:
		if g.Config, err = edition.DecodeGlobalConfig(data); err != nil {
			return Global{}, errs.New("A113").WithDetail(GlobalConfigPath).Wrap(err)
		}
	}

	data, err = src.ReadFile(ctx, GlobalStylePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("global styles missing, using defaults", "path", GlobalStylePath)
	case err != nil:
		return Global{}, fmt.Errorf("read %s: %w", GlobalStylePath, err)
	default:
		if g.Style, err = edition.DecodeGlobalStyle(data); err != nil {
			return Global{}, errs.New("A113").WithDetail(GlobalStylePath).Wrap(err)
		}
	}

	return g, nil
}
