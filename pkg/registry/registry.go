// Package registry maps edition ids to their declarative content files.
//
// The mapping is built once at startup, either explicitly with New or by
// scanning a content tree with Discover, and never changes afterwards.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/vango-dev/almanac/pkg/edition"
	"github.com/vango-dev/almanac/pkg/source"
)

// ContentDir is the directory holding one sub-directory per edition.
const ContentDir = "content"

// Files reads the files of one edition.
type Files interface {
	// Config returns config.json.
	Config(ctx context.Context) ([]byte, error)

	// Theme returns theme.json. It is optional; absence yields an error
	// matching fs.ErrNotExist.
	Theme(ctx context.Context) ([]byte, error)

	// Column returns columns/<id>.json.
	Column(ctx context.Context, id string) ([]byte, error)
}

// Entry pairs an edition id with its files.
type Entry struct {
	ID    edition.ID
	Files Files
}

// Registry is the immutable set of published editions.
type Registry struct {
	files map[edition.ID]Files
	ids   []edition.ID // newest first
}

// New builds a registry from explicit entries. A later entry with the same
// id replaces an earlier one.
func New(entries ...Entry) *Registry {
	r := &Registry{files: make(map[edition.ID]Files, len(entries))}
	for _, e := range entries {
		r.files[e.ID] = e.Files
	}
	r.ids = make([]edition.ID, 0, len(r.files))
	for id := range r.files {
		r.ids = append(r.ids, id)
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] > r.ids[j] })
	return r
}

// Discover scans ContentDir in src and registers every sub-directory named
// like an edition id. A missing ContentDir yields an empty registry.
func Discover(ctx context.Context, src source.Source, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	children, err := src.ReadDir(ctx, ContentDir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("content directory missing, no editions registered", "dir", ContentDir)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", ContentDir, err)
	}

	var entries []Entry
	for _, c := range children {
		if !c.IsDir {
			continue
		}
		id, err := edition.ParseID(c.Name)
		if err != nil {
			logger.Debug("skipping non-edition directory", "name", c.Name)
			continue
		}
		entries = append(entries, Entry{ID: id, Files: SourceFiles(src, id)})
	}
	r := New(entries...)
	logger.Info("editions registered", "count", len(r.ids))
	return r, nil
}

// List returns the registered ids, newest first. The slice is a copy.
func (r *Registry) List() []edition.ID {
	out := make([]edition.ID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id edition.ID) bool {
	_, ok := r.files[id]
	return ok
}

// Latest returns the newest edition id.
func (r *Registry) Latest() (edition.ID, bool) {
	if len(r.ids) == 0 {
		return "", false
	}
	return r.ids[0], true
}

// Files returns the file accessor for id.
func (r *Registry) Files(id edition.ID) (Files, bool) {
	f, ok := r.files[id]
	return f, ok
}

// Len returns the number of registered editions.
func (r *Registry) Len() int {
	return len(r.ids)
}

type sourceFiles struct {
	src source.Source
	dir string
}

// SourceFiles returns the Files of edition id stored in src under
// ContentDir/<id>.
func SourceFiles(src source.Source, id edition.ID) Files {
	return &sourceFiles{src: src, dir: path.Join(ContentDir, string(id))}
}

func (f *sourceFiles) Config(ctx context.Context) ([]byte, error) {
	return f.src.ReadFile(ctx, path.Join(f.dir, "config.json"))
}

func (f *sourceFiles) Theme(ctx context.Context) ([]byte, error) {
	return f.src.ReadFile(ctx, path.Join(f.dir, "theme.json"))
}

func (f *sourceFiles) Column(ctx context.Context, id string) ([]byte, error) {
	if !validColumnID(id) {
		return nil, &fs.PathError{Op: "open", Path: id, Err: fs.ErrNotExist}
	}
	return f.src.ReadFile(ctx, path.Join(f.dir, "columns", id+".json"))
}

// validColumnID keeps a column id inside the columns directory.
func validColumnID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, "/\\\x00")
}
