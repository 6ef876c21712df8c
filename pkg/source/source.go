// Package source abstracts where the content tree lives.
//
// A Source exposes the handful of reads the registry and resolver need.
// Paths are slash-separated and relative to the tree root, e.g.
// "content/2025-11/config.json". A missing file or directory yields an
// error matching fs.ErrNotExist.
package source

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Entry is one child of a directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Source reads the content tree.
type Source interface {
	// ReadFile returns the contents of the named file.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// ReadDir lists the immediate children of the named directory,
	// sorted by name.
	ReadDir(ctx context.Context, name string) ([]Entry, error)
}

// FS serves content from an fs.FS, typically os.DirFS.
type FS struct {
	fsys fs.FS
}

// NewFS wraps fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// ReadFile implements Source.
func (s *FS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, name)
}

// ReadDir implements Source.
func (s *FS) ReadDir(ctx context.Context, name string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	des, err := fs.ReadDir(s.fsys, name)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(des))
	for _, de := range des {
		out = append(out, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return out, nil
}

// cleanName rejects names that could escape the tree root.
func cleanName(name string) (string, error) {
	if name == "" || name == "/" {
		return ".", nil
	}
	if strings.ContainsRune(name, 0) || strings.Contains(name, "\\") {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(clean) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return clean, nil
}

func sortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool { return es[i].Name < es[j].Name })
}
