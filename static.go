package almanac

import (
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// =============================================================================
// Static File Serving
// =============================================================================

// indexFile is served for "/" and for any directory in the bundle.
const indexFile = "index.html"

// staticRelPath returns a sanitized relative path for a static request.
// It rejects traversal and absolute-path tricks so static serving cannot
// escape the bundle directory. The bundle root maps to indexFile.
func (a *App) staticRelPath(urlPath string) (string, bool) {
	if a.staticFS == nil {
		return "", false
	}

	rel, ok := a.stripStaticPrefix(urlPath)
	if !ok {
		return "", false
	}
	if rel == "" {
		return indexFile, true
	}

	// %00 arrives decoded.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}

	// "/static//etc/passwd" strips to "/etc/passwd".
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Check dot-segments before cleaning, which would hide them.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// serveStatic serves the presentation bundle. Directories are served
// through their index.html.
func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := a.staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, info, ok := a.openStatic(rel)
	if ok && info.IsDir() {
		f.Close()
		rel = path.Join(rel, indexFile)
		f, info, ok = a.openStatic(rel)
		if ok && info.IsDir() {
			f.Close()
			ok = false
		}
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	a.applyCacheHeaders(w, rel)
	for key, value := range a.config.Static.Headers {
		w.Header().Set(key, value)
	}

	http.ServeContent(w, r, rel, info.ModTime(), f)
}

// openStatic opens rel in the bundle. The file is closed when ok is false.
func (a *App) openStatic(rel string) (http.File, fs.FileInfo, bool) {
	f, err := a.staticFS.Open(rel)
	if err != nil {
		return nil, nil, false
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, false
	}
	return f, info, true
}

// stripStaticPrefix removes the static prefix from a URL path. It reports
// false when the path is outside the prefix.
func (a *App) stripStaticPrefix(urlPath string) (string, bool) {
	prefix := a.config.Static.Prefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if prefix == "/" {
		return strings.TrimPrefix(urlPath, "/"), true
	}
	if urlPath+"/" == prefix {
		return "", true
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	return strings.TrimPrefix(urlPath, prefix), true
}

// applyCacheHeaders applies cache control headers based on the configuration.
func (a *App) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	if a.config.DevMode {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		return
	}
	switch a.config.Static.CacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		switch {
		case isFingerprinted(filePath):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path.Base(filePath) == indexFile:
			// The index names the fingerprinted assets; it must revalidate.
			w.Header().Set("Cache-Control", "no-cache")
		default:
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted checks if a file path appears to be fingerprinted.
// Fingerprinted files have a hash in their name, e.g., "app.a1b2c3d4.css"
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
