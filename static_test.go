package almanac

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStaticFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
	return path
}

func newStaticApp(t *testing.T, prefix string, cache CacheControlStrategy) (*App, string) {
	t.Helper()
	tmpDir := t.TempDir()
	publicDir := filepath.Join(tmpDir, "public")
	writeStaticFile(t, publicDir, "index.html", "<html>reader</html>")
	writeStaticFile(t, publicDir, "app.js", "ok")
	writeStaticFile(t, publicDir, "app.a1b2c3d4.css", "body{}")
	writeStaticFile(t, publicDir, "docs/index.html", "docs")
	writeStaticFile(t, tmpDir, "secret.txt", "secret")

	app := newTestApp(t, func(c *Config) {
		c.Static = StaticConfig{Dir: publicDir, Prefix: prefix, CacheControl: cache}
	})
	return app, publicDir
}

func TestStaticServing_IndexFallback(t *testing.T) {
	app, _ := newStaticApp(t, "/", CacheControlNone)

	for _, p := range []string{"/", "/docs", "/docs/"} {
		rr := get(t, app, p)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", p, rr.Code)
		}
	}
	if rr := get(t, app, "/"); rr.Body.String() != "<html>reader</html>" {
		t.Errorf("GET / body = %q", rr.Body.String())
	}
	if rr := get(t, app, "/docs/"); rr.Body.String() != "docs" {
		t.Errorf("GET /docs/ body = %q", rr.Body.String())
	}
}

func TestStaticServing_PrefixHandling(t *testing.T) {
	app, _ := newStaticApp(t, "/static", CacheControlNone)

	rr := get(t, app, "/static/app.js")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("GET /static/app.js = %d %q", rr.Code, rr.Body.String())
	}
	if rr := get(t, app, "/app.js"); rr.Code != http.StatusNotFound {
		t.Fatalf("GET /app.js status = %d, want 404", rr.Code)
	}
	if rr := get(t, app, "/static"); rr.Code != http.StatusOK {
		t.Fatalf("GET /static status = %d, want index", rr.Code)
	}
}

func TestStaticServing_MethodAndHeadHandling(t *testing.T) {
	app, _ := newStaticApp(t, "/", CacheControlNone)

	req := httptest.NewRequest(http.MethodPost, "http://example.com/app.js", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /app.js status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}

	req = httptest.NewRequest(http.MethodHead, "http://example.com/app.js", nil)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("HEAD /app.js status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("HEAD /app.js body length = %d, want 0", rr.Body.Len())
	}
}

func TestStaticServing_BlocksDirectoryTraversal(t *testing.T) {
	app, _ := newStaticApp(t, "/", CacheControlNone)

	cases := []string{
		"/../secret.txt",
		"/%2e%2e/secret.txt",
		"/..//secret.txt",
		"/./app.js",
		"/a%5c..%5csecret.txt",
	}
	for _, p := range cases {
		rr := get(t, app, p)
		if strings.Contains(rr.Body.String(), "secret") {
			t.Fatalf("GET %s unexpectedly served secret content", p)
		}
		if rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s status = %d, want %d", p, rr.Code, http.StatusNotFound)
		}
	}
}

func TestStaticServing_CacheHeaders(t *testing.T) {
	app, _ := newStaticApp(t, "/", CacheControlProduction)

	tests := map[string]string{
		"/app.a1b2c3d4.css": "public, max-age=31536000, immutable",
		"/app.js":           "public, max-age=3600, must-revalidate",
		"/":                 "no-cache",
	}
	for p, want := range tests {
		if got := get(t, app, p).Header().Get("Cache-Control"); got != want {
			t.Errorf("GET %s Cache-Control = %q, want %q", p, got, want)
		}
	}

	dev, _ := newStaticApp(t, "/", CacheControlProduction)
	dev.config.DevMode = true
	if got := get(t, dev, "/app.js").Header().Get("Cache-Control"); !strings.HasPrefix(got, "no-store") {
		t.Errorf("dev Cache-Control = %q", got)
	}
}

func TestStaticServing_APIRoutesWin(t *testing.T) {
	app, publicDir := newStaticApp(t, "/", CacheControlNone)
	writeStaticFile(t, publicDir, "api/editions", "shadowed")

	rr := get(t, app, "/api/editions")
	if strings.Contains(rr.Body.String(), "shadowed") {
		t.Fatal("static file shadowed an API route")
	}
}

func TestStaticServing_Disabled(t *testing.T) {
	app := newTestApp(t)
	if rr := get(t, app, "/"); rr.Code != http.StatusNotFound {
		t.Fatalf("GET / status = %d, want 404 without a bundle", rr.Code)
	}
}

func TestIsFingerprinted(t *testing.T) {
	tests := map[string]bool{
		"app.a1b2c3d4.css":     true,
		"dir/app.DEADBEEF.js":  true,
		"app.css":              false,
		"app.abc.css":          false,
		"app.zzzzzzzzzz.css":   false,
		"vendor.0123456789.js": true,
	}
	for p, want := range tests {
		if got := isFingerprinted(p); got != want {
			t.Errorf("isFingerprinted(%q) = %v, want %v", p, got, want)
		}
	}
}
