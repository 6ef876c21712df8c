package almanac

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/edition"
	"github.com/vango-dev/almanac/pkg/middleware"
	"github.com/vango-dev/almanac/pkg/nav"
	"github.com/vango-dev/almanac/pkg/theme"
)

// routes builds the HTTP surface.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	))
	if a.metrics != nil {
		r.Use(a.metrics.Handler)
	}

	r.Get("/healthz", a.handleHealth)
	if a.promReg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.promReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", a.handleView)
		r.Get("/archive", a.handleArchive)
		r.Get("/editions", a.handleEditions)
		r.Get("/editions/{edition}", a.handleEdition)
		r.Get("/editions/{edition}/columns/{column}", a.handleColumn)
		r.Get("/theme", a.handleTheme)
		r.Get("/nav/encode", a.handleEncode)
		r.Get("/nav/decode", a.handleDecode)
		r.Get("/live", a.live.ServeHTTP)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, errors.New("A130").WithDetailf("no API route %s", r.URL.Path), http.StatusNotFound)
		})
	})

	r.NotFound(a.serveStatic)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// requestLogger logs one line per request at debug level, or at warn for
// server errors.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		if ww.Status() >= 500 {
			level = slog.LevelWarn
		}
		a.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// =============================================================================
// API Handlers
// =============================================================================

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"editions": a.registry.Len(),
		"sessions": a.sessions.Count(),
		"live":     a.live.count(),
	})
}

func (a *App) handleView(w http.ResponseWriter, r *http.Request) {
	mode, err := a.requestMode(r)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	v, err := a.View(r.Context(), nav.DecodeURL(r.URL), mode)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *App) handleArchive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"editions": a.resolver.Archive(r.Context()),
	})
}

type editionsResponse struct {
	Editions []edition.ID `json:"editions"`
	Latest   edition.ID   `json:"latest,omitempty"`
}

func (a *App) handleEditions(w http.ResponseWriter, r *http.Request) {
	resp := editionsResponse{Editions: a.registry.List()}
	resp.Latest, _ = a.registry.Latest()
	writeJSON(w, http.StatusOK, resp)
}

type editionResponse struct {
	Edition *edition.Edition `json:"edition"`
	Label   string           `json:"label"`
	Columns []edition.Column `json:"columns"`
	Theme   *edition.Theme   `json:"theme,omitempty"`
}

func (a *App) handleEdition(w http.ResponseWriter, r *http.Request) {
	id := edition.ID(chi.URLParam(r, "edition"))
	e, err := a.resolver.LoadEdition(r.Context(), id)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, editionResponse{
		Edition: e,
		Label:   e.ID.Label(),
		Columns: e.SortedColumns(),
		Theme:   a.editionTheme(r.Context(), e.ID),
	})
}

type columnResponse struct {
	Edition edition.ID      `json:"edition"`
	Column  *edition.Column `json:"column"`
	Body    string          `json:"body"`
}

func (a *App) handleColumn(w http.ResponseWriter, r *http.Request) {
	id := edition.ID(chi.URLParam(r, "edition"))
	columnID := chi.URLParam(r, "column")

	e, err := a.resolver.LoadEdition(r.Context(), id)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	c, ok := e.Column(columnID)
	if !ok {
		writeError(w, errors.New("A101").WithDetailf("column %q in edition %q", columnID, id), 0)
		return
	}
	writeJSON(w, http.StatusOK, columnResponse{
		Edition: id,
		Column:  c,
		Body:    a.resolver.ColumnBody(r.Context(), id, columnID),
	})
}

func (a *App) handleTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := a.requestMode(r)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	s := nav.DecodeURL(r.URL)
	th, err := a.Theme(r.Context(), s, mode)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	if r.URL.Query().Get("format") == "css" {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(th.CSS()))
		return
	}
	writeJSON(w, http.StatusOK, th)
}

type navResponse struct {
	State nav.State `json:"state"`
	Query string    `json:"query"`
	Href  string    `json:"href"`
}

func (a *App) handleEncode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, ok := nav.ParseKind(q.Get("kind"))
	if !ok {
		writeError(w, errors.New("A130").WithDetailf("kind %q is not one of home, archive, cover, index, column", q.Get("kind")), 0)
		return
	}
	s := nav.Of(kind, edition.ID(q.Get("edition")), q.Get("article"))
	writeJSON(w, http.StatusOK, navResponse{State: s, Query: nav.Encode(s), Href: nav.Href("/", s)})
}

func (a *App) handleDecode(w http.ResponseWriter, r *http.Request) {
	s := nav.DecodeURL(r.URL)
	writeJSON(w, http.StatusOK, navResponse{State: s, Query: nav.Encode(s), Href: nav.Href("/", s)})
}

// requestMode reads the mode parameter, falling back to the reader
// session's mode and then to the configured default.
func (a *App) requestMode(r *http.Request) (theme.Mode, error) {
	if v := r.URL.Query().Get("mode"); v != "" {
		m, ok := theme.ParseMode(v)
		if !ok {
			return theme.Light, errors.New("A130").WithDetailf("mode %q is not light or dark", v)
		}
		return m, nil
	}
	if id := r.Header.Get(middleware.SessionHeader); id != "" {
		if s, ok := a.sessions.Get(id); ok {
			return s.Mode.Get(), nil
		}
	}
	return a.config.DefaultMode, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"status"`
}

// writeError writes err as JSON. A zero status is derived from the error
// category.
func writeError(w http.ResponseWriter, err error, status int) {
	if status == 0 {
		status = statusFor(err)
	}
	resp := errorResponse{Status: status, Message: http.StatusText(status)}
	var e *errors.Error
	if stderrors.As(err, &e) {
		resp.Code = e.Code
		resp.Message = e.Message
		resp.Detail = e.Detail
	}
	writeJSON(w, status, resp)
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	switch errors.CategoryOf(err) {
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryMalformed:
		return http.StatusUnprocessableEntity
	case errors.CategoryRequest:
		return http.StatusBadRequest
	case errors.CategoryConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
