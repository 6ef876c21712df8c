package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	errs "github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/edition"
	"github.com/vango-dev/almanac/pkg/registry"
)

const tracerName = "github.com/vango-dev/almanac/pkg/content"

// Resolver loads and memoizes edition content.
type Resolver struct {
	reg *registry.Registry

	editions sync.Map // edition.ID -> *edition.Edition
	themes   sync.Map // edition.ID -> *edition.Theme, nil when absent
	group    singleflight.Group

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *loadMetrics
}

type resolverConfig struct {
	logger    *slog.Logger
	registry  prometheus.Registerer
	namespace string
	tracer    trace.Tracer
}

// Option configures a Resolver.
type Option func(*resolverConfig)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) {
		c.logger = l
	}
}

// WithRegistry registers the resolver metrics with reg.
// Default: metrics are collected but not registered.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *resolverConfig) {
		c.registry = reg
	}
}

// WithNamespace sets the metrics namespace (default: "almanac").
func WithNamespace(ns string) Option {
	return func(c *resolverConfig) {
		c.namespace = ns
	}
}

// WithTracer sets the tracer. Default: the global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *resolverConfig) {
		c.tracer = t
	}
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *registry.Registry, opts ...Option) *Resolver {
	cfg := resolverConfig{namespace: "almanac"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	return &Resolver{
		reg:     reg,
		logger:  cfg.logger.With("component", "content"),
		tracer:  cfg.tracer,
		metrics: newLoadMetrics(cfg.registry, cfg.namespace),
	}
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *registry.Registry {
	return r.reg
}

// LoadEdition returns the parsed config of edition id.
//
// Unknown ids and missing config files fail with a not-found error.
// Undecodable files and files missing title, columns or a column's id or
// title fail with a malformed error. Repeated calls return the same value.
func (r *Resolver) LoadEdition(ctx context.Context, id edition.ID) (*edition.Edition, error) {
	if v, ok := r.editions.Load(id); ok {
		r.metrics.cacheHits.WithLabelValues("edition").Inc()
		return v.(*edition.Edition), nil
	}

	ctx, span := r.startSpan(ctx, "content.LoadEdition", attribute.String("edition.id", string(id)))
	defer span.End()

	v, err, shared := r.group.Do("edition:"+string(id), func() (any, error) {
		if v, ok := r.editions.Load(id); ok {
			return v, nil
		}
		e, err := r.readEdition(ctx, id)
		if err != nil {
			return nil, err
		}
		r.editions.Store(id, e)
		return e, nil
	})
	span.SetAttributes(attribute.Bool("singleflight.shared", shared))
	if err != nil {
		endWithError(span, err)
		return nil, err
	}
	return v.(*edition.Edition), nil
}

func (r *Resolver) readEdition(ctx context.Context, id edition.ID) (e *edition.Edition, err error) {
	defer r.observe("edition", time.Now(), &err)

	// The read is shared by every waiter, so one caller's cancellation
	// must not fail the others.
	ctx = context.WithoutCancel(ctx)

	files, ok := r.reg.Files(id)
	if !ok {
		return nil, errs.New("A100").WithDetailf("edition %q", id)
	}
	data, err := files.Config(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New("A100").WithDetailf("edition %q has no config.json", id).Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("read config of edition %s: %w", id, err)
	}
	e, err = edition.DecodeEdition(id, data)
	if err != nil {
		return nil, errs.New("A110").WithDetailf("edition %q", id).Wrap(err)
	}
	r.logger.Debug("edition loaded", "edition", id, "columns", len(e.Columns))
	return e, nil
}

// LoadTheme returns the optional theme of edition id. A missing theme.json
// yields (nil, nil). An unknown edition fails with a not-found error and a
// theme that does not decode fails with a malformed error.
func (r *Resolver) LoadTheme(ctx context.Context, id edition.ID) (*edition.Theme, error) {
	if v, ok := r.themes.Load(id); ok {
		r.metrics.cacheHits.WithLabelValues("theme").Inc()
		return v.(*edition.Theme), nil
	}

	ctx, span := r.startSpan(ctx, "content.LoadTheme", attribute.String("edition.id", string(id)))
	defer span.End()

	v, err, _ := r.group.Do("theme:"+string(id), func() (any, error) {
		if v, ok := r.themes.Load(id); ok {
			return v, nil
		}
		th, err := r.readTheme(ctx, id)
		if err != nil {
			return nil, err
		}
		r.themes.Store(id, th)
		return th, nil
	})
	if err != nil {
		endWithError(span, err)
		return nil, err
	}
	th := v.(*edition.Theme)
	span.SetAttributes(attribute.Bool("theme.present", th != nil))
	return th, nil
}

func (r *Resolver) readTheme(ctx context.Context, id edition.ID) (th *edition.Theme, err error) {
	defer r.observe("theme", time.Now(), &err)
	ctx = context.WithoutCancel(ctx)

	files, ok := r.reg.Files(id)
	if !ok {
		return nil, errs.New("A100").WithDetailf("edition %q", id)
	}
	data, err := files.Theme(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read theme of edition %s: %w", id, err)
	}
	th, err = edition.DecodeTheme(data)
	if err != nil {
		return nil, errs.New("A111").WithDetailf("edition %q", id).Wrap(err)
	}
	return th, nil
}

// LoadColumnBody returns the body text of a column: the file's content
// field when non-empty, otherwise its text field.
//
// The column must be declared in the edition config. A missing body file
// fails with a not-found error.
func (r *Resolver) LoadColumnBody(ctx context.Context, id edition.ID, columnID string) (body string, err error) {
	ctx, span := r.startSpan(ctx, "content.LoadColumnBody",
		attribute.String("edition.id", string(id)),
		attribute.String("column.id", columnID),
	)
	defer span.End()

	e, err := r.LoadEdition(ctx, id)
	if err != nil {
		endWithError(span, err)
		return "", err
	}

	defer r.observe("column", time.Now(), &err)
	if _, ok := e.Column(columnID); !ok {
		err = errs.New("A101").WithDetailf("column %q in edition %q", columnID, id)
		endWithError(span, err)
		return "", err
	}

	files, _ := r.reg.Files(id)
	data, err := files.Column(ctx, columnID)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = errs.New("A102").WithDetailf("column %q in edition %q", columnID, id).Wrap(err)
	case err != nil:
		err = fmt.Errorf("read column %s/%s: %w", id, columnID, err)
	}
	if err != nil {
		endWithError(span, err)
		return "", err
	}

	b, err := edition.DecodeBody(data)
	if err != nil {
		err = errs.New("A112").WithDetailf("column %q in edition %q", columnID, id).Wrap(err)
		endWithError(span, err)
		return "", err
	}
	return b.String(), nil
}

// ColumnBody is LoadColumnBody for renderers: any failure is logged and
// yields an empty body.
func (r *Resolver) ColumnBody(ctx context.Context, id edition.ID, columnID string) string {
	body, err := r.LoadColumnBody(ctx, id, columnID)
	if err != nil {
		r.logger.Warn("column body unavailable",
			"edition", id,
			"column", columnID,
			"error", err,
		)
		return ""
	}
	return body
}

// Archive returns a summary of every registered edition, newest first.
// Editions that fail to load are logged and left out.
func (r *Resolver) Archive(ctx context.Context) []edition.Summary {
	ids := r.reg.List()
	out := make([]edition.Summary, 0, len(ids))
	for _, id := range ids {
		e, err := r.LoadEdition(ctx, id)
		if err != nil {
			r.logger.Warn("skipping edition in archive", "edition", id, "error", err)
			continue
		}
		out = append(out, e.Summarize())
	}
	return out
}

func (r *Resolver) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *Resolver) observe(kind string, start time.Time, err *error) {
	r.metrics.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	r.metrics.loads.WithLabelValues(kind, result(*err)).Inc()
}

func endWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("content.result", result(err)))
}
