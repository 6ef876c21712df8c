// Package middleware provides net/http middleware for the almanac server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request and live-session metrics
//
// # OpenTelemetry Middleware
//
// Every request gets a server span named after the matched chi route.
// Spans carry the method, route, status code and, when the client sends
// the X-Almanac-Session header, the reader session id.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// The live endpoint reports connection and message counts through
// LiveOpened, LiveClosed and LiveMessage.
package middleware
