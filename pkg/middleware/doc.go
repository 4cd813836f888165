// Package middleware provides net/http observability middleware for wtree
// servers such as the inspector.
//
// # OpenTelemetry Middleware
//
// OpenTelemetry wraps every request in a server span carrying the method,
// path, matched chi route and status code:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given.
//
// # Prometheus Metrics
//
// Prometheus counts and times requests by chi route pattern:
//
//   - wtree_inspector_requests_total
//
//   - wtree_inspector_request_duration_seconds
//
//   - wtree_inspector_requests_in_flight
//
//     reg := prometheus.NewRegistry()
//     r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
package middleware
