package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	names []string
	attrs [][]attribute.KeyValue
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	t.mu.Lock()
	t.names = append(t.names, name)
	t.attrs = append(t.attrs, cfg.Attributes())
	t.mu.Unlock()
	return t.Tracer.Start(ctx, name, opts...)
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func newRouter(mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/nodes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "id")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheusCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newRouter(Prometheus(WithRegistry(reg)))

	serve(h, "/nodes/1")
	serve(h, "/nodes/2")
	serve(h, "/boom")
	serve(h, "/missing")

	n, err := testutil.GatherAndCount(reg, "wtree_inspector_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	// /nodes/{id} 200, /boom 500, unmatched 404
	if n != 3 {
		t.Errorf("series = %d, want 3", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var nodes float64
	for _, mf := range families {
		if mf.GetName() != "wtree_inspector_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" && l.GetValue() == "/nodes/{id}" {
					nodes += m.GetCounter().GetValue()
				}
			}
		}
	}
	if nodes != 2 {
		t.Errorf("/nodes/{id} requests = %v, want 2", nodes)
	}
}

func TestPrometheusCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newRouter(Prometheus(WithRegistry(reg), WithNamespace("app"), WithSubsystem("")))
	serve(h, "/nodes/1")

	n, err := testutil.GatherAndCount(reg, "app_requests_total", "app_request_duration_seconds")
	if err != nil || n != 2 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}
}

func TestOpenTelemetrySpans(t *testing.T) {
	tracer := &recordingTracer{}
	var seen trace.Span
	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(recordingProvider{tracer: tracer}),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
		WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz"
		}),
	))
	r.Get("/nodes", func(w http.ResponseWriter, r *http.Request) {
		seen = trace.SpanFromContext(r.Context())
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})

	serve(r, "/nodes")
	serve(r, "/healthz")

	if len(tracer.names) != 1 || tracer.names[0] != "GET /nodes" {
		t.Fatalf("spans = %v", tracer.names)
	}
	if seen == nil {
		t.Error("handler should see the span in its context")
	}
	var found bool
	for _, kv := range tracer.attrs[0] {
		if kv.Key == "test.attr" && kv.Value.AsString() == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("attributes = %v", tracer.attrs[0])
	}
}
