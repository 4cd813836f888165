package component

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vango-dev/wtree/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// IDAllocator hands out node ids. Ids are unique for the lifetime of the
// allocator.
type IDAllocator interface {
	NextID() uint64
}

// Counter is an IDAllocator backed by an atomic counter.
type Counter struct {
	n atomic.Uint64
}

// NewCounter returns a Counter whose first id is 1.
func NewCounter() *Counter {
	return &Counter{}
}

// NextID returns the next id. Ids are monotonically increasing and never reused.
func (c *Counter) NextID() uint64 {
	return c.n.Add(1)
}

// RenderFunc produces the abstract output of a node for one render pass.
type RenderFunc func(ctx context.Context, n *Node, pass *Pass) (*vdom.VNode, error)

// Renderer is the template collaborator.
type Renderer interface {
	// Render produces n's output using the named template. Nested nodes
	// started or re-rendered as part of the output are scheduled on pass.
	Render(ctx context.Context, name string, n *Node, pass *Pass) (*vdom.VNode, error)

	// AddTemplate registers a template under name.
	AddTemplate(name string, fn RenderFunc) error
}

// Patcher is the commit collaborator.
type Patcher interface {
	Patch(prev, next *vdom.VNode) (*vdom.Commit, error)
}

// EventKind identifies a lifecycle transition reported to Diagnostics.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventStarted   EventKind = "started"
	EventRendered  EventKind = "rendered"
	EventAborted   EventKind = "aborted"
	EventMounted   EventKind = "mounted"
	EventUnmounted EventKind = "unmounted"
	EventDestroyed EventKind = "destroyed"
)

// Event is a lifecycle transition of one node.
type Event struct {
	Kind     EventKind `json:"kind"`
	NodeID   uint64    `json:"nodeId"`
	ParentID uint64    `json:"parentId,omitempty"`
	Name     string    `json:"name,omitempty"`
	Time     time.Time `json:"time"`
}

// Diagnostics receives lifecycle events. Implementations must be safe for
// concurrent use.
type Diagnostics interface {
	Record(Event)
}

// Env is the shared context of a tree. Only the environment owns the id
// allocator and template registry; nodes only read from them.
type Env struct {
	IDs         IDAllocator
	Templates   Renderer
	Patcher     Patcher
	Logger      *slog.Logger
	Diagnostics Diagnostics
	Metrics     *Metrics
	Tracer      trace.Tracer

	// Checked turns misuse errors (such as undeclared state fields) into
	// panics.
	Checked bool

	// SerialRenders runs at most one render per node at a time. When false,
	// overlapping renders race and the last commit wins.
	SerialRenders bool
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithIDs sets the id allocator.
func WithIDs(ids IDAllocator) EnvOption {
	return func(e *Env) {
		e.IDs = ids
	}
}

// WithPatcher sets the commit collaborator.
func WithPatcher(p Patcher) EnvOption {
	return func(e *Env) {
		e.Patcher = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) EnvOption {
	return func(e *Env) {
		e.Logger = l
	}
}

// WithDiagnostics sets the diagnostics collector.
func WithDiagnostics(d Diagnostics) EnvOption {
	return func(e *Env) {
		e.Diagnostics = d
	}
}

// WithMetrics sets the Prometheus metrics.
func WithMetrics(m *Metrics) EnvOption {
	return func(e *Env) {
		e.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) EnvOption {
	return func(e *Env) {
		e.Tracer = t
	}
}

// WithChecked enables checked mode.
func WithChecked(checked bool) EnvOption {
	return func(e *Env) {
		e.Checked = checked
	}
}

// WithSerialRenders enables per-node render serialization.
func WithSerialRenders(serial bool) EnvOption {
	return func(e *Env) {
		e.SerialRenders = serial
	}
}

// NewEnv creates an environment rendering through templates.
func NewEnv(templates Renderer, opts ...EnvOption) *Env {
	e := &Env{
		IDs:       NewCounter(),
		Templates: templates,
		Patcher:   vdom.NewPatcher(),
		Logger:    slog.Default(),
		Tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) record(kind EventKind, n *Node) {
	if e.Diagnostics == nil {
		return
	}
	ev := Event{Kind: kind, NodeID: n.id, Name: n.name, Time: time.Now()}
	if p := n.Parent(); p != nil {
		ev.ParentID = p.id
	}
	e.Diagnostics.Record(ev)
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
