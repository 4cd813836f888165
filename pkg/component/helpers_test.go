package component

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	wterrors "github.com/vango-dev/wtree/internal/errors"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/vdom"
)

// fakeRenderer is a Renderer over a map of render functions.
type fakeRenderer struct {
	mu        sync.Mutex
	templates map[string]RenderFunc
	renders   int
	added     []string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{templates: make(map[string]RenderFunc)}
}

func (r *fakeRenderer) add(name string, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = fn
}

func (r *fakeRenderer) Render(ctx context.Context, name string, n *Node, pass *Pass) (*vdom.VNode, error) {
	r.mu.Lock()
	r.renders++
	fn := r.templates[name]
	r.mu.Unlock()
	if fn == nil {
		return nil, wterrors.New("W003").WithDetail(name)
	}
	return fn(ctx, n, pass)
}

func (r *fakeRenderer) AddTemplate(name string, fn RenderFunc) error {
	r.mu.Lock()
	r.added = append(r.added, name)
	r.mu.Unlock()
	r.add(name, fn)
	return nil
}

func (r *fakeRenderer) renderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// countingPatcher counts Patch calls.
type countingPatcher struct {
	mu    sync.Mutex
	calls int
	inner *vdom.Patcher
}

func (p *countingPatcher) Patch(prev, next *vdom.VNode) (*vdom.Commit, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.inner.Patch(prev, next)
}

func (p *countingPatcher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// journal records hook calls across nodes.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func (j *journal) count(entry string) int {
	n := 0
	for _, e := range j.list() {
		if e == entry {
			n++
		}
	}
	return n
}

// hooks returns Hooks that log every call as "<name>:<hook>".
func (j *journal) hooks(name string) HookFuncs {
	return HookFuncs{
		OnWillStart: func(context.Context, *Node) error {
			j.add("%s:willStart", name)
			return nil
		},
		OnMounted:     func(*Node) { j.add("%s:mounted", name) },
		OnWillUnmount: func(*Node) { j.add("%s:willUnmount", name) },
		OnDestroyed:   func(*Node) { j.add("%s:destroyed", name) },
	}
}

type fixture struct {
	renderer *fakeRenderer
	patcher  *countingPatcher
	env      *Env
	doc      *dom.Document
	journal  *journal
}

func newFixture(t *testing.T, opts ...EnvOption) *fixture {
	t.Helper()
	f := &fixture{
		renderer: newFakeRenderer(),
		patcher:  &countingPatcher{inner: vdom.NewPatcher()},
		doc:      dom.NewDocument(),
		journal:  &journal{},
	}
	base := []EnvOption{
		WithPatcher(f.patcher),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	f.env = NewEnv(f.renderer, append(base, opts...)...)
	return f
}

// slot mirrors what a template collaborator does for a child slot: reuse
// the child bound to the slot, or create and schedule a new one.
func slot(pass *Pass, key string, opts Options) *vdom.VNode {
	if child, ok := pass.Reuse(key); ok {
		pass.Bind(key, child)
		pass.Go(func(ctx context.Context) error {
			_, err := child.UpdateProps(ctx, opts.Props)
			return err
		})
		return vdom.Component(child, strconv.FormatUint(child.ID(), 10))
	}
	child := NewChild(pass.Node(), opts)
	pass.Bind(key, child)
	pass.Go(func(ctx context.Context) error {
		res, err := child.Start(ctx)
		if err != nil || res == Aborted {
			return err
		}
		_, err = child.Render(ctx)
		return err
	})
	return vdom.Component(child, strconv.FormatUint(child.ID(), 10))
}

func countTemplate(ctx context.Context, n *Node, pass *Pass) (*vdom.VNode, error) {
	return vdom.Div(vdom.Textf("%v", n.Get("count"))), nil
}
