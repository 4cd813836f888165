// Package template is the name-based template collaborator of wtree.
//
// Templates are plain Go functions that build a vdom tree from a Ctx. Child
// nodes are embedded with Ctx.Child, which reuses the child bound to a slot
// by the previous render or creates a new one.
package template

import (
	"context"
	"strconv"
	"sync"

	wterrors "github.com/vango-dev/wtree/internal/errors"
	"github.com/vango-dev/wtree/pkg/component"
	"github.com/vango-dev/wtree/pkg/vdom"
)

// Func is a template.
type Func func(c *Ctx) *vdom.VNode

// Registry maps template names to render functions. It implements
// component.Renderer and is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]component.RenderFunc
}

var _ component.Renderer = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]component.RenderFunc)}
}

// Add registers fn under name, replacing any previous template.
func (r *Registry) Add(name string, fn Func) {
	r.set(name, Inline(fn))
}

// AddTemplate implements component.Renderer.
func (r *Registry) AddTemplate(name string, fn component.RenderFunc) error {
	if name == "" || fn == nil {
		return wterrors.New("W003").
			WithDetailf("cannot register template %q", name).
			WithSuggestion("Pass a name and a non-nil render function")
	}
	r.set(name, fn)
	return nil
}

func (r *Registry) set(name string, fn component.RenderFunc) {
	r.mu.Lock()
	r.templates[name] = fn
	r.mu.Unlock()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Render implements component.Renderer.
func (r *Registry) Render(ctx context.Context, name string, n *component.Node, pass *component.Pass) (*vdom.VNode, error) {
	r.mu.RLock()
	fn, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, wterrors.New("W003").
			WithDetailf("template %q (node %s)", name, n).
			WithSuggestion("Register the template with Registry.Add before mounting")
	}
	return fn(ctx, n, pass)
}

// Inline adapts a Func to a component.RenderFunc, for Options.Inline.
func Inline(fn Func) component.RenderFunc {
	return func(ctx context.Context, n *component.Node, pass *component.Pass) (*vdom.VNode, error) {
		c := &Ctx{ctx: ctx, node: n, pass: pass}
		tree := fn(c)
		if c.err != nil {
			return nil, c.err
		}
		return tree, nil
	}
}

// Ctx is handed to a template for one render pass.
type Ctx struct {
	ctx  context.Context
	node *component.Node
	pass *component.Pass
	err  error
}

// Context returns the render context.
func (c *Ctx) Context() context.Context { return c.ctx }

// Node returns the node being rendered.
func (c *Ctx) Node() *component.Node { return c.node }

// State returns a copy of the node's state.
func (c *Ctx) State() component.State { return c.node.State() }

// Get returns one state field.
func (c *Ctx) Get(key string) any { return c.node.Get(key) }

// Props returns the node's props.
func (c *Ctx) Props() component.Props { return c.node.Props() }

// Prop returns one prop.
func (c *Ctx) Prop(key string) any { return c.node.Props()[key] }

// Fail fails the render with err. Only the first call counts.
func (c *Ctx) Fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Child embeds the child node bound to slot. A child from the previous
// render is reused and receives opts.Props; otherwise a new child is created
// and started. Either way its render completes before the parent commits.
func (c *Ctx) Child(slot string, opts component.Options) *vdom.VNode {
	if child, ok := c.pass.Reuse(slot); ok {
		c.pass.Bind(slot, child)
		c.pass.Go(func(ctx context.Context) error {
			_, err := child.UpdateProps(ctx, opts.Props)
			return err
		})
		return vdom.Component(child, key(child))
	}

	child := component.NewChild(c.node, opts)
	c.pass.Bind(slot, child)
	c.pass.Go(func(ctx context.Context) error {
		res, err := child.Start(ctx)
		if err != nil || res == component.Aborted {
			return err
		}
		_, err = child.Render(ctx)
		return err
	})
	return vdom.Component(child, key(child))
}

func key(n *component.Node) string {
	return strconv.FormatUint(n.ID(), 10)
}
