package component

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/wtree/pkg/bus"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/vdom"
)

// Node is a component instance in the tree.
//
// Lifecycle flags are atomics so a child can read its parent's mounted flag
// while the parent is committing. Everything else is guarded by mu. Hooks
// and collaborators are never called with mu held.
type Node struct {
	id       uint64
	name     string
	env      *Env
	hooks    Hooks
	template string
	inline   RenderFunc
	logger   *slog.Logger
	bus      *bus.Bus

	started    atomic.Bool
	mounted    atomic.Bool
	destroyed  atomic.Bool
	destroying atomic.Bool

	mu       sync.Mutex
	state    State
	props    Props
	vnode    *vdom.VNode
	parent   *Node
	children map[uint64]*Node
	cmap     map[string]uint64
	// listening holds the buses the node subscribed to with Listen.
	listening map[*bus.Bus]struct{}
	// slotted holds the children ever bound to a slot; passes holds the
	// render passes in flight.
	slotted map[uint64]bool
	passes  map[*Pass]struct{}

	startMu  sync.Mutex
	renderMu sync.Mutex
	// commitMu makes a commit atomic with respect to other commits and to
	// destroy clearing the render handle.
	commitMu sync.Mutex
}

var _ vdom.Host = (*Node)(nil)

// NewRoot creates a node without a parent.
func NewRoot(env *Env, opts Options) *Node {
	return newNode(env, nil, opts)
}

// NewChild creates a node owned by parent. The child shares the parent's
// environment and is registered in its children.
func NewChild(parent *Node, opts Options) *Node {
	n := newNode(parent.env, parent, opts)
	parent.mu.Lock()
	parent.children[n.id] = n
	parent.mu.Unlock()
	return n
}

func newNode(env *Env, parent *Node, opts Options) *Node {
	n := &Node{
		id:       env.IDs.NextID(),
		name:     opts.Name,
		env:      env,
		hooks:    opts.Hooks,
		template: opts.Template,
		inline:   opts.Inline,
		bus:      bus.New(),
		state:    make(State, len(opts.State)),
		props:    opts.Props,
		parent:   parent,
		children: make(map[uint64]*Node),
		cmap:     make(map[string]uint64),
		slotted:  make(map[uint64]bool),
		passes:   make(map[*Pass]struct{}),
	}
	if n.hooks == nil {
		n.hooks = NopHooks{}
	}
	if n.template == "" {
		n.template = DefaultTemplate
	}
	for k, v := range opts.State {
		n.state[k] = v
	}
	n.logger = env.logger().With("node_id", n.id, "node", n.name)
	env.Metrics.nodeCreated()
	env.record(EventCreated, n)
	return n
}

// ID returns the node's environment-unique id.
func (n *Node) ID() uint64 { return n.id }

// Name returns the label given at construction.
func (n *Node) Name() string { return n.name }

// Env returns the node's environment.
func (n *Node) Env() *Env { return n.env }

// Bus returns the event bus owned by the node. It is cleared on destroy.
func (n *Node) Bus() *bus.Bus { return n.bus }

// Listen subscribes fn to event on b with the node as owner. The
// subscription is released when the node is destroyed.
func (n *Node) Listen(b *bus.Bus, event string, fn bus.Handler) {
	if b == nil || n.destroying.Load() {
		return
	}
	n.mu.Lock()
	if n.listening == nil {
		n.listening = make(map[*bus.Bus]struct{})
	}
	n.listening[b] = struct{}{}
	n.mu.Unlock()
	b.On(event, n, fn)
}

// Logger returns the node-scoped logger.
func (n *Node) Logger() *slog.Logger { return n.logger }

// IsStarted reports whether the start phase completed.
func (n *Node) IsStarted() bool { return n.started.Load() }

// IsMounted reports whether the node is part of the live document.
func (n *Node) IsMounted() bool { return n.mounted.Load() }

// IsDestroyed reports whether the node has been destroyed.
func (n *Node) IsDestroyed() bool { return n.destroyed.Load() }

// VNode returns the last committed output, or nil.
func (n *Node) VNode() *vdom.VNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.vnode
}

// El returns the live element of the last committed output, or nil.
func (n *Node) El() *dom.Element {
	return n.VNode().El()
}

// Element implements vdom.Host.
func (n *Node) Element() *dom.Element {
	return n.El()
}

// Parent returns the owning node, or nil for roots and destroyed nodes.
func (n *Node) Parent() *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parent
}

// Children returns the children ordered by id.
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Child returns the child with the given id.
func (n *Node) Child(id uint64) (*Node, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.children[id]
	return c, ok
}

// State returns a copy of the current state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(State, len(n.state))
	for k, v := range n.state {
		out[k] = v
	}
	return out
}

// Get returns a single state field.
func (n *Node) Get(key string) any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state[key]
}

// Props returns the current props. Callers must not modify them.
func (n *Node) Props() Props {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.props
}

// Slots returns a copy of the slot table mapping template slots to child ids.
func (n *Node) Slots() map[string]uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]uint64, len(n.cmap))
	for k, v := range n.cmap {
		out[k] = v
	}
	return out
}

// TemplateName returns the template the node renders with.
func (n *Node) TemplateName() string {
	if n.inline != nil {
		return fmt.Sprintf("inline:%d", n.id)
	}
	return n.template
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n.name == "" {
		return fmt.Sprintf("node#%d", n.id)
	}
	return fmt.Sprintf("%s#%d", n.name, n.id)
}
