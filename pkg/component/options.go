package component

import "context"

// State is the mutable part of a node. Its declared shape is the key set
// passed at construction.
type State map[string]any

// Props is the input a parent hands to a child.
type Props map[string]any

// Result tells the caller what an operation did.
type Result uint8

const (
	// Failed accompanies a non-nil error.
	Failed Result = iota
	// Committed means the operation took effect.
	Committed
	// Aborted means the node was destroyed while the operation was in flight;
	// its work was discarded.
	Aborted
	// Skipped means there was nothing to do.
	Skipped
	// Deferred means state was stored but the node is not started, so no
	// render happened.
	Deferred
)

// String returns the string representation of the Result.
func (r Result) String() string {
	switch r {
	case Failed:
		return "failed"
	case Committed:
		return "committed"
	case Aborted:
		return "aborted"
	case Skipped:
		return "skipped"
	case Deferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// DefaultTemplate is the template used when Options.Template is empty.
const DefaultTemplate = "default"

// Options configures a node at construction.
type Options struct {
	// Name labels the node in logs and diagnostics.
	Name string

	// Template is the registered template name.
	Template string

	// Inline overrides Template. It is registered with the template
	// collaborator when the node starts.
	Inline RenderFunc

	Props Props
	State State
	Hooks Hooks
}

// Hooks are the override points of a node.
type Hooks interface {
	// WillStart runs once before the first render.
	WillStart(ctx context.Context, n *Node) error
	// Mounted runs each time the node becomes part of the live document.
	Mounted(n *Node)
	// ShouldUpdate decides whether new props trigger a render.
	ShouldUpdate(n *Node, next Props) bool
	// WillUnmount runs before the node leaves the live document.
	WillUnmount(n *Node)
	// Destroyed runs once, last.
	Destroyed(n *Node)
}

// NopHooks implements Hooks with the default behaviour. Embed it to
// override only some hooks.
type NopHooks struct{}

func (NopHooks) WillStart(context.Context, *Node) error { return nil }
func (NopHooks) Mounted(*Node)                          {}
func (NopHooks) ShouldUpdate(*Node, Props) bool         { return true }
func (NopHooks) WillUnmount(*Node)                      {}
func (NopHooks) Destroyed(*Node)                        {}

// HookFuncs adapts plain functions to Hooks. Nil fields use the defaults.
type HookFuncs struct {
	OnWillStart    func(ctx context.Context, n *Node) error
	OnMounted      func(n *Node)
	OnShouldUpdate func(n *Node, next Props) bool
	OnWillUnmount  func(n *Node)
	OnDestroyed    func(n *Node)
}

func (h HookFuncs) WillStart(ctx context.Context, n *Node) error {
	if h.OnWillStart == nil {
		return nil
	}
	return h.OnWillStart(ctx, n)
}

func (h HookFuncs) Mounted(n *Node) {
	if h.OnMounted != nil {
		h.OnMounted(n)
	}
}

func (h HookFuncs) ShouldUpdate(n *Node, next Props) bool {
	if h.OnShouldUpdate == nil {
		return true
	}
	return h.OnShouldUpdate(n, next)
}

func (h HookFuncs) WillUnmount(n *Node) {
	if h.OnWillUnmount != nil {
		h.OnWillUnmount(n)
	}
}

func (h HookFuncs) Destroyed(n *Node) {
	if h.OnDestroyed != nil {
		h.OnDestroyed(n)
	}
}
