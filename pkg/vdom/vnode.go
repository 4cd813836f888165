package vdom

import (
	"strings"

	"github.com/vango-dev/wtree/pkg/dom"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component with its own committed output
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText
	Host     Host     // For KindComponent

	// elm is the live element this node was committed to.
	elm *dom.Element

	placeholder bool
}

// Props holds attributes and event handlers.
type Props map[string]any

// Host is a nested component that owns its committed output. The patcher
// embeds the host's element in place of a KindComponent node.
type Host interface {
	Element() *dom.Element
}

// El returns the live element v was committed to, or nil.
func (v *VNode) El() *dom.Element {
	if v == nil {
		return nil
	}
	return v.elm
}

// IsPlaceholder reports whether v was created by Placeholder.
func (v *VNode) IsPlaceholder() bool {
	return v != nil && v.placeholder
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if isEventHandler(key) {
			return true
		}
	}
	return false
}

// Placeholder wraps a raw element so it can be patched like a previous
// render. The element is discarded unless the next tree matches it.
func Placeholder(el *dom.Element) *VNode {
	return &VNode{
		Kind:        KindElement,
		Tag:         el.Tag,
		Props:       Props{},
		elm:         el,
		placeholder: true,
	}
}

// Component embeds a host in a tree.
func Component(host Host, key string) *VNode {
	return &VNode{
		Kind: KindComponent,
		Host: host,
		Key:  key,
	}
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// isEventHandler returns true if the key is an event handler (starts with "on").
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}
