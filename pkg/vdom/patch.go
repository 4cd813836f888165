package vdom

import (
	"errors"

	"github.com/vango-dev/wtree/pkg/dom"
)

// ErrInvalidRoot is returned when a tree root cannot own an element.
var ErrInvalidRoot = errors.New("vdom: root must be an element or text node")

// Commit is the result of patching a tree into the live document.
type Commit struct {
	// Root is the committed tree; Root.El() is its live element.
	Root *VNode

	// Inserted lists hosts whose elements were newly embedded by this
	// patch, in document order.
	Inserted []Host

	// Ops is the number of changes applied.
	Ops int
}

// Patcher applies VNode trees onto live elements.
// A zero Patcher is ready to use.
type Patcher struct{}

// NewPatcher returns a Patcher.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// Patch applies next onto prev, which is either a previously committed
// tree or a Placeholder. When the roots are incompatible, a new element is
// created and swapped in at prev's position.
func (p *Patcher) Patch(prev, next *VNode) (*Commit, error) {
	if next == nil || (next.Kind != KindElement && next.Kind != KindText) {
		return nil, ErrInvalidRoot
	}

	c := &Commit{Root: next}
	switch {
	case prev == nil:
		p.create(next, c)
		c.Ops = 1
	case prev.placeholder && sameVNode(prev, next):
		p.patchVNode(prev, next, c)
		c.Ops = 1
	case prev.placeholder || !sameVNode(prev, next):
		el := p.create(next, c)
		if prev.elm != nil {
			prev.elm.ReplaceWith(el)
		}
		c.Ops = 1
	default:
		c.Ops = len(Diff(prev, next))
		p.patchVNode(prev, next, c)
	}
	return c, nil
}

// create builds the live element for v and its subtree.
func (p *Patcher) create(v *VNode, c *Commit) *dom.Element {
	switch v.Kind {
	case KindText:
		v.elm = dom.NewText(v.Text)
	case KindComponent:
		v.elm = hostElement(v.Host)
		c.Inserted = append(c.Inserted, v.Host)
	default:
		el := dom.NewElement(v.Tag)
		for key, val := range v.Props {
			applyProp(el, key, val)
		}
		for _, child := range flatten(v.Children) {
			el.AppendChild(p.create(child, c))
		}
		v.elm = el
	}
	return v.elm
}

// hostElement returns the host's element, or an empty text node keeping
// the slot when the host has nothing committed.
func hostElement(h Host) *dom.Element {
	if h != nil {
		if el := h.Element(); el != nil {
			return el
		}
	}
	return dom.NewText("")
}

// patchVNode updates prev's element in place to match next.
func (p *Patcher) patchVNode(prev, next *VNode, c *Commit) {
	el := prev.elm
	next.elm = el

	switch next.Kind {
	case KindText:
		if el.Text != next.Text {
			el.Text = next.Text
		}
	case KindComponent:
		// The host may have replaced its root since the parent last committed.
		if cur := hostElement(next.Host); cur != el {
			if el.Parent() != nil {
				el.ReplaceWith(cur)
			}
			next.elm = cur
		}
	case KindElement:
		for key := range prev.Props {
			if _, ok := next.Props[key]; !ok {
				el.RemoveAttr(key)
			}
		}
		for key, val := range next.Props {
			applyProp(el, key, val)
		}
		p.patchChildren(el, flatten(prev.Children), flatten(next.Children), c)
	}
}

// patchChildren reconciles the children of parent, matching by key when
// either side is keyed and by position otherwise.
func (p *Patcher) patchChildren(parent *dom.Element, prev, next []*VNode, c *Commit) {
	keyed := hasKeys(prev) || hasKeys(next)
	byKey := make(map[string]*VNode, len(prev))
	if keyed {
		for _, child := range prev {
			if child.Key != "" {
				byKey[child.Key] = child
			}
		}
	}

	used := make(map[*VNode]bool, len(prev))
	els := make([]*dom.Element, 0, len(next))
	for i, child := range next {
		var match *VNode
		if keyed {
			match = byKey[child.Key]
			if child.Key == "" {
				match = nil
			}
		} else if i < len(prev) {
			match = prev[i]
		}
		if match != nil && !used[match] && sameVNode(match, child) {
			used[match] = true
			p.patchVNode(match, child, c)
		} else {
			p.create(child, c)
		}
		els = append(els, child.elm)
	}

	keep := make(map[*dom.Element]bool, len(els))
	for _, el := range els {
		keep[el] = true
	}
	for _, child := range prev {
		if !used[child] && child.elm != nil && !keep[child.elm] && child.elm.Parent() == parent {
			child.elm.Remove()
		}
	}

	for i, el := range els {
		if parent.ChildAt(i) != el {
			parent.InsertAt(el, i)
		}
	}
	for extra := parent.ChildAt(len(els)); extra != nil; extra = parent.ChildAt(len(els)) {
		extra.Remove()
	}
}

func applyProp(el *dom.Element, key string, val any) {
	if isEventHandler(key) {
		return
	}
	if b, ok := val.(bool); ok && !b {
		el.RemoveAttr(key)
		return
	}
	el.SetAttr(key, propToString(val))
}
