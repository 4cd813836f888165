package dom

import (
	"html"
	"slices"
	"sort"
	"strings"
	"sync"
)

// TextTag is the tag name carried by text nodes.
const TextTag = "#text"

// MutationKind identifies a document mutation.
type MutationKind uint8

const (
	MutationInsert MutationKind = iota + 1
	MutationRemove
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Mutation describes a change to the live tree.
type Mutation struct {
	Kind MutationKind
	Node *Element
	// Connected reports whether the node was part of the document
	// before (remove) or after (insert) the change.
	Connected bool
}

// Document is the root of a live element tree.
type Document struct {
	Body *Element

	mu        sync.Mutex
	observers []func(Mutation)
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.Body = NewElement("body")
	d.Body.doc = d
	return d
}

// Observe registers fn to receive every insert/remove mutation.
func (d *Document) Observe(fn func(Mutation)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

func (d *Document) notify(m Mutation) {
	if d == nil {
		return
	}
	d.mu.Lock()
	observers := slices.Clone(d.observers)
	d.mu.Unlock()
	for _, fn := range observers {
		fn(m)
	}
}

// Element is a node of the live tree. Text nodes have Tag == TextTag.
type Element struct {
	Tag  string
	Text string

	attrs    map[string]string
	children []*Element
	parent   *Element

	// doc is only set on a document body.
	doc *Document
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, attrs: make(map[string]string)}
}

// NewText creates a detached text node.
func NewText(text string) *Element {
	return &Element{Tag: TextTag, Text: text}
}

// IsText reports whether e is a text node.
func (e *Element) IsText() bool {
	return e != nil && e.Tag == TextTag
}

// Parent returns the containing element, or nil.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// ChildAt returns the i-th child, or nil when out of range.
func (e *Element) ChildAt(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Attr returns an attribute value.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[key] = value
}

// RemoveAttr removes an attribute.
func (e *Element) RemoveAttr(key string) {
	delete(e.attrs, key)
}

// Document returns the document e is connected to, or nil.
func (e *Element) Document() *Document {
	for n := e; n != nil; n = n.parent {
		if n.doc != nil {
			return n.doc
		}
	}
	return nil
}

// IsConnected reports whether e is attached to a document.
func (e *Element) IsConnected() bool {
	return e.Document() != nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if e == nil || other == nil {
		return false
	}
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	e.InsertAt(child, len(e.children))
}

// InsertAt moves child to position i of e's children.
func (e *Element) InsertAt(child *Element, i int) {
	if child == nil {
		return
	}
	child.Remove()
	if i < 0 || i > len(e.children) {
		i = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = child
	child.parent = e
	doc := e.Document()
	doc.notify(Mutation{Kind: MutationInsert, Node: child, Connected: doc != nil})
}

// ReplaceWith puts next at e's position. It is a no-op when e has no parent.
func (e *Element) ReplaceWith(next *Element) {
	p := e.parent
	if p == nil || next == e {
		return
	}
	i := p.indexOf(e)
	e.Remove()
	p.InsertAt(next, i)
}

// Remove detaches e from its parent. It reports whether e had a parent.
func (e *Element) Remove() bool {
	p := e.parent
	if p == nil {
		return false
	}
	doc := p.Document()
	if i := p.indexOf(e); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	e.parent = nil
	doc.notify(Mutation{Kind: MutationRemove, Node: e, Connected: doc != nil})
	return true
}

func (e *Element) indexOf(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// HTML serializes e and its subtree.
func (e *Element) HTML() string {
	var b strings.Builder
	e.writeHTML(&b)
	return b.String()
}

func (e *Element) writeHTML(b *strings.Builder) {
	if e.IsText() {
		b.WriteString(html.EscapeString(e.Text))
		return
	}
	b.WriteByte('<')
	b.WriteString(e.Tag)
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(e.attrs[k]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for _, c := range e.children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}
