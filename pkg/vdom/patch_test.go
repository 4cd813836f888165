package vdom

import (
	"testing"

	"github.com/vango-dev/wtree/pkg/dom"
)

type fakeHost struct {
	el *dom.Element
}

func (h *fakeHost) Element() *dom.Element { return h.el }

func mustPatch(t *testing.T, p *Patcher, prev, next *VNode) *Commit {
	t.Helper()
	c, err := p.Patch(prev, next)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	return c
}

func TestPatchPlaceholderCreatesElement(t *testing.T) {
	p := NewPatcher()
	placeholder := Placeholder(dom.NewElement("div"))
	tree := Div(Key("7"), Class("box"), Span(Text("hi")))

	c := mustPatch(t, p, placeholder, tree)

	el := c.Root.El()
	if el == nil {
		t.Fatal("committed root has no element")
	}
	if el == placeholder.El() {
		t.Error("keyed tree should not reuse the unkeyed placeholder")
	}
	if got, want := el.HTML(), `<div class="box"><span>hi</span></div>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestPatchUpdatesInPlace(t *testing.T) {
	p := NewPatcher()
	first := mustPatch(t, p, nil, Div(Key("1"), P(Text("a"))))
	el := first.Root.El()

	second := mustPatch(t, p, first.Root, Div(Key("1"), Class("x"), P(Text("b"))))

	if second.Root.El() != el {
		t.Fatal("same root should keep its element")
	}
	if got, want := el.HTML(), `<div class="x"><p>b</p></div>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if second.Ops != 2 {
		t.Errorf("Ops = %d, want 2 (SetAttr + SetText)", second.Ops)
	}
}

func TestPatchReplacesRootInParent(t *testing.T) {
	p := NewPatcher()
	container := dom.NewElement("section")
	first := mustPatch(t, p, nil, Div(Text("a")))
	container.AppendChild(first.Root.El())

	second := mustPatch(t, p, first.Root, Span(Text("b")))

	if container.ChildAt(0) != second.Root.El() {
		t.Error("replacement root should take the old root's position")
	}
	if first.Root.El().Parent() != nil {
		t.Error("old root should be detached")
	}
}

func TestPatchKeyedChildrenReorder(t *testing.T) {
	p := NewPatcher()
	first := mustPatch(t, p, nil, Ul(Li(Key("a"), "a"), Li(Key("b"), "b"), Li(Key("c"), "c")))
	root := first.Root.El()
	a, b, c := root.ChildAt(0), root.ChildAt(1), root.ChildAt(2)

	mustPatch(t, p, first.Root, Ul(Li(Key("c"), "c"), Li(Key("a"), "a")))

	if root.ChildAt(0) != c || root.ChildAt(1) != a || root.ChildAt(2) != nil {
		t.Errorf("children = %v, want [c a]", root.Children())
	}
	if b.Parent() != nil {
		t.Error("dropped keyed child should be removed")
	}
}

func TestPatchEmbedsHostOnce(t *testing.T) {
	p := NewPatcher()
	host := &fakeHost{el: dom.NewElement("aside")}

	first := mustPatch(t, p, nil, Div(Component(host, "5")))
	if len(first.Inserted) != 1 || first.Inserted[0] != host {
		t.Fatalf("Inserted = %v, want [host]", first.Inserted)
	}
	if first.Root.El().ChildAt(0) != host.el {
		t.Error("host element should be embedded")
	}

	second := mustPatch(t, p, first.Root, Div(Component(host, "5")))
	if len(second.Inserted) != 0 {
		t.Errorf("reused host reported as inserted: %v", second.Inserted)
	}
}

func TestPatchFollowsHostRootReplacement(t *testing.T) {
	p := NewPatcher()
	host := &fakeHost{el: dom.NewElement("aside")}
	first := mustPatch(t, p, nil, Div(Component(host, "5")))
	root := first.Root.El()

	// The host re-rendered on its own with a different root element.
	replacement := dom.NewElement("nav")
	host.el.ReplaceWith(replacement)
	host.el = replacement

	mustPatch(t, p, first.Root, Div(Component(host, "5")))
	if root.ChildAt(0) != replacement || len(root.Children()) != 1 {
		t.Errorf("children = %v, want [nav]", root.Children())
	}
}

func TestPatchRejectsFragmentRoot(t *testing.T) {
	p := NewPatcher()
	if _, err := p.Patch(nil, Fragment(Div())); err != ErrInvalidRoot {
		t.Errorf("err = %v, want ErrInvalidRoot", err)
	}
}

func TestPatchFlattensFragments(t *testing.T) {
	p := NewPatcher()
	c := mustPatch(t, p, nil, Div(Fragment(Span("a"), Span("b")), P("c")))
	if got, want := c.Root.El().HTML(), `<div><span>a</span><span>b</span><p>c</p></div>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}
