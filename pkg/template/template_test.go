package template

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	wterrors "github.com/vango-dev/wtree/internal/errors"
	"github.com/vango-dev/wtree/pkg/component"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/vdom"
)

func newEnv(r *Registry) *component.Env {
	return component.NewEnv(r, component.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := NewRegistry()
	n := component.NewRoot(newEnv(r), component.Options{Template: "missing"})

	_, err := n.Render(context.Background())
	if !errors.Is(err, wterrors.New("W003")) {
		t.Fatalf("Render() error = %v, want W003", err)
	}
}

func TestAddTemplateRejectsEmpty(t *testing.T) {
	r := NewRegistry()
	if err := r.AddTemplate("", Inline(func(*Ctx) *vdom.VNode { return vdom.Div() })); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := r.AddTemplate("x", nil); err == nil {
		t.Error("nil function should be rejected")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestListTemplate(t *testing.T) {
	r := NewRegistry()
	r.Add("item", func(c *Ctx) *vdom.VNode {
		return vdom.Li(vdom.Textf("%v", c.Prop("label")))
	})
	r.Add("list", func(c *Ctx) *vdom.VNode {
		items := c.Get("items").([]string)
		children := make([]*vdom.VNode, 0, len(items))
		for _, it := range items {
			children = append(children, c.Child(it, component.Options{
				Template: "item",
				Props:    component.Props{"label": it},
			}))
		}
		return vdom.Ul(children)
	})

	doc := dom.NewDocument()
	root := component.NewRoot(newEnv(r), component.Options{
		Template: "list",
		State:    component.State{"items": []string{"a", "b"}},
	})
	ctx := context.Background()
	if _, err := root.Mount(ctx, doc.Body); err != nil {
		t.Fatal(err)
	}
	if got := root.El().HTML(); got != "<ul><li>a</li><li>b</li></ul>" {
		t.Fatalf("HTML = %q", got)
	}
	first := root.Slots()

	if _, err := root.UpdateState(ctx, component.State{"items": []string{"b", "c"}}); err != nil {
		t.Fatal(err)
	}
	if got := root.El().HTML(); got != "<ul><li>b</li><li>c</li></ul>" {
		t.Errorf("HTML = %q", got)
	}
	slots := root.Slots()
	if slots["b"] != first["b"] {
		t.Error("slot b should keep its child")
	}
	if _, ok := root.Child(first["a"]); ok {
		t.Error("child of dropped slot a should be destroyed")
	}
	if len(root.Children()) != 2 {
		t.Errorf("children = %v", root.Children())
	}
	for _, c := range root.Children() {
		if !c.IsMounted() {
			t.Errorf("%s should be mounted", c)
		}
	}
}

func TestFailFailsRender(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Add("bad", func(c *Ctx) *vdom.VNode {
		c.Fail(boom)
		c.Fail(fmt.Errorf("second"))
		return vdom.Div()
	})
	n := component.NewRoot(newEnv(r), component.Options{Template: "bad"})

	res, err := n.Render(context.Background())
	if res != component.Failed || !errors.Is(err, boom) {
		t.Errorf("Render() = %v, %v", res, err)
	}
	if n.El() != nil {
		t.Error("failed render must not commit")
	}
}

func TestInlineTemplate(t *testing.T) {
	r := NewRegistry()
	n := component.NewRoot(newEnv(r), component.Options{
		Inline: Inline(func(c *Ctx) *vdom.VNode {
			return vdom.Span(vdom.Textf("%v", c.Get("n")))
		}),
		State: component.State{"n": 7},
	})

	if _, err := n.Mount(context.Background(), dom.NewDocument().Body); err != nil {
		t.Fatal(err)
	}
	if !r.Has(n.TemplateName()) {
		t.Errorf("inline template %q not registered", n.TemplateName())
	}
	if got := n.El().HTML(); got != "<span>7</span>" {
		t.Errorf("HTML = %q", got)
	}
}
