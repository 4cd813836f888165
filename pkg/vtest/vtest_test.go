package vtest

import (
	"reflect"
	"testing"

	"github.com/vango-dev/wtree/pkg/component"
	"github.com/vango-dev/wtree/pkg/template"
	"github.com/vango-dev/wtree/pkg/vdom"
)

func TestHarnessMountAndUpdate(t *testing.T) {
	h := New(t)
	h.Templates.Add("greet", func(c *template.Ctx) *vdom.VNode {
		return vdom.P(vdom.Class("greeting"), vdom.Textf("hi %v", c.Get("name")))
	})

	var j Journal
	n := h.Mount(component.Options{
		Template: "greet",
		State:    component.State{"name": "ada"},
		Hooks:    j.Hooks("greet"),
	})

	ExpectContains(t, n, "hi ada")
	ExpectElement(t, n, "p")
	ExpectAttribute(t, n, "class", "greeting")
	if h.HTML() != `<body><p class="greeting">hi ada</p></body>` {
		t.Errorf("HTML() = %q", h.HTML())
	}

	if res := h.Update(n, component.State{"name": "bob"}); res != component.Committed {
		t.Errorf("Update() = %v", res)
	}
	ExpectContains(t, n, "hi bob")
	ExpectNotContains(t, n, "ada")

	want := []string{"greet:willStart", "greet:mounted"}
	if got := j.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
	if h.Live() != 1 {
		t.Errorf("Live() = %d", h.Live())
	}

	n.Destroy()
	if RenderToString(n) != "" {
		t.Error("destroyed node should render to an empty string")
	}
	if j.Count("greet:destroyed") != 1 || h.Live() != 0 {
		t.Errorf("Entries() = %v, Live() = %d", j.Entries(), h.Live())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("ab", 3); got != "ab" {
		t.Errorf("truncate() = %q", got)
	}
}
