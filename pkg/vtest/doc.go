// Package vtest provides testing helpers for wtree components.
//
// A Harness bundles a template registry, a diagnostics collector and a live
// document, so a test only registers templates and mounts:
//
//	func TestGreeting(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Templates.Add("greet", func(c *template.Ctx) *vdom.VNode {
//	        return vdom.P(vdom.Textf("hi %v", c.Get("name")))
//	    })
//	    n := h.Mount(component.Options{
//	        Template: "greet",
//	        State:    component.State{"name": "ada"},
//	    })
//	    vtest.ExpectContains(t, n, "hi ada")
//	}
//
// # Hook Journal
//
// Journal records lifecycle hook calls to assert on ordering:
//
//	var j vtest.Journal
//	n := h.Mount(component.Options{Template: "greet", Hooks: j.Hooks("greet")})
//	if j.Count("greet:mounted") != 1 { ... }
package vtest
