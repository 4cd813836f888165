package vtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/wtree/pkg/component"
	"github.com/vango-dev/wtree/pkg/diag"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/template"
)

// Harness is a component environment wired for tests: a template
// registry, a diagnostics collector, a live document and a discard logger.
type Harness struct {
	t         testing.TB
	Templates *template.Registry
	Collector *diag.Collector
	Doc       *dom.Document
	Env       *component.Env
}

// New creates a harness. Extra options are applied after the defaults.
//
// Example:
//
//	h := vtest.New(t, component.WithChecked(true))
//	h.Templates.Add("hello", func(c *template.Ctx) *vdom.VNode {
//	    return vdom.P("hello")
//	})
func New(t testing.TB, opts ...component.EnvOption) *Harness {
	t.Helper()
	h := &Harness{
		t:         t,
		Templates: template.NewRegistry(),
		Collector: diag.NewCollector(0),
		Doc:       dom.NewDocument(),
	}
	base := []component.EnvOption{
		component.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		component.WithDiagnostics(h.Collector),
	}
	h.Env = component.NewEnv(h.Templates, append(base, opts...)...)
	return h
}

// Mount creates a root node and mounts it into the document body. The test
// fails if mounting fails; the node is destroyed when the test ends.
//
// Example:
//
//	n := h.Mount(component.Options{Template: "hello"})
func (h *Harness) Mount(opts component.Options) *component.Node {
	h.t.Helper()
	n := component.NewRoot(h.Env, opts)
	h.t.Cleanup(n.Destroy)
	res, err := n.Mount(context.Background(), h.Doc.Body)
	if err != nil {
		h.t.Fatalf("mount %s: %v", n, err)
	}
	if res != component.Committed {
		h.t.Fatalf("mount %s: %s", n, res)
	}
	return n
}

// Update applies a state update and fails the test on error.
func (h *Harness) Update(n *component.Node, partial component.State) component.Result {
	h.t.Helper()
	res, err := n.UpdateState(context.Background(), partial)
	if err != nil {
		h.t.Fatalf("update %s: %v", n, err)
	}
	return res
}

// HTML returns the document body HTML.
func (h *Harness) HTML() string {
	return h.Doc.Body.HTML()
}

// Live returns the number of live nodes.
func (h *Harness) Live() int {
	return len(h.Collector.Live())
}

// RenderToString returns the HTML of a node's committed output, or "" when
// the node has none.
func RenderToString(n *component.Node) string {
	el := n.El()
	if el == nil {
		return ""
	}
	return el.HTML()
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, n, "Welcome")
func ExpectContains(t testing.TB, n *component.Node, expected string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, n *component.Node, unexpected string) {
	t.Helper()
	html := RenderToString(n)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, n *component.Node, tag string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, n *component.Node, attr, value string) {
	t.Helper()
	html := RenderToString(n)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// Journal records hook calls across nodes as "<name>:<hook>".
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Hooks returns hooks that log to the journal under name.
func (j *Journal) Hooks(name string) component.HookFuncs {
	return component.HookFuncs{
		OnWillStart: func(context.Context, *component.Node) error {
			j.add(name, "willStart")
			return nil
		},
		OnMounted:     func(*component.Node) { j.add(name, "mounted") },
		OnWillUnmount: func(*component.Node) { j.add(name, "willUnmount") },
		OnDestroyed:   func(*component.Node) { j.add(name, "destroyed") },
	}
}

func (j *Journal) add(name, hook string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf("%s:%s", name, hook))
}

// Entries returns the recorded calls in order.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Count returns how often entry was recorded.
func (j *Journal) Count(entry string) int {
	n := 0
	for _, e := range j.Entries() {
		if e == entry {
			n++
		}
	}
	return n
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
