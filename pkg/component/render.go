package component

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	wterrors "github.com/vango-dev/wtree/internal/errors"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/vdom"
	"golang.org/x/sync/errgroup"
)

// Pass is one render pass of a node. It collects the pending completions of
// nested nodes and rebuilds the node's slot table.
//
// Completions run one at a time, in the order they were scheduled, after the
// template returns. Sibling hooks and patches never overlap.
type Pass struct {
	node  *Node
	outer context.Context
	ctx   context.Context
	g     *errgroup.Group

	mu    sync.Mutex
	queue []func(ctx context.Context) error
	prev  map[string]uint64
	slots map[string]uint64
}

func newPass(ctx context.Context, n *Node) *Pass {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)
	p := &Pass{
		node:  n,
		outer: ctx,
		ctx:   gctx,
		g:     g,
		slots: make(map[string]uint64),
	}

	n.mu.Lock()
	p.prev = make(map[string]uint64, len(n.cmap))
	for k, v := range n.cmap {
		p.prev[k] = v
	}
	n.passes[p] = struct{}{}
	n.mu.Unlock()
	return p
}

// Node returns the node being rendered.
func (p *Pass) Node() *Node { return p.node }

// Go schedules a nested completion. The pass's output is not committed
// until every scheduled function returns; the first error fails the render,
// cancels the context passed to the others and skips the ones not yet run.
func (p *Pass) Go(fn func(ctx context.Context) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, fn)
}

// Pending returns the number of completions scheduled so far.
func (p *Pass) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Reuse returns the live child bound to slot by the previous pass.
func (p *Pass) Reuse(slot string) (*Node, bool) {
	id, ok := p.prev[slot]
	if !ok {
		return nil, false
	}
	child, ok := p.node.Child(id)
	if !ok || child.destroying.Load() {
		return nil, false
	}
	return child, true
}

// Bind records that slot is served by child in this pass.
func (p *Pass) Bind(slot string, child *Node) {
	p.node.mu.Lock()
	p.node.slotted[child.id] = true
	p.node.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[slot] = child.id
}

// wait runs the scheduled completions in order. Completions must not
// schedule on the pass that runs them.
func (p *Pass) wait() error {
	skipped := false
	for i := 0; ; i++ {
		p.mu.Lock()
		if i >= len(p.queue) {
			p.mu.Unlock()
			break
		}
		fn := p.queue[i]
		p.mu.Unlock()

		if p.ctx.Err() != nil {
			skipped = true
			break
		}
		// With a limit of one, Go returns only after the previous
		// function finished, which may have failed.
		p.g.Go(func() error {
			if err := p.ctx.Err(); err != nil {
				return err
			}
			return fn(p.ctx)
		})
	}
	err := p.g.Wait()
	if err == nil && skipped {
		err = p.outer.Err()
	}
	return err
}

// apply installs the new slot table and prunes the slot children it no
// longer binds.
func (p *Pass) apply() {
	p.mu.Lock()
	slots := p.slots
	p.mu.Unlock()

	p.node.mu.Lock()
	p.node.cmap = slots
	p.node.mu.Unlock()

	p.finish(slots)
}

// discard keeps the current slot table and prunes the children this pass
// created.
func (p *Pass) discard() {
	p.finish(p.node.Slots())
}

// finish unregisters the pass and destroys every slot child that is bound
// neither by keep nor by another pass still in flight. Overlapping passes
// of one node each create their own children; the last one to finish
// removes what the others left behind.
func (p *Pass) finish(keep map[string]uint64) {
	n := p.node
	kept := make(map[uint64]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	n.mu.Lock()
	delete(n.passes, p)
	for other := range n.passes {
		for _, id := range other.prev {
			kept[id] = true
		}
		other.mu.Lock()
		for _, id := range other.slots {
			kept[id] = true
		}
		other.mu.Unlock()
	}
	var doomed []*Node
	for id := range n.slotted {
		if kept[id] {
			continue
		}
		delete(n.slotted, id)
		if child, ok := n.children[id]; ok {
			doomed = append(doomed, child)
		}
	}
	n.mu.Unlock()

	sort.Slice(doomed, func(i, j int) bool { return doomed[i].id < doomed[j].id })
	for _, child := range doomed {
		child.Destroy()
	}
}

// Render produces the node's output and commits it. It is a no-op returning
// Aborted once the node is being destroyed.
func (n *Node) Render(ctx context.Context) (Result, error) {
	if n.destroying.Load() {
		return Aborted, nil
	}
	if n.env.SerialRenders {
		n.renderMu.Lock()
		defer n.renderMu.Unlock()
	}

	ctx, span := n.startSpan(ctx, "wtree.render")
	defer span.End()
	began := time.Now()

	pass := newPass(ctx, n)
	tree, err := n.env.Templates.Render(ctx, n.TemplateName(), n, pass)
	if werr := pass.wait(); err == nil {
		err = werr
	}
	if err == nil && tree == nil {
		err = wterrors.Newf(wterrors.CategoryRender, "template %q returned no output", n.TemplateName())
	}
	if err != nil {
		pass.discard()
		rerr := wterrors.New("W004").WithDetailf("node %s", n).Wrap(err)
		n.logger.Error("render failed", "error", err)
		n.env.Metrics.render(Failed, time.Since(began))
		endSpan(span, rerr)
		return Failed, rerr
	}

	// The output is keyed by the node id so a parent re-render recognizes
	// this subtree.
	tree.Key = strconv.FormatUint(n.id, 10)

	res, err := n.commit(tree)
	switch res {
	case Committed:
		pass.apply()
	default:
		pass.discard()
	}
	n.env.Metrics.render(res, time.Since(began))
	endSpan(span, err)
	return res, err
}

// commit patches tree against the current render handle in a single call.
func (n *Node) commit(tree *vdom.VNode) (Result, error) {
	n.commitMu.Lock()
	if n.destroying.Load() {
		n.commitMu.Unlock()
		n.logger.Warn("render discarded: node destroyed while rendering")
		n.env.record(EventAborted, n)
		return Aborted, nil
	}

	prev := n.VNode()
	if prev == nil {
		tag := tree.Tag
		if tag == "" {
			tag = "div"
		}
		prev = vdom.Placeholder(dom.NewElement(tag))
	}

	c, err := n.env.Patcher.Patch(prev, tree)
	if err != nil {
		n.commitMu.Unlock()
		n.logger.Error("patch failed", "error", err)
		return Failed, wterrors.New("W004").WithDetailf("patch of node %s", n).Wrap(err)
	}
	n.mu.Lock()
	n.vnode = c.Root
	n.mu.Unlock()
	n.commitMu.Unlock()

	n.env.Metrics.patched(c.Ops)
	n.env.record(EventRendered, n)
	n.logger.Debug("render committed", "ops", c.Ops, "inserted", len(c.Inserted))

	for _, h := range c.Inserted {
		if child, ok := h.(*Node); ok {
			child.attached()
		}
	}
	return Committed, nil
}
