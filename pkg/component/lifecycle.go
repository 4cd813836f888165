package component

import (
	"context"

	wterrors "github.com/vango-dev/wtree/internal/errors"
	"github.com/vango-dev/wtree/pkg/dom"
)

// Start runs the WillStart hook once. Calling it again after a successful
// start does nothing. If the node is destroyed while the hook runs, the node
// is left unstarted and Start returns Aborted.
func (n *Node) Start(ctx context.Context) (Result, error) {
	n.startMu.Lock()
	defer n.startMu.Unlock()

	if n.destroying.Load() {
		return Aborted, nil
	}
	if n.started.Load() {
		return Committed, nil
	}

	ctx, span := n.startSpan(ctx, "wtree.start")
	defer span.End()

	if err := n.hooks.WillStart(ctx, n); err != nil {
		serr := wterrors.New("W002").WithDetailf("node %s", n).Wrap(err)
		n.logger.Error("willStart failed", "error", err)
		endSpan(span, serr)
		return Failed, serr
	}

	if n.inline != nil {
		if err := n.env.Templates.AddTemplate(n.TemplateName(), n.inline); err != nil {
			endSpan(span, err)
			return Failed, err
		}
	}

	if n.destroying.Load() {
		n.logger.Warn("start discarded: node destroyed during willStart")
		n.env.record(EventAborted, n)
		return Aborted, nil
	}
	n.started.Store(true)
	n.env.Metrics.transition(EventStarted)
	n.env.record(EventStarted, n)
	n.logger.Debug("started")
	return Committed, nil
}

// Mount starts and renders the node, then appends its element to target.
// When target is part of the live document, every node of the subtree whose
// element was attached becomes mounted, ancestors first.
func (n *Node) Mount(ctx context.Context, target *dom.Element) (Result, error) {
	if target == nil {
		return Failed, wterrors.New("W005").WithDetailf("node %s", n)
	}

	ctx, span := n.startSpan(ctx, "wtree.mount")
	defer span.End()

	res, err := n.Start(ctx)
	if err != nil || res == Aborted {
		endSpan(span, err)
		return res, err
	}
	res, err = n.Render(ctx)
	if err != nil || res == Aborted {
		endSpan(span, err)
		return res, err
	}

	el := n.El()
	if el == nil {
		// Destroyed between commit and here.
		return Aborted, nil
	}
	target.AppendChild(el)

	if target.IsConnected() {
		n.visitSubtree(func(w *Node) bool {
			if w.mounted.Load() || w.destroying.Load() || !el.Contains(w.El()) {
				return false
			}
			w.setMounted()
			return true
		})
	}
	return Committed, nil
}

// Detach removes the node's element from the document. Mounted nodes of the
// subtree get WillUnmount; state, props and children are kept, so the node
// can be mounted again.
func (n *Node) Detach() {
	el := n.El()
	if el == nil {
		return
	}
	n.visitSubtree(func(w *Node) bool {
		if !w.mounted.Load() {
			return false
		}
		w.setUnmounted()
		return true
	})
	el.Remove()
	n.logger.Debug("detached")
}

// Destroy tears the node down. Children are destroyed first. It is safe to
// call more than once.
func (n *Node) Destroy() {
	if !n.destroying.CompareAndSwap(false, true) {
		return
	}

	for _, c := range n.Children() {
		c.Destroy()
	}

	if n.mounted.Load() {
		n.setUnmounted()
	}

	n.commitMu.Lock()
	n.mu.Lock()
	v := n.vnode
	n.vnode = nil
	n.mu.Unlock()
	if el := v.El(); el != nil {
		el.Remove()
	}
	n.commitMu.Unlock()
	n.mounted.Store(false)

	n.mu.Lock()
	p := n.parent
	n.parent = nil
	n.cmap = make(map[string]uint64)
	n.slotted = make(map[uint64]bool)
	n.mu.Unlock()
	if p != nil {
		p.mu.Lock()
		delete(p.children, n.id)
		p.mu.Unlock()
	}

	n.mu.Lock()
	listening := n.listening
	n.listening = nil
	n.mu.Unlock()
	for b := range listening {
		b.Release(n)
	}
	n.bus.Clear()

	n.started.Store(false)
	n.destroyed.Store(true)
	n.env.Metrics.nodeDestroyed()
	n.env.record(EventDestroyed, n)
	n.logger.Debug("destroyed")
	n.hooks.Destroyed(n)
}

// attached is called after the node's element was embedded in its parent's
// output. The node mounts itself, then its children, if the parent is
// mounted.
func (n *Node) attached() {
	if n.mounted.Load() || n.destroying.Load() {
		return
	}
	p := n.Parent()
	if p == nil || !p.mounted.Load() {
		return
	}
	n.setMounted()
	for _, c := range n.Children() {
		c.attached()
	}
}

func (n *Node) setMounted() {
	if !n.mounted.CompareAndSwap(false, true) {
		return
	}
	n.env.Metrics.transition(EventMounted)
	n.env.record(EventMounted, n)
	n.logger.Debug("mounted")
	n.hooks.Mounted(n)
}

// setUnmounted runs WillUnmount, then clears the flag.
func (n *Node) setUnmounted() {
	n.hooks.WillUnmount(n)
	n.mounted.Store(false)
	n.env.Metrics.transition(EventUnmounted)
	n.env.record(EventUnmounted, n)
	n.logger.Debug("unmounted")
}

// visitSubtree calls fn on n, and recurses into the children (by id order)
// only when fn returns true.
func (n *Node) visitSubtree(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.visitSubtree(fn)
	}
}
