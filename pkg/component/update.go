package component

import (
	"context"
	"sort"
	"strings"

	wterrors "github.com/vango-dev/wtree/internal/errors"
)

// ErrUndeclaredField matches errors returned by UpdateState for fields that
// are not part of the node's state.
var ErrUndeclaredField = wterrors.New("W001")

// UpdateState merges partial into the state and re-renders a started node.
//
// An empty partial does nothing. Fields outside the state declared at
// construction are rejected and nothing is merged; in checked mode this
// panics. Before start the state is only stored and Deferred is returned.
func (n *Node) UpdateState(ctx context.Context, partial State) (Result, error) {
	if len(partial) == 0 {
		return Skipped, nil
	}
	if n.destroying.Load() {
		return Aborted, nil
	}

	n.mu.Lock()
	var unknown []string
	for k := range partial {
		if _, ok := n.state[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		n.mu.Unlock()
		sort.Strings(unknown)
		err := wterrors.New("W001").
			WithDetailf("node %s: %s", n, strings.Join(unknown, ", ")).
			WithSuggestion("Declare every state field in Options.State")
		if n.env.Checked {
			panic(err)
		}
		n.logger.Error("undeclared state field", "fields", unknown)
		return Failed, err
	}
	for k, v := range partial {
		n.state[k] = v
	}
	n.mu.Unlock()

	if !n.started.Load() {
		return Deferred, nil
	}
	return n.Render(ctx)
}

// UpdateProps replaces the props and re-renders when ShouldUpdate agrees.
func (n *Node) UpdateProps(ctx context.Context, next Props) (Result, error) {
	if n.destroying.Load() {
		return Aborted, nil
	}
	should := n.hooks.ShouldUpdate(n, next)

	n.mu.Lock()
	n.props = next
	n.mu.Unlock()

	if !should {
		return Skipped, nil
	}
	return n.Render(ctx)
}
