// Package component is the lifecycle core of wtree: a tree of stateful
// nodes, each owning the committed output of its subtree.
//
// # Lifecycle
//
// A node is created with NewRoot or NewChild, started once (WillStart),
// rendered any number of times, mounted when its element reaches the live
// document, optionally detached and mounted again, and finally destroyed.
// Destroy is terminal and recursive: children go first, then the node runs
// WillUnmount (if mounted), drops its element, leaves its parent, clears its
// event bus and runs Destroyed.
//
// # Rendering
//
// Render asks the environment's Renderer for an abstract tree. The renderer
// may create or reuse child nodes and schedule their start/render on the
// Pass; Render waits for all of them before committing. The output is keyed
// by the node id and committed with one Patcher call against the previous
// output, or against an empty placeholder element on first render.
//
// # Results
//
// Operations that can suspend return a Result. Aborted means the node was
// destroyed while the operation was in flight and its work was discarded;
// it is not an error.
//
// # Concurrency
//
// Nested completions of one pass run one at a time, in schedule order,
// after the template returns. Independent renders of the same node are not
// serialized unless Env.SerialRenders is set; otherwise the last commit
// wins and the last pass to finish destroys the slot children the others
// left unbound.
package component
