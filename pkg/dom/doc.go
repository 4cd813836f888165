// Package dom is the live element tree that committed render output is
// attached to.
//
// A Document owns a Body element. Elements are connected when their
// ancestor chain reaches a document body; the lifecycle core uses
// IsConnected and Contains to decide which nodes become mounted.
//
// The tree is not safe for concurrent mutation. Callers serialize writes
// (the component package commits under a per-node lock and only patches
// a node's own subtree).
package dom
