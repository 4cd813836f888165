// Package vdom provides the abstract render output used by wtree components.
//
// A template produces a VNode tree. The Patcher commits that tree onto the
// live element tree of package dom, reusing elements wherever the previous
// tree has a compatible node, so committed output keeps its identity across
// renders.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// fragments and nested components. Props holds attributes and event
// handlers. Attr and EventHandler are used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// # Components
//
// A KindComponent node embeds a Host, a nested component that commits its
// own output. The patcher places the host's element in the parent tree and
// reports it in Commit.Inserted the first time it is embedded.
//
// # Diffing
//
// Diff compares two VNode trees and returns the Patch operations between
// them. Keyed reconciliation is used when children have keys. The patcher
// uses it to report how much a commit changed.
package vdom
