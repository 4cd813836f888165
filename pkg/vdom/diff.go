package vdom

import (
	"fmt"
	"reflect"
	"strconv"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchMoveNode    PatchOp = 0x06 // Move node to new position
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	default:
		return "Unknown"
	}
}

// Patch describes a single change between two trees.
type Patch struct {
	Op     PatchOp // Operation type
	Target *VNode  // Node in the previous tree (or parent for inserts)
	Key    string  // Attribute key (for SetAttr/RemoveAttr)
	Value  string  // New value
	Node   *VNode  // For InsertNode/ReplaceNode
	Index  int     // Insert/move position
}

// Diff compares two VNode trees and returns the patches needed to transform prev into next.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, &patches)
	return patches
}

func diff(prev, next *VNode, patches *[]Patch) {
	if prev == nil && next == nil {
		return
	}

	// Node added (handled by parent via InsertNode)
	if prev == nil {
		return
	}

	if next == nil {
		*patches = append(*patches, Patch{Op: PatchRemoveNode, Target: prev})
		return
	}

	if !sameVNode(prev, next) {
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Target: prev, Node: next})
		return
	}

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{Op: PatchSetText, Target: prev, Value: next.Text})
		}
	case KindElement:
		diffProps(prev, next, patches)
		diffChildren(prev, flatten(prev.Children), flatten(next.Children), patches)
	case KindFragment:
		diffChildren(prev, flatten(prev.Children), flatten(next.Children), patches)
	case KindComponent:
		// Same host: the component commits its own output.
	}
}

// sameVNode reports whether next can be patched onto prev in place.
func sameVNode(prev, next *VNode) bool {
	if prev.Kind != next.Kind || prev.Key != next.Key {
		return false
	}
	switch prev.Kind {
	case KindElement:
		return prev.Tag == next.Tag
	case KindComponent:
		return prev.Host == next.Host
	}
	return true
}

// diffProps compares and patches attributes.
func diffProps(prev, next *VNode, patches *[]Patch) {
	for key, prevVal := range prev.Props {
		if isEventHandler(key) {
			continue
		}
		nextVal, exists := next.Props[key]
		if !exists {
			*patches = append(*patches, Patch{Op: PatchRemoveAttr, Target: prev, Key: key})
		} else if !propsEqual(prevVal, nextVal) {
			*patches = append(*patches, Patch{
				Op:     PatchSetAttr,
				Target: prev,
				Key:    key,
				Value:  propToString(nextVal),
			})
		}
	}

	for key, nextVal := range next.Props {
		if isEventHandler(key) {
			continue
		}
		if _, exists := prev.Props[key]; !exists {
			*patches = append(*patches, Patch{
				Op:     PatchSetAttr,
				Target: prev,
				Key:    key,
				Value:  propToString(nextVal),
			})
		}
	}
}

// diffChildren matches children by key when any are keyed, by position otherwise.
func diffChildren(parent *VNode, prev, next []*VNode, patches *[]Patch) {
	if !hasKeys(prev) && !hasKeys(next) {
		n := len(prev)
		if len(next) > n {
			n = len(next)
		}
		for i := 0; i < n; i++ {
			switch {
			case i >= len(prev):
				*patches = append(*patches, Patch{Op: PatchInsertNode, Target: parent, Index: i, Node: next[i]})
			case i >= len(next):
				*patches = append(*patches, Patch{Op: PatchRemoveNode, Target: prev[i]})
			default:
				diff(prev[i], next[i], patches)
			}
		}
		return
	}

	prevKeyMap := make(map[string]int, len(prev))
	for i, child := range prev {
		if child.Key != "" {
			prevKeyMap[child.Key] = i
		}
	}

	matched := make(map[int]bool)
	for nextIdx, nextChild := range next {
		prevIdx, exists := prevKeyMap[nextChild.Key]
		if nextChild.Key == "" || !exists {
			*patches = append(*patches, Patch{Op: PatchInsertNode, Target: parent, Index: nextIdx, Node: nextChild})
			continue
		}
		matched[prevIdx] = true
		if prevIdx != nextIdx {
			*patches = append(*patches, Patch{Op: PatchMoveNode, Target: prev[prevIdx], Index: nextIdx})
		}
		diff(prev[prevIdx], nextChild, patches)
	}

	for i, prevChild := range prev {
		if !matched[i] {
			*patches = append(*patches, Patch{Op: PatchRemoveNode, Target: prevChild})
		}
	}
}

// hasKeys returns true if any child has a key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if child.Key != "" {
			return true
		}
	}
	return false
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute text.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
