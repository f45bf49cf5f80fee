package parsetree

import "slices"

// AppendChild adds child as the last child of parent. If child already has
// a parent it is detached from it first. Appending a node to itself or to
// one of its descendants is a no-op.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil || parent == child || child.IsAncestorOf(parent) {
		return
	}

	Detach(child)
	child.parent = parent
	parent.children = append(parent.children, child)
}

// InsertChild adds child to parent at index, clamped to the child list.
func InsertChild(parent, child *Node, index int) {
	if parent == nil || child == nil || parent == child || child.IsAncestorOf(parent) {
		return
	}

	Detach(child)
	index = max(0, min(index, len(parent.children)))
	child.parent = parent
	parent.children = slices.Insert(parent.children, index, child)
}

// RemoveChild removes child from parent and clears its parent reference.
// It reports whether child was a child of parent.
func RemoveChild(parent, child *Node) bool {
	if parent == nil || child == nil || child.parent != parent {
		return false
	}

	idx := slices.Index(parent.children, child)
	if idx < 0 {
		return false
	}

	parent.children = slices.Delete(parent.children, idx, idx+1)
	child.parent = nil
	return true
}

// ReplaceChild puts replacement in old's slot under parent. old ends up
// detached; replacement is detached from its previous parent first. It
// reports whether old was a child of parent.
func ReplaceChild(parent, old, replacement *Node) bool {
	if parent == nil || old == nil || replacement == nil || old.parent != parent {
		return false
	}
	if old == replacement {
		return true
	}
	if replacement == parent || replacement.IsAncestorOf(parent) {
		return false
	}

	Detach(replacement)

	idx := slices.Index(parent.children, old)
	if idx < 0 {
		return false
	}

	parent.children[idx] = replacement
	replacement.parent = parent
	old.parent = nil
	return true
}

// Detach removes n from its parent, if any.
func Detach(n *Node) {
	if n == nil || n.parent == nil {
		return
	}
	RemoveChild(n.parent, n)
}

// Root returns the topmost ancestor of n.
func Root(n *Node) *Node {
	for n != nil && n.parent != nil {
		n = n.parent
	}
	return n
}

// Depth returns the number of ancestors of n.
func Depth(n *Node) int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}
