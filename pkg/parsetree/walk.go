package parsetree

import "iter"

// WalkFunc visits one node. A non-nil error stops the walk.
type WalkFunc func(n *Node) error

// Walk visits root and its descendants in pre-order and returns the first
// error a visit reports.
func Walk(root *Node, visit WalkFunc) error {
	return WalkWithContext(root, visit, nil)
}

// WalkWithContext calls enter before a node's children and leave after
// them. Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}
	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}
	for _, child := range root.children {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}
	if leave != nil {
		return leave(root)
	}
	return nil
}

// Nodes yields root and its descendants in pre-order.
func Nodes(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		preorder(root, yield)
	}
}

func preorder(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, child := range n.children {
		if !preorder(child, yield) {
			return false
		}
	}
	return true
}

// FindAll returns every node for which match is true, in pre-order.
func FindAll(root *Node, match func(n *Node) bool) []*Node {
	var out []*Node
	for n := range Nodes(root) {
		if match(n) {
			out = append(out, n)
		}
	}
	return out
}

// FindFirst returns the first match in pre-order, or nil.
func FindFirst(root *Node, match func(n *Node) bool) *Node {
	for n := range Nodes(root) {
		if match(n) {
			return n
		}
	}
	return nil
}

// FindByName returns the nodes called name.
func FindByName(root *Node, name string) []*Node {
	return FindAll(root, func(n *Node) bool { return n.name == name })
}

// Count returns the size of the tree rooted at root.
func Count(root *Node) int {
	count := 0
	for range Nodes(root) {
		count++
	}
	return count
}
