// Package parsetree implements the mutable parse node tree built by the
// preprocessor parser.
//
// Every node has a fixed name, a string attribute table, an ordered child
// list, and a back-reference to its parent. The tree maintains one
// invariant: a node listed as a child of X reports X as its parent, and no
// node is a child of two parents. All structural edits go through
// AppendChild, RemoveChild, ReplaceChild and Detach, which keep both sides
// of the relation in step.
package parsetree

import (
	"sort"

	"github.com/yaklabco/duic/pkg/source"
)

// WorldName is the name of the root node of every tree.
const WorldName = "World"

// ValidateFunc checks the shape of a single node.
type ValidateFunc func(n *Node) error

// Node is a single node of a parse tree.
type Node struct {
	name     string
	attrs    map[string]string
	children []*Node
	parent   *Node
	origin   source.Origin
	validate ValidateFunc
}

// New creates a detached node.
func New(name string, origin source.Origin) *Node {
	return &Node{name: name, origin: origin}
}

// NewWorld creates the root node of a parse session.
func NewWorld(origin source.Origin) *Node {
	return New(WorldName, origin)
}

// Name returns the node kind name.
func (n *Node) Name() string {
	return n.name
}

// Is reports whether the node has the given name. A nil node matches nothing.
func (n *Node) Is(name string) bool {
	return n != nil && n.name == name
}

// Origin returns where in the source the construct began.
func (n *Node) Origin() source.Origin {
	return n.origin
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Child returns the child at index i, or nil if out of range. It is safe
// to call on a nil node.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildByName returns the first direct child with the given name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, child := range n.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// SetAttribute sets key to value, overwriting any previous value.
func (n *Node) SetAttribute(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Attribute returns the value of key and whether it is set.
func (n *Node) Attribute(key string) (string, bool) {
	value, ok := n.attrs[key]
	return value, ok
}

// HasAttribute reports whether key is set.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

// AttributeKeys returns the attribute keys in sorted order.
func (n *Node) AttributeKeys() []string {
	keys := make([]string, 0, len(n.attrs))
	for key := range n.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SetValidator installs the shape check run by Validate.
func (n *Node) SetValidator(fn ValidateFunc) {
	n.validate = fn
}

// Validate runs the node's own shape check. Nodes without one accept any
// shape.
func (n *Node) Validate() error {
	if n.validate == nil {
		return nil
	}
	return n.validate(n)
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
