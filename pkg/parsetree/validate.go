package parsetree

import (
	"errors"

	"github.com/yaklabco/duic/pkg/diag"
)

// Validate checks the whole tree rooted at root: every child must point
// back at the node holding it, and every node's own shape check must pass.
// All violations are returned joined; each is a diag.ErrInternal.
func Validate(root *Node) error {
	var errs []error

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *Node) error {
		for i, child := range n.children {
			if child.parent != n {
				errs = append(errs, diag.Internal(child.origin,
					"node %q at index %d of %q does not point back at its parent", child.name, i, n.name))
			}
		}
		if err := n.Validate(); err != nil {
			errs = append(errs, err)
		}
		return nil
	})

	return errors.Join(errs...)
}

// ExactChildren returns a shape check requiring exactly the named children,
// in order.
func ExactChildren(names ...string) ValidateFunc {
	return func(n *Node) error {
		if len(n.children) != len(names) {
			return diag.Internal(n.origin, "%s node must have %d children, has %d",
				n.name, len(names), len(n.children))
		}
		for i, name := range names {
			if n.children[i].name != name {
				return diag.Internal(n.children[i].origin, "%s node child %d must be %s, is %s",
					n.name, i, name, n.children[i].name)
			}
		}
		return nil
	}
}

// ChildRange returns a shape check requiring between lo and hi children.
// A negative hi means no upper bound.
func ChildRange(lo, hi int) ValidateFunc {
	return func(n *Node) error {
		count := len(n.children)
		if count < lo || (hi >= 0 && count > hi) {
			return diag.Internal(n.origin, "%s node has %d children, outside the allowed range", n.name, count)
		}
		return nil
	}
}

// RequireAttributes returns a shape check requiring non-empty values for
// each key.
func RequireAttributes(keys ...string) ValidateFunc {
	return func(n *Node) error {
		for _, key := range keys {
			if n.attrs[key] == "" {
				return diag.Internal(n.origin, "%s node is missing attribute %q", n.name, key)
			}
		}
		return nil
	}
}

// All combines shape checks; the first failure wins.
func All(checks ...ValidateFunc) ValidateFunc {
	return func(n *Node) error {
		for _, check := range checks {
			if err := check(n); err != nil {
				return err
			}
		}
		return nil
	}
}
