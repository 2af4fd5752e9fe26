// Package scan implements the filtered streaming reader: a lazy traversal of
// an NBT document that materializes, skips, or descends into each node under
// the control of a caller-supplied filter, holding no more memory than the
// active ancestor spine plus the node being emitted.
package scan

import (
	"github.com/arloliu/nbt/tag"
)

// Action is a filter verdict for one visited node.
type Action int

const (
	// Ignore skips the node's payload without materializing it.
	Ignore Action = iota
	// Accept fully materializes the node (and, for containers, its whole
	// subtree) and emits it. Descendants are not re-presented to the filter.
	Accept
	// TestChildren descends into a container and presents each child to the
	// filter in turn. On a non-container it behaves like Ignore.
	TestChildren
)

// Filter decides, per visited node, whether to materialize, skip, or descend.
//
// parents is the read-only stack of container ancestors from the root to the
// immediate parent. node carries its kind, name, and list content kind; its
// payload has not been read when the filter runs, so value fields are unset.
type Filter func(parents []*tag.Node, node *tag.Node) Action

// Everything accepts every node it is shown; scanning the root with it
// materializes the whole document as a single emission.
func Everything() Filter {
	return func([]*tag.Node, *tag.Node) Action {
		return Accept
	}
}

// AbsolutePath accepts exactly the node whose full name path equals parts,
// descending along matching prefixes and ignoring everything else. The root's
// canonical name is the empty string, so a path into a nameless document
// starts with "".
func AbsolutePath(parts ...string) Filter {
	return func(parents []*tag.Node, node *tag.Node) Action {
		depth := len(parents) + 1
		if depth > len(parts) {
			return Ignore
		}
		for i, p := range parents {
			if p.Name != parts[i] {
				return Ignore
			}
		}
		if node.Name != parts[depth-1] {
			return Ignore
		}
		if depth == len(parts) {
			return Accept
		}

		return TestChildren
	}
}

// NameAnywhere accepts every node named name at any depth, descending into
// everything else.
func NameAnywhere(name string) Filter {
	return func(_ []*tag.Node, node *tag.Node) Action {
		if node.Name == name {
			return Accept
		}

		return TestChildren
	}
}
