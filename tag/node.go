// Package tag implements the NBT tag tree: the typed in-memory node
// representation, the kind-dispatched payload reader and skipper, and the tree
// writer.
package tag

import (
	"github.com/arloliu/nbt/format"
)

// Node is a single tag in the tree, modeled as a tagged variant: Kind selects
// which payload field is meaningful.
//
// Name is set for compound children and for a named root. List elements carry
// no name on the wire; any name present in memory is not serialized for them.
//
// Children holds the elements of a list (in declared order, all of kind Elem)
// or the entries of a compound (in wire order, names unique).
type Node struct {
	Kind format.TagID
	Name string

	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Str     string
	Int8s   []int8
	Int32s  []int32
	Int64s  []int64

	// Elem is the declared content kind of a list. Lists built with NewList
	// declare it explicitly, and decoded lists keep the kind the input
	// declared, even when empty. It is format.TagEnd for every non-list node.
	Elem     format.TagID
	Children []*Node
}

// NewInt8 creates a named TInt8 node.
func NewInt8(name string, v int8) *Node {
	return &Node{Kind: format.TagInt8, Name: name, Int8: v}
}

// NewInt16 creates a named TInt16 node.
func NewInt16(name string, v int16) *Node {
	return &Node{Kind: format.TagInt16, Name: name, Int16: v}
}

// NewInt32 creates a named TInt32 node.
func NewInt32(name string, v int32) *Node {
	return &Node{Kind: format.TagInt32, Name: name, Int32: v}
}

// NewInt64 creates a named TInt64 node.
func NewInt64(name string, v int64) *Node {
	return &Node{Kind: format.TagInt64, Name: name, Int64: v}
}

// NewFloat32 creates a named TFloat32 node.
func NewFloat32(name string, v float32) *Node {
	return &Node{Kind: format.TagFloat32, Name: name, Float32: v}
}

// NewFloat64 creates a named TFloat64 node.
func NewFloat64(name string, v float64) *Node {
	return &Node{Kind: format.TagFloat64, Name: name, Float64: v}
}

// NewString creates a named TString node.
func NewString(name, v string) *Node {
	return &Node{Kind: format.TagString, Name: name, Str: v}
}

// NewInt8Array creates a named TInt8Array node.
func NewInt8Array(name string, v []int8) *Node {
	return &Node{Kind: format.TagInt8Array, Name: name, Int8s: v}
}

// NewInt32Array creates a named TInt32Array node.
func NewInt32Array(name string, v []int32) *Node {
	return &Node{Kind: format.TagInt32Array, Name: name, Int32s: v}
}

// NewInt64Array creates a named TInt64Array node.
func NewInt64Array(name string, v []int64) *Node {
	return &Node{Kind: format.TagInt64Array, Name: name, Int64s: v}
}

// NewList creates a named TList node with the declared content kind. An empty
// list should declare format.TagEnd.
func NewList(name string, elem format.TagID, children ...*Node) *Node {
	return &Node{Kind: format.TagList, Name: name, Elem: elem, Children: children}
}

// NewCompound creates a named TCompound node. Entry names must be unique; the
// writer enforces this when the tree is serialized.
func NewCompound(name string, children ...*Node) *Node {
	return &Node{Kind: format.TagCompound, Name: name, Children: children}
}

// Child returns the compound entry with the given name, or nil if n is not a
// compound or has no such entry.
func (n *Node) Child(name string) *Node {
	if n == nil || n.Kind != format.TagCompound {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}
