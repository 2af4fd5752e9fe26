// Package xmlcodec implements the deterministic, lossless mapping between NBT
// tag trees and XML element trees.
//
// The mapping rules:
//
//   - The element local name is the tag-kind name, e.g. <TInt32>, <TCompound>.
//   - Named entries (compound children, and the root when framing carries a
//     name) hold the name in a Name attribute.
//   - Lists declare their content kind in a ContentType attribute; every child
//     element shares the content kind's element name.
//   - Arrays contain one child element per value, named after the primitive
//     kind.
//   - Primitive values are decimal text content; float text round-trips the
//     IEEE 754 value exactly. String payloads are the element text verbatim.
//
// Comparison of element trees should be semantic (tag, attribute map,
// children), never textual, because XML attribute serialization order is
// unspecified.
package xmlcodec

// Element is one node of the materialized XML tree.
//
// Attrs is a map because attribute order carries no meaning; Marshal emits
// Name before ContentType for stable output, but Unmarshal accepts any order.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []*Element
	Text     string
}

// NewElement creates an element with the given local name and no attributes.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// SetAttr sets one attribute, allocating the map on first use.
func (e *Element) SetAttr(key, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string, 2)
	}
	e.Attrs[key] = value

	return e
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// Append adds child elements and returns e for chaining.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}
