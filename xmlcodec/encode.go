package xmlcodec

import (
	"strconv"

	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/tag"
)

const (
	attrName        = "Name"
	attrContentType = "ContentType"
)

// FromNode converts a tag tree to its XML element tree. When named is set the
// produced root element carries a Name attribute; compound children always do.
func FromNode(n *tag.Node, named bool) (*Element, error) {
	if n == nil || n.Kind == format.TagEnd || !n.Kind.Valid() {
		kind := uint8(0)
		if n != nil {
			kind = uint8(n.Kind)
		}

		return nil, &format.InvalidTagKindError{Kind: kind}
	}

	el := NewElement(n.Kind.String())
	if named {
		el.SetAttr(attrName, n.Name)
	}

	switch n.Kind {
	case format.TagInt8:
		el.Text = strconv.FormatInt(int64(n.Int8), 10)
	case format.TagInt16:
		el.Text = strconv.FormatInt(int64(n.Int16), 10)
	case format.TagInt32:
		el.Text = strconv.FormatInt(int64(n.Int32), 10)
	case format.TagInt64:
		el.Text = strconv.FormatInt(n.Int64, 10)
	case format.TagFloat32:
		el.Text = strconv.FormatFloat(float64(n.Float32), 'g', -1, 32)
	case format.TagFloat64:
		el.Text = strconv.FormatFloat(n.Float64, 'g', -1, 64)
	case format.TagString:
		el.Text = n.Str
	case format.TagInt8Array:
		for _, v := range n.Int8s {
			child := NewElement(format.TagInt8.String())
			child.Text = strconv.FormatInt(int64(v), 10)
			el.Append(child)
		}
	case format.TagInt32Array:
		for _, v := range n.Int32s {
			child := NewElement(format.TagInt32.String())
			child.Text = strconv.FormatInt(int64(v), 10)
			el.Append(child)
		}
	case format.TagInt64Array:
		for _, v := range n.Int64s {
			child := NewElement(format.TagInt64.String())
			child.Text = strconv.FormatInt(v, 10)
			el.Append(child)
		}
	case format.TagList:
		if err := listToElement(n, el); err != nil {
			return nil, err
		}
	case format.TagCompound:
		if err := compoundToElement(n, el); err != nil {
			return nil, err
		}
	}

	return el, nil
}

func listToElement(n *tag.Node, el *Element) error {
	if n.Elem == format.TagEnd && len(n.Children) > 0 {
		return format.ErrListContentMismatch
	}
	if !n.Elem.Valid() {
		return &format.InvalidTagKindError{Kind: uint8(n.Elem)}
	}

	el.SetAttr(attrContentType, n.Elem.String())
	for _, child := range n.Children {
		if child == nil || child.Kind != n.Elem {
			return format.ErrListContentMismatch
		}

		childEl, err := FromNode(child, false)
		if err != nil {
			return err
		}
		el.Append(childEl)
	}

	return nil
}

func compoundToElement(n *tag.Node, el *Element) error {
	seen := make(map[string]struct{}, len(n.Children))
	for _, child := range n.Children {
		if child == nil {
			return &format.InvalidTagKindError{Kind: 0}
		}
		if _, dup := seen[child.Name]; dup {
			return &format.DuplicateNameError{Name: child.Name}
		}
		seen[child.Name] = struct{}{}

		childEl, err := FromNode(child, true)
		if err != nil {
			return err
		}
		el.Append(childEl)
	}

	return nil
}
