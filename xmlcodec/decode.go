package xmlcodec

import (
	"fmt"
	"strconv"

	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/tag"
)

// ToNode converts an XML element tree back to a tag tree. The root element's
// Name attribute is optional; compound children must carry one.
func ToNode(el *Element) (*tag.Node, error) {
	name, _ := el.Attr(attrName)
	return toNode(el, name)
}

func toNode(el *Element, name string) (*tag.Node, error) {
	kind, ok := format.KindFromName(el.Tag)
	if !ok {
		return nil, &format.SyntaxError{Detail: fmt.Sprintf("unknown element name %q", el.Tag)}
	}
	if kind == format.TagEnd {
		return nil, &format.SyntaxError{Detail: "TEnd cannot materialize as a value"}
	}

	n := &tag.Node{Kind: kind, Name: name}

	switch kind {
	case format.TagInt8:
		v, err := parseInt(el.Text, 8)
		if err != nil {
			return nil, err
		}
		n.Int8 = int8(v)
	case format.TagInt16:
		v, err := parseInt(el.Text, 16)
		if err != nil {
			return nil, err
		}
		n.Int16 = int16(v)
	case format.TagInt32:
		v, err := parseInt(el.Text, 32)
		if err != nil {
			return nil, err
		}
		n.Int32 = int32(v)
	case format.TagInt64:
		v, err := parseInt(el.Text, 64)
		if err != nil {
			return nil, err
		}
		n.Int64 = v
	case format.TagFloat32:
		v, err := parseFloat(el.Text, 32)
		if err != nil {
			return nil, err
		}
		n.Float32 = float32(v)
	case format.TagFloat64:
		v, err := parseFloat(el.Text, 64)
		if err != nil {
			return nil, err
		}
		n.Float64 = v
	case format.TagString:
		n.Str = el.Text
	case format.TagInt8Array:
		if err := arrayFromElement(el, format.TagInt8, func(v int64) { n.Int8s = append(n.Int8s, int8(v)) }, 8); err != nil {
			return nil, err
		}
	case format.TagInt32Array:
		if err := arrayFromElement(el, format.TagInt32, func(v int64) { n.Int32s = append(n.Int32s, int32(v)) }, 32); err != nil {
			return nil, err
		}
	case format.TagInt64Array:
		if err := arrayFromElement(el, format.TagInt64, func(v int64) { n.Int64s = append(n.Int64s, v) }, 64); err != nil {
			return nil, err
		}
	case format.TagList:
		if err := listFromElement(el, n); err != nil {
			return nil, err
		}
	case format.TagCompound:
		if err := compoundFromElement(el, n); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func parseInt(text string, bits int) (int64, error) {
	v, err := strconv.ParseInt(text, 10, bits)
	if err != nil {
		return 0, &format.ValueOutOfRangeError{Detail: fmt.Sprintf("integer text %q does not fit %d bits", text, bits)}
	}

	return v, nil
}

func parseFloat(text string, bits int) (float64, error) {
	v, err := strconv.ParseFloat(text, bits)
	if err != nil {
		return 0, &format.ValueOutOfRangeError{Detail: fmt.Sprintf("float text %q is not parsable", text)}
	}

	return v, nil
}

func arrayFromElement(el *Element, elemKind format.TagID, add func(int64), bits int) error {
	want := elemKind.String()
	for _, child := range el.Children {
		if child.Tag != want {
			return &format.SyntaxError{Detail: fmt.Sprintf("array element %q inside %q", child.Tag, el.Tag)}
		}

		v, err := parseInt(child.Text, bits)
		if err != nil {
			return err
		}
		add(v)
	}

	return nil
}

func listFromElement(el *Element, n *tag.Node) error {
	contentName, ok := el.Attr(attrContentType)
	if !ok {
		return &format.SyntaxError{Detail: "list element lacks ContentType attribute"}
	}

	elem, ok := format.KindFromName(contentName)
	if !ok {
		return &format.SyntaxError{Detail: fmt.Sprintf("unknown ContentType %q", contentName)}
	}
	if elem == format.TagEnd && len(el.Children) > 0 {
		return format.ErrListContentMismatch
	}
	n.Elem = elem

	for _, childEl := range el.Children {
		if childEl.Tag != contentName {
			return format.ErrListContentMismatch
		}

		child, err := toNode(childEl, "")
		if err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}

	return nil
}

func compoundFromElement(el *Element, n *tag.Node) error {
	seen := make(map[string]struct{}, len(el.Children))
	for _, childEl := range el.Children {
		name, ok := childEl.Attr(attrName)
		if !ok {
			return &format.SyntaxError{Detail: fmt.Sprintf("compound child %q lacks Name attribute", childEl.Tag)}
		}
		if _, dup := seen[name]; dup {
			return &format.DuplicateNameError{Name: name}
		}
		seen[name] = struct{}{}

		child, err := toNode(childEl, name)
		if err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}

	return nil
}
