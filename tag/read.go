package tag

import (
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/mutf8"
	"github.com/arloliu/nbt/stream"
)

// Meta carries the pre-payload metadata of a tag. Only lists have any: the
// content kind and the element count, which sit between the tag header and the
// element payloads. ReadMeta must run before ReadPayload or SkipPayload.
type Meta struct {
	Elem format.TagID
	Len  int32
}

// ReadMeta reads the metadata of a tag of the given kind. For TagList it
// consumes the content-kind byte and the element count; for every other kind
// it consumes nothing.
func ReadMeta(r *stream.Reader, kind format.TagID) (Meta, error) {
	if kind != format.TagList {
		return Meta{}, nil
	}

	elem, err := r.ReadUint8()
	if err != nil {
		return Meta{}, err
	}
	if !format.TagID(elem).Valid() {
		return Meta{}, &format.InvalidTagKindError{Kind: elem}
	}

	n, err := r.ReadInt32()
	if err != nil {
		return Meta{}, err
	}
	if n < 0 {
		return Meta{}, &format.ValueOutOfRangeError{Detail: "negative list length"}
	}
	if format.TagID(elem) == format.TagEnd && n > 0 {
		return Meta{}, format.ErrListContentMismatch
	}

	return Meta{Elem: format.TagID(elem), Len: n}, nil
}

// ReadString reads a uint16-length-prefixed Modified UTF-8 string.
func ReadString(r *stream.Reader) (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	raw, err := r.ReadExact(int(n))
	if err != nil {
		return "", err
	}

	return mutf8.Decode(raw)
}

// ReadNamed reads one compound entry header: the kind byte and, unless the
// kind is TagEnd, the entry name. A TagEnd header has no name and terminates
// the enclosing compound.
func ReadNamed(r *stream.Reader) (format.TagID, string, error) {
	kind, err := r.ReadUint8()
	if err != nil {
		return 0, "", err
	}
	if !format.TagID(kind).Valid() {
		return 0, "", &format.InvalidTagKindError{Kind: kind}
	}
	if format.TagID(kind) == format.TagEnd {
		return format.TagEnd, "", nil
	}

	name, err := ReadString(r)
	if err != nil {
		return 0, "", err
	}

	return format.TagID(kind), name, nil
}

// ReadPayload fully materializes the payload of a tag whose metadata has
// already been read. The returned node has an empty name; callers attach the
// name from the enclosing header.
func ReadPayload(r *stream.Reader, kind format.TagID, meta Meta) (*Node, error) {
	n := &Node{Kind: kind}

	switch kind {
	case format.TagInt8:
		v, err := r.ReadInt8()
		if err != nil {
			return nil, err
		}
		n.Int8 = v
	case format.TagInt16:
		v, err := r.ReadInt16()
		if err != nil {
			return nil, err
		}
		n.Int16 = v
	case format.TagInt32:
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		n.Int32 = v
	case format.TagInt64:
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		n.Int64 = v
	case format.TagFloat32:
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		n.Float32 = v
	case format.TagFloat64:
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		n.Float64 = v
	case format.TagString:
		v, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		n.Str = v
	case format.TagInt8Array:
		v, err := readInt8Array(r)
		if err != nil {
			return nil, err
		}
		n.Int8s = v
	case format.TagInt32Array:
		v, err := readInt32Array(r)
		if err != nil {
			return nil, err
		}
		n.Int32s = v
	case format.TagInt64Array:
		v, err := readInt64Array(r)
		if err != nil {
			return nil, err
		}
		n.Int64s = v
	case format.TagList:
		if err := readListPayload(r, n, meta); err != nil {
			return nil, err
		}
	case format.TagCompound:
		if err := readCompoundPayload(r, n); err != nil {
			return nil, err
		}
	default:
		// TagEnd and out-of-range kinds never carry a payload.
		return nil, &format.InvalidTagKindError{Kind: uint8(kind)}
	}

	return n, nil
}

// ReadRoot reads a complete document: the root kind byte, optionally the root
// name, and the fully materialized root payload.
func ReadRoot(r *stream.Reader, hasName bool) (*Node, error) {
	kind, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	// TagEnd is only legal inside a compound header position.
	if format.TagID(kind) == format.TagEnd || !format.TagID(kind).Valid() {
		return nil, &format.InvalidTagKindError{Kind: kind}
	}

	name := ""
	if hasName {
		name, err = ReadString(r)
		if err != nil {
			return nil, err
		}
	}

	meta, err := ReadMeta(r, format.TagID(kind))
	if err != nil {
		return nil, err
	}

	n, err := ReadPayload(r, format.TagID(kind), meta)
	if err != nil {
		return nil, err
	}
	n.Name = name

	return n, nil
}

func arrayLen(r *stream.Reader) (int32, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &format.ValueOutOfRangeError{Detail: "negative array length"}
	}

	return n, nil
}

func readInt8Array(r *stream.Reader) ([]int8, error) {
	count, err := arrayLen(r)
	if err != nil {
		return nil, err
	}

	raw, err := r.ReadExact(int(count))
	if err != nil {
		return nil, err
	}

	out := make([]int8, count)
	for i, b := range raw {
		out[i] = int8(b)
	}

	return out, nil
}

func readInt32Array(r *stream.Reader) ([]int32, error) {
	count, err := arrayLen(r)
	if err != nil {
		return nil, err
	}

	out := make([]int32, count)
	for i := range out {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func readInt64Array(r *stream.Reader) ([]int64, error) {
	count, err := arrayLen(r)
	if err != nil {
		return nil, err
	}

	out := make([]int64, count)
	for i := range out {
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func readListPayload(r *stream.Reader, n *Node, meta Meta) error {
	n.Elem = meta.Elem
	if meta.Len == 0 {
		return nil
	}

	n.Children = make([]*Node, 0, min(int(meta.Len), 4096))
	for i := int32(0); i < meta.Len; i++ {
		elemMeta, err := ReadMeta(r, meta.Elem)
		if err != nil {
			return err
		}

		child, err := ReadPayload(r, meta.Elem, elemMeta)
		if err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}

	return nil
}

func readCompoundPayload(r *stream.Reader, n *Node) error {
	var seen map[string]struct{}

	for {
		kind, name, err := ReadNamed(r)
		if err != nil {
			return err
		}
		if kind == format.TagEnd {
			return nil
		}

		if seen == nil {
			seen = make(map[string]struct{}, 8)
		}
		if _, dup := seen[name]; dup {
			return &format.DuplicateNameError{Name: name}
		}
		seen[name] = struct{}{}

		meta, err := ReadMeta(r, kind)
		if err != nil {
			return err
		}

		child, err := ReadPayload(r, kind, meta)
		if err != nil {
			return err
		}
		child.Name = name
		n.Children = append(n.Children, child)
	}
}
