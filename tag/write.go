package tag

import (
	"fmt"
	"math"

	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/mutf8"
	"github.com/arloliu/nbt/stream"
)

// Write serializes a node as a named entry: the kind byte, the name (when
// withName is set), then the payload. Roots are written with withName per the
// caller's framing. List elements do not go through Write: they are bare
// payloads written by WritePayload, with no kind byte and no name.
func Write(w *stream.Writer, n *Node, withName bool) error {
	if n == nil || n.Kind == format.TagEnd || !n.Kind.Valid() {
		kind := uint8(0)
		if n != nil {
			kind = uint8(n.Kind)
		}

		return &format.InvalidTagKindError{Kind: kind}
	}

	if err := w.WriteUint8(uint8(n.Kind)); err != nil {
		return err
	}
	if withName {
		if err := WriteString(w, n.Name); err != nil {
			return err
		}
	}

	return WritePayload(w, n)
}

// WriteString serializes a uint16-length-prefixed Modified UTF-8 string. It
// refuses strings whose encoding exceeds format.MaxStringBytes.
func WriteString(w *stream.Writer, s string) error {
	n := mutf8.EncodedLen(s)
	if n > format.MaxStringBytes {
		return &format.ValueOutOfRangeError{
			Detail: fmt.Sprintf("string encodes to %d bytes, limit is %d", n, format.MaxStringBytes),
		}
	}

	if err := w.WriteUint16(uint16(n)); err != nil { //nolint:gosec
		return err
	}

	return w.WriteBytes(mutf8.Encode(s))
}

// WritePayload serializes the bare payload of a node: the list metadata and
// element payloads for lists, the entries plus terminating TagEnd for
// compounds, the length-prefixed body for strings and arrays, and the raw
// big-endian value for fixed-width kinds.
func WritePayload(w *stream.Writer, n *Node) error {
	switch n.Kind {
	case format.TagInt8:
		return w.WriteInt8(n.Int8)
	case format.TagInt16:
		return w.WriteInt16(n.Int16)
	case format.TagInt32:
		return w.WriteInt32(n.Int32)
	case format.TagInt64:
		return w.WriteInt64(n.Int64)
	case format.TagFloat32:
		return w.WriteFloat32(n.Float32)
	case format.TagFloat64:
		return w.WriteFloat64(n.Float64)
	case format.TagString:
		return WriteString(w, n.Str)
	case format.TagInt8Array:
		return writeInt8Array(w, n.Int8s)
	case format.TagInt32Array:
		return writeInt32Array(w, n.Int32s)
	case format.TagInt64Array:
		return writeInt64Array(w, n.Int64s)
	case format.TagList:
		return writeListPayload(w, n)
	case format.TagCompound:
		return writeCompoundPayload(w, n)
	default:
		return &format.InvalidTagKindError{Kind: uint8(n.Kind)}
	}
}

func checkLen(what string, n int) (int32, error) {
	if n > math.MaxInt32 {
		return 0, &format.ValueOutOfRangeError{Detail: fmt.Sprintf("%s length %d exceeds int32", what, n)}
	}

	return int32(n), nil
}

func writeInt8Array(w *stream.Writer, v []int8) error {
	count, err := checkLen("array", len(v))
	if err != nil {
		return err
	}
	if err := w.WriteInt32(count); err != nil {
		return err
	}

	raw := make([]byte, len(v))
	for i, b := range v {
		raw[i] = byte(b)
	}

	return w.WriteBytes(raw)
}

func writeInt32Array(w *stream.Writer, v []int32) error {
	count, err := checkLen("array", len(v))
	if err != nil {
		return err
	}
	if err := w.WriteInt32(count); err != nil {
		return err
	}
	for _, e := range v {
		if err := w.WriteInt32(e); err != nil {
			return err
		}
	}

	return nil
}

func writeInt64Array(w *stream.Writer, v []int64) error {
	count, err := checkLen("array", len(v))
	if err != nil {
		return err
	}
	if err := w.WriteInt32(count); err != nil {
		return err
	}
	for _, e := range v {
		if err := w.WriteInt64(e); err != nil {
			return err
		}
	}

	return nil
}

func writeListPayload(w *stream.Writer, n *Node) error {
	count, err := checkLen("list", len(n.Children))
	if err != nil {
		return err
	}
	if n.Elem == format.TagEnd && count > 0 {
		return format.ErrListContentMismatch
	}
	if !n.Elem.Valid() {
		return &format.InvalidTagKindError{Kind: uint8(n.Elem)}
	}

	if err := w.WriteUint8(uint8(n.Elem)); err != nil {
		return err
	}
	if err := w.WriteInt32(count); err != nil {
		return err
	}

	for _, child := range n.Children {
		if child == nil || child.Kind != n.Elem {
			return format.ErrListContentMismatch
		}
		// List elements are bare payloads: no kind byte, no name.
		if err := WritePayload(w, child); err != nil {
			return err
		}
	}

	return nil
}

func writeCompoundPayload(w *stream.Writer, n *Node) error {
	var seen map[string]struct{}
	if len(n.Children) > 0 {
		seen = make(map[string]struct{}, len(n.Children))
	}

	for _, child := range n.Children {
		if child == nil || child.Kind == format.TagEnd {
			return &format.InvalidTagKindError{Kind: 0}
		}
		if _, dup := seen[child.Name]; dup {
			return &format.DuplicateNameError{Name: child.Name}
		}
		seen[child.Name] = struct{}{}

		if err := Write(w, child, true); err != nil {
			return err
		}
	}

	return w.WriteUint8(uint8(format.TagEnd))
}
