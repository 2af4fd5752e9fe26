package tag

import (
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/stream"
)

// SkipPayload advances the stream past the payload of a tag whose metadata has
// already been read, without materializing any value.
//
// Fixed-width kinds skip their width. Strings and arrays read only the length
// prefix and skip the body. Lists of fixed-width elements skip the whole block
// in one step; lists of variable-width elements dispatch metadata-read plus
// skip per element. Compounds walk their entry headers and dispatch skip per
// entry until the terminating TagEnd.
func SkipPayload(r *stream.Reader, kind format.TagID, meta Meta) error {
	switch kind {
	case format.TagInt8, format.TagInt16, format.TagInt32, format.TagInt64,
		format.TagFloat32, format.TagFloat64:
		return r.Skip(int64(kind.FixedSize()))
	case format.TagString:
		n, err := r.ReadUint16()
		if err != nil {
			return err
		}

		return r.Skip(int64(n))
	case format.TagInt8Array, format.TagInt32Array, format.TagInt64Array:
		count, err := arrayLen(r)
		if err != nil {
			return err
		}

		return r.Skip(int64(count) * int64(kind.ElemSize()))
	case format.TagList:
		return skipListPayload(r, meta)
	case format.TagCompound:
		return skipCompoundPayload(r)
	default:
		return &format.InvalidTagKindError{Kind: uint8(kind)}
	}
}

func skipListPayload(r *stream.Reader, meta Meta) error {
	if meta.Len == 0 {
		return nil
	}

	if size := meta.Elem.FixedSize(); size > 0 {
		return r.Skip(int64(meta.Len) * int64(size))
	}

	for i := int32(0); i < meta.Len; i++ {
		elemMeta, err := ReadMeta(r, meta.Elem)
		if err != nil {
			return err
		}
		if err := SkipPayload(r, meta.Elem, elemMeta); err != nil {
			return err
		}
	}

	return nil
}

func skipCompoundPayload(r *stream.Reader) error {
	for {
		kind, err := r.ReadUint8()
		if err != nil {
			return err
		}
		if !format.TagID(kind).Valid() {
			return &format.InvalidTagKindError{Kind: kind}
		}
		if format.TagID(kind) == format.TagEnd {
			return nil
		}

		// Entry name: length prefix plus body, never materialized.
		nameLen, err := r.ReadUint16()
		if err != nil {
			return err
		}
		if err := r.Skip(int64(nameLen)); err != nil {
			return err
		}

		meta, err := ReadMeta(r, format.TagID(kind))
		if err != nil {
			return err
		}
		if err := SkipPayload(r, format.TagID(kind), meta); err != nil {
			return err
		}
	}
}
