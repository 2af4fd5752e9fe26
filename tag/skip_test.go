package tag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nbt/endian"
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/stream"
)

// skipOverRoot consumes the root header and metadata, then skips the payload.
// The returned reader is positioned at the root's successor.
func skipOverRoot(t *testing.T, data []byte) *stream.Reader {
	t.Helper()

	r := newReader(data)
	kind, _, err := ReadNamed(r)
	require.NoError(t, err)

	meta, err := ReadMeta(r, kind)
	require.NoError(t, err)
	require.NoError(t, SkipPayload(r, kind, meta))

	return r
}

// sentinel-terminated documents verify that a skip lands exactly on the next
// byte after the payload.
func TestSkipPayload_LandsOnSuccessor(t *testing.T) {
	trees := []*Node{
		NewInt8("n", 1),
		NewInt64("n", -5),
		NewFloat64("n", 2.5),
		NewString("n", "some text"),
		NewInt8Array("n", []int8{1, 2, 3, 4, 5}),
		NewInt32Array("n", []int32{1, 2, 3}),
		NewInt64Array("n", []int64{9}),
		NewList("n", format.TagInt32, &Node{Kind: format.TagInt32, Int32: 1}, &Node{Kind: format.TagInt32, Int32: 2}),
		NewList("n", format.TagString, &Node{Kind: format.TagString, Str: "a"}, &Node{Kind: format.TagString, Str: "bb"}),
		NewList("n", format.TagEnd),
		NewList("n", format.TagList,
			NewList("", format.TagInt8, &Node{Kind: format.TagInt8, Int8: 3}),
			NewList("", format.TagEnd),
		),
		NewCompound("n",
			NewString("s", "v"),
			NewCompound("inner", NewInt32("x", 1)),
			NewList("l", format.TagInt16, &Node{Kind: format.TagInt16, Int16: 2}),
		),
		NewCompound("n"),
	}

	for _, tree := range trees {
		t.Run(tree.Kind.String(), func(t *testing.T) {
			data := append(writeTree(t, tree), 0xEE)

			r := skipOverRoot(t, data)
			sentinel, err := r.ReadUint8()
			require.NoError(t, err)
			require.Equal(t, uint8(0xEE), sentinel)
		})
	}
}

func TestSkipPayload_NonSeekableMatchesSeekable(t *testing.T) {
	tree := NewCompound("n",
		NewInt8Array("big", make([]int8, 10000)),
		NewString("tail", "ok"),
	)
	data := append(writeTree(t, tree), 0xEE)

	// bytes.Reader seeks; oneByteReader-like plain reader drains.
	seekable := skipOverRoot(t, data)

	plain := stream.NewReader(plainReader{bytes.NewReader(data)}, endian.GetBigEndianEngine())
	kind, _, err := ReadNamed(plain)
	require.NoError(t, err)
	meta, err := ReadMeta(plain, kind)
	require.NoError(t, err)
	require.NoError(t, SkipPayload(plain, kind, meta))

	a, err := seekable.ReadUint8()
	require.NoError(t, err)
	b, err := plain.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, uint8(0xEE), a)
}

// plainReader hides the Seeker implementation of the wrapped reader.
type plainReader struct {
	r *bytes.Reader
}

func (p plainReader) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func TestSkipPayload_TruncatedFails(t *testing.T) {
	tree := NewCompound("n", NewInt8Array("arr", make([]int8, 100)))
	data := writeTree(t, tree)
	cut := data[:len(data)-20]

	r := stream.NewReader(plainReader{bytes.NewReader(cut)}, endian.GetBigEndianEngine())
	kind, _, err := ReadNamed(r)
	require.NoError(t, err)
	meta, err := ReadMeta(r, kind)
	require.NoError(t, err)
	require.ErrorIs(t, SkipPayload(r, kind, meta), format.ErrUnexpectedEnd)
}

func TestSkipPayload_InvalidKindInsideCompound(t *testing.T) {
	data := []byte{
		0x0A, 0x00, 0x00, // compound ""
		0x0D, // bogus entry kind
	}
	r := newReader(data)
	kind, _, err := ReadNamed(r)
	require.NoError(t, err)
	meta, err := ReadMeta(r, kind)
	require.NoError(t, err)

	var kindErr *format.InvalidTagKindError
	require.ErrorAs(t, SkipPayload(r, kind, meta), &kindErr)
	require.Equal(t, uint8(13), kindErr.Kind)
}
