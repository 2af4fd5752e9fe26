package tag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nbt/endian"
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/stream"
)

func writeTree(t *testing.T, n *Node) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := stream.NewWriter(&buf, endian.GetBigEndianEngine())
	require.NoError(t, Write(w, n, true))

	return buf.Bytes()
}

func TestWrite_HelloWorld(t *testing.T) {
	root := NewCompound("hello", NewString("name", "Banan"))
	require.Equal(t, helloWorldBytes, writeTree(t, root))
}

func TestWrite_EmptyList(t *testing.T) {
	root := NewList("", format.TagEnd)
	require.Equal(t, emptyListBytes, writeTree(t, root))
}

func TestWrite_DecodeEncodeIsIdentity(t *testing.T) {
	fixtures := [][]byte{
		helloWorldBytes,
		emptyListBytes,
		// Empty list declared as (Int8, 0) must survive byte-exactly.
		{0x09, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00},
	}
	for _, data := range fixtures {
		root, err := ReadRoot(newReader(data), true)
		require.NoError(t, err)
		require.Equal(t, data, writeTree(t, root))
	}
}

func TestWrite_EncodeDecodeIsIdentity(t *testing.T) {
	root := NewCompound("root",
		NewInt8("b", -1),
		NewInt16("s", -2),
		NewInt32("i", 3),
		NewInt64("l", -4),
		NewFloat32("f", 1.5),
		NewFloat64("d", -2.25),
		NewString("str", "A\x00B\U00010348"),
		NewInt8Array("ba", []int8{-128, 0, 127}),
		NewInt32Array("ia", []int32{1, -1}),
		NewInt64Array("la", []int64{42}),
		NewList("strs", format.TagString,
			&Node{Kind: format.TagString, Str: "x"},
			&Node{Kind: format.TagString, Str: ""},
		),
		NewList("empty", format.TagEnd),
		NewCompound("sub", NewInt32("v", 7)),
	)

	data := writeTree(t, root)
	decoded, err := ReadRoot(newReader(data), true)
	require.NoError(t, err)
	require.Equal(t, root, decoded)
}

func TestWrite_RefusesEndAsValue(t *testing.T) {
	var kindErr *format.InvalidTagKindError

	err := Write(stream.NewWriter(&bytes.Buffer{}, endian.GetBigEndianEngine()), &Node{Kind: format.TagEnd}, true)
	require.ErrorAs(t, err, &kindErr)

	// A compound entry of kind TEnd is equally refused.
	root := NewCompound("", &Node{Kind: format.TagEnd, Name: "x"})
	err = Write(stream.NewWriter(&bytes.Buffer{}, endian.GetBigEndianEngine()), root, true)
	require.ErrorAs(t, err, &kindErr)
}

func TestWrite_RefusesNil(t *testing.T) {
	var kindErr *format.InvalidTagKindError
	err := Write(stream.NewWriter(&bytes.Buffer{}, endian.GetBigEndianEngine()), nil, true)
	require.ErrorAs(t, err, &kindErr)
}

func TestWrite_RefusesListContentMismatch(t *testing.T) {
	w := stream.NewWriter(&bytes.Buffer{}, endian.GetBigEndianEngine())

	// Declared Int32 but holds a string element.
	bad := NewList("l", format.TagInt32, &Node{Kind: format.TagString, Str: "nope"})
	require.ErrorIs(t, Write(w, bad, true), format.ErrListContentMismatch)

	// Declared End with nonzero length.
	bad = NewList("l", format.TagEnd, &Node{Kind: format.TagInt8})
	require.ErrorIs(t, Write(w, bad, true), format.ErrListContentMismatch)
}

func TestWrite_RefusesDuplicateNames(t *testing.T) {
	w := stream.NewWriter(&bytes.Buffer{}, endian.GetBigEndianEngine())
	root := NewCompound("", NewInt8("x", 1), NewInt8("x", 2))

	var dupErr *format.DuplicateNameError
	require.ErrorAs(t, Write(w, root, true), &dupErr)
	require.Equal(t, "x", dupErr.Name)
}

func TestWrite_RefusesOversizedString(t *testing.T) {
	w := stream.NewWriter(&bytes.Buffer{}, endian.GetBigEndianEngine())

	var rangeErr *format.ValueOutOfRangeError
	err := Write(w, NewString("s", strings.Repeat("a", format.MaxStringBytes+1)), true)
	require.ErrorAs(t, err, &rangeErr)

	// The limit applies to encoded bytes, not character count: 32768 NULs
	// encode to 65536 bytes.
	err = Write(w, NewString("s", strings.Repeat("\x00", 32768)), true)
	require.ErrorAs(t, err, &rangeErr)

	// Exactly at the limit is fine.
	var buf bytes.Buffer
	ok := stream.NewWriter(&buf, endian.GetBigEndianEngine())
	require.NoError(t, Write(ok, NewString("s", strings.Repeat("a", format.MaxStringBytes)), true))
}

func TestWrite_ListElementNamesNotSerialized(t *testing.T) {
	withNames := NewList("l", format.TagInt8,
		&Node{Kind: format.TagInt8, Name: "ignored", Int8: 1},
	)
	without := NewList("l", format.TagInt8,
		&Node{Kind: format.TagInt8, Int8: 1},
	)
	require.Equal(t, writeTree(t, without), writeTree(t, withNames))
}
