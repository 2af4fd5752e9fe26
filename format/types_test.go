package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagID_Valid(t *testing.T) {
	for id := TagEnd; id <= TagInt64Array; id++ {
		require.True(t, id.Valid(), "kind %d should be valid", id)
	}
	require.False(t, TagID(13).Valid())
	require.False(t, TagID(0xFF).Valid())
}

func TestTagID_FixedSize(t *testing.T) {
	tests := []struct {
		kind TagID
		size int
	}{
		{TagInt8, 1},
		{TagInt16, 2},
		{TagInt32, 4},
		{TagInt64, 8},
		{TagFloat32, 4},
		{TagFloat64, 8},
		{TagEnd, 0},
		{TagString, 0},
		{TagList, 0},
		{TagCompound, 0},
		{TagInt8Array, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.size, tt.kind.FixedSize())
			require.Equal(t, tt.size > 0, tt.kind.HasFixedSize())
		})
	}
}

func TestTagID_ElemSize(t *testing.T) {
	require.Equal(t, 1, TagInt8Array.ElemSize())
	require.Equal(t, 4, TagInt32Array.ElemSize())
	require.Equal(t, 8, TagInt64Array.ElemSize())
	require.Equal(t, 0, TagList.ElemSize())
	require.Equal(t, 0, TagInt32.ElemSize())
}

func TestTagID_String_RoundTrip(t *testing.T) {
	for id := TagEnd; id <= TagInt64Array; id++ {
		kind, ok := KindFromName(id.String())
		require.True(t, ok, "name %q should resolve", id.String())
		require.Equal(t, id, kind)
	}

	_, ok := KindFromName("TBogus")
	require.False(t, ok)
	require.Equal(t, "TUnknown(0x7f)", TagID(0x7F).String())
}

func TestTagID_IsContainer(t *testing.T) {
	require.True(t, TagList.IsContainer())
	require.True(t, TagCompound.IsContainer())
	require.False(t, TagInt8Array.IsContainer())
	require.False(t, TagString.IsContainer())
}

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "Gzip", CompressionGzip.String())
	require.Equal(t, "Zlib", CompressionZlib.String())
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "Unknown", CompressionType(0xAA).String())
}
