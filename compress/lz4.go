package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// The raw lz4 block format has no "stored" bit, and an lz4 block of
// incompressible input is no smaller than the input itself. Every record
// therefore leads with one marker byte telling Decompress whether the body is
// an lz4 block or the payload stored verbatim.
const (
	lz4BlockStored     = 0x00
	lz4BlockCompressed = 0x01
)

// LZ4Compressor implements the lz4 block chunk scheme (region compression
// type 4).
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data as a marker byte plus a single lz4
// block. Input that does not benefit from compression is stored verbatim
// behind the marker instead.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))
	dst[0] = lz4BlockCompressed

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		// Incompressible input; store it as-is.
		out := make([]byte, 1+len(data))
		out[0] = lz4BlockStored
		copy(out[1:], data)

		return out, nil
	}

	return dst[:1+n], nil
}

// Decompress reverses Compress, dispatching on the marker byte.
//
// The block format does not record the decompressed size, so for compressed
// bodies the buffer starts at 4x the compressed size and doubles on
// lz4.ErrInvalidSourceShortBuffer up to a 128MB ceiling, past which the data
// is treated as corrupt.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	body := data[1:]
	switch data[0] {
	case lz4BlockStored:
		out := make([]byte, len(body))
		copy(out, body)

		return out, nil
	case lz4BlockCompressed:
		// handled below
	default:
		return nil, fmt.Errorf("lz4 record has unknown marker byte 0x%02x", data[0])
	}

	bufSize := len(body) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(body, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
