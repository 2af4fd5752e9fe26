// Package stream implements the fixed-width primitive layer of the NBT wire
// format: big-endian integer and IEEE 754 reads and writes over abstract byte
// streams, exact-length block reads, and bounded forward skips.
//
// The reader never treats a partial read as success; it loops until the
// requested width is satisfied or fails with format.ErrUnexpectedEnd.
package stream

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/nbt/endian"
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/internal/pool"
)

// SkipChunkSize caps how many bytes a single drain iteration reads when the
// underlying stream cannot seek.
const SkipChunkSize = 1024 * 1024 // 1MiB

// Reader decodes fixed-width primitives from an io.Reader.
//
// If the underlying stream also implements io.Seeker, Skip advances the
// position natively instead of draining through a buffer.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src     io.Reader
	seeker  io.Seeker
	engine  endian.EndianEngine
	scratch [8]byte
}

// NewReader creates a primitive reader over src using the given byte order.
// The NBT wire format is big-endian; pass endian.GetBigEndianEngine().
func NewReader(src io.Reader, engine endian.EndianEngine) *Reader {
	r := &Reader{
		src:    src,
		engine: engine,
	}
	if s, ok := src.(io.Seeker); ok {
		r.seeker = s
	}

	return r
}

// fill reads exactly n bytes into the scratch array, retrying short reads.
func (r *Reader) fill(n int) error {
	if _, err := io.ReadFull(r.src, r.scratch[:n]); err != nil {
		return mapReadErr(err)
	}

	return nil
}

func mapReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return format.ErrUnexpectedEnd
	}

	return fmt.Errorf("stream read failed: %w", err)
}

// ReadUint8 reads a single unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.fill(1); err != nil {
		return 0, err
	}

	return r.scratch[0], nil
}

// ReadInt8 reads a single signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads a 16-bit unsigned integer.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.fill(2); err != nil {
		return 0, err
	}

	return r.engine.Uint16(r.scratch[:2]), nil
}

// ReadInt16 reads a 16-bit signed integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err //nolint:gosec
}

// ReadUint32 reads a 32-bit unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.fill(4); err != nil {
		return 0, err
	}

	return r.engine.Uint32(r.scratch[:4]), nil
}

// ReadInt32 reads a 32-bit signed integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err //nolint:gosec
}

// ReadUint64 reads a 64-bit unsigned integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.fill(8); err != nil {
		return 0, err
	}

	return r.engine.Uint64(r.scratch[:8]), nil
}

// ReadInt64 reads a 64-bit signed integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err //nolint:gosec
}

// ReadFloat32 reads a 32-bit IEEE 754 value.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a 64-bit IEEE 754 value.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadExact reads exactly n bytes into a freshly allocated slice.
func (r *Reader) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, &format.ValueOutOfRangeError{Detail: fmt.Sprintf("negative read length %d", n)}
	}
	if n == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, mapReadErr(err)
	}

	return buf, nil
}

// ReadFull fills p completely, retrying short reads.
func (r *Reader) ReadFull(p []byte) error {
	if _, err := io.ReadFull(r.src, p); err != nil {
		return mapReadErr(err)
	}

	return nil
}

// Skip advances the stream position by n bytes without retaining the data.
//
// When the underlying stream seeks, the position moves natively. Otherwise the
// bytes are drained through a pooled scratch buffer, at most SkipChunkSize per
// iteration, so skipping a multi-megabyte payload never allocates
// proportionally to the payload. Reaching end-of-stream before n bytes were
// consumed fails with format.ErrUnexpectedEnd.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return &format.ValueOutOfRangeError{Detail: fmt.Sprintf("negative skip length %d", n)}
	}
	if n == 0 {
		return nil
	}

	if r.seeker != nil {
		if _, err := r.seeker.Seek(n, io.SeekCurrent); err != nil {
			return fmt.Errorf("stream seek failed: %w", err)
		}

		return nil
	}

	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)

	chunk := n
	if chunk > SkipChunkSize {
		chunk = SkipChunkSize
	}
	buf.SetLength(int(chunk))

	for n > 0 {
		step := int64(buf.Len())
		if step > n {
			step = n
		}
		if _, err := io.ReadFull(r.src, buf.Bytes()[:step]); err != nil {
			return mapReadErr(err)
		}
		n -= step
	}

	return nil
}
