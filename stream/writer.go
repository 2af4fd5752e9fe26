package stream

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/nbt/endian"
)

// Writer encodes fixed-width primitives to an io.Writer.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	dst     io.Writer
	engine  endian.EndianEngine
	scratch [8]byte
}

// NewWriter creates a primitive writer over dst using the given byte order.
// The NBT wire format is big-endian; pass endian.GetBigEndianEngine().
func NewWriter(dst io.Writer, engine endian.EndianEngine) *Writer {
	return &Writer{
		dst:    dst,
		engine: engine,
	}
}

func (w *Writer) emit(n int) error {
	if _, err := w.dst.Write(w.scratch[:n]); err != nil {
		return fmt.Errorf("stream write failed: %w", err)
	}

	return nil
}

// WriteUint8 writes a single unsigned byte.
func (w *Writer) WriteUint8(v uint8) error {
	w.scratch[0] = v
	return w.emit(1)
}

// WriteInt8 writes a single signed byte.
func (w *Writer) WriteInt8(v int8) error {
	return w.WriteUint8(uint8(v))
}

// WriteUint16 writes a 16-bit unsigned integer.
func (w *Writer) WriteUint16(v uint16) error {
	w.engine.PutUint16(w.scratch[:2], v)
	return w.emit(2)
}

// WriteInt16 writes a 16-bit signed integer.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v)) //nolint:gosec
}

// WriteUint32 writes a 32-bit unsigned integer.
func (w *Writer) WriteUint32(v uint32) error {
	w.engine.PutUint32(w.scratch[:4], v)
	return w.emit(4)
}

// WriteInt32 writes a 32-bit signed integer.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v)) //nolint:gosec
}

// WriteUint64 writes a 64-bit unsigned integer.
func (w *Writer) WriteUint64(v uint64) error {
	w.engine.PutUint64(w.scratch[:8], v)
	return w.emit(8)
}

// WriteInt64 writes a 64-bit signed integer.
func (w *Writer) WriteInt64(v int64) error {
	return w.WriteUint64(uint64(v)) //nolint:gosec
}

// WriteFloat32 writes a 32-bit IEEE 754 value.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes a 64-bit IEEE 754 value.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// WriteBytes writes p verbatim.
func (w *Writer) WriteBytes(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := w.dst.Write(p); err != nil {
		return fmt.Errorf("stream write failed: %w", err)
	}

	return nil
}
