// Package region reads and writes Anvil region files: fixed 32x32 grids of
// chunk documents packed into 4096-byte sectors behind a two-sector header.
//
// The header holds 1024 location entries (sector offset and sector count per
// chunk) followed by 1024 modification timestamps. Each chunk record is a
// big-endian int32 length, one compression-scheme byte, and the compressed
// NBT document of the chunk.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/nbt/compress"
	"github.com/arloliu/nbt/endian"
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/stream"
	"github.com/arloliu/nbt/tag"
)

const (
	// Edge is the width of a region in chunks.
	Edge = 32
	// SectorSize is the allocation granularity of the file.
	SectorSize = 4096

	chunkCount     = Edge * Edge
	headerSectors  = 2
	maxChunkSector = 255
)

// ErrNoChunk reports that the requested chunk slot is empty.
var ErrNoChunk = errors.New("chunk not present in region")

func chunkIndex(x, z int) int {
	return (x & (Edge - 1)) + (z&(Edge-1))*Edge
}

// Reader provides random access to the chunks of a region image.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src        io.ReaderAt
	locations  [chunkCount]uint32
	timestamps [chunkCount]uint32
}

// NewReader parses the region header from src. The chunk bodies are read
// lazily on demand.
func NewReader(src io.ReaderAt) (*Reader, error) {
	header := make([]byte, headerSectors*SectorSize)
	if _, err := src.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("region header read failed: %w", err)
	}

	r := &Reader{src: src}
	for i := 0; i < chunkCount; i++ {
		r.locations[i] = binary.BigEndian.Uint32(header[i*4:])
		r.timestamps[i] = binary.BigEndian.Uint32(header[SectorSize+i*4:])
	}

	return r, nil
}

// HasChunk reports whether the slot for chunk (x, z) is occupied. Coordinates
// outside the region wrap; callers pass world chunk coordinates directly.
func (r *Reader) HasChunk(x, z int) bool {
	return r.locations[chunkIndex(x, z)] != 0
}

// Timestamp returns the recorded modification time of chunk (x, z) as seconds
// since the Unix epoch, or 0 for an empty slot.
func (r *Reader) Timestamp(x, z int) uint32 {
	return r.timestamps[chunkIndex(x, z)]
}

// ChunkData returns the decompressed NBT document of chunk (x, z) together
// with the compression scheme it was stored under.
func (r *Reader) ChunkData(x, z int) ([]byte, format.CompressionType, error) {
	loc := r.locations[chunkIndex(x, z)]
	if loc == 0 {
		return nil, 0, ErrNoChunk
	}

	sectorIndex := loc >> 8
	sectorCount := loc & 0xFF

	record := make([]byte, sectorCount*SectorSize)
	if _, err := r.src.ReadAt(record, int64(sectorIndex)*SectorSize); err != nil {
		return nil, 0, fmt.Errorf("chunk record read failed: %w", err)
	}
	if len(record) < 5 {
		return nil, 0, fmt.Errorf("chunk record shorter than its header")
	}

	length := binary.BigEndian.Uint32(record)
	if length < 1 || int(length)+4 > len(record) {
		return nil, 0, fmt.Errorf("chunk record length %d exceeds its %d allocated sectors", length, sectorCount)
	}

	scheme := format.CompressionType(record[4])
	codec, err := compress.GetCodec(scheme)
	if err != nil {
		return nil, 0, err
	}

	payload, err := codec.Decompress(record[5 : 4+length])
	if err != nil {
		return nil, 0, err
	}

	return payload, scheme, nil
}

// ReadChunk decompresses and fully materializes the NBT document of chunk
// (x, z). Chunk roots are named compounds with the canonical empty name.
func (r *Reader) ReadChunk(x, z int) (*tag.Node, error) {
	payload, _, err := r.ChunkData(x, z)
	if err != nil {
		return nil, err
	}

	sr := stream.NewReader(bytes.NewReader(payload), endian.GetBigEndianEngine())

	return tag.ReadRoot(sr, true)
}

type chunkRecord struct {
	data      []byte // payload already compressed under scheme; no record header
	scheme    format.CompressionType
	timestamp uint32
}

// Writer assembles a complete region image in memory and serializes it with
// WriteTo. Slots written twice keep the last value.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	chunks [chunkCount]*chunkRecord
}

// NewWriter creates an empty region writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteChunkData stores an already-encoded NBT document for chunk (x, z),
// compressing it with the given scheme. timestamp records the chunk's
// modification time in seconds since the Unix epoch.
func (w *Writer) WriteChunkData(x, z int, payload []byte, scheme format.CompressionType, timestamp uint32) error {
	codec, err := compress.GetCodec(scheme)
	if err != nil {
		return err
	}

	compressed, err := codec.Compress(payload)
	if err != nil {
		return err
	}

	record := &chunkRecord{data: compressed, scheme: scheme, timestamp: timestamp}
	sectors := recordSectors(len(compressed))
	if sectors > maxChunkSector {
		return fmt.Errorf("chunk (%d, %d) needs %d sectors, limit is %d", x, z, sectors, maxChunkSector)
	}
	if len(compressed)+5 > math.MaxInt32 {
		return fmt.Errorf("chunk (%d, %d) record exceeds int32 length", x, z)
	}

	w.chunks[chunkIndex(x, z)] = record

	return nil
}

// WriteChunk serializes the chunk's tag tree and stores it for (x, z) under
// the given compression scheme.
func (w *Writer) WriteChunk(x, z int, root *tag.Node, scheme format.CompressionType, timestamp uint32) error {
	var buf bytes.Buffer
	sw := stream.NewWriter(&buf, endian.GetBigEndianEngine())
	if err := tag.Write(sw, root, true); err != nil {
		return err
	}

	return w.WriteChunkData(x, z, buf.Bytes(), scheme, timestamp)
}

// recordSectors returns the sector count covering a chunk record holding n
// compressed bytes plus the 5-byte record header.
func recordSectors(n int) int {
	return (n + 5 + SectorSize - 1) / SectorSize
}

// WriteTo serializes the region image: header sectors first, then each
// occupied chunk record padded to its sector boundary, in slot order.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	locations := make([]byte, SectorSize)
	timestamps := make([]byte, SectorSize)
	var body bytes.Buffer

	nextSector := uint32(headerSectors)
	for i, record := range w.chunks {
		if record == nil {
			continue
		}

		sectors := recordSectors(len(record.data))
		binary.BigEndian.PutUint32(locations[i*4:], nextSector<<8|uint32(sectors)) //nolint:gosec
		binary.BigEndian.PutUint32(timestamps[i*4:], record.timestamp)

		var header [5]byte
		binary.BigEndian.PutUint32(header[:4], uint32(len(record.data)+1)) //nolint:gosec
		header[4] = uint8(record.scheme)
		body.Write(header[:])
		body.Write(record.data)

		if pad := sectors*SectorSize - (len(record.data) + 5); pad > 0 {
			body.Write(make([]byte, pad))
		}
		nextSector += uint32(sectors) //nolint:gosec
	}

	var written int64
	for _, block := range [][]byte{locations, timestamps, body.Bytes()} {
		n, err := dst.Write(block)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("region write failed: %w", err)
		}
	}

	return written, nil
}
