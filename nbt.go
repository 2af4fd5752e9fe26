// Package nbt reads and writes the Named Binary Tag format: the big-endian,
// self-describing tagged binary tree used by Minecraft save files.
//
// # Core Features
//
//   - Full tag tree materialization and byte-exact re-serialization
//   - Filtered streaming reads that skip unwanted subtrees without allocating
//   - Lossless XML materialization of tag trees
//   - JVM Modified UTF-8 string codec (NUL as C0 80, CESU-8 surrogate pairs)
//   - Transparent gzip detection on seekable inputs
//   - Region-file access with per-chunk compression schemes
//
// # Basic Usage
//
// Reading a save file:
//
//	f, _ := os.Open("level.dat")
//	r, err := nbt.NewReader(f, nbt.Auto)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	root, err := r.ReadTree(true)
//
// Streaming just one value out of a large document:
//
//	sc := r.Scan(scan.AbsolutePath("", "Data", "LevelName"), true)
//	for sc.Scan() {
//	    fmt.Println(sc.Node().Str)
//	}
//	if err := sc.Err(); err != nil {
//	    return err
//	}
//
// Writing:
//
//	w := nbt.NewWriter(f, true)
//	if err := w.WriteTree(root, ""); err != nil {
//	    return err
//	}
//	w.Close()
//
// # Package Structure
//
// This package provides the document-level wrappers. The underlying layers are
// exposed for direct use: tag (tree model and codec), scan (filtered
// streaming), xmlcodec (XML bridge), mutf8 (string codec), stream (primitive
// layer), region and compress (chunk storage).
package nbt

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/arloliu/nbt/endian"
	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/scan"
	"github.com/arloliu/nbt/stream"
	"github.com/arloliu/nbt/tag"
	"github.com/arloliu/nbt/xmlcodec"
)

// Compression selects the document framing of a Reader.
type Compression int

const (
	// Auto probes the first two bytes for the gzip magic and rewinds; it
	// requires a seekable source.
	Auto Compression = iota
	// Uncompressed reads the stream as raw NBT.
	Uncompressed
	// Gzip unconditionally decompresses the stream.
	Gzip
)

var gzipMagic = [2]byte{0x1F, 0x8B}

// ErrNotSeekable reports that Auto framing was requested on a source that
// cannot rewind after the magic probe.
var ErrNotSeekable = errors.New("gzip auto-detection requires a seekable source")

// Reader decodes NBT documents from a byte stream. It owns the stream for its
// lifetime; Close releases it (and the gzip wrapper, when one was installed).
//
// A Reader is not safe for concurrent use.
type Reader struct {
	raw    io.Reader
	gz     *gzip.Reader
	sr     *stream.Reader
	closed bool
}

// NewReader opens a document reader over src with the given framing.
func NewReader(src io.Reader, mode Compression) (*Reader, error) {
	r := &Reader{raw: src}

	useGzip := mode == Gzip
	if mode == Auto {
		compressed, err := sniffGzip(src)
		if err != nil {
			return nil, err
		}
		useGzip = compressed
	}

	in := src
	if useGzip {
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("gzip stream open failed: %w", err)
		}
		r.gz = gz
		in = gz
	}

	r.sr = stream.NewReader(in, endian.GetBigEndianEngine())

	return r, nil
}

// sniffGzip peeks two bytes and restores the original stream position.
func sniffGzip(src io.Reader) (bool, error) {
	rs, ok := src.(io.Seeker)
	if !ok {
		return false, ErrNotSeekable
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, fmt.Errorf("gzip probe failed: %w", err)
	}

	var magic [2]byte
	n, err := io.ReadFull(src, magic[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("gzip probe failed: %w", err)
	}

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return false, fmt.Errorf("gzip probe rewind failed: %w", err)
	}

	return n == 2 && magic == gzipMagic, nil
}

// ReadTree fully materializes the document. When hasName is set the root
// header carries a name (file framing); network-embedded documents pass false.
func (r *Reader) ReadTree(hasName bool) (*tag.Node, error) {
	return tag.ReadRoot(r.sr, hasName)
}

// ReadXML materializes the document as an XML element tree and reports the
// root tag kind.
func (r *Reader) ReadXML(hasName bool) (*xmlcodec.Element, format.TagID, error) {
	root, err := r.ReadTree(hasName)
	if err != nil {
		return nil, 0, err
	}

	el, err := xmlcodec.FromNode(root, hasName)
	if err != nil {
		return nil, 0, err
	}

	return el, root.Kind, nil
}

// Scan returns a filtered streaming scanner over the document. The scanner
// shares the reader's stream; interleaving Scan with other reads on the same
// Reader corrupts both.
func (r *Reader) Scan(filter scan.Filter, hasName bool) *scan.Scanner {
	return scan.NewScanner(r.sr, filter, hasName)
}

// Close releases the gzip wrapper and the underlying stream when it is an
// io.Closer. Double-close is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.gz != nil {
		err = r.gz.Close()
	}
	if c, ok := r.raw.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// Writer encodes NBT documents to a byte stream, optionally gzip-compressed.
// Close flushes the compressor; skipping it truncates compressed output.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	raw    io.Writer
	gz     *gzip.Writer
	sw     *stream.Writer
	closed bool
}

// NewWriter opens a document writer over dst. When compressed is set the
// output is wrapped in a gzip stream.
func NewWriter(dst io.Writer, compressed bool) *Writer {
	w := &Writer{raw: dst}

	out := dst
	if compressed {
		w.gz = gzip.NewWriter(dst)
		out = w.gz
	}
	w.sw = stream.NewWriter(out, endian.GetBigEndianEngine())

	return w
}

// WriteTree serializes a document rooted at root. The wire name of the root is
// name, regardless of root.Name; the canonical root name is the empty string.
func (w *Writer) WriteTree(root *tag.Node, name string) error {
	if root == nil || root.Kind == format.TagEnd || !root.Kind.Valid() {
		kind := uint8(0)
		if root != nil {
			kind = uint8(root.Kind)
		}

		return &format.InvalidTagKindError{Kind: kind}
	}

	if err := w.sw.WriteUint8(uint8(root.Kind)); err != nil {
		return err
	}
	if err := tag.WriteString(w.sw, name); err != nil {
		return err
	}

	return tag.WritePayload(w.sw, root)
}

// WriteXML converts an XML element tree back to tags and serializes it. The
// root element's Name attribute becomes the wire name.
func (w *Writer) WriteXML(el *xmlcodec.Element) error {
	root, err := xmlcodec.ToNode(el)
	if err != nil {
		return err
	}

	return w.WriteTree(root, root.Name)
}

// Close flushes and releases the gzip wrapper and closes the underlying sink
// when it is an io.Closer. Double-close is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.gz != nil {
		err = w.gz.Close()
	}
	if c, ok := w.raw.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}

	return err
}
