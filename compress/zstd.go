package compress

// ZstdCompressor implements the Zstandard chunk scheme (region compression
// type 5, used by archival tooling).
//
// Two implementations exist: the default pure-Go one backed by
// klauspost/compress, and a cgo one backed by valyala/gozstd selected with the
// nobuild build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
