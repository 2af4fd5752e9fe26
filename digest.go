package nbt

import (
	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/nbt/endian"
	"github.com/arloliu/nbt/stream"
	"github.com/arloliu/nbt/tag"
)

// Digest computes the 64-bit xxHash of a tree's canonical uncompressed
// encoding, with the root name excluded. Two trees digest equally iff their
// nameless serializations are identical bytes, independent of the framing or
// compression they were loaded from, which makes the digest usable for
// save-file change detection and chunk deduplication.
func Digest(root *tag.Node) (uint64, error) {
	h := xxhash.New()
	w := stream.NewWriter(h, endian.GetBigEndianEngine())

	if err := tag.Write(w, root, false); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}
