// Package endian provides byte order utilities for binary encoding and decoding.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine interface.
//
// NBT is a big-endian wire format, so every codec layer obtains its engine
// from GetBigEndianEngine():
//
//	import "github.com/arloliu/nbt/endian"
//
//	engine := endian.GetBigEndianEngine()
//	r := stream.NewReader(src, engine)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.BigEndian from the standard library,
// making it fully compatible with existing Go code while providing access to
// both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine used by the NBT wire format.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
