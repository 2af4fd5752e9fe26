// Package mutf8 implements the JVM Modified UTF-8 text codec used by the NBT
// wire format.
//
// Modified UTF-8 differs from standard UTF-8 in two ways:
//
//   - U+0000 is encoded as the two-byte sequence C0 80, never as a single zero
//     byte.
//   - Code points above the Basic Multilingual Plane are represented as a
//     UTF-16 surrogate pair with each half encoded independently as a
//     three-byte sequence (CESU-8), producing six bytes total.
//
// Standard UTF-8 routines silently produce wrong output for both cases, so
// this codec is implemented directly and must be used for every string that
// crosses the wire.
package mutf8

import (
	"fmt"
	"unicode/utf16"

	"github.com/arloliu/nbt/format"
)

// surrSelf is the first code point that needs surrogate decomposition.
const surrSelf = 0x10000

// EncodedLen returns the number of bytes Encode produces for s without
// allocating. Writers use it to validate the uint16 length prefix before
// serializing.
func EncodedLen(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < surrSelf:
			n += 3
		default:
			n += 6
		}
	}

	return n
}

// Encode converts s to its Modified UTF-8 byte sequence.
func Encode(s string) []byte {
	return AppendEncode(make([]byte, 0, EncodedLen(s)), s)
}

// AppendEncode appends the Modified UTF-8 encoding of s to dst and returns the
// extended slice.
func AppendEncode(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == 0:
			// The JVM modification: NUL is never a bare zero byte.
			dst = append(dst, 0xC0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < surrSelf:
			dst = appendUnit(dst, uint16(r)) //nolint:gosec
		default:
			// Supra-BMP: decompose into a surrogate pair, each half encoded
			// as an independent three-byte sequence.
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnit(dst, uint16(hi)) //nolint:gosec
			dst = appendUnit(dst, uint16(lo)) //nolint:gosec
		}
	}

	return dst
}

// EncodeUnits converts a UTF-16 code unit sequence to Modified UTF-8. Unpaired
// surrogate halves are encoded as-is, mirroring the decoder.
func EncodeUnits(units []uint16) []byte {
	dst := make([]byte, 0, len(units)*3)
	for _, u := range units {
		switch {
		case u == 0:
			dst = append(dst, 0xC0, 0x80)
		case u < 0x80:
			dst = append(dst, byte(u))
		case u < 0x800:
			dst = append(dst, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			dst = appendUnit(dst, u)
		}
	}

	return dst
}

func appendUnit(dst []byte, u uint16) []byte {
	return append(dst, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
}

// Decode converts a Modified UTF-8 byte sequence to a Go string. Surrogate
// pairs decoded from three-byte sequences are recombined into their
// supplementary code point.
func Decode(b []byte) (string, error) {
	units, err := DecodeUnits(b)
	if err != nil {
		return "", err
	}

	return string(utf16.Decode(units)), nil
}

// DecodeUnits converts a Modified UTF-8 byte sequence to UTF-16 code units.
//
// The decoder rejects bad continuation bytes, truncated sequences, unknown
// leading bytes, and overlong forms (with the single exception of C0 80 for
// NUL). Surrogate halves are emitted as-is; pairing is not validated.
func DecodeUnits(b []byte) ([]uint16, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		b0 := b[i]
		switch {
		case b0 < 0x80:
			units = append(units, uint16(b0))
			i++
		case b0&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return nil, &format.EncodingError{Detail: "truncated 2-byte sequence"}
			}
			b1 := b[i+1]
			if b1&0xC0 != 0x80 {
				return nil, &format.EncodingError{Detail: fmt.Sprintf("bad continuation byte 0x%02x", b1)}
			}
			u := uint16(b0&0x1F)<<6 | uint16(b1&0x3F)
			if u < 0x80 && !(b0 == 0xC0 && b1 == 0x80) {
				return nil, &format.EncodingError{Detail: fmt.Sprintf("overlong 2-byte sequence 0x%02x 0x%02x", b0, b1)}
			}
			units = append(units, u)
			i += 2
		case b0&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return nil, &format.EncodingError{Detail: "truncated 3-byte sequence"}
			}
			b1, b2 := b[i+1], b[i+2]
			if b1&0xC0 != 0x80 {
				return nil, &format.EncodingError{Detail: fmt.Sprintf("bad continuation byte 0x%02x", b1)}
			}
			if b2&0xC0 != 0x80 {
				return nil, &format.EncodingError{Detail: fmt.Sprintf("bad continuation byte 0x%02x", b2)}
			}
			u := uint16(b0&0x0F)<<12 | uint16(b1&0x3F)<<6 | uint16(b2&0x3F)
			if u < 0x800 {
				return nil, &format.EncodingError{Detail: fmt.Sprintf("overlong 3-byte sequence 0x%02x 0x%02x 0x%02x", b0, b1, b2)}
			}
			units = append(units, u)
			i += 3
		default:
			return nil, &format.EncodingError{Detail: fmt.Sprintf("bad leading byte 0x%02x", b0)}
		}
	}

	return units, nil
}
