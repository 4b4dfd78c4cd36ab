// Package codec implements the primitive big-endian fixed-width
// encoders/decoders the rest of the engine builds page and tuple
// layouts out of: unsigned 16-bit and signed 32-bit integers, 32-bit
// floats, and length-prefixed byte strings.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/carloshernandez2/clj-db/internal/dberr"
)

var endian = binary.BigEndian

// MaxStringLen is the contract spec.md places on STRING values: the
// length prefix is a single byte, so longer strings cannot round-trip.
const MaxStringLen = 255

// U16Size, I32Size, F32Size are the encoded widths of the matching
// fixed types, in bytes.
const (
	U16Size = 2
	I32Size = 4
	F32Size = 4
)

func EncodeU16(v uint16) []byte {
	out := make([]byte, U16Size)
	endian.PutUint16(out, v)
	return out
}

func DecodeU16(b []byte) (uint16, error) {
	if len(b) < U16Size {
		return 0, dberr.CorruptPage("u16: need %d bytes, got %d", U16Size, len(b))
	}
	return endian.Uint16(b), nil
}

func EncodeI32(v int32) []byte {
	out := make([]byte, I32Size)
	endian.PutUint32(out, uint32(v))
	return out
}

func DecodeI32(b []byte) (int32, error) {
	if len(b) < I32Size {
		return 0, dberr.CorruptPage("i32: need %d bytes, got %d", I32Size, len(b))
	}
	return int32(endian.Uint32(b)), nil
}

func EncodeF32(v float32) []byte {
	out := make([]byte, F32Size)
	endian.PutUint32(out, math.Float32bits(v))
	return out
}

func DecodeF32(b []byte) (float32, error) {
	if len(b) < F32Size {
		return 0, dberr.CorruptPage("f32: need %d bytes, got %d", F32Size, len(b))
	}
	return math.Float32frombits(endian.Uint32(b)), nil
}

// EncodeString emits a u8 length prefix followed by the UTF-8 bytes
// of s. Callers must ensure len(s) <= MaxStringLen; EncodeString does
// not itself validate (tuple.ParseString and tuple.Value.Encode do).
func EncodeString(s string) []byte {
	out := make([]byte, 1+len(s))
	out[0] = byte(len(s))
	copy(out[1:], s)
	return out
}

// DecodeString reads a u8-length-prefixed string from the front of b,
// returning the string and the number of bytes consumed.
func DecodeString(b []byte) (string, int, error) {
	if len(b) < 1 {
		return "", 0, dberr.CorruptPage("string: missing length prefix")
	}
	n := int(b[0])
	if len(b) < 1+n {
		return "", 0, dberr.CorruptPage("string: need %d bytes, got %d", 1+n, len(b))
	}
	return string(b[1 : 1+n]), 1 + n, nil
}
