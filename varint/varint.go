// Package varint implements Sereal's LEB128-style unsigned varints and their
// zig-zag signed encoding. Ported from the byte-at-a-time loop in
// sereal-rs's decoder/src/varint.rs; a stdlib binary.Uvarint cannot
// distinguish "ran out of buffer" from "10th byte still has its
// continuation bit set", which the wire format's VarintOverflow error needs
// to tell apart, so this package hand-rolls the loop instead of reusing
// encoding/binary (see DESIGN.md).
package varint

import "github.com/vickenty/sereal/errs"

// maxVarintBytes is the most bytes a 64-bit unsigned varint can take: 9
// bytes of 7 bits each covers 63 bits, the 10th byte supplies the final bit
// with no room for a continuation bit to remain set.
const maxVarintBytes = 10

// Parse decodes an unsigned LEB128 varint from the front of buf and returns
// the value and the number of bytes consumed.
func Parse(buf []byte) (uint64, int, error) {
	var a uint64
	var o uint

	for i, b := range buf {
		a |= uint64(b&0x7f) << (o * 7)
		o++

		if b&0x80 == 0 {
			return a, i + 1, nil
		}

		if o >= maxVarintBytes {
			return 0, 0, errs.ErrVarintOverflow
		}
	}

	return 0, 0, errs.ErrUnexpectedEOF
}

// straighten undoes zig-zag encoding: even values map to non-negative
// numbers, odd values to negative ones.
func straighten(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// ParseZigzag decodes a zig-zag encoded signed varint, returning the value
// and bytes consumed.
func ParseZigzag(buf []byte) (int64, int, error) {
	v, n, err := Parse(buf)
	if err != nil {
		return 0, 0, err
	}
	return straighten(v), n, nil
}

// Encode appends the unsigned LEB128 encoding of v to dst and returns the
// extended slice. Used only by tests to build wire fixtures; the decoder
// itself never encodes.
func Encode(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// EncodeZigzag appends the zig-zag + LEB128 encoding of v to dst.
func EncodeZigzag(dst []byte, v int64) []byte {
	uv := uint64(v<<1) ^ uint64(v>>63)
	return Encode(dst, uv)
}
