// Package reader provides the zero-copy cursor the body parser reads
// through: a borrowed byte slice plus a position, with tag, fixed-width
// float, varint, and byte-slice operations. Ported from sereal-rs's
// decoder/src/reader.rs, in the fixed-struct-plus-methods idiom
// section.NumericHeader uses for its own byte-offset reads.
package reader

import (
	"encoding/binary"
	"math"

	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/varint"
	"github.com/vickenty/sereal/wire"
)

// Reader is a cursor over a borrowed, immutable byte buffer.
type Reader struct {
	buf []byte
	pos int
}

// New wraps buf in a Reader positioned at offset 0.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadTag returns the next non-PAD byte and advances past it. PAD bytes
// (0x3F, ignoring the track bit) are silently skipped.
func (r *Reader) ReadTag() (wire.Tag, error) {
	for {
		if r.pos >= len(r.buf) {
			return 0, errs.ErrUnexpectedEOF
		}
		b := r.buf[r.pos]
		r.pos++
		if wire.Tag(b)&wire.TypeMask != wire.Pad {
			return wire.Tag(b), nil
		}
	}
}

// ReadF32 reads a little-endian IEEE-754 single-precision float.
func (r *Reader) ReadF32() (float32, error) {
	if len(r.buf)-r.pos < 4 {
		return 0, errs.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

// ReadF64 reads a little-endian IEEE-754 double-precision float.
func (r *Reader) ReadF64() (float64, error) {
	if len(r.buf)-r.pos < 8 {
		return 0, errs.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadVarint reads an unsigned LEB128 varint and advances past it.
func (r *Reader) ReadVarint() (uint64, error) {
	v, n, err := varint.Parse(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// ReadZigzag reads a zig-zag encoded signed varint and advances past it.
func (r *Reader) ReadZigzag() (int64, error) {
	v, n, err := varint.ParseZigzag(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// ReadVarlen reads a varint and converts it to an int offset/length,
// failing with ErrOffsetOverflow if it would not fit.
func (r *Reader) ReadVarlen() (int, error) {
	v, err := r.ReadVarint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt {
		return 0, errs.ErrOffsetOverflow
	}
	return int(v), nil
}

// ReadBytes returns a borrowed slice of length n and advances past it. The
// returned slice aliases the underlying buffer; no copy is made.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > math.MaxInt-r.pos {
		return nil, errs.ErrOffsetOverflow
	}
	end := r.pos + n
	if end > len(r.buf) {
		return nil, errs.ErrUnexpectedEOF
	}
	b := r.buf[r.pos:end]
	r.pos = end
	return b, nil
}

// Pos reports the current cursor position.
func (r *Reader) Pos() int { return r.pos }

// SetPos assigns the cursor and returns its previous value, used by COPY
// save/restore.
func (r *Reader) SetPos(p int) int {
	old := r.pos
	r.pos = p
	return old
}

// Len reports the total buffer length.
func (r *Reader) Len() int { return len(r.buf) }
