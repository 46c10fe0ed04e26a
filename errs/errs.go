// Package errs collects the sentinel and structured error values returned
// across the sereal packages, in the style mebo's own errs package uses for
// its blob codecs: simple sentinels for binary conditions, small structs for
// errors that carry diagnostic fields.
package errs

import (
	"errors"
	"fmt"
)

// Header errors.
var (
	ErrInvalidMagic    = errors.New("sereal: invalid magic bytes")
	ErrInvalidVersion  = errors.New("sereal: unsupported protocol version/magic combination")
	ErrInvalidDocType  = errors.New("sereal: unsupported document type for this protocol version")
	ErrSuffixTooLarge  = errors.New("sereal: suffix length exceeds configured bound")
)

// Byte-level reader errors.
var (
	ErrUnexpectedEOF  = errors.New("sereal: unexpected end of buffer")
	ErrOffsetOverflow = errors.New("sereal: offset does not fit in the platform's address space")
	ErrVarintOverflow = errors.New("sereal: varint exceeds 64 bits")
)

// Parser errors.
var (
	ErrInvalidCopy = errors.New("sereal: nested COPY tag")
	ErrInvalidType = errors.New("sereal: value does not have the required type for this position")
)

// ErrUnknownTag reports a reserved or out-of-scope tag byte.
type ErrUnknownTag struct {
	Tag byte
}

func (e *ErrUnknownTag) Error() string {
	return fmt.Sprintf("sereal: unsupported or reserved tag 0x%02x", e.Tag)
}

// ErrInvalidRef reports a REFP/ALIAS/OBJECTV offset with no tracking entry.
type ErrInvalidRef struct {
	Offset int
}

func (e *ErrInvalidRef) Error() string {
	return fmt.Sprintf("sereal: reference to untracked offset %d", e.Offset)
}

// ErrBodyTooLarge reports a compressed or decompressed body exceeding its configured bound.
type ErrBodyTooLarge struct {
	Size  uint64
	Limit uint64
	Stage string // "compressed" or "uncompressed"
}

func (e *ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("sereal: %s body size %d exceeds limit %d", e.Stage, e.Size, e.Limit)
}

// ErrArrayTooLarge reports an ARRAY/ARRAYREF count exceeding max_array_size.
type ErrArrayTooLarge struct {
	Count uint64
	Limit uint64
}

func (e *ErrArrayTooLarge) Error() string {
	return fmt.Sprintf("sereal: array of %d elements exceeds limit %d", e.Count, e.Limit)
}

// ErrHashTooLarge reports a HASH/HASHREF pair count exceeding max_hash_size.
type ErrHashTooLarge struct {
	Count uint64
	Limit uint64
}

func (e *ErrHashTooLarge) Error() string {
	return fmt.Sprintf("sereal: hash of %d pairs exceeds limit %d", e.Count, e.Limit)
}

// ErrStringTooLarge reports a BINARY/STR_UTF8 length exceeding max_string_len.
type ErrStringTooLarge struct {
	Len   uint64
	Limit uint64
}

func (e *ErrStringTooLarge) Error() string {
	return fmt.Sprintf("sereal: string of %d bytes exceeds limit %d", e.Len, e.Limit)
}
