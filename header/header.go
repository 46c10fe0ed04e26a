// Package header parses the Sereal frame header: magic, protocol version,
// document type, and the optional user-metadata suffix. Grounded on
// sereal-rs's decoder/src/header.rs, reworked into the fixed-fields-plus-
// Parse(data)-method idiom section.NumericHeader uses for mebo's blob
// header, including reuse of the pooled scratch buffer
// internal/pool.ByteBuffer gives mebo's encoders for staging writes.
package header

import (
	"encoding/binary"
	"io"

	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/internal/pool"
	"github.com/vickenty/sereal/wire"
)

// DocumentType is the fully-parsed doctype of a frame, carrying whichever
// size fields that doctype's size-header declares.
type DocumentType struct {
	Kind               wire.DocType
	CompressedSize     uint64 // Snappy, Zlib, Zstd
	UncompressedSize   uint64 // Zlib only
}

// Header is the parsed result of reading a frame's fixed preamble.
type Header struct {
	Proto        wire.Proto
	DocType      DocumentType
	UserMetadata []byte // nil unless OPT_USER_METADATA was set
}

// Read parses a frame header from r. It consumes exactly the header bytes
// (magic through the size-header) and leaves r positioned at the start of
// the (possibly compressed) body.
func Read(r io.Reader, cfg *config.Config) (Header, error) {
	var magicBuf [4]byte
	if _, err := io.ReadFull(r, magicBuf[:]); err != nil {
		return Header{}, eofOr(err, errs.ErrInvalidMagic)
	}
	magic := wire.Magic(binary.LittleEndian.Uint32(magicBuf[:]))
	if magic != wire.MagicV1 && magic != wire.MagicV3 {
		return Header{}, errs.ErrInvalidMagic
	}

	var verTypeBuf [1]byte
	if _, err := io.ReadFull(r, verTypeBuf[:]); err != nil {
		return Header{}, eofOr(err, errs.ErrInvalidVersion)
	}
	verType := verTypeBuf[0]

	proto := wire.Proto(verType & 0x0f)
	switch {
	case proto == wire.ProtoV2 && magic == wire.MagicV1:
	case proto == wire.ProtoV3 && magic == wire.MagicV3:
	case proto == wire.ProtoV4 && magic == wire.MagicV3:
	default:
		return Header{}, errs.ErrInvalidVersion
	}

	suffixLen, err := readVarint(r)
	if err != nil {
		return Header{}, err
	}
	if suffixLen > cfg.MaxSuffixLen() {
		return Header{}, errs.ErrSuffixTooLarge
	}

	var meta []byte
	if suffixLen > 0 {
		var flagsBuf [1]byte
		if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
			return Header{}, eofOr(err, errs.ErrUnexpectedEOF)
		}
		flags := flagsBuf[0]
		size := suffixLen - 1

		scratch := pool.GetHeaderScratch()
		defer pool.PutHeaderScratch(scratch)
		scratch.ExtendOrGrow(int(size))
		if _, err := io.ReadFull(r, scratch.Bytes()); err != nil {
			return Header{}, eofOr(err, errs.ErrUnexpectedEOF)
		}

		if flags&wire.OptUserMetadata != 0 {
			meta = append([]byte(nil), scratch.Bytes()...)
		}
	}

	kind := wire.DocType((verType & 0xf0) >> 4)
	doctype, err := readDocType(r, kind, proto)
	if err != nil {
		return Header{}, err
	}

	return Header{
		Proto:        proto,
		DocType:      doctype,
		UserMetadata: meta,
	}, nil
}

func readDocType(r io.Reader, kind wire.DocType, proto wire.Proto) (DocumentType, error) {
	switch {
	case kind == wire.DocTypeRaw:
		return DocumentType{Kind: kind}, nil

	case kind == wire.DocTypeSnappy && proto >= wire.ProtoV2:
		size, err := readVarint(r)
		if err != nil {
			return DocumentType{}, err
		}
		return DocumentType{Kind: kind, CompressedSize: size}, nil

	case kind == wire.DocTypeZlib && proto >= wire.ProtoV3:
		uncompressed, err := readVarint(r)
		if err != nil {
			return DocumentType{}, err
		}
		compressed, err := readVarint(r)
		if err != nil {
			return DocumentType{}, err
		}
		return DocumentType{Kind: kind, UncompressedSize: uncompressed, CompressedSize: compressed}, nil

	case kind == wire.DocTypeZstd && proto >= wire.ProtoV4:
		size, err := readVarint(r)
		if err != nil {
			return DocumentType{}, err
		}
		return DocumentType{Kind: kind, CompressedSize: size}, nil

	default:
		return DocumentType{}, errs.ErrInvalidDocType
	}
}

// readVarint reads a varint one byte at a time from an io.Reader (the
// header is read before the body buffer exists, so there is no slice to
// hand varint.Parse).
func readVarint(r io.Reader) (uint64, error) {
	var a uint64
	var o uint
	var b [1]byte

	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, eofOr(err, errs.ErrUnexpectedEOF)
		}
		a |= uint64(b[0]&0x7f) << o
		if b[0]&0x80 == 0 {
			return a, nil
		}
		o += 7
		if o >= 64 {
			return 0, errs.ErrVarintOverflow
		}
	}
}

func eofOr(err, fallback error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fallback
	}
	return err
}
