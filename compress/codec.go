// Package compress adapts Sereal's four body doctypes (RAW, SNAPPY, ZLIB,
// ZSTD) onto mebo's Compressor/Decompressor/Codec interface family and
// factory-function idiom (compress/codec.go), keeping the pluggable-codec
// shape but binding it to the wire format's fixed doctype enum instead of
// mebo's configurable CompressionType.
package compress

import (
	"fmt"

	"github.com/vickenty/sereal/wire"
)

// Decompressor inflates a compressed body back to its original bytes.
//
// sizeHint, when > 0, is the uncompressed size declared by the frame header
// (always known for ZLIB; 0 for SNAPPY/ZSTD, which are self-describing) and
// is used only to presize the output buffer.
type Decompressor interface {
	Decompress(data []byte, sizeHint int) ([]byte, error)
}

// NewDecompressor returns the Decompressor for the given doctype.
func NewDecompressor(kind wire.DocType) (Decompressor, error) {
	switch kind {
	case wire.DocTypeRaw:
		return RawDecompressor{}, nil
	case wire.DocTypeSnappy:
		return SnappyDecompressor{}, nil
	case wire.DocTypeZlib:
		return ZlibDecompressor{}, nil
	case wire.DocTypeZstd:
		return ZstdDecompressor{}, nil
	default:
		return nil, fmt.Errorf("compress: unsupported document type %s", kind)
	}
}
