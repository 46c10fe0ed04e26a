// Package sereal decodes the Sereal binary serialization format (protocol
// versions 2 through 4): frame header, optional Snappy/Zlib/Zstd body
// compression, and the tag-driven value graph beneath it, including
// structural sharing via REFP/ALIAS/COPY/WEAKEN.
//
// This package is a thin top-level wrapper around decode, header, and tree,
// the way mebo's own root package wraps blob for the common case. DecodeWith
// takes custom resource bounds and DecodeHeader reads just the frame header;
// for a different Builder backend, or the parsed frame header together with
// the decoded value, use those packages directly.
//
// # Basic Usage
//
//	value, err := sereal.Decode(buf)
//	if err != nil {
//	    // buf was not a valid Sereal document, or exceeded a resource bound
//	}
//
// Encoding, cross-document string/class-name dictionaries
// (PACKET_START/MANY/EXTEND), LONG_DOUBLE, and the five reserved tags are
// out of scope — see DESIGN.md.
package sereal

import (
	"bytes"
	"io"

	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/decode"
	"github.com/vickenty/sereal/header"
	"github.com/vickenty/sereal/internal/options"
	"github.com/vickenty/sereal/tree"
)

// Value is the decoded tree cell type Decode returns.
type Value = tree.Value

// Decode parses buf as a complete Sereal document using the default
// resource bounds and the owned-tree Builder backend.
func Decode(buf []byte) (Value, error) {
	return DecodeWith(buf, config.Default())
}

// DecodeWith parses buf using cfg's resource bounds.
func DecodeWith(buf []byte, cfg *config.Config) (Value, error) {
	val, _, err := decode.Frame[tree.Array, tree.Hash](bytes.NewReader(buf), tree.Builder{}, cfg)
	return val, err
}

// DecodeHeader parses just buf's frame header, without touching the body —
// useful for inspecting a document's protocol version, document type, or
// user metadata without paying for a full parse.
func DecodeHeader(buf []byte, opts ...options.Option[*config.Config]) (header.Header, error) {
	cfg, err := config.New(opts...)
	if err != nil {
		return header.Header{}, err
	}
	return header.Read(bytes.NewReader(buf), cfg)
}

// Dump writes a debug representation of a decoded value graph to w, marking
// a cell already visited in this print as "<loop>" — covering both true
// cycles and plain structural sharing, since the two are indistinguishable
// from the value graph alone.
func Dump(w io.Writer, v Value) {
	v.(*tree.Handle).Dump(w)
}
