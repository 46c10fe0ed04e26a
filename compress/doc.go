// Package compress decompresses Sereal frame bodies. The wire format fixes
// the algorithm per doctype — there is no choice to make at decode time,
// only a dispatch from wire.DocType to the matching Decompressor.
//
// # Overview
//
// A frame header (package header) declares one of four document types:
//
//	RAW    — the body is already the tag stream, no step runs.
//	SNAPPY — Snappy block format, available from protocol 2 on.
//	ZLIB   — zlib (RFC 1950), available from protocol 3 on; the header also
//	         carries the uncompressed size, used as a presizing hint.
//	ZSTD   — Zstandard, available from protocol 4 on.
//
// NewDecompressor(kind) returns the Decompressor for a given doctype; the
// frame orchestrator (package decode) calls it after checking the
// compressed size against config.Config.MaxCompressedSize and, for ZLIB,
// the declared uncompressed size against MaxUncompressedSize, both before
// any allocation sized by those numbers.
//
// # Algorithms
//
//	SNAPPY — github.com/klauspost/compress/s2, which reads the Snappy block
//	         format on the decode side.
//	ZLIB   — github.com/klauspost/compress/zlib, kept in the same dependency
//	         family as s2/zstd rather than the standard library's zlib (see
//	         DESIGN.md).
//	ZSTD   — github.com/klauspost/compress/zstd by default (pure Go, decoder
//	         pooled via sync.Pool); github.com/valyala/gozstd behind the
//	         nobuild tag for an optional cgo/libzstd path.
//
// # Thread Safety
//
// Decompressor implementations are safe for concurrent use; the pure-Go
// Zstd path pools decoders internally rather than creating one per call.
package compress
