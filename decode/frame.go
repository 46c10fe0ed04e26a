package decode

import (
	"io"

	"github.com/vickenty/sereal/builder"
	"github.com/vickenty/sereal/compress"
	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/header"
	"github.com/vickenty/sereal/internal/pool"
)

// Frame orchestrates one full decode: read the header, enforce the
// compressed/uncompressed size bounds before touching a decompressor,
// inflate the body, then hand the tag stream to a Parser. Grounded on
// sereal-rs's decoder/src/lib.rs, whose free function parse<R, B> wires the
// same three steps together in sequence.
func Frame[A, H any](r io.Reader, b builder.Builder[A, H], cfg *config.Config) (builder.Value[A, H], header.Header, error) {
	hdr, err := header.Read(r, cfg)
	if err != nil {
		return zero[A, H](), header.Header{}, err
	}

	compressedSize := hdr.DocType.CompressedSize
	if compressedSize > 0 && compressedSize > cfg.MaxCompressedSize() {
		return zero[A, H](), hdr, &errs.ErrBodyTooLarge{Size: compressedSize, Limit: cfg.MaxCompressedSize(), Stage: "compressed"}
	}
	if hdr.DocType.UncompressedSize > cfg.MaxUncompressedSize() {
		return zero[A, H](), hdr, &errs.ErrBodyTooLarge{Size: hdr.DocType.UncompressedSize, Limit: cfg.MaxUncompressedSize(), Stage: "uncompressed"}
	}

	// Compressed bodies route through the same pooled-buffer pattern
	// header.Read uses for its scratch reads, but from the larger-capacity
	// pool: frame bodies routinely run from tens of KiB to low MiB, well
	// past the small pool's retention threshold.
	scratch := pool.GetBodyScratch()
	defer pool.PutBodyScratch(scratch)

	var compressed []byte
	if compressedSize > 0 {
		scratch.Grow(int(compressedSize))
		scratch.SetLength(int(compressedSize))
		if _, err := io.ReadFull(r, scratch.Bytes()); err != nil {
			return zero[A, H](), hdr, errs.ErrUnexpectedEOF
		}
		compressed = scratch.Bytes()
	} else {
		var buf []byte
		buf, err = io.ReadAll(r)
		if err != nil {
			return zero[A, H](), hdr, err
		}
		scratch.MustWrite(buf)
		compressed = scratch.Bytes()
	}

	decomp, err := compress.NewDecompressor(hdr.DocType.Kind)
	if err != nil {
		return zero[A, H](), hdr, err
	}
	body, err := decomp.Decompress(compressed, int(hdr.DocType.UncompressedSize))
	if err != nil {
		return zero[A, H](), hdr, err
	}
	if uint64(len(body)) > cfg.MaxUncompressedSize() {
		return zero[A, H](), hdr, &errs.ErrBodyTooLarge{Size: uint64(len(body)), Limit: cfg.MaxUncompressedSize(), Stage: "uncompressed"}
	}

	p := NewParser(b, cfg, body)
	val, err := p.Parse()
	if err != nil {
		return zero[A, H](), hdr, err
	}
	return val, hdr, nil
}

func zero[A, H any]() builder.Value[A, H] {
	var v builder.Value[A, H]
	return v
}
