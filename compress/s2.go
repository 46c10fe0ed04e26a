package compress

import "github.com/klauspost/compress/s2"

// SnappyDecompressor handles doctype SNAPPY. Sereal's SNAPPY bodies are
// plain Snappy block-format data (no frame/stream envelope); s2.Decode
// reads that exact block format since S2 is wire-compatible with it on the
// decode side, the same library mebo's S2Compressor uses for its own
// columnar payloads.
type SnappyDecompressor struct{}

var _ Decompressor = SnappyDecompressor{}

func (SnappyDecompressor) Decompress(data []byte, _ int) ([]byte, error) {
	return s2.Decode(nil, data)
}
