package compress

// ZstdDecompressor handles doctype ZSTD (protocol 4 only). Decompress is
// implemented in zstd_pure.go for the default pure-Go build and in
// zstd_cgo.go for the optional cgo build, mirroring how mebo keeps its own
// ZstdCompressor's method bodies split by build tag.
type ZstdDecompressor struct{}

var _ Decompressor = ZstdDecompressor{}
