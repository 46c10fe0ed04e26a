package compress

// RawDecompressor handles doctype RAW: the body is already the tag stream,
// no decompression step runs.
type RawDecompressor struct{}

var _ Decompressor = RawDecompressor{}

// Decompress returns data unchanged; the returned slice aliases data.
func (RawDecompressor) Decompress(data []byte, _ int) ([]byte, error) {
	return data, nil
}
