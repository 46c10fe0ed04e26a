//go:build nobuild

package compress

import (
	"github.com/valyala/gozstd"
)

// Decompress decompresses Zstd-compressed data via libzstd. Disabled by the
// nobuild tag: a cgo toolchain and libzstd are not assumed present, so the
// pure-Go path in zstd_pure.go is what actually ships; this file documents
// the cgo alternative mebo itself offers behind the same build tag.
func (c ZstdDecompressor) Decompress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
