//go:build !nobuild

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation
// overhead. klauspost/compress/zstd is explicitly designed for decoder
// reuse: "The decoder has been designed to operate without allocations
// after a warmup."
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// Decompress decompresses Zstd-compressed data using a pooled decoder.
func (c ZstdDecompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	var dst []byte
	if sizeHint > 0 {
		dst = make([]byte, 0, sizeHint)
	}

	decompressed, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: %w", err)
	}

	return decompressed, nil
}
