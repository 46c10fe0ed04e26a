package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibDecompressor handles doctype ZLIB. mebo's own dependency set has no
// zlib codec (its payloads never use one), but klauspost/compress already
// ships a zlib implementation alongside s2 and zstd, so this stays in the
// same family rather than reaching for compress/zlib from the standard
// library (see DESIGN.md).
type ZlibDecompressor struct{}

var _ Decompressor = ZlibDecompressor{}

func (ZlibDecompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compress: zlib: %w", err)
	}
	defer zr.Close()

	var out bytes.Buffer
	if sizeHint > 0 {
		out.Grow(sizeHint)
	}
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, fmt.Errorf("compress: zlib: %w", err)
	}
	return out.Bytes(), nil
}
