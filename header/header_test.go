package header_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/header"
	"github.com/vickenty/sereal/wire"
)

func read(t *testing.T, s []byte) (header.Header, error) {
	t.Helper()
	return header.Read(bytes.NewReader(s), config.Default())
}

func TestInvalidMagic(t *testing.T) {
	_, err := read(t, []byte("=mrl"))
	assert.ErrorIs(t, err, errs.ErrInvalidMagic)

	_, err = read(t, []byte("=srf"))
	assert.ErrorIs(t, err, errs.ErrInvalidMagic)
}

func TestInvalidVersion(t *testing.T) {
	cases := [][]byte{
		{'=', 's', 'r', 'l', 0x00, 0x00},
		{'=', 's', 'r', 'l', 0x01, 0x00},
		{'=', 's', 'r', 'l', 0x03, 0x00},
		{'=', 's', 'r', 'l', 0x04, 0x00},
		{'=', 0xf3, 'r', 'l', 0x00, 0x00},
		{'=', 0xf3, 'r', 'l', 0x01, 0x00},
		{'=', 0xf3, 'r', 'l', 0x02, 0x00},
	}
	for _, c := range cases {
		_, err := read(t, c)
		assert.ErrorIs(t, err, errs.ErrInvalidVersion)
	}
}

func TestInvalidDocType(t *testing.T) {
	cases := [][]byte{
		{'=', 's', 'r', 'l', 0x12, 0x00},
		{'=', 0xf3, 'r', 'l', 0x13, 0x00},
		{'=', 0xf3, 'r', 'l', 0x14, 0x00},
		{'=', 's', 'r', 'l', 0x32, 0x00},
		{'=', 0xf3, 'r', 'l', 0x43, 0x00},
		{'=', 0xf3, 'r', 'l', 0x54, 0x00},
	}
	for _, c := range cases {
		_, err := read(t, c)
		assert.ErrorIs(t, err, errs.ErrInvalidDocType)
	}
}

func TestVersion2(t *testing.T) {
	h, err := read(t, []byte{'=', 's', 'r', 'l', 0x02, 0x00})
	require.NoError(t, err)
	assert.Equal(t, wire.ProtoV2, h.Proto)
	assert.Equal(t, wire.DocTypeRaw, h.DocType.Kind)
	assert.Nil(t, h.UserMetadata)

	h, err = read(t, []byte{'=', 's', 'r', 'l', 0x22, 0x02, 0x01, 0x00, 0x0a})
	require.NoError(t, err)
	assert.Equal(t, wire.DocTypeSnappy, h.DocType.Kind)
	assert.EqualValues(t, 10, h.DocType.CompressedSize)
	assert.Equal(t, []byte{0}, h.UserMetadata)
}

func TestVersion3(t *testing.T) {
	h, err := read(t, []byte{'=', 0xf3, 'r', 'l', 0x33, 0x02, 0x01, 0x00, 0x0a, 0x0b})
	require.NoError(t, err)
	assert.Equal(t, wire.DocTypeZlib, h.DocType.Kind)
	assert.EqualValues(t, 10, h.DocType.UncompressedSize)
	assert.EqualValues(t, 11, h.DocType.CompressedSize)
	assert.Equal(t, []byte{0}, h.UserMetadata)
}

func TestVersion4(t *testing.T) {
	h, err := read(t, []byte{'=', 0xf3, 'r', 'l', 0x04, 0x00})
	require.NoError(t, err)
	assert.Equal(t, wire.DocTypeRaw, h.DocType.Kind)

	h, err = read(t, []byte{'=', 0xf3, 'r', 'l', 0x44, 0x00, 0x0a})
	require.NoError(t, err)
	assert.Equal(t, wire.DocTypeZstd, h.DocType.Kind)
	assert.EqualValues(t, 10, h.DocType.CompressedSize)
}

func TestSuffixTooLarge(t *testing.T) {
	cfg, err := config.New(config.WithMaxSuffixLen(0))
	require.NoError(t, err)

	_, err = header.Read(bytes.NewReader([]byte{'=', 's', 'r', 'l', 0x02, 0x01, 0x00}), cfg)
	assert.ErrorIs(t, err, errs.ErrSuffixTooLarge)
}
