package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/decode"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/tree"
)

func parse(t *testing.T, body []byte) tree.Inner {
	t.Helper()
	p := decode.NewParser[tree.Array, tree.Hash](tree.Builder{}, config.Default(), body)
	v, err := p.Parse()
	require.NoError(t, err)
	h, ok := v.(*tree.Handle)
	require.True(t, ok)
	return h.Read()
}

func parseErr(t *testing.T, body []byte) error {
	t.Helper()
	p := decode.NewParser[tree.Array, tree.Hash](tree.Builder{}, config.Default(), body)
	_, err := p.Parse()
	require.Error(t, err)
	return err
}

// Vector 1: 01 -> u64(1)
func TestVectorU64(t *testing.T) {
	inner := parse(t, []byte{0x01})
	assert.Equal(t, tree.KindU64, inner.Kind)
	assert.Equal(t, uint64(1), inner.U64)
}

// Vector 2: 60 -> empty binary
func TestVectorEmptyBinary(t *testing.T) {
	inner := parse(t, []byte{0x60})
	assert.Equal(t, tree.KindBinary, inner.Kind)
	assert.Empty(t, inner.Str)
}

// Vector 3: 2B 02 00 00 -> array [u64(0), u64(0)]
func TestVectorArray(t *testing.T) {
	inner := parse(t, []byte{0x2B, 0x02, 0x00, 0x00})
	assert.Equal(t, tree.KindArray, inner.Kind)
	require.Len(t, inner.Array, 2)
	for _, el := range inner.Array {
		e := el.Read()
		assert.Equal(t, tree.KindU64, e.Kind)
		assert.Equal(t, uint64(0), e.U64)
	}
}

// Vector 4: 2B 02 00 -> UnexpectedEof
func TestVectorArrayTruncated(t *testing.T) {
	err := parseErr(t, []byte{0x2B, 0x02, 0x00})
	assert.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

// Vector 5: hash {"foo"->"bar", "ook\0"->"eek\0"}
func TestVectorHash(t *testing.T) {
	body := []byte{
		0x2A, 0x02,
		0x63, 0x66, 0x6F, 0x6F, 0x63, 0x62, 0x61, 0x72,
		0x64, 0x6F, 0x6F, 0x6B, 0x00, 0x64, 0x65, 0x65, 0x6B, 0x00,
	}
	inner := parse(t, body)
	assert.Equal(t, tree.KindHash, inner.Kind)
	require.Len(t, inner.Hash, 2)

	assert.Equal(t, []byte("foo"), inner.Hash[0].Key)
	v0 := inner.Hash[0].Val.Read()
	assert.Equal(t, tree.KindBinary, v0.Kind)
	assert.Equal(t, []byte("bar"), v0.Str)

	assert.Equal(t, []byte("ook\x00"), inner.Hash[1].Key)
	v1 := inner.Hash[1].Val.Read()
	assert.Equal(t, []byte("eek\x00"), v1.Str)
}

// Vector 6: A9 01 -> self-referential ref cell
func TestVectorSelfRef(t *testing.T) {
	p := decode.NewParser[tree.Array, tree.Hash](tree.Builder{}, config.Default(), []byte{0xA9, 0x01})
	v, err := p.Parse()
	require.NoError(t, err)
	h := v.(*tree.Handle)

	inner := h.Read()
	require.Equal(t, tree.KindRef, inner.Kind)
	assert.True(t, h.SameCell(inner.Ref), "ref target must be the same cell as the cell itself")
}

// Vector 7: ref->array[object("foo", ref->{}), object("foo", ref->{})], second via OBJECTV
func TestVectorObject(t *testing.T) {
	body := []byte{
		0x42, 0x2C, 0x63, 0x66, 0x6F, 0x6F, 0x28, 0x2A, 0x00,
		0x2D, 0x03, 0x28, 0x2A, 0x00,
	}
	inner := parse(t, body)
	require.Equal(t, tree.KindRef, inner.Kind)

	arr := inner.Ref.Read()
	require.Equal(t, tree.KindArray, arr.Kind)
	require.Len(t, arr.Array, 2)

	for _, el := range arr.Array {
		obj := el.Read()
		require.Equal(t, tree.KindObject, obj.Kind)
		class := obj.Class.Read()
		assert.Equal(t, []byte("foo"), class.Str)

		ref := obj.Value.Read()
		require.Equal(t, tree.KindRef, ref.Kind)
		hash := ref.Ref.Read()
		assert.Equal(t, tree.KindHash, hash.Kind)
		assert.Empty(t, hash.Hash)
	}
}

// Vector 8: 2F 01 -> InvalidCopy (COPY whose target re-enters the same COPY)
func TestVectorNestedCopy(t *testing.T) {
	err := parseErr(t, []byte{0x2F, 0x01})
	assert.ErrorIs(t, err, errs.ErrInvalidCopy)
}

// Vector 9: ref->array of three equivalent ref->array[u64(1)] values, two via COPY
func TestVectorCopy(t *testing.T) {
	body := []byte{0x43, 0x41, 0x01, 0x2F, 0x02, 0x2F, 0x02}
	inner := parse(t, body)
	require.Equal(t, tree.KindRef, inner.Kind)

	arr := inner.Ref.Read()
	require.Equal(t, tree.KindArray, arr.Kind)
	require.Len(t, arr.Array, 3)

	for _, el := range arr.Array {
		ref := el.Read()
		require.Equal(t, tree.KindRef, ref.Kind)
		inner := ref.Ref.Read()
		require.Equal(t, tree.KindArray, inner.Kind)
		require.Len(t, inner.Array, 1)
		v := inner.Array[0].Read()
		assert.Equal(t, tree.KindU64, v.Kind)
		assert.Equal(t, uint64(1), v.U64)
	}

	// COPY re-parses the target bytes independently rather than sharing the
	// tracking table, so the three cells are structurally equal but not the
	// same cell.
	assert.False(t, arr.Array[0].SameCell(arr.Array[1]))
	assert.False(t, arr.Array[1].SameCell(arr.Array[2]))
}

// Boundary: empty buffer.
func TestEmptyBuffer(t *testing.T) {
	err := parseErr(t, nil)
	assert.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

// Boundary: ARRAY with count max_array_size+1 -> ArrayTooLarge.
func TestArrayTooLarge(t *testing.T) {
	cfg, err := config.New(config.WithMaxArraySize(1))
	require.NoError(t, err)
	p := decode.NewParser[tree.Array, tree.Hash](tree.Builder{}, cfg, []byte{0x2B, 0x02, 0x00, 0x00})
	_, err = p.Parse()
	require.Error(t, err)
	var tooLarge *errs.ErrArrayTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}

// Boundary: non-string hash key -> InvalidType.
func TestHashKeyMustBeString(t *testing.T) {
	// HASH count=1, key=POS_1 (not a string tag), ...
	err := parseErr(t, []byte{0x2A, 0x01, 0x01})
	assert.ErrorIs(t, err, errs.ErrInvalidType)
}
