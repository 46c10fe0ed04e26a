package visitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/visitor"
)

// pair is an ordered hash entry recorded by the test Visitor.
type pair struct {
	key, val any
}

// recorder is a minimal Visitor that rebuilds each value as a plain Go
// any (bool/int64/uint64/float32/float64/[]byte/[]any/[]pair), so test
// assertions can compare against literal Go values instead of walking a
// custom tree type.
type recorder struct {
	stack []*frame
	root  any
}

type frame struct {
	isHash bool
	arr    []any
	hash   []pair
	key    any
	haveKey bool
}

func (r *recorder) emit(v any) error {
	if len(r.stack) == 0 {
		r.root = v
		return nil
	}
	top := r.stack[len(r.stack)-1]
	if top.isHash {
		if !top.haveKey {
			top.key = v
			top.haveKey = true
		} else {
			top.hash = append(top.hash, pair{top.key, v})
			top.haveKey = false
		}
	} else {
		top.arr = append(top.arr, v)
	}
	return nil
}

func (r *recorder) VisitUndef() error          { return r.emit(nil) }
func (r *recorder) VisitBool(v bool) error     { return r.emit(v) }
func (r *recorder) VisitI64(v int64) error     { return r.emit(v) }
func (r *recorder) VisitU64(v uint64) error    { return r.emit(v) }
func (r *recorder) VisitF32(v float32) error   { return r.emit(v) }
func (r *recorder) VisitF64(v float64) error   { return r.emit(v) }
func (r *recorder) VisitBytes(v []byte) error  { return r.emit(string(v)) }

func (r *recorder) BeginArray(n uint64) error {
	r.stack = append(r.stack, &frame{arr: make([]any, 0, n)})
	return nil
}

func (r *recorder) EndArray() error {
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return r.emit(top.arr)
}

func (r *recorder) BeginHash(n uint64) error {
	r.stack = append(r.stack, &frame{isHash: true, hash: make([]pair, 0, n)})
	return nil
}

func (r *recorder) EndHash() error {
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return r.emit(top.hash)
}

func walk(t *testing.T, body []byte, opts ...visitor.Option) (any, error) {
	t.Helper()
	w := visitor.NewWalker(config.Default(), body, opts...)
	rec := &recorder{}
	err := w.Walk(rec)
	return rec.root, err
}

// Vector 1: 01 -> u64(1)
func TestWalkU64(t *testing.T) {
	v, err := walk(t, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

// Vector 2: 60 -> empty binary
func TestWalkEmptyBinary(t *testing.T) {
	v, err := walk(t, []byte{0x60})
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

// Vector 3: 2B 02 00 00 -> array [u64(0), u64(0)]
func TestWalkArray(t *testing.T) {
	v, err := walk(t, []byte{0x2B, 0x02, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(0), uint64(0)}, v)
}

// Vector 5: hash {"foo"->"bar", "ook\0"->"eek\0"}
func TestWalkHash(t *testing.T) {
	body := []byte{
		0x2A, 0x02,
		0x63, 0x66, 0x6F, 0x6F, 0x63, 0x62, 0x61, 0x72,
		0x64, 0x6F, 0x6F, 0x6B, 0x00, 0x64, 0x65, 0x65, 0x6B, 0x00,
	}
	v, err := walk(t, body)
	require.NoError(t, err)
	assert.Equal(t, []pair{
		{"foo", "bar"},
		{"ook\x00", "eek\x00"},
	}, v)
}

// Vector 6: A9 01 -> REFP(1) pointing at itself -> rejected as an active cycle.
func TestWalkSelfRefRejected(t *testing.T) {
	_, err := walk(t, []byte{0xA9, 0x01})
	var invalid *errs.ErrInvalidRef
	require.ErrorAs(t, err, &invalid)
}

// REFN is transparent: a ref to a following value just yields that value.
func TestWalkRefnTransparent(t *testing.T) {
	// REFN(0x28) wrapping POS_1(0x01)
	v, err := walk(t, []byte{0x28, 0x01})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

// REFP to an earlier, already-fully-read value resolves by seek-and-recurse.
// Offsets are measured the same way the tracking table's keys are: the
// reader position immediately after the target tag byte is consumed, so
// POS_1 at buffer index 2 is tracked under offset 3.
func TestWalkRefpBackreference(t *testing.T) {
	// ARRAY(2) [ POS_1, REFP(3) ]
	body := []byte{0x2B, 0x02, 0x01, 0xA9, 0x03}
	v, err := walk(t, body)
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(1), uint64(1)}, v)
}

// A REFP whose offset is >= the position just past its own varlen is a
// forward reference and must be rejected.
func TestWalkRefpForwardRejected(t *testing.T) {
	// REFP(offset 5), but the stream is only 2 bytes long to begin with;
	// offset >= current position is rejected before any seek is attempted.
	body := []byte{0xA9, 0x05}
	_, err := walk(t, body)
	var invalid *errs.ErrInvalidRef
	require.ErrorAs(t, err, &invalid)
}

// A hash key restricted to string tags must reject a non-string key (here
// POS_FIXINT 1), regardless of UnsupportedPolicy — this is a malformed
// document, not a tag the adapter merely declines to represent.
func TestWalkHashKeyMustBeString(t *testing.T) {
	// HASH count=1, key=POS_1 (not a string tag), ...
	_, err := walk(t, []byte{0x2A, 0x01, 0x01})
	assert.ErrorIs(t, err, errs.ErrInvalidType)
}

// ALIAS is unsupported by the push-style adapter; default policy rejects it.
func TestWalkAliasRejectedByDefault(t *testing.T) {
	// ALIAS(offset 0) — doesn't matter, dispatch fails before reading the operand.
	_, err := walk(t, []byte{0x2E, 0x00})
	assert.ErrorIs(t, err, errs.ErrInvalidType)
}

// With PolicyFlattenUndef, an unsupported tag is reported as undef instead.
func TestWalkAliasFlattened(t *testing.T) {
	v, err := walk(t, []byte{0x2E, 0x00}, visitor.WithUnsupportedPolicy(visitor.PolicyFlattenUndef))
	require.NoError(t, err)
	assert.Nil(t, v)
}
