// Package tree is the owned-tree Builder backend: every cell is an
// independently allocated *Cell guarded by its own lock, with handles that
// may hold either a strong pointer or a weak.Pointer for WEAKEN edges.
// Grounded on sereal-rs's decoder/src/arc.rs (Arc<RwLock<Inner>> cells,
// Weak<RwLock<Inner>> for downgraded edges); Go's standard weak package
// (added in Go 1.24) gives the same "reads as gone once collected" edge
// arc.rs gets from std::sync::Weak, without hand-rolled reference counting.
//
// Per spec.md §9 ("Experimental variants in the source try both; one should
// be chosen and the other dropped") and §2 ("only one needs to be
// retained"), this is the only Builder implementation kept; the
// arena-allocated alternative (decoder/src/arena.rs) is documented but not
// implemented — see DESIGN.md.
package tree

import (
	"sync"
	"weak"

	"github.com/vickenty/sereal/builder"
	"github.com/vickenty/sereal/errs"
)

// Kind discriminates the variant a Cell currently holds.
type Kind uint8

const (
	KindUndef Kind = iota
	KindBool
	KindI64
	KindU64
	KindF32
	KindF64
	KindBinary
	KindString
	KindRef
	KindWeakRef
	KindArray
	KindHash
	KindObject
	KindObjectFreeze
	KindRegexp
)

// Inner is the value a Cell currently holds. It is copied out under the
// Cell's lock on Read, never mutated in place by a reader.
type Inner struct {
	Kind Kind

	Bool bool
	I64  int64
	U64  uint64
	F32  float32
	F64  float64
	Str  []byte

	Ref     *Handle
	WeakRef *Handle

	Array Array
	Hash  Hash

	Class   *Handle
	Value   *Handle
	Pattern *Handle
	Flags   *Handle
}

// Cell is the shared, lockable interior a Handle points to.
type Cell struct {
	mu    sync.RWMutex
	inner Inner
}

func (c *Cell) read() Inner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner
}

func (c *Cell) write(i Inner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner = i
}

// Handle is a cell reference: either a strong owner of a *Cell, or a
// weak.Pointer that reads as gone (Undef) once the last strong owner is
// dropped. It implements builder.Value[Array, Hash].
type Handle struct {
	strong *Cell
	weak   weak.Pointer[Cell]
}

// Value is the concrete builder.Value this package produces.
type Value = builder.Value[Array, Hash]

// Array is the concrete array representation: an ordered list of cells.
type Array []*Handle

// HashEntry is one key/value pair of a Hash.
type HashEntry struct {
	Key []byte
	Val *Handle
}

// Hash is the concrete hash representation: an ordered list of pairs
// (Sereal hashes are not required to preserve Go map semantics — keys may
// repeat on malformed input, and insertion order is observable).
type Hash []HashEntry

func newStrong() *Handle {
	return &Handle{strong: &Cell{}}
}

// resolve returns the live *Cell this handle denotes, or nil if it was a
// weak edge whose target has been collected.
func (h *Handle) resolve() *Cell {
	if h.strong != nil {
		return h.strong
	}
	return h.weak.Value()
}

// Read returns the current value of the cell this handle denotes. A dead
// weak edge reads as Undef, per the contract on WEAKEN.
func (h *Handle) Read() Inner {
	c := h.resolve()
	if c == nil {
		return Inner{Kind: KindUndef}
	}
	return c.read()
}

// SameCell reports whether h and o denote the identical underlying cell
// (pointer identity, not value equality) — used to assert true aliasing
// rather than merely equal contents.
func (h *Handle) SameCell(o *Handle) bool {
	return h.resolve() == o.resolve()
}

func (h *Handle) set(i Inner) {
	// Set* is only ever called by the parser on a handle it just
	// allocated via Builder.New, which is always strong.
	h.strong.write(i)
}

func (h *Handle) Clone() Value {
	return &Handle{strong: h.strong, weak: h.weak}
}

func (h *Handle) SetUndef()  { h.set(Inner{Kind: KindUndef}) }
func (h *Handle) SetTrue()   { h.set(Inner{Kind: KindBool, Bool: true}) }
func (h *Handle) SetFalse()  { h.set(Inner{Kind: KindBool, Bool: false}) }
func (h *Handle) SetI64(v int64)     { h.set(Inner{Kind: KindI64, I64: v}) }
func (h *Handle) SetU64(v uint64)    { h.set(Inner{Kind: KindU64, U64: v}) }
func (h *Handle) SetF32(v float32)   { h.set(Inner{Kind: KindF32, F32: v}) }
func (h *Handle) SetF64(v float64)   { h.set(Inner{Kind: KindF64, F64: v}) }

func (h *Handle) SetBinary(s []byte) {
	h.set(Inner{Kind: KindBinary, Str: append([]byte(nil), s...)})
}

func (h *Handle) SetString(s []byte) {
	h.set(Inner{Kind: KindString, Str: append([]byte(nil), s...)})
}

func (h *Handle) SetRef(o Value) {
	oh := o.(*Handle)
	h.set(Inner{Kind: KindRef, Ref: oh})
}

func (h *Handle) SetAlias(o Value) {
	oh := o.(*Handle)
	h.strong = oh.strong
	h.weak = oh.weak
}

// downgrade returns a handle denoting the same cell as h but holding it
// weakly; an already-weak handle is returned unchanged.
func (h *Handle) downgrade() *Handle {
	if h.strong != nil {
		return &Handle{weak: weak.Make(h.strong)}
	}
	return h
}

func (h *Handle) SetWeakRef(o Value) {
	oh := o.(*Handle)
	h.set(Inner{Kind: KindWeakRef, WeakRef: oh.downgrade()})
}

func (h *Handle) SetArray(a Array) { h.set(Inner{Kind: KindArray, Array: a}) }
func (h *Handle) SetHash(hh Hash)  { h.set(Inner{Kind: KindHash, Hash: hh}) }

func asString(v Value) ([]byte, bool) {
	h, ok := v.(*Handle)
	if !ok {
		return nil, false
	}
	inner := h.Read()
	if inner.Kind != KindBinary && inner.Kind != KindString {
		return nil, false
	}
	return inner.Str, true
}

func (h *Handle) SetObject(class, value Value) error {
	if _, ok := asString(class); !ok {
		return errs.ErrInvalidType
	}
	h.set(Inner{Kind: KindObject, Class: class.(*Handle), Value: value.(*Handle)})
	return nil
}

func (h *Handle) SetObjectFreeze(class, value Value) error {
	if _, ok := asString(class); !ok {
		return errs.ErrInvalidType
	}
	h.set(Inner{Kind: KindObjectFreeze, Class: class.(*Handle), Value: value.(*Handle)})
	return nil
}

func (h *Handle) SetRegexp(pattern, flags Value) error {
	if _, ok := asString(pattern); !ok {
		return errs.ErrInvalidType
	}
	if _, ok := asString(flags); !ok {
		return errs.ErrInvalidType
	}
	h.set(Inner{Kind: KindRegexp, Pattern: pattern.(*Handle), Flags: flags.(*Handle)})
	return nil
}

// Builder is the tree package's builder.Builder[Array, Hash] implementation.
type Builder struct{}

var _ builder.Builder[Array, Hash] = Builder{}

func (Builder) New() Value { return newStrong() }

func (Builder) BuildArray(sizeHint uint64) builder.ArrayBuilder[Array, Hash] {
	return &arrayBuilder{items: make(Array, 0, sizeHint)}
}

func (Builder) BuildHash(sizeHint uint64) builder.HashBuilder[Array, Hash] {
	return &hashBuilder{entries: make(Hash, 0, sizeHint)}
}

type arrayBuilder struct{ items Array }

func (b *arrayBuilder) Insert(v Value) error {
	b.items = append(b.items, v.(*Handle))
	return nil
}

func (b *arrayBuilder) Finalize() Array { return b.items }

type hashBuilder struct{ entries Hash }

func (b *hashBuilder) Insert(key []byte, v Value) error {
	b.entries = append(b.entries, HashEntry{
		Key: append([]byte(nil), key...),
		Val: v.(*Handle),
	})
	return nil
}

func (b *hashBuilder) Finalize() Hash { return b.entries }
