// Package builder declares the representation-agnostic back end the parser
// targets: a Value with seventeen setters, plus Array/Hash builder helpers
// and the Builder factory that produces them. It is a direct translation of
// the Value/ArrayBuilder/HashBuilder/Builder trait quartet in
// sereal-rs's decoder/src/parser.rs into Go interfaces — generic type
// parameters stand in for Rust's associated types.
package builder

// Value is one cell of the materialized graph. Implementations decide how
// cells are allocated and how aliasing/weak edges are represented; the
// parser only ever calls the seventeen setters below plus Clone.
type Value[A, H any] interface {
	// Clone returns a handle denoting the same cell (cheap handle
	// duplication, not a deep copy) — mirrors Rust's Clone bound on Value.
	Clone() Value[A, H]

	SetUndef()
	SetTrue()
	SetFalse()

	SetI64(v int64)
	SetU64(v uint64)
	SetF32(v float32)
	SetF64(v float64)

	// SetRef makes this cell an indirection to o.
	SetRef(o Value[A, H])
	// SetWeakRef makes this cell a weak indirection to o: if no strong
	// edge to o survives, reading through this cell later yields Undef.
	SetWeakRef(o Value[A, H])
	// SetAlias makes this cell *be* o: the two handles denote the same
	// cell from this point on.
	SetAlias(o Value[A, H])

	SetArray(a A)
	SetHash(h H)

	// SetBinary/SetString borrow s; implementations that must outlive the
	// source buffer are responsible for copying it.
	SetBinary(s []byte)
	SetString(s []byte)

	SetObject(class, value Value[A, H]) error
	SetObjectFreeze(class, value Value[A, H]) error
	SetRegexp(pattern, flags Value[A, H]) error
}

// ArrayBuilder accumulates ARRAY/ARRAYREF elements in order.
type ArrayBuilder[A, H any] interface {
	Insert(v Value[A, H]) error
	Finalize() A
}

// HashBuilder accumulates HASH/HASHREF pairs. Keys are raw byte slices
// (borrowed from the body buffer), the stricter and cheaper of the two
// sub-contracts the source supports — see DESIGN.md.
type HashBuilder[A, H any] interface {
	Insert(key []byte, v Value[A, H]) error
	Finalize() H
}

// Builder is the factory the parser drives: one call per cell, one call
// per array, one call per hash.
type Builder[A, H any] interface {
	New() Value[A, H]
	BuildArray(sizeHint uint64) ArrayBuilder[A, H]
	BuildHash(sizeHint uint64) HashBuilder[A, H]
}
