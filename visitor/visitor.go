// Package visitor is the optional Serde-adapter path: a push-style driver
// that walks a tag stream directly, with no tracking table and no
// materialized graph, calling back into a caller-supplied Visitor. It
// mirrors sereal-rs's decoder/src/de.rs (a serde::Deserializer over a
// Lexer), reworked as a plain Go interface rather than a trait tied to the
// serde crate, since Go has no equivalent generic (de)serialization
// framework in the examples to bind to.
//
// de.rs transparently recurses through REFN (Tag::Refn =>
// self.deserialize_any(visitor)) but never implements REFP at all — every
// other tag it doesn't recognize falls through to unimplemented!(). This
// package fills that gap: REFP is seek-and-recurse, guarded by the active-
// offset-set and forward-reference rules spec.md §4.6 requires, since a
// push-style visitor has no tracking table to fall back on for validating
// back-references.
package visitor

import (
	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/internal/reader"
	"github.com/vickenty/sereal/wire"
)

// Visitor receives one push-style callback per scalar, plus bracketing
// calls around arrays and hashes. REFN/REFP are transparent: the driver
// simply visits the referenced value in place, with no callback marking
// the indirection, matching de.rs's own treatment of REFN.
type Visitor interface {
	VisitUndef() error
	VisitBool(v bool) error
	VisitI64(v int64) error
	VisitU64(v uint64) error
	VisitF32(v float32) error
	VisitF64(v float64) error
	// VisitBytes receives BINARY, STR_UTF8, and SHORT_BINARY payloads alike
	// — de.rs's Tag::Bin and Tag::Str both resolve to visit_byte_buf, and
	// this adapter does the same rather than inventing a distinction the
	// wire format's own parser doesn't enforce (STR_UTF8 carries no
	// validation obligation either, per spec.md §4.5).
	VisitBytes(v []byte) error

	BeginArray(n uint64) error
	EndArray() error

	BeginHash(n uint64) error
	EndHash() error
}

// UnsupportedPolicy controls how the driver handles ALIAS, COPY, WEAKEN,
// OBJECT(V)(_FREEZE), and REGEXP — tags a push-style visitor cannot express
// without a tracking table or a dedicated callback.
type UnsupportedPolicy int

const (
	// PolicyReject fails the walk with ErrInvalidType (the default).
	PolicyReject UnsupportedPolicy = iota
	// PolicyFlattenUndef reports the tag to the visitor as VisitUndef,
	// letting the walk continue past it.
	PolicyFlattenUndef
)

// Walker drives one Visitor over one tag stream.
type Walker struct {
	cfg    *config.Config
	reader *reader.Reader
	active map[int]bool
	policy UnsupportedPolicy
}

// Option configures a Walker at construction.
type Option func(*Walker)

// WithUnsupportedPolicy overrides the default PolicyReject.
func WithUnsupportedPolicy(p UnsupportedPolicy) Option {
	return func(w *Walker) { w.policy = p }
}

// NewWalker constructs a Walker over body, the decompressed tag stream.
func NewWalker(cfg *config.Config, body []byte, opts ...Option) *Walker {
	w := &Walker{
		cfg:    cfg,
		reader: reader.New(body),
		active: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk consumes one value from the stream, calling back into v.
func (w *Walker) Walk(v Visitor) error {
	tag, err := w.reader.ReadTag()
	if err != nil {
		return err
	}
	typ := tag.Type()

	if n, ok := wire.IsPosFixint(typ); ok {
		return v.VisitU64(uint64(n))
	}
	if n, ok := wire.IsNegFixint(typ); ok {
		return v.VisitI64(n)
	}
	if k, ok := wire.IsShortBinary(typ); ok {
		b, err := w.reader.ReadBytes(int(k))
		if err != nil {
			return err
		}
		return v.VisitBytes(b)
	}
	if k, ok := wire.IsArrayRef(typ); ok {
		return w.walkArray(v, uint64(k))
	}
	if k, ok := wire.IsHashRef(typ); ok {
		return w.walkHash(v, uint64(k))
	}
	if wire.IsReserved(typ) {
		return &errs.ErrUnknownTag{Tag: byte(typ)}
	}

	switch typ {
	case wire.Undef, wire.CanonicalUndef:
		return v.VisitUndef()
	case wire.True:
		return v.VisitBool(true)
	case wire.False:
		return v.VisitBool(false)

	case wire.Varint:
		n, err := w.reader.ReadVarint()
		if err != nil {
			return err
		}
		return v.VisitU64(n)

	case wire.Zigzag:
		n, err := w.reader.ReadZigzag()
		if err != nil {
			return err
		}
		return v.VisitI64(n)

	case wire.Float:
		f, err := w.reader.ReadF32()
		if err != nil {
			return err
		}
		return v.VisitF32(f)

	case wire.Double:
		f, err := w.reader.ReadF64()
		if err != nil {
			return err
		}
		return v.VisitF64(f)

	case wire.Binary, wire.StrUTF8:
		n, err := w.reader.ReadVarlen()
		if err != nil {
			return err
		}
		if uint64(n) > w.cfg.MaxStringLen() {
			return &errs.ErrStringTooLarge{Len: uint64(n), Limit: w.cfg.MaxStringLen()}
		}
		b, err := w.reader.ReadBytes(n)
		if err != nil {
			return err
		}
		return v.VisitBytes(b)

	case wire.Array:
		n, err := w.reader.ReadVarint()
		if err != nil {
			return err
		}
		return w.walkArray(v, n)

	case wire.Hash:
		n, err := w.reader.ReadVarint()
		if err != nil {
			return err
		}
		return w.walkHash(v, n)

	case wire.Refn:
		return w.Walk(v)

	case wire.Refp:
		return w.walkRefp(v)

	case wire.LongDouble, wire.Many, wire.PacketStart, wire.Extend:
		return &errs.ErrUnknownTag{Tag: byte(typ)}

	default:
		if w.policy == PolicyFlattenUndef {
			return v.VisitUndef()
		}
		return errs.ErrInvalidType
	}
}

func (w *Walker) walkArray(v Visitor, n uint64) error {
	if n > w.cfg.MaxArraySize() {
		return &errs.ErrArrayTooLarge{Count: n, Limit: w.cfg.MaxArraySize()}
	}
	if err := v.BeginArray(n); err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if err := w.Walk(v); err != nil {
			return err
		}
	}
	return v.EndArray()
}

func (w *Walker) walkHash(v Visitor, n uint64) error {
	if n > w.cfg.MaxHashSize() {
		return &errs.ErrHashTooLarge{Count: n, Limit: w.cfg.MaxHashSize()}
	}
	if err := v.BeginHash(n); err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if err := w.walkKey(v); err != nil {
			return err
		}
		if err := w.Walk(v); err != nil {
			return err
		}
	}
	return v.EndHash()
}

// walkKey consumes one hash key, restricted to SHORT_BINARY_k, BINARY,
// STR_UTF8, or COPY of one of those — mirroring Parser.parseStr. All other
// tag semantics are unchanged by this adapter (spec.md §4.6), so a key tag
// this restriction rejects is ErrInvalidType regardless of the configured
// UnsupportedPolicy; that policy only governs ALIAS/COPY/WEAKEN/object tags
// encountered in value position, not a malformed key.
func (w *Walker) walkKey(v Visitor) error {
	tag, err := w.reader.ReadTag()
	if err != nil {
		return err
	}
	typ := tag.Type()

	switch {
	case typ == wire.Binary || typ == wire.StrUTF8:
		n, err := w.reader.ReadVarlen()
		if err != nil {
			return err
		}
		if uint64(n) > w.cfg.MaxStringLen() {
			return &errs.ErrStringTooLarge{Len: uint64(n), Limit: w.cfg.MaxStringLen()}
		}
		b, err := w.reader.ReadBytes(n)
		if err != nil {
			return err
		}
		return v.VisitBytes(b)

	case typ == wire.Copy:
		pos, err := w.reader.ReadVarlen()
		if err != nil {
			return err
		}
		if pos <= 0 || pos >= w.reader.Pos() {
			return &errs.ErrInvalidRef{Offset: pos}
		}
		saved := w.reader.SetPos(pos - 1)
		if target, terr := w.reader.ReadTag(); terr == nil && target.Type() == wire.Copy {
			w.reader.SetPos(saved)
			return errs.ErrInvalidCopy
		}
		w.reader.SetPos(pos - 1)
		err = w.walkKey(v)
		w.reader.SetPos(saved)
		return err

	default:
		if k, ok := wire.IsShortBinary(typ); ok {
			b, err := w.reader.ReadBytes(int(k))
			if err != nil {
				return err
			}
			return v.VisitBytes(b)
		}
		return errs.ErrInvalidType
	}
}

// walkRefp implements the half of REFP de.rs never gets to: seek to the
// tracked offset, visit one value there, then restore. pos must be strictly
// less than the read position just past REFP's own varlen (forward
// references are rejected), and must not already be on the active stack
// (a REFP resolving to an offset it is itself nested inside would ask the
// visitor to express a cycle, which a push-style callback sequence cannot).
func (w *Walker) walkRefp(v Visitor) error {
	pos, err := w.reader.ReadVarlen()
	if err != nil {
		return err
	}
	if pos <= 0 || pos >= w.reader.Pos() {
		return &errs.ErrInvalidRef{Offset: pos}
	}
	if w.active[pos] {
		return &errs.ErrInvalidRef{Offset: pos}
	}

	w.active[pos] = true
	saved := w.reader.SetPos(pos - 1)
	err = w.Walk(v)
	w.reader.SetPos(saved)
	delete(w.active, pos)

	return err
}
