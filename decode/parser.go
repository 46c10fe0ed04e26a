// Package decode holds the tag-stream state machine and the frame-level
// orchestrator around it. The Parser is a direct generic translation of
// sereal-rs's decoder/src/parser.rs: same recursive-descent shape, same
// tracking table, same single-slot copy cursor, generalized over the
// Builder's Array/Hash representation instead of being hard-coded to one.
package decode

import (
	"github.com/vickenty/sereal/builder"
	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/errs"
	"github.com/vickenty/sereal/internal/reader"
	"github.com/vickenty/sereal/wire"
)

// Parser drives one pass over a body tag stream, materializing a value
// graph through a Builder. It is not safe for concurrent use and is
// discarded after Parse returns (success or error).
type Parser[A, H any] struct {
	cfg     *config.Config
	reader  *reader.Reader
	track   map[int]builder.Value[A, H]
	builder builder.Builder[A, H]
	copyPos int
}

// NewParser constructs a Parser over body, the decompressed tag stream
// (everything after the frame header).
func NewParser[A, H any](b builder.Builder[A, H], cfg *config.Config, body []byte) *Parser[A, H] {
	return &Parser[A, H]{
		cfg:     cfg,
		reader:  reader.New(body),
		track:   make(map[int]builder.Value[A, H]),
		builder: b,
	}
}

// Parse consumes one value from the stream.
func (p *Parser[A, H]) Parse() (builder.Value[A, H], error) {
	return p.parseInner(false)
}

// parseStr consumes one value that is required to be a string type —
// SHORT_BINARY_n, BINARY, STR_UTF8, or COPY of one of those. Used for hash
// keys, which the wire format restricts to strings.
func (p *Parser[A, H]) parseStr() ([]byte, error) {
	tag, err := p.reader.ReadTag()
	if err != nil {
		return nil, err
	}
	typ := tag.Type()

	switch {
	case typ == wire.Binary || typ == wire.StrUTF8:
		n, err := p.reader.ReadVarlen()
		if err != nil {
			return nil, err
		}
		if err := p.checkStringLen(n); err != nil {
			return nil, err
		}
		return p.reader.ReadBytes(n)

	case typ == wire.Copy:
		return doCopy(p, (*Parser[A, H]).parseStr)

	default:
		if k, ok := wire.IsShortBinary(typ); ok {
			return p.reader.ReadBytes(int(k))
		}
		return nil, errs.ErrInvalidType
	}
}

func (p *Parser[A, H]) checkStringLen(n int) error {
	if uint64(n) > p.cfg.MaxStringLen() {
		return &errs.ErrStringTooLarge{Len: uint64(n), Limit: p.cfg.MaxStringLen()}
	}
	return nil
}

// parseInner consumes one value, forcing its tracking-table entry to be
// recorded regardless of the tag's own track bit when forceTrack is set —
// used for OBJECT/OBJECT_FREEZE class names, so a later OBJECTV can find
// them even though class names are not marked for tracking on the wire.
func (p *Parser[A, H]) parseInner(forceTrack bool) (builder.Value[A, H], error) {
	tag, err := p.reader.ReadTag()
	if err != nil {
		return nil, err
	}
	trackKey := p.reader.Pos()
	track := tag.Tracked()
	typ := tag.Type()

	value := p.builder.New()
	if track || forceTrack {
		p.track[trackKey] = value.Clone()
	}

	if err := p.dispatch(typ, value); err != nil {
		return nil, err
	}

	// set_alias repoints the cell itself; refresh the tracking entry so a
	// later REFP/ALIAS against this same offset resolves to the new target
	// rather than the now-abandoned cell value.Clone() captured above.
	if (track || forceTrack) && (typ == wire.Alias || typ == wire.Copy) {
		p.track[trackKey] = value.Clone()
	}

	return value, nil
}

func (p *Parser[A, H]) dispatch(typ wire.Tag, value builder.Value[A, H]) error {
	if n, ok := wire.IsPosFixint(typ); ok {
		value.SetU64(uint64(n))
		return nil
	}
	if n, ok := wire.IsNegFixint(typ); ok {
		value.SetI64(n)
		return nil
	}
	if k, ok := wire.IsArrayRef(typ); ok {
		return p.dispatchArrayRef(uint64(k), value)
	}
	if k, ok := wire.IsHashRef(typ); ok {
		return p.dispatchHashRef(uint64(k), value)
	}
	if k, ok := wire.IsShortBinary(typ); ok {
		b, err := p.reader.ReadBytes(int(k))
		if err != nil {
			return err
		}
		value.SetBinary(b)
		return nil
	}
	if wire.IsReserved(typ) {
		return &errs.ErrUnknownTag{Tag: byte(typ)}
	}

	switch typ {
	case wire.Undef, wire.CanonicalUndef:
		value.SetUndef()

	case wire.True:
		value.SetTrue()
	case wire.False:
		value.SetFalse()

	case wire.Varint:
		v, err := p.reader.ReadVarint()
		if err != nil {
			return err
		}
		value.SetU64(v)

	case wire.Zigzag:
		v, err := p.reader.ReadZigzag()
		if err != nil {
			return err
		}
		value.SetI64(v)

	case wire.Float:
		v, err := p.reader.ReadF32()
		if err != nil {
			return err
		}
		value.SetF32(v)

	case wire.Double:
		v, err := p.reader.ReadF64()
		if err != nil {
			return err
		}
		value.SetF64(v)

	case wire.Refn:
		inner, err := p.Parse()
		if err != nil {
			return err
		}
		value.SetRef(inner)

	case wire.Refp:
		pos, err := p.reader.ReadVarlen()
		if err != nil {
			return err
		}
		target, err := p.get(pos)
		if err != nil {
			return err
		}
		value.SetRef(target)

	case wire.Alias:
		pos, err := p.reader.ReadVarlen()
		if err != nil {
			return err
		}
		target, err := p.get(pos)
		if err != nil {
			return err
		}
		value.SetAlias(target)

	case wire.Copy:
		target, err := doCopy(p, (*Parser[A, H]).Parse)
		if err != nil {
			return err
		}
		value.SetAlias(target)

	case wire.Weaken:
		inner, err := p.Parse()
		if err != nil {
			return err
		}
		value.SetWeakRef(inner)

	case wire.Array:
		n, err := p.reader.ReadVarint()
		if err != nil {
			return err
		}
		arr, err := p.parseArray(n)
		if err != nil {
			return err
		}
		value.SetArray(arr)

	case wire.Hash:
		n, err := p.reader.ReadVarint()
		if err != nil {
			return err
		}
		h, err := p.parseHash(n)
		if err != nil {
			return err
		}
		value.SetHash(h)

	case wire.Binary:
		n, err := p.reader.ReadVarlen()
		if err != nil {
			return err
		}
		if err := p.checkStringLen(n); err != nil {
			return err
		}
		b, err := p.reader.ReadBytes(n)
		if err != nil {
			return err
		}
		value.SetBinary(b)

	case wire.StrUTF8:
		n, err := p.reader.ReadVarlen()
		if err != nil {
			return err
		}
		if err := p.checkStringLen(n); err != nil {
			return err
		}
		b, err := p.reader.ReadBytes(n)
		if err != nil {
			return err
		}
		value.SetString(b)

	case wire.Object:
		class, err := p.parseInner(true)
		if err != nil {
			return err
		}
		body, err := p.Parse()
		if err != nil {
			return err
		}
		return value.SetObject(class, body)

	case wire.ObjectV:
		pos, err := p.reader.ReadVarlen()
		if err != nil {
			return err
		}
		class, err := p.get(pos)
		if err != nil {
			return err
		}
		body, err := p.Parse()
		if err != nil {
			return err
		}
		return value.SetObject(class, body)

	case wire.ObjectFreeze:
		class, err := p.parseInner(true)
		if err != nil {
			return err
		}
		body, err := p.Parse()
		if err != nil {
			return err
		}
		return value.SetObjectFreeze(class, body)

	case wire.ObjectVFreeze:
		pos, err := p.reader.ReadVarlen()
		if err != nil {
			return err
		}
		class, err := p.get(pos)
		if err != nil {
			return err
		}
		body, err := p.Parse()
		if err != nil {
			return err
		}
		return value.SetObjectFreeze(class, body)

	case wire.Regexp:
		pattern, err := p.Parse()
		if err != nil {
			return err
		}
		flags, err := p.Parse()
		if err != nil {
			return err
		}
		return value.SetRegexp(pattern, flags)

	default:
		return &errs.ErrUnknownTag{Tag: byte(typ)}
	}

	return nil
}

func (p *Parser[A, H]) dispatchArrayRef(n uint64, value builder.Value[A, H]) error {
	arr, err := p.parseArray(n)
	if err != nil {
		return err
	}
	inner := p.builder.New()
	inner.SetArray(arr)
	value.SetRef(inner)
	return nil
}

func (p *Parser[A, H]) dispatchHashRef(n uint64, value builder.Value[A, H]) error {
	h, err := p.parseHash(n)
	if err != nil {
		return err
	}
	inner := p.builder.New()
	inner.SetHash(h)
	value.SetRef(inner)
	return nil
}

// get resolves a REFP/ALIAS/OBJECTV byte offset against the tracking table.
func (p *Parser[A, H]) get(pos int) (builder.Value[A, H], error) {
	v, ok := p.track[pos]
	if !ok {
		var zero builder.Value[A, H]
		return zero, &errs.ErrInvalidRef{Offset: pos}
	}
	return v.Clone(), nil
}

// doCopy implements the COPY tag's save-seek-restore discipline: copy_pos
// doubles as both the reentrancy guard (nonzero means a COPY is already in
// progress, and COPY cannot nest) and the saved return position. f is run
// with the reader seeked to the tag byte at the target offset; the reader
// position and copy_pos are always restored before doCopy returns, whether
// f succeeded or not.
func doCopy[A, H, T any](p *Parser[A, H], f func(*Parser[A, H]) (T, error)) (T, error) {
	var zero T
	if p.copyPos != 0 {
		return zero, errs.ErrInvalidCopy
	}

	pos, err := p.reader.ReadVarlen()
	if err != nil {
		return zero, err
	}
	if pos == 0 {
		return zero, &errs.ErrInvalidRef{Offset: pos}
	}

	p.copyPos = p.reader.SetPos(pos - 1)
	val, ferr := f(p)
	p.reader.SetPos(p.copyPos)
	p.copyPos = 0

	return val, ferr
}

func (p *Parser[A, H]) parseArray(count uint64) (A, error) {
	var zero A
	if count > p.cfg.MaxArraySize() {
		return zero, &errs.ErrArrayTooLarge{Count: count, Limit: p.cfg.MaxArraySize()}
	}

	ab := p.builder.BuildArray(count)
	for i := uint64(0); i < count; i++ {
		v, err := p.Parse()
		if err != nil {
			return zero, err
		}
		if err := ab.Insert(v); err != nil {
			return zero, err
		}
	}
	return ab.Finalize(), nil
}

// parseHash mirrors parseArray, plus the rule that a COPY in progress around
// the HASH tag itself does not extend into the hash body: keys (and the
// values under them) may independently COPY, so the copy cursor is cleared
// for the duration and restored after — but, matching the source this is
// ported from, only on the success path; an error mid-hash abandons the
// Parser anyway.
func (p *Parser[A, H]) parseHash(count uint64) (H, error) {
	var zero H
	if count > p.cfg.MaxHashSize() {
		return zero, &errs.ErrHashTooLarge{Count: count, Limit: p.cfg.MaxHashSize()}
	}

	oldCopyPos := p.copyPos
	p.copyPos = 0

	hb := p.builder.BuildHash(count)
	for i := uint64(0); i < count; i++ {
		k, err := p.parseStr()
		if err != nil {
			return zero, err
		}
		v, err := p.Parse()
		if err != nil {
			return zero, err
		}
		if err := hb.Insert(k, v); err != nil {
			return zero, err
		}
	}

	p.copyPos = oldCopyPos
	return hb.Finalize(), nil
}
