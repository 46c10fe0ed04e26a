package tree

import (
	"fmt"
	"io"
)

// Dump writes a debug representation of the value graph rooted at h to w.
// Grounded on arc.rs's Value::debug_fmt: a seen-set of cell pointers marks
// anything already printed once as "<loop>" rather than recursing forever —
// this conflates true cycles with plain structural sharing, matching the
// source's own behavior, which does not distinguish the two either.
func (h *Handle) Dump(w io.Writer) {
	h.dump(w, make(map[*Cell]bool))
}

func (h *Handle) dump(w io.Writer, seen map[*Cell]bool) {
	c := h.resolve()
	if c == nil {
		fmt.Fprint(w, "<dead weak ref>")
		return
	}
	if seen[c] {
		fmt.Fprint(w, "<loop>")
		return
	}
	seen[c] = true

	inner := c.read()
	switch inner.Kind {
	case KindUndef:
		fmt.Fprint(w, "undef")
	case KindBool:
		fmt.Fprintf(w, "%v", inner.Bool)
	case KindI64:
		fmt.Fprintf(w, "%d", inner.I64)
	case KindU64:
		fmt.Fprintf(w, "%d", inner.U64)
	case KindF32:
		fmt.Fprintf(w, "%v", inner.F32)
	case KindF64:
		fmt.Fprintf(w, "%v", inner.F64)
	case KindBinary, KindString:
		fmt.Fprintf(w, "%q", inner.Str)
	case KindRef:
		fmt.Fprint(w, "ref(")
		inner.Ref.dump(w, seen)
		fmt.Fprint(w, ")")
	case KindWeakRef:
		fmt.Fprint(w, "weak(")
		inner.WeakRef.dump(w, seen)
		fmt.Fprint(w, ")")
	case KindArray:
		fmt.Fprint(w, "[")
		for i, el := range inner.Array {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			el.dump(w, seen)
		}
		fmt.Fprint(w, "]")
	case KindHash:
		fmt.Fprint(w, "{")
		for i, e := range inner.Hash {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%q: ", e.Key)
			e.Val.dump(w, seen)
		}
		fmt.Fprint(w, "}")
	case KindObject, KindObjectFreeze:
		fmt.Fprint(w, "object(")
		inner.Class.dump(w, seen)
		fmt.Fprint(w, ", ")
		inner.Value.dump(w, seen)
		fmt.Fprint(w, ")")
	case KindRegexp:
		fmt.Fprint(w, "regexp(")
		inner.Pattern.dump(w, seen)
		fmt.Fprint(w, ", ")
		inner.Flags.dump(w, seen)
		fmt.Fprint(w, ")")
	}
}
