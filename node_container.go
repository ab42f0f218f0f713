package pycore

import "reflect"

type listNode struct {
	item     node
	minItems int // -1 when unset
	maxItems int // -1 when unset
}

func (n *listNode) validate(v value, st *state) (any, bool) {
	if !st.enter(v) {
		v.discard()
		return nil, false
	}
	defer st.leave()
	it, isSeq := v.seq(st.mode)
	if !isSeq {
		st.recordValue(KindListType, nil, v)
		return nil, false
	}
	out := []any{}
	ok := true
	for i := 0; ; i++ {
		ev, more := it.next()
		if !more {
			break
		}
		st.pushIndex(i)
		o, eok := n.item.validate(ev, st)
		st.pop()
		if eok {
			out = append(out, o)
		} else {
			ok = false
		}
		if st.fatal {
			return nil, false
		}
	}
	if n.minItems >= 0 && len(out) < n.minItems && ok {
		// only length-check a fully collected list; element failures already
		// make the count unreliable
		st.recordValue(KindTooShort, map[string]any{"min_length": n.minItems}, v)
		ok = false
	}
	if n.maxItems >= 0 && len(out) > n.maxItems {
		st.recordValue(KindTooLong, map[string]any{"max_length": n.maxItems}, v)
		ok = false
	}
	return out, ok
}

type setNode struct {
	item node
}

func (n *setNode) validate(v value, st *state) (any, bool) {
	if !st.enter(v) {
		v.discard()
		return nil, false
	}
	defer st.leave()
	it, isSeq := v.seq(st.mode)
	if !isSeq {
		st.recordValue(KindSetType, nil, v)
		return nil, false
	}
	out := []any{}
	seen := map[any]struct{}{}
	ok := true
	for i := 0; ; i++ {
		ev, more := it.next()
		if !more {
			break
		}
		st.pushIndex(i)
		o, eok := n.item.validate(ev, st)
		if eok {
			if isComparable(o) {
				if _, dup := seen[o]; dup {
					st.record(KindSetItemNotUnique, nil, o, ev.offset())
					ok = false
				} else {
					seen[o] = struct{}{}
					out = append(out, o)
				}
			} else {
				out = append(out, o)
			}
		} else {
			ok = false
		}
		st.pop()
		if st.fatal {
			return nil, false
		}
	}
	return out, ok
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

type mapNode struct {
	val node
}

func (n *mapNode) validate(v value, st *state) (any, bool) {
	if !st.enter(v) {
		v.discard()
		return nil, false
	}
	defer st.leave()
	it, isMap := v.mapping(st.mode)
	if !isMap {
		st.recordValue(KindDictType, nil, v)
		return nil, false
	}
	out := map[string]any{}
	ok := true
	for {
		k, mv, more := it.next()
		if !more {
			break
		}
		st.pushField(k)
		o, eok := n.val.validate(mv, st)
		st.pop()
		if eok {
			out[k] = o
		} else {
			ok = false
		}
		if st.fatal {
			return nil, false
		}
	}
	return out, ok
}
