package pycore

// slot is the registration table entry for a named recursive schema. It is
// registered before its body is built and patched once the body exists; until
// then bound is false. Compilation fails while any slot is unbound, so a
// refNode can assume its target at validation time.
type slot struct {
	name  string
	node  node
	bound bool
}

// refNode defers to a previously registered node, enabling self-referential
// schemas without unbounded construction.
type refNode struct {
	slot *slot
}

func (r *refNode) validate(v value, st *state) (any, bool) {
	if !st.enter(v) {
		v.discard()
		return nil, false
	}
	defer st.leave()
	return r.slot.node.validate(v, st)
}
