package pycore

// unionNode tries candidates in declared order, first under strict sub-mode
// (no coercion) to find an exact-type match, then again allowing coercion.
// The first candidate validating with zero errors wins. When every candidate
// fails, the reported errors come from the closest candidate only: the one
// with the fewest errors, earlier trials winning ties. The tie-break is
// stable and order-dependent on purpose.
type unionNode struct {
	choices []node
}

func (u *unionNode) validate(v value, st *state) (any, bool) {
	if !st.enter(v) {
		v.discard()
		return nil, false
	}
	defer st.leave()

	// Candidate trials need to re-read the value, which a token cursor cannot
	// do. Buffer exactly this subtree and trial against the native view.
	nv := v
	if _, streaming := v.(*tokenValue); streaming {
		raw, kind := v.materialize()
		if kind != "" {
			return nil, false
		}
		nv = newNativeValue(raw)
	}

	trials := []mode{modeStrict}
	if st.mode == modeLax {
		trials = append(trials, modeLax)
	}
	var best *state
	for _, m := range trials {
		for _, c := range u.choices {
			sub := st.fork(m)
			out, ok := c.validate(nv, sub)
			if sub.fatal {
				st.errs = append(st.errs, sub.errs...)
				st.fatal = true
				return nil, false
			}
			if ok && len(sub.errs) == 0 {
				return out, true
			}
			if best == nil || len(sub.errs) < len(best.errs) {
				best = sub
			}
		}
	}
	if best != nil {
		st.errs = append(st.errs, best.errs...)
	}
	return nil, false
}
