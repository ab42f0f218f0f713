package pycore

type modelField struct {
	name       string
	node       node
	required   bool
	hasDefault bool
	def        any
}

// modelNode validates a structured record. fields are name-sorted at compile
// time so that missing-field errors come out in a deterministic order.
type modelNode struct {
	fields []modelField
	index  map[string]int
	extra  ExtraPolicy
}

func (m *modelNode) validate(v value, st *state) (any, bool) {
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
	out := make(map[string]any, len(m.fields))
	seen := make([]bool, len(m.fields))
	ok := true
	for {
		k, fv, more := it.next()
		if !more {
			break
		}
		if idx, known := m.index[k]; known {
			seen[idx] = true
			st.pushField(k)
			o, fok := m.fields[idx].node.validate(fv, st)
			st.pop()
			if fok {
				out[k] = o
			} else {
				ok = false
			}
		} else {
			switch m.extra {
			case ExtraForbid:
				st.pushField(k)
				st.recordValue(KindExtraForbidden, nil, fv)
				st.pop()
				fv.discard()
				ok = false
			case ExtraAllow:
				raw, kind := fv.materialize()
				if kind == "" {
					out[k] = raw
				} else {
					ok = false
				}
			default:
				fv.discard()
			}
		}
		if st.fatal {
			return nil, false
		}
	}
	for i := range m.fields {
		f := &m.fields[i]
		if seen[i] {
			continue
		}
		if f.hasDefault {
			// defaults are materialized silently, never counted as errors
			out[f.name] = f.def
			continue
		}
		if f.required {
			st.pushField(f.name)
			st.record(KindMissing, nil, nil, -1)
			st.pop()
			ok = false
		}
	}
	return out, ok && !st.fatal
}
