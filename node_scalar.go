package pycore

import (
	"regexp"
	"unicode/utf8"
)

// node is a compiled validation unit for one schema shape. Nodes are
// immutable once compiled and shared across all validation calls. Semantic
// faults are appended to the state and signalled with ok=false; nodes never
// panic for input problems.
type node interface {
	validate(v value, st *state) (any, bool)
}

type noneNode struct{}

func (noneNode) validate(v value, st *state) (any, bool) {
	if v.isNull() {
		return nil, true
	}
	st.recordValue(KindNoneRequired, nil, v)
	v.discard()
	return nil, false
}

type boolNode struct{}

func (boolNode) validate(v value, st *state) (any, bool) {
	b, kind := v.asBool(st.mode)
	if kind != "" {
		st.recordValue(kind, nil, v)
		return nil, false
	}
	return b, true
}

type intNode struct {
	ge, gt, le, lt *int64
}

func (n *intNode) validate(v value, st *state) (any, bool) {
	i, kind := v.asInt(st.mode)
	if kind != "" {
		st.recordValue(kind, nil, v)
		return nil, false
	}
	ok := true
	if n.ge != nil && i < *n.ge {
		st.recordValue(KindGreaterThanEqual, map[string]any{"ge": *n.ge}, v)
		ok = false
	}
	if n.gt != nil && i <= *n.gt {
		st.recordValue(KindGreaterThan, map[string]any{"gt": *n.gt}, v)
		ok = false
	}
	if n.le != nil && i > *n.le {
		st.recordValue(KindLessThanEqual, map[string]any{"le": *n.le}, v)
		ok = false
	}
	if n.lt != nil && i >= *n.lt {
		st.recordValue(KindLessThan, map[string]any{"lt": *n.lt}, v)
		ok = false
	}
	return i, ok
}

type floatNode struct {
	ge, gt, le, lt *float64
}

func (n *floatNode) validate(v value, st *state) (any, bool) {
	f, kind := v.asFloat(st.mode)
	if kind != "" {
		st.recordValue(kind, nil, v)
		return nil, false
	}
	ok := true
	if n.ge != nil && f < *n.ge {
		st.recordValue(KindGreaterThanEqual, map[string]any{"ge": *n.ge}, v)
		ok = false
	}
	if n.gt != nil && f <= *n.gt {
		st.recordValue(KindGreaterThan, map[string]any{"gt": *n.gt}, v)
		ok = false
	}
	if n.le != nil && f > *n.le {
		st.recordValue(KindLessThanEqual, map[string]any{"le": *n.le}, v)
		ok = false
	}
	if n.lt != nil && f >= *n.lt {
		st.recordValue(KindLessThan, map[string]any{"lt": *n.lt}, v)
		ok = false
	}
	return f, ok
}

type strNode struct {
	minLen  int // -1 when unset
	maxLen  int // -1 when unset
	pattern *regexp.Regexp
}

func (n *strNode) validate(v value, st *state) (any, bool) {
	s, kind := v.asStr(st.mode)
	if kind != "" {
		st.recordValue(kind, nil, v)
		return nil, false
	}
	ok := true
	if n.minLen >= 0 || n.maxLen >= 0 {
		length := utf8.RuneCountInString(s)
		if n.minLen >= 0 && length < n.minLen {
			st.recordValue(KindTooShort, map[string]any{"min_length": n.minLen}, v)
			ok = false
		}
		if n.maxLen >= 0 && length > n.maxLen {
			st.recordValue(KindTooLong, map[string]any{"max_length": n.maxLen}, v)
			ok = false
		}
	}
	if n.pattern != nil && !n.pattern.MatchString(s) {
		st.recordValue(KindPatternMismatch, map[string]any{"pattern": n.pattern.String()}, v)
		ok = false
	}
	return s, ok
}

// anyNode accepts any value unchanged, materializing token input.
type anyNode struct{}

func (anyNode) validate(v value, st *state) (any, bool) {
	out, kind := v.materialize()
	if kind != "" {
		return nil, false
	}
	return out, true
}
