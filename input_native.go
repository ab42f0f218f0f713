package pycore

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// nativeValue wraps an already-structured Go value. Operations hold a
// reference to the original value; nothing is decoded or copied during
// traversal.
type nativeValue struct {
	v any
}

func newNativeValue(v any) nativeValue { return nativeValue{v: v} }

func (n nativeValue) isNull() bool { return n.v == nil }

// asBool applies the fixed coercion ladder: exact bool, then boolean-looking
// string, then 0/1 integer. A value satisfying an earlier rung is never
// re-tested against a later one.
func (n nativeValue) asBool(m mode) (bool, string) {
	if b, ok := n.v.(bool); ok {
		return b, ""
	}
	if m == modeStrict {
		return false, KindBoolType
	}
	if s, ok := n.asString(); ok {
		return strAsBool(s)
	}
	if i, ok := n.asInt64(); ok {
		return intAsBool(i)
	}
	return false, KindBoolType
}

// asInt ladder: exact integer (bools cast to 0/1 on this rung in lax mode),
// then integer-looking string, then float with a zero fractional part.
func (n nativeValue) asInt(m mode) (int64, string) {
	if b, isBool := n.v.(bool); isBool {
		if m == modeStrict {
			return 0, KindIntType
		}
		return boolAsInt(b), ""
	}
	if i, ok := n.asInt64(); ok {
		return i, ""
	}
	if num, ok := n.v.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			return i, ""
		}
		if m == modeStrict {
			return 0, KindIntType
		}
		f, err := num.Float64()
		if err != nil {
			return 0, KindIntType
		}
		return floatAsInt(f)
	}
	if m == modeStrict {
		return 0, KindIntType
	}
	if s, ok := n.asString(); ok {
		return strAsInt(s)
	}
	if f, ok := n.asFloat64(); ok {
		return floatAsInt(f)
	}
	return 0, KindIntType
}

// asFloat ladder: exact float (bools cast to 0/1 on this rung in lax mode),
// then integer widening, then numeric string.
func (n nativeValue) asFloat(m mode) (float64, string) {
	if b, isBool := n.v.(bool); isBool {
		if m == modeStrict {
			return 0, KindFloatType
		}
		return float64(boolAsInt(b)), ""
	}
	if f, ok := n.asFloat64(); ok {
		return f, ""
	}
	if i, ok := n.asInt64(); ok {
		return float64(i), ""
	}
	if m == modeStrict {
		return 0, KindFloatType
	}
	if s, ok := n.asString(); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, KindFloatParsing
		}
		return f, ""
	}
	return 0, KindFloatType
}

// asStr ladder: exact string, then UTF-8 bytes, then integer, then float.
// Bools are never stringified.
func (n nativeValue) asStr(m mode) (string, string) {
	if s, ok := n.v.(string); ok {
		return s, ""
	}
	if m == modeStrict {
		return "", KindStrType
	}
	if b, ok := n.v.([]byte); ok {
		if !utf8.Valid(b) {
			return "", KindStrType
		}
		return string(b), ""
	}
	if _, isBool := n.v.(bool); isBool {
		return "", KindStrType
	}
	if i, ok := n.asInt64(); ok {
		return strconv.FormatInt(i, 10), ""
	}
	if num, ok := n.v.(json.Number); ok {
		return num.String(), ""
	}
	if f, ok := n.asFloat64(); ok {
		return strconv.FormatFloat(f, 'g', -1, 64), ""
	}
	return "", KindStrType
}

func (n nativeValue) seq(m mode) (seqIter, bool) {
	switch t := n.v.(type) {
	case []any:
		return &nativeSeqIter{items: t}, true
	}
	return nil, false
}

func (n nativeValue) mapping(m mode) (mapIter, bool) {
	mv, ok := n.v.(map[string]any)
	if !ok {
		return nil, false
	}
	// key-sorted iteration for deterministic error ordering
	keys := make([]string, 0, len(mv))
	for k := range mv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &nativeMapIter{m: mv, keys: keys}, true
}

func (n nativeValue) materialize() (any, string) { return n.v, "" }
func (n nativeValue) discard()                   {}
func (n nativeValue) raw() any                   { return n.v }
func (n nativeValue) offset() int64              { return -1 }

type nativeSeqIter struct {
	items []any
	i     int
}

func (it *nativeSeqIter) next() (value, bool) {
	if it.i >= len(it.items) {
		return nil, false
	}
	v := it.items[it.i]
	it.i++
	return newNativeValue(v), true
}

type nativeMapIter struct {
	m    map[string]any
	keys []string
	i    int
}

func (it *nativeMapIter) next() (string, value, bool) {
	if it.i >= len(it.keys) {
		return "", nil, false
	}
	k := it.keys[it.i]
	it.i++
	return k, newNativeValue(it.m[k]), true
}

// ---- exact-type helpers ----

func (n nativeValue) asInt64() (int64, bool) {
	switch t := n.v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func (n nativeValue) asFloat64() (float64, bool) {
	switch t := n.v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func (n nativeValue) asString() (string, bool) {
	switch t := n.v.(type) {
	case string:
		return t, true
	case []byte:
		if !utf8.Valid(t) {
			return "", false
		}
		return string(t), true
	}
	return "", false
}

// ---- shared coercion rungs ----

func strAsBool(s string) (bool, string) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "on", "1":
		return true, ""
	case "false", "f", "no", "n", "off", "0":
		return false, ""
	}
	return false, KindBoolParsing
}

func boolAsInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intAsBool(i int64) (bool, string) {
	switch i {
	case 0:
		return false, ""
	case 1:
		return true, ""
	}
	return false, KindBoolParsing
}

func strAsInt(s string) (int64, string) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, KindIntParsing
	}
	return i, ""
}

func floatAsInt(f float64) (int64, string) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, KindIntFromFloat
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, KindIntParsing
	}
	return int64(f), ""
}
