package pycore

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	eng "github.com/indietyp/pydantic-core/internal/engine"
)

// errUnexpectedToken reports a token source yielding a value where an object
// key was required.
var errUnexpectedToken = errors.New("unexpected token where an object key was expected")

// tokenCursor drives on-demand decoding of a token stream during one
// validation call. A structural decode failure is sticky: it is recorded once
// (with the byte offset where decoding stopped) and marks the call fatal so
// that no bogus semantic errors pile up behind it.
type tokenCursor struct {
	src eng.TokenSource
	st  *state
	err error
}

func newTokenCursor(src eng.TokenSource, st *state) *tokenCursor {
	return &tokenCursor{src: src, st: st}
}

func (c *tokenCursor) next() (eng.Token, bool) {
	if c.err != nil {
		return eng.Token{}, false
	}
	tok, err := c.src.NextToken()
	if err != nil {
		c.fail(err)
		return eng.Token{}, false
	}
	return tok, true
}

func (c *tokenCursor) fail(err error) {
	if c.err != nil {
		return
	}
	c.err = err
	var ie eng.IssueError
	if errors.As(err, &ie) {
		// enforcement halt (duplicate key in error mode, byte cap)
		c.st.errs = append(c.st.errs, newLineError(ie.Code, locFromPointer(ie.Path), ie.Params, nil, ie.Offset))
		c.st.fatal = true
		return
	}
	msg := err.Error()
	if err == io.EOF {
		msg = "unexpected end of input"
	}
	c.st.record(KindJSONInvalid, map[string]any{"error": msg}, nil, c.src.Location())
	c.st.fatal = true
}

// skip consumes the remainder of the subtree begun by first.
func (c *tokenCursor) skip(first eng.Token) {
	if c.err != nil {
		return
	}
	if err := eng.SkipValue(c.src, first); err != nil {
		c.fail(err)
	}
}

// tokenValue is the token-cursor-backed value view. It holds the first token
// of the pending value; the rest of the subtree is decoded only as the active
// validator node requests it.
type tokenValue struct {
	c   *tokenCursor
	tok eng.Token
}

func (t *tokenValue) isNull() bool { return t.tok.Kind == eng.KindNull }

func (t *tokenValue) asBool(m mode) (bool, string) {
	switch t.tok.Kind {
	case eng.KindBool:
		return t.tok.Bool, ""
	case eng.KindString:
		if m == modeStrict {
			return false, KindBoolType
		}
		return strAsBool(t.tok.String)
	case eng.KindNumber:
		if m == modeStrict {
			return false, KindBoolType
		}
		i, err := json.Number(t.tok.Number).Int64()
		if err != nil {
			return false, KindBoolParsing
		}
		return intAsBool(i)
	}
	t.discard()
	return false, KindBoolType
}

func (t *tokenValue) asInt(m mode) (int64, string) {
	switch t.tok.Kind {
	case eng.KindBool:
		if m == modeStrict {
			return 0, KindIntType
		}
		return boolAsInt(t.tok.Bool), ""
	case eng.KindNumber:
		num := json.Number(t.tok.Number)
		if i, err := num.Int64(); err == nil {
			return i, ""
		}
		if m == modeStrict {
			return 0, KindIntType
		}
		f, err := num.Float64()
		if err != nil {
			return 0, KindIntParsing
		}
		return floatAsInt(f)
	case eng.KindString:
		if m == modeStrict {
			return 0, KindIntType
		}
		return strAsInt(t.tok.String)
	}
	t.discard()
	return 0, KindIntType
}

func (t *tokenValue) asFloat(m mode) (float64, string) {
	switch t.tok.Kind {
	case eng.KindBool:
		if m == modeStrict {
			return 0, KindFloatType
		}
		return float64(boolAsInt(t.tok.Bool)), ""
	case eng.KindNumber:
		f, err := json.Number(t.tok.Number).Float64()
		if err != nil {
			return 0, KindFloatParsing
		}
		return f, ""
	case eng.KindString:
		if m == modeStrict {
			return 0, KindFloatType
		}
		f, err := strconv.ParseFloat(t.tok.String, 64)
		if err != nil {
			return 0, KindFloatParsing
		}
		return f, ""
	}
	t.discard()
	return 0, KindFloatType
}

func (t *tokenValue) asStr(m mode) (string, string) {
	switch t.tok.Kind {
	case eng.KindString:
		return t.tok.String, ""
	case eng.KindNumber:
		if m == modeStrict {
			return "", KindStrType
		}
		return t.tok.Number, ""
	}
	t.discard()
	return "", KindStrType
}

func (t *tokenValue) seq(m mode) (seqIter, bool) {
	if t.tok.Kind == eng.KindBeginArray {
		return &tokenSeqIter{c: t.c}, true
	}
	t.discard()
	return nil, false
}

func (t *tokenValue) mapping(m mode) (mapIter, bool) {
	if t.tok.Kind == eng.KindBeginObject {
		return &tokenMapIter{c: t.c}, true
	}
	t.discard()
	return nil, false
}

func (t *tokenValue) materialize() (any, string) {
	if t.c.err != nil {
		return nil, KindJSONInvalid
	}
	v, err := eng.DecodeValue(t.c.src, t.tok)
	if err != nil {
		t.c.fail(err)
		return nil, KindJSONInvalid
	}
	return v, ""
}

func (t *tokenValue) discard() { t.c.skip(t.tok) }

func (t *tokenValue) raw() any {
	switch t.tok.Kind {
	case eng.KindString:
		return t.tok.String
	case eng.KindNumber:
		return json.Number(t.tok.Number)
	case eng.KindBool:
		return t.tok.Bool
	}
	return nil
}

func (t *tokenValue) offset() int64 { return t.tok.Offset }

type tokenSeqIter struct {
	c    *tokenCursor
	done bool
}

func (it *tokenSeqIter) next() (value, bool) {
	if it.done {
		return nil, false
	}
	tok, ok := it.c.next()
	if !ok || tok.Kind == eng.KindEndArray {
		it.done = true
		return nil, false
	}
	return &tokenValue{c: it.c, tok: tok}, true
}

type tokenMapIter struct {
	c    *tokenCursor
	done bool
}

func (it *tokenMapIter) next() (string, value, bool) {
	if it.done {
		return "", nil, false
	}
	tok, ok := it.c.next()
	if !ok || tok.Kind == eng.KindEndObject {
		it.done = true
		return "", nil, false
	}
	if tok.Kind != eng.KindKey {
		it.c.fail(errUnexpectedToken)
		it.done = true
		return "", nil, false
	}
	vt, ok := it.c.next()
	if !ok {
		it.done = true
		return "", nil, false
	}
	return tok.String, &tokenValue{c: it.c, tok: vt}, true
}
