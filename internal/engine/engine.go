package engine

import (
	"encoding/json"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the validation engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SkipValue consumes the remainder of the value whose first token is first.
// Scalars are complete already; containers are drained until the matching
// end token.
func SkipValue(src TokenSource, first Token) error {
	depth := 0
	switch first.Kind {
	case KindBeginObject, KindBeginArray:
		depth = 1
	default:
		return nil
	}
	for depth > 0 {
		tok, err := src.NextToken()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case KindBeginObject, KindBeginArray:
			depth++
		case KindEndObject, KindEndArray:
			depth--
		}
	}
	return nil
}

// DecodeValue materializes the value whose first token is first into an any
// tree (map[string]any / []any / string / json.Number / bool / nil). Numbers
// are kept as json.Number so callers decide the final representation.
func DecodeValue(src TokenSource, first Token) (any, error) {
	switch first.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return first.String, nil
	case KindNumber:
		return json.Number(first.Number), nil
	case KindBool:
		return first.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

// DecodeAny reads the next value from src and materializes it.
func DecodeAny(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return DecodeValue(src, tok)
}

func decodeObject(src TokenSource) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		v, err := DecodeAny(src)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func decodeArray(src TokenSource) (any, error) {
	var arr []any
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			if arr == nil {
				arr = []any{}
			}
			return arr, nil
		}
		v, err := DecodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
