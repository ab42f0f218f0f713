package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource applying duplicate key handling and a
// max consumed bytes cap in a streaming fashion, before tokens reach the
// validation engine.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation forwarded to the sink.
type SimpleIssue struct {
	Code    string
	Path    string // JSON Pointer
	Message string
	Params  map[string]any
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue. The wrapper
// returns it in place of a token when enforcement halts the stream.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxBytes    int64
	// IssueSink receives non-fatal issues (warn mode). May be nil.
	IssueSink func(SimpleIssue)
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and the maximum consumed byte count.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if opt.OnDuplicate == DupIgnore && opt.MaxBytes <= 0 {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []dupFrame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.currentPathForToken(tok)

	switch tok.Kind {
	case KindBeginObject:
		e.stack = append(e.stack, dupFrame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path})
	case KindBeginArray:
		e.stack = append(e.stack, dupFrame{kind: kindArray, path: path})
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if e.opt.OnDuplicate != DupIgnore {
					if _, ok := top.keys[tok.String]; ok {
						si := SimpleIssue{
							Code:    "duplicate_key",
							Path:    normalizePath(path),
							Message: "duplicate object key '" + tok.String + "'",
							Params:  map[string]any{"key": tok.String},
							Offset:  tok.Offset,
						}
						if e.opt.OnDuplicate == DupError {
							return Token{}, IssueError{si}
						}
						if e.opt.IssueSink != nil {
							e.opt.IssueSink(si)
						}
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	default:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			si := SimpleIssue{
				Code:    "max_bytes_exceeded",
				Path:    normalizePath(path),
				Message: "input exceeds byte limit",
				Params:  map[string]any{"max_bytes": e.opt.MaxBytes},
				Offset:  off,
			}
			return Token{}, IssueError{si}
		}
	}

	return tok, nil
}

// valueDone flips the innermost object frame back to expecting a key once a
// member value has completed.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) currentPathForToken(tok Token) string {
	if len(e.stack) == 0 {
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return joinPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	default:
		if top.kind == kindArray {
			p := joinPointer(top.path, strconv.Itoa(top.nextIndex))
			top.nextIndex++
			return p
		}
		if top.pendingKey != "" || !top.expectingKey {
			return joinPointer(top.path, top.pendingKey)
		}
		return top.path
	}
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
