package pycore

import (
	"context"
	"fmt"
	"io"

	eng "github.com/indietyp/pydantic-core/internal/engine"
	jsonsrc "github.com/indietyp/pydantic-core/source/json"
)

// Validator is a compiled, immutable validator tree. It is safe for
// unlimited concurrent validation calls; per-call state lives in a private
// context owned by each call.
type Validator struct {
	root  node
	cfg   Config
	title string
}

// Title reports the subject name used in error reports.
func (v *Validator) Title() string { return v.title }

// ValidateValue runs a full validation pass over an already-structured
// native value. On success it returns the coerced output; on any accumulated
// error it returns a *ValidationError carrying every detected fault.
func (v *Validator) ValidateValue(ctx context.Context, input any) (any, error) {
	st := newState(v.cfg)
	out, _ := v.root.validate(newNativeValue(input), st)
	if len(st.errs) > 0 {
		return nil, &ValidationError{Title: v.title, Errors: st.errs}
	}
	return out, nil
}

// ValidateJSON runs a full validation pass over raw JSON text. Decoding is
// on demand: the engine advances a token cursor and decodes only what the
// active node requests. A structural decode failure surfaces as a single
// json_invalid error carrying the byte offset where decoding stopped, after
// any semantic errors already found in the same pass.
func (v *Validator) ValidateJSON(ctx context.Context, data []byte) (any, error) {
	return v.validateTokens(jsonsrc.NewBytes(data))
}

// ValidateReader is ValidateJSON over a stream.
func (v *Validator) ValidateReader(ctx context.Context, r io.Reader) (any, error) {
	return v.validateTokens(jsonsrc.NewReader(r))
}

func (v *Validator) validateTokens(src eng.TokenSource) (any, error) {
	st := newState(v.cfg)
	src = eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(v.cfg.OnDuplicateKey),
		MaxBytes:    v.cfg.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			st.errs = append(st.errs, newLineError(si.Code, locFromPointer(si.Path), si.Params, nil, si.Offset))
		},
	})
	cur := newTokenCursor(src, st)
	var out any
	if tok, ok := cur.next(); ok {
		out, _ = v.root.validate(&tokenValue{c: cur, tok: tok}, st)
	}
	if len(st.errs) > 0 {
		return nil, &ValidationError{Title: v.title, Errors: st.errs}
	}
	return out, nil
}

// ValidateAssignment re-validates a single field of a previously validated
// record against a new candidate value, returning a fresh record equal to
// the previous one except for that field. Untouched fields are not
// re-validated and cross-field invariants are not re-checked; callers
// needing those guarantees must re-run full validation. The input record is
// never mutated.
func (v *Validator) ValidateAssignment(ctx context.Context, field string, newValue any, record map[string]any) (map[string]any, error) {
	m, ok := v.root.(*modelNode)
	if !ok {
		return nil, fmt.Errorf("pycore: assignment validation requires a model schema, have %q", v.title)
	}
	out := make(map[string]any, len(record)+1)
	for k, val := range record {
		out[k] = val
	}
	idx, known := m.index[field]
	if !known {
		if m.extra == ExtraAllow {
			out[field] = newValue
			return out, nil
		}
		le := newLineError(KindExtraForbidden, Loc{field}, nil, newValue, -1)
		return nil, &ValidationError{Title: v.title, Errors: []LineError{le}}
	}
	st := newState(v.cfg)
	st.pushField(field)
	o, _ := m.fields[idx].node.validate(newNativeValue(newValue), st)
	st.pop()
	if len(st.errs) > 0 {
		return nil, &ValidationError{Title: v.title, Errors: st.errs}
	}
	out[field] = o
	return out, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}
