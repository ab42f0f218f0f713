package pycore

import (
	"errors"
	"fmt"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/indietyp/pydantic-core/i18n"
)

// Error kinds (exported consts for IDE completion and type safety by
// convention).
const (
	KindMissing          = "missing"
	KindExtraForbidden   = "extra_forbidden"
	KindNoneRequired     = "none_required"
	KindBoolType         = "bool_type"
	KindBoolParsing      = "bool_parsing"
	KindIntType          = "int_type"
	KindIntParsing       = "int_parsing"
	KindIntFromFloat     = "int_from_float"
	KindFloatType        = "float_type"
	KindFloatParsing     = "float_parsing"
	KindStrType          = "str_type"
	KindListType         = "list_type"
	KindSetType          = "set_type"
	KindSetItemNotUnique = "set_item_not_unique"
	KindDictType         = "dict_type"
	KindRecursionLoop    = "recursion_loop"
	KindJSONInvalid      = "json_invalid"
	KindDuplicateKey     = "duplicate_key"
	KindMaxBytesExceeded = "max_bytes_exceeded"
	KindGreaterThan      = "greater_than"
	KindGreaterThanEqual = "greater_than_equal"
	KindLessThan         = "less_than"
	KindLessThanEqual    = "less_than_equal"
	KindTooShort         = "too_short"
	KindTooLong          = "too_long"
	KindPatternMismatch  = "pattern_mismatch"
)

// LineError is a single validation fault. It is immutable once created.
type LineError struct {
	Kind    string         // One of the kinds listed above.
	Loc     Loc            // Path from the root to the offending value.
	Message string         // Localized message, rendered at creation time.
	Context map[string]any // Structured parameters (e.g. {"ge": 1}).
	Input   string         // Best-effort excerpt of the offending input.
	Offset  int64          // Byte offset in the input source (-1 when unknown).
}

func newLineError(kind string, loc Loc, ctx map[string]any, input any, offset int64) LineError {
	return LineError{
		Kind:    kind,
		Loc:     loc,
		Message: i18n.T(kind, ctx),
		Context: ctx,
		Input:   excerpt(input),
		Offset:  offset,
	}
}

func (e LineError) pretty() string {
	b := &strings.Builder{}
	if len(e.Loc) > 0 {
		b.WriteString(e.Loc.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "  %s [kind=%s", e.Message, e.Kind)
	if len(e.Context) > 0 {
		fmt.Fprintf(b, ", context=%v", e.Context)
	}
	if e.Input != "" {
		fmt.Fprintf(b, ", input_value=%s", e.Input)
	}
	b.WriteByte(']')
	return b.String()
}

// excerpt renders a best-effort snippet of the offending input, truncated to
// 50 characters (25 head, 24 tail).
func excerpt(v any) string {
	if v == nil {
		return ""
	}
	var s string
	if b, err := j.Marshal(v); err == nil {
		s = string(b)
	} else {
		s = fmt.Sprint(v)
	}
	if len(s) > 50 {
		return s[:25] + "..." + s[len(s)-24:]
	}
	return s
}

// ValidationError aggregates every independently detectable fault from one
// validation call. It is created once validation fails and never mutated.
type ValidationError struct {
	Title  string
	Errors []LineError
}

// ErrorCount reports the number of line errors.
func (e *ValidationError) ErrorCount() int { return len(e.Errors) }

func (e *ValidationError) Error() string {
	n := len(e.Errors)
	plural := "s"
	if n == 1 {
		plural = ""
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "%d validation error%s for %s", n, plural, e.Title)
	for _, le := range e.Errors {
		b.WriteByte('\n')
		b.WriteString(le.pretty())
	}
	return b.String()
}

// AsValidationError extracts a *ValidationError from an error using
// errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// SchemaError reports a malformed schema description. It is produced only by
// compilation, never by a validation call.
type SchemaError struct {
	msg string
}

func (e *SchemaError) Error() string { return "schema error: " + e.msg }

func schemaErrorf(format string, args ...any) error {
	return &SchemaError{msg: fmt.Sprintf(format, args...)}
}
