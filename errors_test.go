package pycore_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	pycore "github.com/indietyp/pydantic-core"
)

func TestValidationErrorMessage(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type":  "model",
		"title": "Order",
		"fields": map[string]any{
			"qty": map[string]any{"type": "int", "ge": 1},
		},
	})
	_, err := v.ValidateValue(ctxbg, map[string]any{"qty": 0})
	msg := err.Error()
	if !strings.HasPrefix(msg, "1 validation error for Order\n") {
		t.Fatalf("message %q", msg)
	}
	if !strings.Contains(msg, "qty\n") {
		t.Fatalf("missing location line in %q", msg)
	}
	if !strings.Contains(msg, "[kind=greater_than_equal") {
		t.Fatalf("missing kind tag in %q", msg)
	}

	_, err = v.ValidateValue(ctxbg, map[string]any{})
	if !strings.HasPrefix(err.Error(), "1 validation error for Order\n") {
		t.Fatalf("message %q", err.Error())
	}
}

func TestValidationErrorPlural(t *testing.T) {
	v := mustCompile(t, abSchema())
	_, err := v.ValidateValue(ctxbg, map[string]any{})
	if !strings.HasPrefix(err.Error(), "2 validation errors for ") {
		t.Fatalf("message %q", err.Error())
	}
}

func TestNestedLocRendering(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "model",
		"fields": map[string]any{
			"items": map[string]any{
				"type":  "list",
				"items": map[string]any{"type": "model", "fields": map[string]any{"price": map[string]any{"type": "float"}}},
			},
		},
	})
	_, err := v.ValidateValue(ctxbg, map[string]any{
		"items": []any{
			map[string]any{"price": 1.5},
			map[string]any{"price": "oops"},
		},
	})
	ve := mustValidationError(t, err)
	le := ve.Errors[0]
	if !reflect.DeepEqual(le.Loc, pycore.Loc{"items", 1, "price"}) {
		t.Fatalf("loc %v", le.Loc)
	}
	if got := le.Loc.String(); got != "items -> 1 -> price" {
		t.Fatalf("loc string %q", got)
	}
	if got := le.Loc.Pointer(); got != "/items/1/price" {
		t.Fatalf("pointer %q", got)
	}
}

func TestPointerEscaping(t *testing.T) {
	l := pycore.Loc{}.Field("a/b").Field("c~d").Index(0)
	if got := l.Pointer(); got != "/a~1b/c~0d/0" {
		t.Fatalf("pointer %q", got)
	}
	if got := (pycore.Loc{}).Pointer(); got != "/" {
		t.Fatalf("root pointer %q", got)
	}
}

func TestLocImmutability(t *testing.T) {
	base := pycore.Loc{"root"}
	a := base.Field("a")
	b := base.Field("b")
	if !reflect.DeepEqual(a, pycore.Loc{"root", "a"}) || !reflect.DeepEqual(b, pycore.Loc{"root", "b"}) {
		t.Fatalf("extensions aliased: %v %v", a, b)
	}
}

func TestInputExcerptTruncation(t *testing.T) {
	v := mustCompile(t, scalar("int"))
	long := strings.Repeat("x", 200)
	_, err := v.ValidateValue(ctxbg, long)
	ve := mustValidationError(t, err)
	in := ve.Errors[0].Input
	if len(in) != 52 {
		t.Fatalf("excerpt length %d: %q", len(in), in)
	}
	if !strings.Contains(in, "...") {
		t.Fatalf("excerpt %q not truncated", in)
	}

	_, err = v.ValidateValue(ctxbg, "short")
	ve = mustValidationError(t, err)
	if ve.Errors[0].Input != `"short"` {
		t.Fatalf("excerpt %q", ve.Errors[0].Input)
	}
}

func TestAsValidationError(t *testing.T) {
	v := mustCompile(t, scalar("int"))
	_, err := v.ValidateValue(ctxbg, "x")
	ve, ok := pycore.AsValidationError(err)
	if !ok || ve.ErrorCount() != 1 {
		t.Fatalf("AsValidationError failed on %v", err)
	}
	wrapped := fmt.Errorf("request rejected: %w", err)
	if _, ok := pycore.AsValidationError(wrapped); !ok {
		t.Fatal("AsValidationError should unwrap")
	}
	if _, ok := pycore.AsValidationError(errors.New("plain")); ok {
		t.Fatal("plain error is not a ValidationError")
	}
}

func TestSchemaErrorText(t *testing.T) {
	_, err := pycore.Compile(map[string]any{"type": "union"})
	var se *pycore.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
	if !strings.Contains(err.Error(), `"choices" is required`) {
		t.Fatalf("message %q", err.Error())
	}
}
