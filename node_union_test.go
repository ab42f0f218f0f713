package pycore_test

import (
	"reflect"
	"testing"

	pycore "github.com/indietyp/pydantic-core"
)

func unionSchema(types ...string) map[string]any {
	choices := make([]any, 0, len(types))
	for _, tp := range types {
		choices = append(choices, map[string]any{"type": tp})
	}
	return map[string]any{"type": "union", "choices": choices}
}

// The two orderings disagree only for inputs where both branches can coerce;
// the declared order decides those, exactly like the ladder inside a branch.
func TestUnionBoolInt(t *testing.T) {
	v := mustCompile(t, unionSchema("bool", "int"))
	cases := []struct {
		in   any
		want any
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", false},
		{1, int64(1)},
		{0, int64(0)},
		{123, int64(123)},
		{"123", int64(123)},
		{"0", false},
		{"1", true},
	}
	for _, c := range cases {
		out, err := v.ValidateValue(ctxbg, c.in)
		if err != nil {
			t.Errorf("input %#v: unexpected error %v", c.in, err)
			continue
		}
		if out != c.want {
			t.Errorf("input %#v: got %#v, want %#v", c.in, out, c.want)
		}
	}
}

func TestUnionIntBool(t *testing.T) {
	v := mustCompile(t, unionSchema("int", "bool"))
	cases := []struct {
		in   any
		want any
	}{
		{true, true},
		{1, int64(1)},
		{"0", int64(0)},
		{"1", int64(1)},
		{"false", false},
	}
	for _, c := range cases {
		out, err := v.ValidateValue(ctxbg, c.in)
		if err != nil {
			t.Errorf("input %#v: unexpected error %v", c.in, err)
			continue
		}
		if out != c.want {
			t.Errorf("input %#v: got %#v, want %#v", c.in, out, c.want)
		}
	}
}

// An exact-type match must win even when a later branch could also coerce
// the input: the strict pass runs over every candidate first.
func TestUnionExactTypeWins(t *testing.T) {
	v := mustCompile(t, unionSchema("str", "int"))
	out, err := v.ValidateValue(ctxbg, "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5" {
		t.Fatalf("exact str branch should win, got %#v", out)
	}

	v = mustCompile(t, unionSchema("int", "str"))
	out, err = v.ValidateValue(ctxbg, "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5" {
		t.Fatalf("exact str branch should win regardless of order, got %#v", out)
	}
}

func TestUnionOptional(t *testing.T) {
	v := mustCompile(t, unionSchema("none", "int"))
	out, err := v.ValidateValue(ctxbg, nil)
	if err != nil || out != nil {
		t.Fatalf("nil should pass the none branch: out=%v err=%v", out, err)
	}
	out, err = v.ValidateValue(ctxbg, 1)
	if err != nil || out != int64(1) {
		t.Fatalf("1 should pass the int branch: out=%v err=%v", out, err)
	}
	_, err = v.ValidateValue(ctxbg, "hello")
	ve := mustValidationError(t, err)
	if ve.ErrorCount() != 1 {
		t.Fatalf("expected the closest candidate's single error, got %v", ve)
	}
}

// On total failure the report carries only the closest candidate: the model
// with one missing field beats the model with two.
func TestUnionClosestCandidate(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "union",
		"choices": []any{
			map[string]any{"type": "model", "fields": map[string]any{
				"a": map[string]any{"type": "int"},
				"b": map[string]any{"type": "str"},
			}},
			map[string]any{"type": "model", "fields": map[string]any{
				"c": map[string]any{"type": "int"},
				"d": map[string]any{"type": "str"},
				"e": map[string]any{"type": "str"},
			}},
		},
	})
	_, err := v.ValidateValue(ctxbg, map[string]any{"a": 2})
	ve := mustValidationError(t, err)
	if ve.ErrorCount() != 1 {
		t.Fatalf("expected only the closest candidate's errors, got %v", ve)
	}
	le := ve.Errors[0]
	if le.Kind != pycore.KindMissing || !reflect.DeepEqual(le.Loc, pycore.Loc{"b"}) {
		t.Fatalf("unexpected error %v", le)
	}
}

func TestUnionListBranches(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "union",
		"choices": []any{
			map[string]any{"type": "list", "items": map[string]any{"type": "bool"}},
			map[string]any{"type": "list", "items": map[string]any{"type": "int"}},
		},
	})
	out, err := v.ValidateValue(ctxbg, []any{"true", true, "no"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []any{true, true, false}) {
		t.Fatalf("bool branch output %#v", out)
	}
	out, err = v.ValidateValue(ctxbg, []any{5, 6, "789"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []any{int64(5), int64(6), int64(789)}) {
		t.Fatalf("int branch output %#v", out)
	}
}

// Unions over token input buffer exactly one subtree and still validate.
func TestUnionFromJSON(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "model",
		"fields": map[string]any{
			"id": map[string]any{"type": "union", "choices": []any{
				map[string]any{"type": "int"},
				map[string]any{"type": "str"},
			}},
			"ok": map[string]any{"type": "bool"},
		},
	})
	out, err := v.ValidateJSON(ctxbg, []byte(`{"id":"abc","ok":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := out.(map[string]any)
	if m["id"] != "abc" || m["ok"] != true {
		t.Fatalf("unexpected output %#v", out)
	}
}
