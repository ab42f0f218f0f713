package pycore_test

import (
	"context"
	"reflect"
	"testing"

	pycore "github.com/indietyp/pydantic-core"
)

var ctxbg = context.Background()

func abSchema() map[string]any {
	return map[string]any{
		"type": "model",
		"fields": map[string]any{
			"a": map[string]any{"type": "int"},
			"b": map[string]any{"type": "int"},
		},
	}
}

func mustValidationError(t *testing.T, err error) *pycore.ValidationError {
	t.Helper()
	ve, ok := pycore.AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v (%T)", err, err)
	}
	return ve
}

func TestCrossModeConsistency(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "model",
		"fields": map[string]any{
			"name": map[string]any{"type": "str"},
			"age":  map[string]any{"type": "int"},
			"tags": map[string]any{
				"schema":   map[string]any{"type": "list", "items": map[string]any{"type": "str"}},
				"required": false,
			},
		},
	})
	native := map[string]any{"name": "ada", "age": 36, "tags": []any{"x", "y"}}
	fromValue, err := v.ValidateValue(ctxbg, native)
	if err != nil {
		t.Fatalf("native validation failed: %v", err)
	}
	fromText, err := v.ValidateJSON(ctxbg, []byte(`{"name":"ada","age":36,"tags":["x","y"]}`))
	if err != nil {
		t.Fatalf("text validation failed: %v", err)
	}
	if !reflect.DeepEqual(fromValue, fromText) {
		t.Fatalf("outputs differ: native=%#v text=%#v", fromValue, fromText)
	}
}

func TestIdempotence(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "model",
		"fields": map[string]any{
			"n": map[string]any{"type": "int"},
			"f": map[string]any{"type": "float"},
			"s": map[string]any{"type": "str"},
		},
	})
	out1, err := v.ValidateValue(ctxbg, map[string]any{"n": "7", "f": "2.5", "s": 9})
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	out2, err := v.ValidateValue(ctxbg, out1)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if !reflect.DeepEqual(out1, out2) {
		t.Fatalf("coercion was re-applied: %#v vs %#v", out1, out2)
	}
}

func TestErrorCompleteness_MissingFields(t *testing.T) {
	v := mustCompile(t, abSchema())
	for name, run := range map[string]func() (any, error){
		"native": func() (any, error) { return v.ValidateValue(ctxbg, map[string]any{}) },
		"text":   func() (any, error) { return v.ValidateJSON(ctxbg, []byte(`{}`)) },
	} {
		_, err := run()
		ve := mustValidationError(t, err)
		if ve.ErrorCount() != 2 {
			t.Fatalf("%s: expected exactly 2 errors, got %d: %v", name, ve.ErrorCount(), ve)
		}
		for i, want := range []string{"a", "b"} {
			le := ve.Errors[i]
			if le.Kind != pycore.KindMissing {
				t.Errorf("%s: error %d kind = %q, want missing", name, i, le.Kind)
			}
			if !reflect.DeepEqual(le.Loc, pycore.Loc{want}) {
				t.Errorf("%s: error %d loc = %v, want [%s]", name, i, le.Loc, want)
			}
		}
	}
}

func TestContainerAggregateAll(t *testing.T) {
	v := mustCompile(t, map[string]any{"type": "list", "items": map[string]any{"type": "int"}})
	_, err := v.ValidateValue(ctxbg, []any{1, "x", 3, "y"})
	ve := mustValidationError(t, err)
	if ve.ErrorCount() != 2 {
		t.Fatalf("expected exactly 2 errors, got %d: %v", ve.ErrorCount(), ve)
	}
	if !reflect.DeepEqual(ve.Errors[0].Loc, pycore.Loc{1}) || !reflect.DeepEqual(ve.Errors[1].Loc, pycore.Loc{3}) {
		t.Fatalf("error locs = %v, %v; want [1], [3]", ve.Errors[0].Loc, ve.Errors[1].Loc)
	}
	out, err := v.ValidateValue(ctxbg, []any{1, "2", 3})
	if err != nil {
		t.Fatalf("valid input failed: %v", err)
	}
	if !reflect.DeepEqual(out, []any{int64(1), int64(2), int64(3)}) {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestRecursiveSchema(t *testing.T) {
	v := mustCompile(t, treeSchema())
	deep := map[string]any{"value": 1}
	for i := 2; i <= 5; i++ {
		deep = map[string]any{"value": i, "children": []any{deep}}
	}
	if _, err := v.ValidateValue(ctxbg, deep); err != nil {
		t.Fatalf("depth-5 input should validate: %v", err)
	}

	limited := mustCompile(t, treeSchema(), pycore.Config{MaxDepth: 8})
	_, err := limited.ValidateValue(ctxbg, deep)
	ve := mustValidationError(t, err)
	if ve.ErrorCount() != 1 {
		t.Fatalf("expected a single recursion error, got %v", ve)
	}
	le := ve.Errors[0]
	if le.Kind != pycore.KindRecursionLoop {
		t.Fatalf("kind = %q, want recursion_loop", le.Kind)
	}
	if len(le.Loc) == 0 {
		t.Fatalf("recursion error should carry the path where the limit tripped")
	}
}

func TestValidateAssignment(t *testing.T) {
	v := mustCompile(t, abSchema(), pycore.Config{Strict: true})
	record := map[string]any{"a": int64(1), "b": int64(2)}

	updated, err := v.ValidateAssignment(ctxbg, "a", 5, record)
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if updated["a"] != int64(5) || updated["b"] != int64(2) {
		t.Fatalf("unexpected updated record %#v", updated)
	}
	if record["a"] != int64(1) {
		t.Fatalf("original record was mutated: %#v", record)
	}

	_, err = v.ValidateAssignment(ctxbg, "a", "not-an-int", record)
	ve := mustValidationError(t, err)
	if ve.ErrorCount() != 1 {
		t.Fatalf("expected a single error, got %v", ve)
	}
	if !reflect.DeepEqual(ve.Errors[0].Loc, pycore.Loc{"a"}) {
		t.Fatalf("error loc = %v, want [a]", ve.Errors[0].Loc)
	}
	if record["a"] != int64(1) || record["b"] != int64(2) {
		t.Fatalf("failed assignment leaked into original record: %#v", record)
	}
}

func TestValidateAssignment_UnknownField(t *testing.T) {
	v := mustCompile(t, abSchema())
	_, err := v.ValidateAssignment(ctxbg, "zzz", 1, map[string]any{"a": int64(1), "b": int64(2)})
	ve := mustValidationError(t, err)
	if ve.Errors[0].Kind != pycore.KindExtraForbidden {
		t.Fatalf("kind = %q, want extra_forbidden", ve.Errors[0].Kind)
	}

	allow := mustCompile(t, map[string]any{
		"type":   "model",
		"extra":  "allow",
		"fields": map[string]any{"a": map[string]any{"type": "int"}},
	})
	out, err := allow.ValidateAssignment(ctxbg, "zzz", 1, map[string]any{"a": int64(1)})
	if err != nil {
		t.Fatalf("allow-policy assignment failed: %v", err)
	}
	if out["zzz"] != 1 {
		t.Fatalf("expected passthrough of unknown field, got %#v", out)
	}
}

func TestValidateAssignment_NonModel(t *testing.T) {
	v := mustCompile(t, map[string]any{"type": "int"})
	if _, err := v.ValidateAssignment(ctxbg, "a", 1, nil); err == nil {
		t.Fatalf("expected error for non-model assignment")
	}
}

func TestModelExtraPolicies(t *testing.T) {
	base := map[string]any{"a": 1, "junk": true}
	fields := map[string]any{"a": map[string]any{"type": "int"}}

	ignore := mustCompile(t, map[string]any{"type": "model", "fields": fields})
	out, err := ignore.ValidateValue(ctxbg, base)
	if err != nil {
		t.Fatalf("ignore policy failed: %v", err)
	}
	if _, present := out.(map[string]any)["junk"]; present {
		t.Fatalf("ignore policy kept unknown key: %#v", out)
	}

	forbid := mustCompile(t, map[string]any{"type": "model", "fields": fields, "extra": "forbid"})
	_, err = forbid.ValidateValue(ctxbg, base)
	ve := mustValidationError(t, err)
	if ve.Errors[0].Kind != pycore.KindExtraForbidden || !reflect.DeepEqual(ve.Errors[0].Loc, pycore.Loc{"junk"}) {
		t.Fatalf("unexpected forbid error %v", ve.Errors[0])
	}

	allow := mustCompile(t, map[string]any{"type": "model", "fields": fields, "extra": "allow"})
	out, err = allow.ValidateValue(ctxbg, base)
	if err != nil {
		t.Fatalf("allow policy failed: %v", err)
	}
	if out.(map[string]any)["junk"] != true {
		t.Fatalf("allow policy dropped unknown key: %#v", out)
	}
}

func TestModelDefaults(t *testing.T) {
	v := mustCompile(t, map[string]any{
		"type": "model",
		"fields": map[string]any{
			"a": map[string]any{"type": "int"},
			"b": map[string]any{"schema": map[string]any{"type": "int"}, "default": int64(42)},
		},
	})
	out, err := v.ValidateValue(ctxbg, map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("defaults should not error: %v", err)
	}
	if out.(map[string]any)["b"] != int64(42) {
		t.Fatalf("default not materialized: %#v", out)
	}
}

func TestConcurrentValidation(t *testing.T) {
	v := mustCompile(t, abSchema())
	done := make(chan error, 16)
	for g := 0; g < 16; g++ {
		go func() {
			for i := 0; i < 100; i++ {
				if _, err := v.ValidateJSON(ctxbg, []byte(`{"a":1,"b":2}`)); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for g := 0; g < 16; g++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent validation failed: %v", err)
		}
	}
}
