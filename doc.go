// Package pycore is a schema-driven data validation and coercion engine.
//
// A declarative schema description is compiled once into an immutable tree
// of validator nodes:
//
//	v, err := pycore.Compile(map[string]any{
//		"type": "model",
//		"fields": map[string]any{
//			"name": map[string]any{"type": "str"},
//			"age":  map[string]any{"type": "int", "ge": 0},
//		},
//	})
//
// The compiled Validator is then exercised repeatedly, against native Go
// values or against raw JSON text, with one shared validation semantics:
//
//	out, err := v.ValidateValue(ctx, map[string]any{"name": "ada", "age": "36"})
//	out, err = v.ValidateJSON(ctx, []byte(`{"name": "ada", "age": 36}`))
//
// Validation aggregates every independently detectable fault into one
// *ValidationError, each entry addressable by its location path. Coercion
// follows fixed, documented ladders in lax mode and is disabled entirely by
// Config.Strict. Text input is decoded on demand, token by token, so huge or
// partially malformed inputs still report every error found before the
// broken region.
package pycore
