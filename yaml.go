package pycore

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CompileYAML compiles a schema description authored in YAML. The document
// is decoded, normalized to string-keyed mappings, and handed to Compile; a
// YAML schema behaves identically to its JSON equivalent.
func CompileYAML(data []byte, cfgs ...Config) (*Validator, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, schemaErrorf("invalid YAML schema description: %v", err)
	}
	m, ok := yamlToStringMap(doc).(map[string]any)
	if !ok {
		return nil, schemaErrorf("YAML schema description must be a mapping")
	}
	return Compile(m, cfgs...)
}

// yamlToStringMap normalizes yaml.v3 output: mapping keys become strings and
// nested containers are converted recursively.
func yamlToStringMap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = yamlToStringMap(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = yamlToStringMap(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = yamlToStringMap(val)
		}
		return out
	default:
		return v
	}
}
