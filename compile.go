package pycore

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"sort"

	j "github.com/goccy/go-json"
)

// Compile translates a declarative schema description into an immutable
// validator tree. The description is a nested configuration value dispatched
// on its "type" discriminator; raw JSON bytes are accepted as well. All
// schema-shape checking happens here: a *SchemaError from Compile is the only
// way a malformed schema can surface, never from a validation call.
func Compile(schema any, cfgs ...Config) (*Validator, error) {
	var cfg Config
	if len(cfgs) > 0 {
		cfg = cfgs[len(cfgs)-1]
	}
	root, err := normalizeSchema(schema)
	if err != nil {
		return nil, err
	}
	c := &compiler{slots: map[string]*slot{}}
	n, err := c.build(root)
	if err != nil {
		return nil, err
	}
	for name, s := range c.slots {
		if !s.bound {
			return nil, schemaErrorf("recursive reference %q never resolved", name)
		}
	}
	title := cfg.Title
	if title == "" {
		title, _ = root["title"].(string)
	}
	if title == "" {
		title, _ = root["type"].(string)
	}
	return &Validator{root: n, cfg: cfg, title: title}, nil
}

func normalizeSchema(schema any) (map[string]any, error) {
	switch t := schema.(type) {
	case map[string]any:
		return t, nil
	case []byte:
		dec := j.NewDecoder(bytes.NewReader(t))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, schemaErrorf("invalid JSON schema description: %v", err)
		}
		return m, nil
	default:
		return nil, schemaErrorf("unsupported schema description type %T", schema)
	}
}

// compiler holds the registration table for named recursive schemas during
// one build. Two-pass: a slot is registered (possibly pending) before the
// container body is built, then patched.
type compiler struct {
	slots map[string]*slot
}

func (c *compiler) build(m map[string]any) (node, error) {
	typ, ok := m["type"].(string)
	if !ok {
		return nil, schemaErrorf(`schema missing "type" discriminator`)
	}
	switch typ {
	case "none", "null":
		return noneNode{}, nil
	case "bool":
		return boolNode{}, nil
	case "int":
		return c.buildInt(m)
	case "float":
		return c.buildFloat(m)
	case "str", "string":
		return c.buildStr(m)
	case "any":
		return anyNode{}, nil
	case "list":
		return c.buildList(m)
	case "set":
		return c.buildSet(m)
	case "map":
		return c.buildMap(m)
	case "model":
		return c.buildModel(m)
	case "union":
		return c.buildUnion(m)
	case "recursive-container":
		return c.buildRecursiveContainer(m)
	case "recursive-ref":
		return c.buildRecursiveRef(m)
	default:
		return nil, schemaErrorf("unknown schema type %q", typ)
	}
}

func (c *compiler) buildInt(m map[string]any) (node, error) {
	n := &intNode{}
	var err error
	if n.ge, err = intConstraint(m, "ge"); err != nil {
		return nil, err
	}
	if n.gt, err = intConstraint(m, "gt"); err != nil {
		return nil, err
	}
	if n.le, err = intConstraint(m, "le"); err != nil {
		return nil, err
	}
	if n.lt, err = intConstraint(m, "lt"); err != nil {
		return nil, err
	}
	lo, hi := n.ge, n.le
	if lo == nil {
		lo = n.gt
	}
	if hi == nil {
		hi = n.lt
	}
	if lo != nil && hi != nil && *hi < *lo {
		return nil, schemaErrorf("int constraint maximum %d below minimum %d", *hi, *lo)
	}
	return n, nil
}

func (c *compiler) buildFloat(m map[string]any) (node, error) {
	n := &floatNode{}
	var err error
	if n.ge, err = floatConstraint(m, "ge"); err != nil {
		return nil, err
	}
	if n.gt, err = floatConstraint(m, "gt"); err != nil {
		return nil, err
	}
	if n.le, err = floatConstraint(m, "le"); err != nil {
		return nil, err
	}
	if n.lt, err = floatConstraint(m, "lt"); err != nil {
		return nil, err
	}
	lo, hi := n.ge, n.le
	if lo == nil {
		lo = n.gt
	}
	if hi == nil {
		hi = n.lt
	}
	if lo != nil && hi != nil && *hi < *lo {
		return nil, schemaErrorf("float constraint maximum %v below minimum %v", *hi, *lo)
	}
	return n, nil
}

func (c *compiler) buildStr(m map[string]any) (node, error) {
	n := &strNode{minLen: -1, maxLen: -1}
	if v, err := lengthConstraint(m, "min_length"); err != nil {
		return nil, err
	} else if v != nil {
		n.minLen = *v
	}
	if v, err := lengthConstraint(m, "max_length"); err != nil {
		return nil, err
	} else if v != nil {
		n.maxLen = *v
	}
	if n.minLen >= 0 && n.maxLen >= 0 && n.maxLen < n.minLen {
		return nil, schemaErrorf("str max_length %d below min_length %d", n.maxLen, n.minLen)
	}
	if raw, present := m["pattern"]; present {
		p, ok := raw.(string)
		if !ok {
			return nil, schemaErrorf(`str "pattern" must be a string`)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, schemaErrorf("str pattern does not compile: %v", err)
		}
		n.pattern = re
	}
	return n, nil
}

func (c *compiler) buildList(m map[string]any) (node, error) {
	item, err := c.childSchema(m, "items", false)
	if err != nil {
		return nil, err
	}
	n := &listNode{item: item, minItems: -1, maxItems: -1}
	if v, err := lengthConstraint(m, "min_items"); err != nil {
		return nil, err
	} else if v != nil {
		n.minItems = *v
	}
	if v, err := lengthConstraint(m, "max_items"); err != nil {
		return nil, err
	} else if v != nil {
		n.maxItems = *v
	}
	if n.minItems >= 0 && n.maxItems >= 0 && n.maxItems < n.minItems {
		return nil, schemaErrorf("list max_items %d below min_items %d", n.maxItems, n.minItems)
	}
	return n, nil
}

func (c *compiler) buildSet(m map[string]any) (node, error) {
	item, err := c.childSchema(m, "items", false)
	if err != nil {
		return nil, err
	}
	return &setNode{item: item}, nil
}

func (c *compiler) buildMap(m map[string]any) (node, error) {
	val, err := c.childSchema(m, "values", false)
	if err != nil {
		return nil, err
	}
	return &mapNode{val: val}, nil
}

func (c *compiler) buildModel(m map[string]any) (node, error) {
	rawFields, ok := m["fields"].(map[string]any)
	if !ok {
		return nil, schemaErrorf(`model schema requires a "fields" mapping`)
	}
	extra := ExtraIgnore
	if raw, present := m["extra"]; present {
		s, ok := raw.(string)
		if !ok {
			return nil, schemaErrorf(`model "extra" must be a string`)
		}
		switch s {
		case "ignore":
			extra = ExtraIgnore
		case "forbid":
			extra = ExtraForbid
		case "allow", "forward":
			extra = ExtraAllow
		default:
			return nil, schemaErrorf("unknown extra policy %q", s)
		}
	}
	names := make([]string, 0, len(rawFields))
	for name := range rawFields {
		names = append(names, name)
	}
	sort.Strings(names)
	mn := &modelNode{index: make(map[string]int, len(names)), extra: extra}
	for _, name := range names {
		f, err := c.buildField(name, rawFields[name])
		if err != nil {
			return nil, err
		}
		mn.index[name] = len(mn.fields)
		mn.fields = append(mn.fields, f)
	}
	return mn, nil
}

// buildField accepts either a schema map directly or the expanded
// {"schema": S, "required": bool, "default": any} field spec form.
func (c *compiler) buildField(name string, raw any) (modelField, error) {
	fm, ok := raw.(map[string]any)
	if !ok {
		return modelField{}, schemaErrorf("model field %q: schema must be a mapping", name)
	}
	f := modelField{name: name, required: true}
	spec := fm
	if _, expanded := fm["schema"]; expanded {
		sub, ok := fm["schema"].(map[string]any)
		if !ok {
			return modelField{}, schemaErrorf(`model field %q: "schema" must be a mapping`, name)
		}
		spec = sub
		if rv, present := fm["required"]; present {
			b, ok := rv.(bool)
			if !ok {
				return modelField{}, schemaErrorf(`model field %q: "required" must be a bool`, name)
			}
			f.required = b
		}
		if dv, present := fm["default"]; present {
			f.hasDefault = true
			f.def = dv
			f.required = false
		}
	} else if dv, present := fm["default"]; present {
		// shorthand: default declared inline on the field schema
		f.hasDefault = true
		f.def = dv
		f.required = false
		spec = make(map[string]any, len(fm))
		for k, v := range fm {
			if k != "default" {
				spec[k] = v
			}
		}
	}
	n, err := c.build(spec)
	if err != nil {
		return modelField{}, err
	}
	f.node = n
	return f, nil
}

func (c *compiler) buildUnion(m map[string]any) (node, error) {
	raw, ok := m["choices"].([]any)
	if !ok || len(raw) == 0 {
		return nil, schemaErrorf(`union schema: "choices" is required`)
	}
	u := &unionNode{choices: make([]node, 0, len(raw))}
	for i, rc := range raw {
		cm, ok := rc.(map[string]any)
		if !ok {
			return nil, schemaErrorf("union choice %d must be a mapping", i)
		}
		n, err := c.build(cm)
		if err != nil {
			return nil, err
		}
		u.choices = append(u.choices, n)
	}
	return u, nil
}

func (c *compiler) buildRecursiveContainer(m map[string]any) (node, error) {
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return nil, schemaErrorf(`recursive-container requires a "name"`)
	}
	s, exists := c.slots[name]
	if exists && s.bound {
		return nil, schemaErrorf("duplicate recursive container name %q", name)
	}
	if !exists {
		s = &slot{name: name}
		c.slots[name] = s
	}
	body, err := c.childSchema(m, "schema", true)
	if err != nil {
		return nil, err
	}
	s.node = body
	s.bound = true
	return body, nil
}

func (c *compiler) buildRecursiveRef(m map[string]any) (node, error) {
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return nil, schemaErrorf(`recursive-ref requires a "name"`)
	}
	s, exists := c.slots[name]
	if !exists {
		s = &slot{name: name}
		c.slots[name] = s
	}
	return &refNode{slot: s}, nil
}

// childSchema builds the child schema stored under key. When required is
// false a missing child defaults to any.
func (c *compiler) childSchema(m map[string]any, key string, required bool) (node, error) {
	raw, present := m[key]
	if !present {
		if required {
			return nil, schemaErrorf("%q schema requires %q", m["type"], key)
		}
		return anyNode{}, nil
	}
	cm, ok := raw.(map[string]any)
	if !ok {
		return nil, schemaErrorf("%q of %q schema must be a mapping", key, m["type"])
	}
	return c.build(cm)
}

// ---- constraint value coercion (schema side, not input side) ----

func intConstraint(m map[string]any, key string) (*int64, error) {
	raw, present := m[key]
	if !present {
		return nil, nil
	}
	i, ok := schemaInt64(raw)
	if !ok {
		return nil, schemaErrorf("constraint %q must be an integer, got %T", key, raw)
	}
	return &i, nil
}

func floatConstraint(m map[string]any, key string) (*float64, error) {
	raw, present := m[key]
	if !present {
		return nil, nil
	}
	f, ok := schemaFloat64(raw)
	if !ok {
		return nil, schemaErrorf("constraint %q must be a number, got %T", key, raw)
	}
	return &f, nil
}

func lengthConstraint(m map[string]any, key string) (*int, error) {
	raw, present := m[key]
	if !present {
		return nil, nil
	}
	i, ok := schemaInt64(raw)
	if !ok || i < 0 {
		return nil, schemaErrorf("constraint %q must be a non-negative integer", key)
	}
	v := int(i)
	return &v, nil
}

func schemaInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func schemaFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
