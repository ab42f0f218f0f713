package pycore

import (
	"strconv"
	"strings"
)

// Loc is the ordered path of field names (string) and sequence indices (int)
// identifying where within a nested input an error occurred. The root is the
// empty path.
type Loc []any

// Field returns a new Loc extended with a field name.
func (l Loc) Field(name string) Loc {
	return append(append(Loc{}, l...), name)
}

// Index returns a new Loc extended with a sequence index.
func (l Loc) Index(i int) Loc {
	return append(append(Loc{}, l...), i)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the path as an RFC 6901 JSON Pointer. The root renders
// as "/".
func (l Loc) Pointer() string {
	if len(l) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, it := range l {
		b.WriteByte('/')
		switch v := it.(type) {
		case string:
			b.WriteString(pointerEscaper.Replace(v))
		case int:
			b.WriteString(strconv.Itoa(v))
		}
	}
	return b.String()
}

// String renders the path as an arrow chain for pretty error output, e.g.
// "items -> 2 -> price".
func (l Loc) String() string {
	if len(l) == 0 {
		return ""
	}
	parts := make([]string, 0, len(l))
	for _, it := range l {
		switch v := it.(type) {
		case string:
			parts = append(parts, v)
		case int:
			parts = append(parts, strconv.Itoa(v))
		}
	}
	return strings.Join(parts, " -> ")
}

// locFromPointer parses a JSON Pointer back into a Loc. Purely numeric
// tokens become indices.
func locFromPointer(p string) Loc {
	if p == "" || p == "/" {
		return nil
	}
	var out Loc
	for _, tok := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		if i, err := strconv.Atoi(tok); err == nil {
			out = append(out, i)
			continue
		}
		out = append(out, tok)
	}
	return out
}
