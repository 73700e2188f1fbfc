package analysis

import (
	"fmt"
	"sort"
	"strconv"
)

// Document is the nested analysis object returned by the backend. Every field
// is optional; accessors substitute a documented default instead of failing.
type Document map[string]any

// Pair is one key/value of an object expanded in place of a scalar.
type Pair struct {
	Key   string
	Value string
}

// Section returns the nested object at the given key path. Missing keys or
// non-object values yield an empty Document.
func (d Document) Section(path ...string) Document {
	cur := d
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return Document{}
		}
		cur = Document(next)
	}
	return cur
}

// Str returns the scalar at key as text, "N/A" when absent or non-scalar.
func (d Document) Str(key string) string {
	return d.StrOr(key, "N/A")
}

// StrOr is Str with a caller-supplied default.
func (d Document) StrOr(key, def string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return def
	}
	s, ok := scalarString(v)
	if !ok {
		return def
	}
	return s
}

// Int returns the number at key floored to int, 0 when absent or non-numeric.
func (d Document) Int(key string) int {
	switch v := d[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float returns the number at key, 0 when absent or non-numeric.
func (d Document) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Percent renders the value at key as a percentage string, "0%" by default.
// Backend sometimes sends "87%" as text and sometimes 87 as a number.
func (d Document) Percent(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return "0%"
	}
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%g%%", n)
	case int:
		return fmt.Sprintf("%d%%", n)
	case string:
		if n == "" {
			return "0%"
		}
		return n
	default:
		return "0%"
	}
}

// Ratio returns the ratio string at key, "1:1" when absent.
func (d Document) Ratio(key string) string {
	return d.StrOr(key, "1:1")
}

// List returns the array at key, empty when absent or not an array.
func (d Document) List(key string) []any {
	v, ok := d[key].([]any)
	if !ok {
		return nil
	}
	return v
}

// Strings returns the array at key with every scalar element stringified.
// Non-scalar elements fall back to their raw representation.
func (d Document) Strings(key string) []string {
	items := d.List(key)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := scalarString(it); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", it))
		}
	}
	return out
}

// Docs returns the array at key as Documents, skipping non-object elements.
func (d Document) Docs(key string) []Document {
	items := d.List(key)
	out := make([]Document, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, Document(m))
		}
	}
	return out
}

// Pairs expands the object at key one level deep, for places where a scalar
// was expected but the backend sent an object. Values nested deeper than one
// level degrade to their raw representation. Keys are sorted so rendering is
// deterministic.
func (d Document) Pairs(key string) []Pair {
	m, ok := d[key].(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Pair, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		if s, ok := scalarString(v); ok {
			out = append(out, Pair{Key: k, Value: s})
		} else {
			out = append(out, Pair{Key: k, Value: fmt.Sprintf("%v", v)})
		}
	}
	return out
}

// KeyedDoc is one object-valued entry of a Document.
type KeyedDoc struct {
	Key string
	Doc Document
}

// Objects returns the object-valued entries of d sorted by key, for sections
// the backend keys by name (e.g. one entry per universal objection).
func (d Document) Objects() []KeyedDoc {
	keys := make([]string, 0, len(d))
	for k := range d {
		if _, ok := d[k].(map[string]any); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]KeyedDoc, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyedDoc{Key: k, Doc: Document(d[k].(map[string]any))})
	}
	return out
}

// IsObject reports whether the value at key is a nested object.
func (d Document) IsObject(key string) bool {
	_, ok := d[key].(map[string]any)
	return ok
}

// Has reports key presence with a non-nil value.
func (d Document) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}
