package language

import "fmt"

// asMap returns v as a string-keyed mapping. YAML decoders produce
// map[any]any when a mapping has non-string keys; those keys are
// stringified. Nested mappings are normalized too.
func asMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalize(item)
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out, true
	}
	return nil, false
}

// asList returns v as a generic sequence. Documents built in Go may use
// typed slices where a YAML decoder produces []any.
func asList(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// normalize converts every nested map[any]any in v to map[string]any so the
// value can be encoded as JSON.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any, map[any]any:
		m, _ := asMap(v)
		return m
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

// describe names the shape of a decoded value for error messages.
func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", v)
	case bool:
		return fmt.Sprintf("boolean %v", v)
	case int, int64, uint64, float64:
		return fmt.Sprintf("number %v", v)
	case []any, []string:
		return "a list"
	case map[string]any, map[any]any:
		return "a mapping"
	}
	return fmt.Sprintf("%T", v)
}
