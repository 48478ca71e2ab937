package document

import (
	"sort"
	"strconv"
)

// Flatten maps the concrete key path of every leaf in doc to its value.
// Array elements are addressed by index ("blocks.0.type"). Empty objects
// and arrays are kept as leaves.
func Flatten(doc map[string]any) map[string]any {
	values := make(map[string]any)
	for k, child := range doc {
		flatten(child, k, values)
	}
	return values
}

func flatten(v any, prefix string, values map[string]any) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			values[prefix] = val
			return
		}
		for k, child := range val {
			flatten(child, prefix+"."+k, values)
		}
	case []any:
		if len(val) == 0 {
			values[prefix] = val
			return
		}
		for i, child := range val {
			flatten(child, prefix+"."+strconv.Itoa(i), values)
		}
	default:
		values[prefix] = v
	}
}

// Paths returns the keys of a flattened value map in sorted order.
func Paths(values map[string]any) []string {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
