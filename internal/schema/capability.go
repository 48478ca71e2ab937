package schema

import (
	"fmt"
	"strings"
)

const summaryMaxNames = 5

// IsRequired reports whether a value must be present for f.
func IsRequired(f Field) bool {
	if f == nil {
		return false
	}
	return f.FieldInfo().Required
}

// IsMultiple reports whether f holds more than one value: any list,
// or a scalar declared multiple.
func IsMultiple(f Field) bool {
	switch f := f.(type) {
	case *Scalar:
		return f.Multiple
	case *ListSingle, *ListFixed, *ListUnion, *ListBare:
		return true
	default:
		return false
	}
}

// Summary returns a compact one-line description of a field's shape,
// e.g. "list<image|text>" or "object{alt,src}".
func Summary(f Field) string {
	switch f := f.(type) {
	case nil:
		return "none"
	case *Scalar:
		w := f.Widget
		if w == "" {
			w = "string"
		}
		if f.Multiple {
			return w + "(multiple)"
		}
		return w
	case *Object:
		return "object{" + truncateList(fieldNames(f.Fields), summaryMaxNames) + "}"
	case *ObjectUnion:
		return "object<" + strings.Join(variantNames(f.Variants), "|") + ">"
	case *ListSingle:
		return "list[" + Summary(f.Item) + "]"
	case *ListFixed:
		return "list[" + Summary(f.Item) + "]"
	case *ListUnion:
		return "list<" + strings.Join(variantNames(f.Variants), "|") + ">"
	case *ListBare:
		return "list"
	default:
		return "unknown"
	}
}

func fieldNames(fields []Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.FieldInfo().Name)
	}
	return names
}

func variantNames(variants []*Object) []string {
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Name)
	}
	return names
}

// truncateList joins items with "," and appends +N if truncated.
func truncateList(items []string, max int) string {
	if max <= 0 || len(items) <= max {
		return strings.Join(items, ",")
	}
	return strings.Join(items[:max], ",") + fmt.Sprintf(",+%d", len(items)-max)
}
