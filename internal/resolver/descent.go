package resolver

import (
	"log/slog"

	"github.com/agentic-research/fieldpath/internal/keypath"
	"github.com/agentic-research/fieldpath/internal/schema"
)

// walker holds the per-query state of one descent.
type walker struct {
	values map[string]any
	log    *slog.Logger
}

// descend looks segs[0] up by name in fields and continues below it.
// path is the concrete key path of the value holding fields.
func (w *walker) descend(fields []schema.Field, segs []keypath.Segment, path string) (schema.Field, bool) {
	seg := segs[0]
	f, ok := schema.Lookup(fields, seg.Name)
	if !ok {
		return w.miss(seg, "no field with this name")
	}
	return w.descendInto(f, seg, segs[1:], keypath.Join(path, seg.Key()))
}

// descendInto resolves the remaining segments below f. at is the segment
// that selected f (its annotation picks union variants) and path is the
// concrete key path of f's value.
func (w *walker) descendInto(f schema.Field, at keypath.Segment, rest []keypath.Segment, path string) (schema.Field, bool) {
	if _, isUnion := f.(*schema.ObjectUnion); at.HasVariant && !isUnion {
		return w.miss(at, "variant annotation on a field that is not a union")
	}

	switch f := f.(type) {
	case *schema.Scalar:
		if len(rest) == 0 {
			return f, true
		}
		if f.Multiple && len(rest) == 1 && rest[0].IsIndex() {
			return f, true
		}
		return w.miss(rest[0], "scalar has no children")

	case *schema.Object:
		if len(rest) == 0 {
			return f, true
		}
		return w.descend(f.Fields, rest, path)

	case *schema.ObjectUnion:
		variant, ok := resolveVariant(&f.Union, at, path, w.values)
		if !ok {
			return w.miss(at, "unresolved variant")
		}
		return w.descendVariant(&f.Union, variant, rest, path)

	case *schema.ListBare:
		if len(rest) == 0 {
			return f, true
		}
		return w.miss(rest[0], "list declares no item shape")

	case *schema.ListSingle:
		if len(rest) == 0 {
			return f, true
		}
		next := rest[0]
		if next.IsPosition() {
			return w.descendInto(f.Item, next, rest[1:], keypath.Join(path, next.Key()))
		}
		// Name access without an index. The item's own name is consumed like
		// an index; any other name addresses an object item's children, or
		// stands for a leaf item itself.
		if next.Name == schema.NameOf(f.Item) {
			return w.descendInto(f.Item, next, rest[1:], keypath.Join(path, next.Key()))
		}
		switch item := f.Item.(type) {
		case *schema.Object:
			return w.descend(item.Fields, rest, path)
		case *schema.Scalar, *schema.ListBare:
			if next.HasVariant || len(rest) > 1 {
				return w.miss(next, "list item has no children")
			}
			return item, true
		default:
			return w.miss(next, "list item must be addressed by index or name")
		}

	case *schema.ListFixed:
		if len(rest) == 0 {
			return f, true
		}
		next := rest[0]
		if !next.IsPosition() || next.HasVariant {
			return w.miss(next, "list items must be addressed by index")
		}
		if len(rest) == 1 {
			return f.Item, true
		}
		return w.descend(f.Item.Fields, rest[1:], keypath.Join(path, next.Key()))

	case *schema.ListUnion:
		if len(rest) == 0 {
			return f, true
		}
		next := rest[0]
		if !next.IsPosition() {
			return w.miss(next, "list items must be addressed by index")
		}
		itemPath := keypath.Join(path, next.Key())
		rest = rest[1:]
		sel := next
		if !next.HasVariant && len(rest) > 0 && isAnnotationOnly(rest[0]) {
			sel, rest = rest[0], rest[1:]
		}
		variant, ok := resolveVariant(&f.Union, sel, itemPath, w.values)
		if !ok {
			return w.miss(sel, "unresolved variant")
		}
		return w.descendVariant(&f.Union, variant, rest, itemPath)

	default:
		return w.miss(at, "unknown field kind")
	}
}

// descendVariant continues below the selected variant of a union.
func (w *walker) descendVariant(u *schema.Union, variant *schema.Object, rest []keypath.Segment, path string) (schema.Field, bool) {
	if len(rest) == 0 {
		return variant, true
	}
	if len(rest) == 1 && rest[0].Name == u.TypeKey && !rest[0].HasVariant {
		if _, declared := variant.Lookup(u.TypeKey); !declared {
			return u.Discriminator, true
		}
	}
	return w.descend(variant.Fields, rest, path)
}

func (w *walker) miss(seg keypath.Segment, reason string) (schema.Field, bool) {
	w.log.Debug("field not found", "segment", seg.Raw, "reason", reason)
	return nil, false
}

// isAnnotationOnly reports whether s is a bare "<variant>" chunk.
func isAnnotationOnly(s keypath.Segment) bool {
	return s.HasVariant && s.Name == "" && !s.HasIndex
}
