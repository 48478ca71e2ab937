// Package schema is the in-memory model of a collection's field definitions.
//
// A Field is a tagged union: every concrete type reports its Kind, and
// consumers switch on the concrete type. Fields are built once from the
// declarative config (see Build) and are immutable afterwards, so a single
// tree is safely shared by concurrent resolutions.
package schema

// Kind identifies the shape of a field definition.
type Kind int

const (
	// KindScalar is a leaf value (string, number, select, relation, ...).
	KindScalar Kind = iota
	// KindObject is a fixed set of named children.
	KindObject
	// KindObjectUnion is an object whose shape is one of several variants.
	KindObjectUnion
	// KindListSingle is a list whose items share one anonymous shape.
	KindListSingle
	// KindListFixed is a list whose items are fixed objects.
	KindListFixed
	// KindListUnion is a list whose items are one of several variants.
	KindListUnion
	// KindListBare is a list without a declared item shape.
	KindListBare
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindObjectUnion:
		return "object-union"
	case KindListSingle:
		return "list-single"
	case KindListFixed:
		return "list-fixed"
	case KindListUnion:
		return "list-union"
	case KindListBare:
		return "list-bare"
	default:
		return "unknown"
	}
}

// Field is a field definition. The concrete types are *Scalar, *Object,
// *ObjectUnion, *ListSingle, *ListFixed, *ListUnion and *ListBare.
type Field interface {
	Kind() Kind
	FieldInfo() *Info
	sealed()
}

// Info holds the attributes every field carries.
type Info struct {
	Name     string
	Label    string
	Widget   string
	Hint     string
	Required bool
}

// FieldInfo implements Field.
func (i *Info) FieldInfo() *Info { return i }

func (*Info) sealed() {}

// Scalar is a leaf field.
type Scalar struct {
	Info
	// Multiple marks select-like scalars holding an array of values
	// without a list layer in the schema.
	Multiple bool
}

func (*Scalar) Kind() Kind { return KindScalar }

// Object is a fixed, ordered set of child fields.
type Object struct {
	Info
	Fields []Field
}

func (*Object) Kind() Kind { return KindObject }

// Lookup returns the child field with the given name.
func (o *Object) Lookup(name string) (Field, bool) {
	return Lookup(o.Fields, name)
}

// Union is the variant set shared by ObjectUnion and ListUnion.
type Union struct {
	Variants []*Object
	// TypeKey is the discriminator field name.
	TypeKey string
	// Discriminator is a hidden scalar standing for the TypeKey value
	// when a variant does not declare the field itself.
	Discriminator *Scalar
}

// Variant returns the variant with the given name. Matching is exact.
func (u *Union) Variant(name string) (*Object, bool) {
	if name == "" {
		return nil, false
	}
	for _, v := range u.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// ObjectUnion is an object whose shape is chosen per instance.
type ObjectUnion struct {
	Info
	Union
}

func (*ObjectUnion) Kind() Kind { return KindObjectUnion }

// ListSingle is a list of items sharing one field definition.
type ListSingle struct {
	Info
	Item Field
}

func (*ListSingle) Kind() Kind { return KindListSingle }

// ListFixed is a list of fixed objects. Item is the per-item schema;
// it carries the list's name and the declared children.
type ListFixed struct {
	Info
	Item *Object
}

func (*ListFixed) Kind() Kind { return KindListFixed }

// ListUnion is a list whose items are one of several variants.
type ListUnion struct {
	Info
	Union
}

func (*ListUnion) Kind() Kind { return KindListUnion }

// ListBare is a simple list declared by name only.
type ListBare struct {
	Info
}

func (*ListBare) Kind() Kind { return KindListBare }

// Lookup returns the field with the given name from fields.
func Lookup(fields []Field, name string) (Field, bool) {
	if name == "" {
		return nil, false
	}
	for _, f := range fields {
		if f.FieldInfo().Name == name {
			return f, true
		}
	}
	return nil, false
}

// NameOf returns the name of f, or "" for nil.
func NameOf(f Field) string {
	if f == nil {
		return ""
	}
	return f.FieldInfo().Name
}

var (
	_ Field = (*Scalar)(nil)
	_ Field = (*Object)(nil)
	_ Field = (*ObjectUnion)(nil)
	_ Field = (*ListSingle)(nil)
	_ Field = (*ListFixed)(nil)
	_ Field = (*ListUnion)(nil)
	_ Field = (*ListBare)(nil)
)
