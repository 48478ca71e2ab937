package schema

import (
	"errors"
	"fmt"

	"github.com/agentic-research/fieldpath/api"
)

// ErrInvalidField is returned when a field definition cannot be built.
var ErrInvalidField = errors.New("invalid field definition")

const (
	widgetList   = "list"
	widgetObject = "object"
	widgetHidden = "hidden"
)

// BuildFields builds an ordered field set. Names must be present and unique.
func BuildFields(defs []api.Field) ([]Field, error) {
	return buildFields(defs, "")
}

// Build builds one field definition.
func Build(def api.Field) (Field, error) {
	return build(def, "")
}

func buildFields(defs []api.Field, parent string) ([]Field, error) {
	fields := make([]Field, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		f, err := build(def, parent)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate field name", ErrInvalidField, join(parent, def.Name))
		}
		seen[def.Name] = struct{}{}
		fields = append(fields, f)
	}
	return fields, nil
}

func build(def api.Field, parent string) (Field, error) {
	path := join(parent, def.Name)
	if def.Name == "" {
		return nil, fmt.Errorf("%w: %s: field has no name", ErrInvalidField, join(parent, "?"))
	}

	shapes := 0
	if def.Field != nil {
		shapes++
	}
	if len(def.Fields) > 0 {
		shapes++
	}
	if len(def.Types) > 0 {
		shapes++
	}
	if shapes > 1 {
		return nil, fmt.Errorf("%w: %s: only one of field, fields and types may be set", ErrInvalidField, path)
	}

	info := Info{
		Name:     def.Name,
		Label:    def.Label,
		Widget:   def.Widget,
		Hint:     def.Hint,
		Required: def.IsRequired(),
	}

	switch def.Widget {
	case widgetList:
		switch {
		case len(def.Types) > 0:
			u, err := buildUnion(def, path)
			if err != nil {
				return nil, err
			}
			return &ListUnion{Info: info, Union: u}, nil
		case def.Field != nil:
			item, err := build(*def.Field, path)
			if err != nil {
				return nil, err
			}
			return &ListSingle{Info: info, Item: item}, nil
		case len(def.Fields) > 0:
			children, err := buildFields(def.Fields, path)
			if err != nil {
				return nil, err
			}
			item := &Object{
				Info:   Info{Name: def.Name, Label: def.Label, Widget: widgetObject, Required: info.Required},
				Fields: children,
			}
			return &ListFixed{Info: info, Item: item}, nil
		default:
			return &ListBare{Info: info}, nil
		}

	case widgetObject:
		if def.Field != nil {
			return nil, fmt.Errorf("%w: %s: object fields take fields or types, not field", ErrInvalidField, path)
		}
		if len(def.Types) > 0 {
			u, err := buildUnion(def, path)
			if err != nil {
				return nil, err
			}
			return &ObjectUnion{Info: info, Union: u}, nil
		}
		children, err := buildFields(def.Fields, path)
		if err != nil {
			return nil, err
		}
		return &Object{Info: info, Fields: children}, nil

	default:
		if shapes > 0 {
			return nil, fmt.Errorf("%w: %s: widget %q cannot declare child fields", ErrInvalidField, path, def.Widget)
		}
		return &Scalar{Info: info, Multiple: def.Multiple}, nil
	}
}

func buildUnion(def api.Field, path string) (Union, error) {
	typeKey := def.TypeKey
	if typeKey == "" {
		typeKey = api.DefaultTypeKey
	}

	variants := make([]*Object, 0, len(def.Types))
	seen := make(map[string]struct{}, len(def.Types))
	for _, t := range def.Types {
		vpath := join(path, "<"+t.Name+">")
		if t.Name == "" {
			return Union{}, fmt.Errorf("%w: %s: variant has no name", ErrInvalidField, path)
		}
		if _, dup := seen[t.Name]; dup {
			return Union{}, fmt.Errorf("%w: %s: duplicate variant", ErrInvalidField, vpath)
		}
		seen[t.Name] = struct{}{}
		if t.Widget != "" && t.Widget != widgetObject {
			return Union{}, fmt.Errorf("%w: %s: variant widget must be object, got %q", ErrInvalidField, vpath, t.Widget)
		}
		if t.Field != nil || len(t.Types) > 0 {
			return Union{}, fmt.Errorf("%w: %s: variants only take fields", ErrInvalidField, vpath)
		}
		children, err := buildFields(t.Fields, vpath)
		if err != nil {
			return Union{}, err
		}
		variants = append(variants, &Object{
			Info: Info{
				Name:     t.Name,
				Label:    t.Label,
				Widget:   widgetObject,
				Hint:     t.Hint,
				Required: t.IsRequired(),
			},
			Fields: children,
		})
	}

	return Union{
		Variants: variants,
		TypeKey:  typeKey,
		Discriminator: &Scalar{Info: Info{
			Name:     typeKey,
			Widget:   widgetHidden,
			Required: true,
		}},
	}, nil
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
