package api

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate when the content model is malformed.
var ErrInvalidConfig = errors.New("invalid content model")

// DefaultTypeKey is the discriminator field name used when a union field
// does not declare its own.
const DefaultTypeKey = "type"

// Config represents the root of a content-model configuration.
// It declares the collections an editor can work on and the reusable
// field groups (components) they share.
type Config struct {
	// Collections edited through the admin interface.
	Collections []Collection `json:"collections" yaml:"collections" hcl:"collection,block"`
	// Components are named, reusable field lists.
	Components []Component `json:"components,omitempty" yaml:"components,omitempty" hcl:"component,block"`
}

// Collection is a set of entries sharing one content model.
// Folder collections declare Fields; file collections declare Files.
type Collection struct {
	Name   string `json:"name" yaml:"name" hcl:"name,label"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty" hcl:"folder,optional"`
	// Fields of every entry in a folder collection.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty" hcl:"field,block"`
	// Files of a file collection, each with its own fields.
	Files []File `json:"files,omitempty" yaml:"files,omitempty" hcl:"file,block"`
	// IndexFile overrides the fields of the collection's index document.
	IndexFile *IndexFile `json:"index_file,omitempty" yaml:"index_file,omitempty" hcl:"index_file,block"`
}

// File is a single document of a file collection.
type File struct {
	Name   string  `json:"name" yaml:"name" hcl:"name,label"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	File   string  `json:"file,omitempty" yaml:"file,omitempty" hcl:"file,optional"`
	Fields []Field `json:"fields" yaml:"fields" hcl:"field,block"`
}

// IndexFile is the alternate field list of a collection's index document
// (e.g. _index.md in a Hugo section).
type IndexFile struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
	Fields []Field `json:"fields" yaml:"fields" hcl:"field,block"`
}

// Component is a named field list that can be embedded in documents.
type Component struct {
	Name   string  `json:"name" yaml:"name" hcl:"name,label"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	Fields []Field `json:"fields" yaml:"fields" hcl:"field,block"`
}

// Field is one declarative field definition. The widget together with
// which of Field, Fields or Types is set decides the field's shape.
type Field struct {
	Name   string `json:"name" yaml:"name" hcl:"name,label"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	Widget string `json:"widget,omitempty" yaml:"widget,omitempty" hcl:"widget,optional"`
	Hint   string `json:"hint,omitempty" yaml:"hint,omitempty" hcl:"hint,optional"`
	// Required defaults to true when unset.
	Required *bool `json:"required,omitempty" yaml:"required,omitempty" hcl:"required,optional"`
	// Multiple lets select and relation fields hold an array of values.
	Multiple bool `json:"multiple,omitempty" yaml:"multiple,omitempty" hcl:"multiple,optional"`
	// TypeKey names the discriminator of a union field (default "type").
	TypeKey string `json:"typeKey,omitempty" yaml:"typeKey,omitempty" hcl:"type_key,optional"`

	// Field is the single item shape of a list.
	Field *Field `json:"field,omitempty" yaml:"field,omitempty" hcl:"item,block"`
	// Fields are the fixed children of an object or list item.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty" hcl:"field,block"`
	// Types are the variants of a union object or list.
	Types []Field `json:"types,omitempty" yaml:"types,omitempty" hcl:"type,block"`
}

// IsRequired reports the effective required flag.
func (f *Field) IsRequired() bool {
	return f.Required == nil || *f.Required
}

// Validate checks names and the uniqueness of collections, files and components.
// Field-level checks are done when the schema is built.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Collections))
	for i, col := range c.Collections {
		if col.Name == "" {
			return fmt.Errorf("%w: collection #%d has no name", ErrInvalidConfig, i)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("%w: duplicate collection %q", ErrInvalidConfig, col.Name)
		}
		seen[col.Name] = struct{}{}

		if len(col.Fields) > 0 && len(col.Files) > 0 {
			return fmt.Errorf("%w: collection %q declares both fields and files", ErrInvalidConfig, col.Name)
		}
		files := make(map[string]struct{}, len(col.Files))
		for j, f := range col.Files {
			if f.Name == "" {
				return fmt.Errorf("%w: collection %q file #%d has no name", ErrInvalidConfig, col.Name, j)
			}
			if _, dup := files[f.Name]; dup {
				return fmt.Errorf("%w: collection %q has duplicate file %q", ErrInvalidConfig, col.Name, f.Name)
			}
			files[f.Name] = struct{}{}
		}
	}

	components := make(map[string]struct{}, len(c.Components))
	for i, comp := range c.Components {
		if comp.Name == "" {
			return fmt.Errorf("%w: component #%d has no name", ErrInvalidConfig, i)
		}
		if _, dup := components[comp.Name]; dup {
			return fmt.Errorf("%w: duplicate component %q", ErrInvalidConfig, comp.Name)
		}
		components[comp.Name] = struct{}{}
	}
	return nil
}
