// Package registry holds the built field schemas of a site's content model
// and serves them to the resolver.
package registry

import (
	"fmt"
	"sort"

	"github.com/agentic-research/fieldpath/api"
	"github.com/agentic-research/fieldpath/internal/resolver"
	"github.com/agentic-research/fieldpath/internal/schema"
)

// Registry is an immutable snapshot of built collections, index files and
// components.
type Registry struct {
	collections map[string]*resolver.CollectionSchema
	indexFiles  map[string][]schema.Field
	components  map[string][]schema.Field
}

// Build validates cfg and builds every field tree it declares.
func Build(cfg *api.Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		collections: make(map[string]*resolver.CollectionSchema, len(cfg.Collections)),
		indexFiles:  make(map[string][]schema.Field),
		components:  make(map[string][]schema.Field, len(cfg.Components)),
	}

	for _, c := range cfg.Collections {
		col := &resolver.CollectionSchema{Name: c.Name}
		fields, err := schema.BuildFields(c.Fields)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", c.Name, err)
		}
		col.Fields = fields

		if len(c.Files) > 0 {
			col.Files = make(map[string][]schema.Field, len(c.Files))
			for _, f := range c.Files {
				fields, err := schema.BuildFields(f.Fields)
				if err != nil {
					return nil, fmt.Errorf("collection %s file %s: %w", c.Name, f.Name, err)
				}
				col.Files[f.Name] = fields
			}
		}

		if c.IndexFile != nil {
			fields, err := schema.BuildFields(c.IndexFile.Fields)
			if err != nil {
				return nil, fmt.Errorf("collection %s index file: %w", c.Name, err)
			}
			r.indexFiles[c.Name] = fields
		}
		r.collections[c.Name] = col
	}

	for _, c := range cfg.Components {
		fields, err := schema.BuildFields(c.Fields)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Name, err)
		}
		r.components[c.Name] = fields
	}
	return r, nil
}

// Collection returns the built schema of the named collection.
func (r *Registry) Collection(name string) (*resolver.CollectionSchema, bool) {
	c, ok := r.collections[name]
	return c, ok
}

// IndexFileFields returns the index-file fields of a collection, if it declares an index file.
func (r *Registry) IndexFileFields(collection string) ([]schema.Field, bool) {
	f, ok := r.indexFiles[collection]
	return f, ok
}

// ComponentFields returns the fields of the named component.
func (r *Registry) ComponentFields(name string) ([]schema.Field, bool) {
	f, ok := r.components[name]
	return f, ok
}

// Collections returns the collection names in sorted order.
func (r *Registry) Collections() []string {
	return sortedKeys(r.collections)
}

// Components returns the component names in sorted order.
func (r *Registry) Components() []string {
	return sortedKeys(r.components)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
