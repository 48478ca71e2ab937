// Package resolver finds the field definition that governs a value in a
// document, given the value's key path.
//
// Resolution walks the collection's field tree one path segment at a time.
// Union fields pick their variant either from an explicit annotation in the
// path ("blocks.0<image>.src") or from the discriminator value found in the
// caller's value map ("blocks.0.type"). Results, including misses, are
// memoized per resolution context.
package resolver

import (
	"errors"
	"log/slog"

	"github.com/agentic-research/fieldpath/internal/cache"
	"github.com/agentic-research/fieldpath/internal/keypath"
	"github.com/agentic-research/fieldpath/internal/schema"
)

// ErrNotFound is returned when no field definition governs the key path.
var ErrNotFound = errors.New("field not found")

// CollectionSchema is the field layout of one collection.
type CollectionSchema struct {
	Name string
	// Fields of every entry of a folder collection.
	Fields []schema.Field
	// Files maps file names of a file collection to their fields.
	Files map[string][]schema.Field
}

// CollectionRegistry looks up collections by name.
type CollectionRegistry interface {
	Collection(name string) (*CollectionSchema, bool)
}

// IndexFileRegistry looks up the index-file fields of a collection.
type IndexFileRegistry interface {
	IndexFileFields(collection string) ([]schema.Field, bool)
}

// ComponentRegistry looks up reusable component fields by name.
type ComponentRegistry interface {
	ComponentFields(name string) ([]schema.Field, bool)
}

// Query is one resolution request.
type Query struct {
	Collection string
	// File selects a file of a file collection.
	File string
	// Component resolves against a reusable component instead of the collection.
	Component string
	KeyPath   string
	// IndexFile prefers the collection's index-file fields.
	IndexFile bool
	// Values maps concrete key paths to document values. Only read.
	Values map[string]any
}

func (q Query) cacheContext() cache.Context {
	return cache.Context{
		Collection: q.Collection,
		File:       q.File,
		Component:  q.Component,
		KeyPath:    q.KeyPath,
		IndexFile:  q.IndexFile,
		Values:     q.Values,
	}
}

// Resolver resolves key paths against registered schemas. It is safe for
// concurrent use.
type Resolver struct {
	collections CollectionRegistry
	indexFiles  IndexFileRegistry
	components  ComponentRegistry
	cache       *cache.Cache
	log         *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache injects the resolution cache. Resolvers sharing a cache must
// share their registries too.
func WithCache(c *cache.Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithIndexFiles sets the index-file registry.
func WithIndexFiles(reg IndexFileRegistry) Option {
	return func(r *Resolver) { r.indexFiles = reg }
}

// WithComponents sets the component registry.
func WithComponents(reg ComponentRegistry) Option {
	return func(r *Resolver) { r.components = reg }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New creates a Resolver. If collections also implements IndexFileRegistry
// or ComponentRegistry it is used for those lookups unless overridden.
func New(collections CollectionRegistry, opts ...Option) *Resolver {
	r := &Resolver{collections: collections}
	if reg, ok := collections.(IndexFileRegistry); ok {
		r.indexFiles = reg
	}
	if reg, ok := collections.(ComponentRegistry); ok {
		r.components = reg
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.New()
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	return r
}

// ResolveField returns the field definition governing q.KeyPath, or
// ErrNotFound.
func (r *Resolver) ResolveField(q Query) (schema.Field, error) {
	res := r.cache.Do(q.cacheContext(), func() cache.Result {
		r.log.Debug("cache miss", "collection", q.Collection, "path", q.KeyPath)
		f, ok := r.resolve(q)
		return cache.Result{Field: f, Found: ok}
	})
	if !res.Found {
		return nil, ErrNotFound
	}
	return res.Field, nil
}

// Reset drops every memoized resolution. Call it after the registries
// change.
func (r *Resolver) Reset() {
	r.cache.Clear()
}

// Cache returns the resolver's cache.
func (r *Resolver) Cache() *cache.Cache {
	return r.cache
}

func (r *Resolver) resolve(q Query) (schema.Field, bool) {
	segs := keypath.Parse(q.KeyPath)
	w := &walker{values: q.Values, log: r.log.With("collection", q.Collection, "path", q.KeyPath)}

	fields, ok := r.rootFields(q, segs[0])
	if !ok {
		return nil, false
	}
	return w.descend(fields, segs, "")
}

// rootFields picks the field set the first segment is looked up in.
func (r *Resolver) rootFields(q Query, first keypath.Segment) ([]schema.Field, bool) {
	if q.Component != "" {
		if r.components == nil {
			r.log.Debug("no component registry", "component", q.Component)
			return nil, false
		}
		fields, ok := r.components.ComponentFields(q.Component)
		if !ok {
			r.log.Debug("unknown component", "component", q.Component)
		}
		return fields, ok
	}

	col, ok := r.collections.Collection(q.Collection)
	if !ok {
		r.log.Debug("unknown collection", "collection", q.Collection)
		return nil, false
	}
	fields := col.Fields
	if q.File != "" {
		fields, ok = col.Files[q.File]
		if !ok {
			r.log.Debug("unknown file", "collection", q.Collection, "file", q.File)
			return nil, false
		}
	}

	if q.IndexFile && r.indexFiles != nil {
		if index, ok := r.indexFiles.IndexFileFields(q.Collection); ok {
			if _, found := schema.Lookup(index, first.Name); found {
				r.log.Debug("using index-file fields", "collection", q.Collection)
				return index, true
			}
		}
	}
	return fields, true
}
