package registry

import (
	"sync"

	"github.com/agentic-research/fieldpath/internal/resolver"
	"github.com/agentic-research/fieldpath/internal/schema"
)

// Live is a thread-safe wrapper that allows swapping the registry on a
// config reload.
type Live struct {
	mu      sync.RWMutex
	current *Registry
	hooks   []func()
}

func NewLive(initial *Registry) *Live {
	return &Live{current: initial}
}

// OnSwap registers fn to run after every Swap. Resolvers sharing this
// registry register their Reset here.
func (l *Live) OnSwap(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, fn)
}

// Swap replaces the current registry and runs the swap hooks.
func (l *Live) Swap(next *Registry) {
	l.mu.Lock()
	l.current = next
	hooks := append([]func(){}, l.hooks...)
	l.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Current returns the registry in use.
func (l *Live) Current() *Registry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Collection delegates to the current registry.
func (l *Live) Collection(name string) (*resolver.CollectionSchema, bool) {
	return l.Current().Collection(name)
}

// IndexFileFields delegates to the current registry.
func (l *Live) IndexFileFields(collection string) ([]schema.Field, bool) {
	return l.Current().IndexFileFields(collection)
}

// ComponentFields delegates to the current registry.
func (l *Live) ComponentFields(name string) ([]schema.Field, bool) {
	return l.Current().ComponentFields(name)
}
