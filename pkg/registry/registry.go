package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Renderable is a polymorphic rendering primitive addressable by a stable
// string key, e.g. an icon glyph referenced from option content.
type Renderable interface {
	// Render returns the displayable form of the primitive.
	Render() string
}

// Glyph is the simplest Renderable: a fixed string (terminal glyph, emoji).
type Glyph string

// Render returns the glyph itself.
func (g Glyph) Render() string { return string(g) }

// NotFoundError is returned when a key has no registered renderable.
// Lookup failures are reported, never thrown as a raw panic.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("renderable not found: %s", e.Key)
}

// Registry maps stable string keys to renderable variants. It is populated
// at process start and safe for concurrent lookup afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Renderable
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Renderable),
	}
}

// Register adds a renderable to the registry.
// If the key already exists, it is overwritten.
func (r *Registry) Register(key string, v Renderable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = v
}

// Resolve looks up a renderable by key.
// Returns *NotFoundError if the key is not registered.
func (r *Registry) Resolve(key string) (Renderable, error) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return v, nil
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
