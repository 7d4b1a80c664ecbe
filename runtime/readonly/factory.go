package readonly

import (
	"fmt"
	"reflect"
)

// Factory creates read-only views of resolvable instances
type Factory struct {
	cache *Cache
}

// NewFactory creates a factory backed by the given cache
func NewFactory(cache *Cache) *Factory {
	return &Factory{cache: cache}
}

// Cache returns the cache the factory synthesizes into
func (f *Factory) Cache() *Cache {
	return f.cache
}

// CreateReadOnlyView builds a fresh read-only view of instance.
// The instance is only asked for its constructor arguments; the returned
// view shares no state with it.
func (f *Factory) CreateReadOnlyView(instance any) (*View, error) {
	resolver, ok := instance.(ArgsResolver)
	if !ok {
		return nil, &ContractError{Type: reflect.TypeOf(instance)}
	}

	vt, err := f.cache.GetOrCreate(reflect.TypeOf(instance))
	if err != nil {
		return nil, err
	}

	view, err := vt.New(resolver.ConstructorArgs()...)
	if err != nil {
		return nil, fmt.Errorf("create read-only view of %s: %w", vt.Base(), err)
	}
	return view, nil
}

var (
	defaultCache   = NewCache(defaultRegistry)
	defaultFactory = NewFactory(defaultCache)
)

// CreateReadOnlyView builds a read-only view using the default registry and cache
func CreateReadOnlyView(instance any) (*View, error) {
	return defaultFactory.CreateReadOnlyView(instance)
}

// Configure applies options to the default cache.
// It should be called before the first view is created.
func Configure(opts ...CacheOption) {
	defaultCache.mu.Lock()
	defer defaultCache.mu.Unlock()

	for _, opt := range opts {
		opt(defaultCache)
	}
}

// DefaultCache returns the cache used by the package-level functions
func DefaultCache() *Cache {
	return defaultCache
}
