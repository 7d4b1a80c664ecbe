package readonly

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Cache holds the one synthesized read-only type per base type.
// Entries are never evicted; a failed synthesis leaves no entry behind.
type Cache struct {
	mu       sync.Mutex
	registry *Registry
	types    map[reflect.Type]*ViewType
	byName   map[string]*ViewType

	logger *zap.Logger
	hooks  []func(*ViewType)
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithLogger sets the logger used to report synthesis
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSynthesisHook registers a callback invoked once for every synthesized type
func WithSynthesisHook(fn func(*ViewType)) CacheOption {
	return func(c *Cache) {
		c.hooks = append(c.hooks, fn)
	}
}

// NewCache creates a cache synthesizing types from the constructors in reg
func NewCache(reg *Registry, opts ...CacheOption) *Cache {
	c := &Cache{
		registry: reg,
		types:    make(map[reflect.Type]*ViewType),
		byName:   make(map[string]*ViewType),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreate returns the read-only type for t, synthesizing it on first request.
// The lock is held across lookup, synthesis and insert so concurrent callers
// never produce two types for the same base type. Synthesis hooks run after
// the lock is released and may use the cache.
func (c *Cache) GetOrCreate(t reflect.Type) (*ViewType, error) {
	vt, hooks, err := c.getOrSynthesize(t)
	if err != nil {
		return nil, err
	}
	for _, hook := range hooks {
		hook(vt)
	}
	return vt, nil
}

// getOrSynthesize returns the hooks to fire when vt was synthesized by this call
func (c *Cache) getOrSynthesize(t reflect.Type) (*ViewType, []func(*ViewType), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t == nil {
		return nil, nil, &UnsupportedTypeError{Reason: "nil type"}
	}
	if vt, ok := c.types[t]; ok {
		return vt, nil, nil
	}

	desc, err := c.registry.Describe(t)
	if err != nil {
		c.logger.Warn("cannot describe base type", zap.Stringer("type", t), zap.Error(err))
		return nil, nil, err
	}

	vt, err := synthesize(desc)
	if err != nil {
		c.logger.Warn("read-only synthesis failed", zap.Stringer("type", t), zap.Error(err))
		return nil, nil, err
	}

	c.types[t] = vt
	c.byName[vt.String()] = vt

	c.logger.Debug("synthesized read-only type",
		zap.String("name", vt.String()),
		zap.Stringer("base", t),
		zap.Int("constructor", desc.ctorIndex),
		zap.Int("params", len(desc.Params)),
		zap.Int("properties", len(vt.props)),
		zap.Int("neutralized", len(vt.neutralized)),
	)

	hooks := make([]func(*ViewType), len(c.hooks))
	copy(hooks, c.hooks)
	return vt, hooks, nil
}

// Lookup returns the cached read-only type for t without synthesizing it
func (c *Cache) Lookup(t reflect.Type) (*ViewType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vt, ok := c.types[t]
	return vt, ok
}

// LookupName returns a cached read-only type by its package-qualified name
func (c *Cache) LookupName(name string) (*ViewType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vt, ok := c.byName[name]
	return vt, ok
}

// Len returns the number of cached types
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.types)
}

// Reset clears the cache (used for testing)
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.types = make(map[reflect.Type]*ViewType)
	c.byName = make(map[string]*ViewType)
}
