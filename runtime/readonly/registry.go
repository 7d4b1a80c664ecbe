package readonly

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	hiderType = reflect.TypeOf((*Hider)(nil)).Elem()
)

// Option configures a registration
type Option func(*registration)

// Passthrough marks properties that keep their base behaviour on read-only views
func Passthrough(names ...string) Option {
	return func(reg *registration) {
		for _, name := range names {
			reg.passthrough[name] = true
		}
	}
}

// registration holds the constructors of one base type in declaration order
type registration struct {
	typ         reflect.Type
	ctors       []reflect.Value
	passthrough map[string]bool
}

// Registry maps base types to their constructors.
// Go cannot enumerate the constructors of a type, so they are registered explicitly,
// usually from the init function of the package declaring the type.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*registration
}

// NewRegistry creates an empty constructor registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[reflect.Type]*registration),
	}
}

// Register records constructors for a base type. Constructors are funcs returning
// the base type, optionally followed by an error, and are kept in the order given.
// Option values may be mixed into the argument list.
//
//	readonly.Register(NewTarget, NewNamedTarget, readonly.Passthrough("Description"))
func (r *Registry) Register(ctors ...any) error {
	reg := &registration{passthrough: make(map[string]bool)}

	for i, c := range ctors {
		if opt, ok := c.(Option); ok {
			opt(reg)
			continue
		}

		fn := reflect.ValueOf(c)
		if fn.Kind() != reflect.Func || fn.IsNil() {
			return fmt.Errorf("constructor %d: expected a func, got %T", i, c)
		}

		ft := fn.Type()
		out, err := constructorResult(ft)
		if err != nil {
			return fmt.Errorf("constructor %d (%s): %w", i, ft, err)
		}

		if reg.typ == nil {
			reg.typ = out
		} else if reg.typ != out {
			return fmt.Errorf("constructor %d returns %s, previous constructors return %s", i, out, reg.typ)
		}
		reg.ctors = append(reg.ctors, fn)
	}

	if reg.typ == nil {
		return fmt.Errorf("at least one constructor is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.typ]; exists {
		return fmt.Errorf("%s: %w", reg.typ, ErrAlreadyRegistered)
	}
	r.entries[reg.typ] = reg
	return nil
}

// Registered reports whether constructors exist for the type
func (r *Registry) Registered(t reflect.Type) bool {
	_, ok := r.lookup(t)
	return ok
}

// Types returns all registered base types
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]reflect.Type, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	return types
}

// Clear removes all registrations (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[reflect.Type]*registration)
}

func (r *Registry) lookup(t reflect.Type) (*registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[t]
	return reg, ok
}

// constructorResult validates a constructor signature and returns the constructed type
func constructorResult(ft reflect.Type) (reflect.Type, error) {
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("second result must be error, got %s", ft.Out(1))
		}
	default:
		return nil, fmt.Errorf("expected 1 or 2 results, got %d", ft.NumOut())
	}

	out := ft.Out(0)
	if out == errorType || out.Kind() == reflect.Interface {
		return nil, fmt.Errorf("result must be a concrete type, got %s", out)
	}
	return out, nil
}

// defaultRegistry backs the package-level Register functions
var defaultRegistry = NewRegistry()

// Register records constructors in the default registry
func Register(ctors ...any) error {
	return defaultRegistry.Register(ctors...)
}

// MustRegister is like Register but panics on error.
// It is intended for package init functions.
func MustRegister(ctors ...any) {
	if err := Register(ctors...); err != nil {
		panic(fmt.Sprintf("readonly: %v", err))
	}
}

// DefaultRegistry returns the registry used by the package-level functions
func DefaultRegistry() *Registry {
	return defaultRegistry
}
