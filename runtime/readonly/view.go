package readonly

import (
	"fmt"
	"reflect"
)

// View is an instance of a read-only type.
// It owns its own base value built from constructor arguments and never
// references the instance it was derived from.
type View struct {
	typ  *ViewType
	base reflect.Value
}

// Type returns the synthesized type of the view
func (v *View) Type() *ViewType {
	return v.typ
}

// Properties returns the property descriptions of the view
func (v *View) Properties() []Property {
	return v.typ.Properties()
}

// IsReadOnly reports whether writes to the named property are discarded
func (v *View) IsReadOnly(name string) bool {
	prop, ok := v.typ.Property(name)
	return ok && prop.ReadOnly
}

// Get returns the current value of a property by delegating to the base getter
func (v *View) Get(name string) (any, error) {
	prop, ok := v.typ.Property(name)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", v.typ.name, name, ErrUnknownProperty)
	}
	if !prop.Readable {
		return nil, fmt.Errorf("%s.%s: %w", v.typ.name, name, ErrNotReadable)
	}

	out := prop.info.getter.Func.Call([]reflect.Value{v.base})
	return out[0].Interface(), nil
}

// Set writes a property. Writes to read-only properties are accepted and discarded;
// properties marked "not proxied" are written through to the base setter.
func (v *View) Set(name string, value any) error {
	prop, ok := v.typ.Property(name)
	if !ok {
		return fmt.Errorf("%s.%s: %w", v.typ.name, name, ErrUnknownProperty)
	}
	if !prop.Writable {
		return fmt.Errorf("%s.%s: %w", v.typ.name, name, ErrNotWritable)
	}

	in, err := argValues([]reflect.Type{prop.Type}, false, []any{value})
	if err != nil {
		return fmt.Errorf("%s.%s: %w", v.typ.name, name, err)
	}

	if prop.ReadOnly {
		return nil
	}

	out := prop.info.setter.Func.Call(append([]reflect.Value{v.base}, in...))
	if prop.info.setterErr && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// Values returns the current value of every readable property
func (v *View) Values() map[string]any {
	values := make(map[string]any, len(v.typ.props))
	for _, prop := range v.typ.props {
		if !prop.Readable {
			continue
		}
		out := prop.info.getter.Func.Call([]reflect.Value{v.base})
		values[prop.Name] = out[0].Interface()
	}
	return values
}

// Call invokes a method of the base type on the view's own base value.
// Setter methods of read-only properties are neutralized: the arguments are
// discarded and zero results are returned.
func (v *View) Call(method string, args ...any) ([]any, error) {
	m := v.base.MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("%s.%s: %w", v.typ.name, method, ErrUnknownMethod)
	}

	mt := m.Type()
	params := make([]reflect.Type, mt.NumIn())
	for i := range params {
		params[i] = mt.In(i)
	}
	in, err := argValues(params, mt.IsVariadic(), args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", v.typ.name, method, err)
	}

	if _, ok := v.typ.neutralized[method]; ok {
		results := make([]any, mt.NumOut())
		for i := range results {
			results[i] = reflect.Zero(mt.Out(i)).Interface()
		}
		return results, nil
	}

	var out []reflect.Value
	if mt.IsVariadic() {
		out = m.CallSlice(in)
	} else {
		out = m.Call(in)
	}

	results := make([]any, len(out))
	for i, o := range out {
		results[i] = o.Interface()
	}
	return results, nil
}
