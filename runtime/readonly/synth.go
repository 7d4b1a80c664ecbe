package readonly

import (
	"fmt"
	"reflect"
)

// NameSuffix is appended to the base type name to name its read-only type
const NameSuffix = "_ReadOnly"

// Property is a property of a synthesized read-only type
type Property struct {
	Name     string
	Type     reflect.Type
	Readable bool
	Writable bool
	// ReadOnly marks properties whose writes are discarded by the view.
	// Property grids should render them as non-editable.
	ReadOnly bool

	info PropertyInfo
}

// ViewType is the read-only counterpart of a base type.
// One ViewType exists per base type for the lifetime of its Cache.
type ViewType struct {
	name  string
	desc  *Descriptor
	props []Property
	index map[string]int
	// neutralized maps setter method names of overridden properties to their property
	neutralized map[string]string
}

// synthesize builds the read-only type for a described base type
func synthesize(desc *Descriptor) (*ViewType, error) {
	vt := &ViewType{
		name:        desc.Name + NameSuffix,
		desc:        desc,
		props:       make([]Property, 0, len(desc.Properties)),
		index:       make(map[string]int, len(desc.Properties)),
		neutralized: make(map[string]string),
	}

	for _, info := range desc.Properties {
		if !info.Readable && !info.Writable {
			continue
		}
		if _, dup := vt.index[info.Name]; dup {
			return nil, &SynthesisError{Type: desc.Type, Property: info.Name, Err: fmt.Errorf("duplicate property")}
		}

		prop := Property{
			Name:     info.Name,
			Type:     info.Type,
			Readable: info.Readable,
			Writable: info.Writable,
			ReadOnly: !info.Hidden,
			info:     info,
		}
		if prop.ReadOnly && info.Writable {
			vt.neutralized[info.setter.Name] = info.Name
		}

		vt.index[info.Name] = len(vt.props)
		vt.props = append(vt.props, prop)
	}

	return vt, nil
}

// Name returns the type name, e.g. "Target_ReadOnly"
func (vt *ViewType) Name() string {
	return vt.name
}

// String returns the package-qualified type name
func (vt *ViewType) String() string {
	if vt.desc.PkgPath == "" {
		return vt.name
	}
	return vt.desc.PkgPath + "." + vt.name
}

// Base returns the base type the view was synthesized from
func (vt *ViewType) Base() reflect.Type {
	return vt.desc.Type
}

// Descriptor returns the metadata the type was synthesized from
func (vt *ViewType) Descriptor() *Descriptor {
	return vt.desc
}

// Params returns the constructor parameter types
func (vt *ViewType) Params() []reflect.Type {
	params := make([]reflect.Type, len(vt.desc.Params))
	copy(params, vt.desc.Params)
	return params
}

// Properties returns the properties in name order
func (vt *ViewType) Properties() []Property {
	props := make([]Property, len(vt.props))
	copy(props, vt.props)
	return props
}

// Property returns a property by name
func (vt *ViewType) Property(name string) (Property, bool) {
	i, ok := vt.index[name]
	if !ok {
		return Property{}, false
	}
	return vt.props[i], true
}

// New constructs a view by forwarding args unchanged to the resolved base constructor
func (vt *ViewType) New(args ...any) (*View, error) {
	in, err := argValues(vt.desc.Params, vt.desc.Variadic, args)
	if err != nil {
		return nil, &SynthesisError{Type: vt.desc.Type, Err: err}
	}

	var out []reflect.Value
	if vt.desc.Variadic {
		out = vt.desc.ctor.CallSlice(in)
	} else {
		out = vt.desc.ctor.Call(in)
	}

	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("construct %s: %w", vt.name, out[1].Interface().(error))
	}

	base := out[0]
	if vt.desc.Type.Kind() == reflect.Pointer {
		if base.IsNil() {
			return nil, fmt.Errorf("construct %s: constructor returned nil", vt.name)
		}
	} else {
		ptr := reflect.New(vt.desc.Type)
		ptr.Elem().Set(base)
		base = ptr
	}

	return &View{typ: vt, base: base}, nil
}

// argValues checks args against the parameter list without converting them
func argValues(params []reflect.Type, variadic bool, args []any) ([]reflect.Value, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(params), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := params[i]
		if arg == nil {
			if !nillable(pt) {
				return nil, fmt.Errorf("argument %d: nil is not a valid %s", i, pt)
			}
			in[i] = reflect.Zero(pt)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(pt) {
			if variadic && i == len(params)-1 {
				return nil, fmt.Errorf("argument %d: variadic argument must be passed as %s, got %s", i, pt, v.Type())
			}
			return nil, fmt.Errorf("argument %d: %s is not assignable to %s", i, v.Type(), pt)
		}
		in[i] = v
	}
	return in, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
