package readonly

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PropertyInfo describes one public property of a base type
type PropertyInfo struct {
	Name     string
	Type     reflect.Type
	Readable bool
	Writable bool
	// Hidden is set when the property carries a "not proxied" marker
	Hidden bool

	getter reflect.Method
	setter reflect.Method
	// setterErr is set when the setter returns an error
	setterErr bool
}

// Descriptor is the metadata view of a proxyable base type
type Descriptor struct {
	Name    string
	PkgPath string
	Type    reflect.Type
	// Params are the parameter types of the resolved constructor, in order
	Params     []reflect.Type
	Variadic   bool
	Properties []PropertyInfo

	ctor      reflect.Value
	ctorIndex int
	// recv is the pointer type the accessors are invoked on
	recv reflect.Type
}

// Describe builds the descriptor for a registered base type
func (r *Registry) Describe(t reflect.Type) (*Descriptor, error) {
	reg, ok := r.lookup(t)
	if !ok {
		return nil, &UnsupportedTypeError{Type: t, Reason: "no constructors registered"}
	}

	name, pkg := baseName(t)
	if name == "" {
		return nil, &UnsupportedTypeError{Type: t, Reason: "type has no name"}
	}

	ctor, idx, err := resolveConstructor(reg)
	if err != nil {
		return nil, err
	}

	ct := ctor.Type()
	params := make([]reflect.Type, ct.NumIn())
	for i := range params {
		params[i] = ct.In(i)
	}

	recv := t
	if t.Kind() != reflect.Pointer {
		recv = reflect.PointerTo(t)
	}

	props, err := selectProperties(t, recv, reg.passthrough)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		Name:       name,
		PkgPath:    pkg,
		Type:       t,
		Params:     params,
		Variadic:   ct.IsVariadic(),
		Properties: props,
		ctor:       ctor,
		ctorIndex:  idx,
		recv:       recv,
	}, nil
}

// resolveConstructor picks the first registered constructor taking one or more parameters.
// The choice is positional and never tries to find a better match among later constructors.
func resolveConstructor(reg *registration) (reflect.Value, int, error) {
	for i, ctor := range reg.ctors {
		if ctor.Type().NumIn() > 0 {
			return ctor, i, nil
		}
	}
	return reflect.Value{}, -1, &UnsupportedTypeError{
		Type:   reg.typ,
		Reason: "no registered constructor takes parameters",
	}
}

// selectProperties pairs getters and setters of recv and applies the visibility markers
func selectProperties(t, recv reflect.Type, passthrough map[string]bool) ([]PropertyInfo, error) {
	byName := make(map[string]*PropertyInfo)
	get := func(name string) *PropertyInfo {
		p, ok := byName[name]
		if !ok {
			p = &PropertyInfo{Name: name}
			byName[name] = p
		}
		return p
	}

	for i := 0; i < recv.NumMethod(); i++ {
		m := recv.Method(i)
		if IsReserved(m.Name) {
			continue
		}
		mt := m.Type // includes the receiver as In(0)

		if prop, ok := setterProperty(m.Name); ok && mt.NumIn() == 2 {
			switch {
			case mt.NumOut() == 0:
			case mt.NumOut() == 1 && mt.Out(0) == errorType:
				get(prop).setterErr = true
			default:
				continue
			}
			p := get(prop)
			p.setter = m
			p.Writable = true
			continue
		}

		if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0) != errorType {
			p := get(m.Name)
			p.getter = m
			p.Readable = true
		}
	}

	hidden := hiddenProperties(recv)
	for name := range passthrough {
		hidden[strings.ToLower(name)] = true
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]PropertyInfo, 0, len(names))
	for _, name := range names {
		p := byName[name]
		switch {
		case p.Readable && p.Writable:
			p.Type = p.getter.Type.Out(0)
			if st := p.setter.Type.In(1); st != p.Type {
				return nil, &SynthesisError{
					Type:     t,
					Property: p.Name,
					Err:      fmt.Errorf("getter returns %s but setter takes %s", p.Type, st),
				}
			}
		case p.Readable:
			p.Type = p.getter.Type.Out(0)
		case p.Writable:
			p.Type = p.setter.Type.In(1)
		}
		p.Hidden = hidden[strings.ToLower(p.Name)]
		props = append(props, *p)
	}
	return props, nil
}

// setterProperty returns the property name of a SetX method name
func setterProperty(method string) (string, bool) {
	rest, ok := strings.CutPrefix(method, "Set")
	if !ok || rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}

// hiddenProperties collects the lower-cased names marked "not proxied" through struct tags or Hider.
// Names are compared case-insensitively so unexported backing fields can carry the tag.
func hiddenProperties(recv reflect.Type) map[string]bool {
	hidden := make(map[string]bool)

	st := recv.Elem()
	if st.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(st) {
			if tag, ok := f.Tag.Lookup(TagName); ok && tag == "-" {
				hidden[strings.ToLower(f.Name)] = true
			}
		}
	}

	if recv.Implements(hiderType) {
		zero := reflect.New(recv.Elem())
		for _, name := range zero.Interface().(Hider).HiddenProperties() {
			hidden[strings.ToLower(name)] = true
		}
	}

	return hidden
}

func baseName(t reflect.Type) (string, string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name(), t.PkgPath()
}
