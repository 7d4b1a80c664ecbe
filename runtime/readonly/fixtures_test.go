package readonly

import (
	"errors"
	"strings"
)

// target mirrors a build-file target node
type target struct {
	name        string
	description string
	depends     []string
}

func newEmptyTarget() *target {
	return &target{}
}

func newTarget(name, description string) *target {
	return &target{name: name, description: description}
}

func newTargetWithDepends(name, description string, depends []string) *target {
	return &target{name: name, description: description, depends: depends}
}

func (t *target) Name() string                   { return t.name }
func (t *target) SetName(name string)            { t.name = name }
func (t *target) Description() string            { return t.description }
func (t *target) SetDescription(desc string)     { t.description = desc }
func (t *target) String() string                 { return "target " + t.name }
func (t *target) ConstructorArgs() []any         { return []any{t.name, t.description} }
func (t *target) DependsOn(name string) bool     { return strings.Contains(strings.Join(t.depends, ","), name) }
func (t *target) AddDepends(names ...string) int { t.depends = append(t.depends, names...); return len(t.depends) }

// taggedTarget exempts its description from the read-only transformation
type taggedTarget struct {
	name        string
	description string `readonly:"-"`
}

func newTaggedTarget(name, description string) *taggedTarget {
	return &taggedTarget{name: name, description: description}
}

func (t *taggedTarget) Name() string               { return t.name }
func (t *taggedTarget) SetName(name string)        { t.name = name }
func (t *taggedTarget) Description() string        { return t.description }
func (t *taggedTarget) SetDescription(desc string) { t.description = desc }
func (t *taggedTarget) ConstructorArgs() []any     { return []any{t.name, t.description} }

// property is a name/value node with a write-only secret and a validating setter
type property struct {
	name   string
	value  string
	secret string
	line   int
}

func newProperty(name, value string, line int) (*property, error) {
	if name == "" {
		return nil, errors.New("property name is required")
	}
	return &property{name: name, value: value, line: line}, nil
}

func (p *property) Name() string  { return p.name }
func (p *property) Value() string { return p.value }
func (p *property) SetValue(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("value cannot be blank")
	}
	p.value = v
	return nil
}
func (p *property) SetSecret(s string)               { p.secret = s }
func (p *property) Line() int                        { return p.line }
func (p *property) SetLine(line int)                 { p.line = line }
func (p *property) HiddenProperties() []string       { return []string{"Line"} }
func (p *property) ConstructorArgs() []any           { return []any{p.name, p.value, p.line} }
func (p *property) Validate() error                  { return nil }

// defaultOnly has no constructor taking parameters
type defaultOnly struct{ label string }

func newDefaultOnly() *defaultOnly { return &defaultOnly{} }

func (d *defaultOnly) Label() string          { return d.label }
func (d *defaultOnly) SetLabel(l string)      { d.label = l }
func (d *defaultOnly) ConstructorArgs() []any { return nil }

// mismatched has a getter and setter that disagree on the value type
type mismatched struct{ size int }

func newMismatched(size int) *mismatched { return &mismatched{size: size} }

func (m *mismatched) Size() int              { return m.size }
func (m *mismatched) SetSize(size int64)     { m.size = int(size) }
func (m *mismatched) ConstructorArgs() []any { return []any{m.size} }

// plain does not implement ArgsResolver
type plain struct{ name string }

func newPlain(name string) *plain { return &plain{name: name} }

func (p *plain) Name() string { return p.name }

// point is registered by value rather than by pointer
type point struct{ x, y int }

func newPoint(x, y int) point { return point{x: x, y: y} }

func (p point) X() int                  { return p.x }
func (p *point) SetX(x int)             { p.x = x }
func (p point) Y() int                  { return p.y }
func (p point) ConstructorArgs() []any  { return []any{p.x, p.y} }

// newFixtureRegistry registers every fixture type
func newFixtureRegistry() *Registry {
	reg := NewRegistry()
	mustRegister(reg, newEmptyTarget, newTarget, newTargetWithDepends)
	mustRegister(reg, newTaggedTarget)
	mustRegister(reg, newProperty)
	mustRegister(reg, newDefaultOnly)
	mustRegister(reg, newMismatched)
	mustRegister(reg, newPlain)
	mustRegister(reg, newPoint)
	return reg
}

func mustRegister(reg *Registry, ctors ...any) {
	if err := reg.Register(ctors...); err != nil {
		panic(err)
	}
}
