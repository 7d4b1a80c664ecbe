package buildfile

import (
	"errors"
	"net/url"
	"time"
)

// Target is a build-file target node
type Target struct {
	name        string
	description string `readonly:"-"`
	timeout     time.Duration
	source      *url.URL
	depends     []string
}

// NewEmptyTarget creates an unnamed target
func NewEmptyTarget() *Target {
	return &Target{}
}

// NewTarget creates a named target
func NewTarget(name, description string, timeout time.Duration, depends ...string) *Target {
	return &Target{name: name, description: description, timeout: timeout, depends: depends}
}

// NewTargetFromName creates a target with only a name
func NewTargetFromName(name string) *Target {
	return &Target{name: name}
}

func (t *Target) Name() string                    { return t.name }
func (t *Target) SetName(name string)             { t.name = name }
func (t *Target) Description() string             { return t.description }
func (t *Target) SetDescription(desc string)      { t.description = desc }
func (t *Target) Timeout() time.Duration          { return t.timeout }
func (t *Target) SetTimeout(d time.Duration)      { t.timeout = d }
func (t *Target) Source() *url.URL                { return t.source }
func (t *Target) SetSource(u *url.URL)            { t.source = u }
func (t *Target) Depends() []string               { return t.depends }
func (t *Target) String() string                  { return t.name }
func (t *Target) HiddenProperties() []string      { return []string{"Source"} }
func (t *Target) ConstructorArgs() []any {
	return []any{t.name, t.description, t.timeout, t.depends}
}

// Property is a name/value pair
type Property struct {
	name  string
	value string
}

// NewProperty validates and creates a property
func NewProperty(name, value string) (*Property, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	return &Property{name: name, value: value}, nil
}

func (p *Property) Name() string { return p.name }
func (p *Property) Value() string { return p.value }
func (p *Property) SetValue(v string) error {
	p.value = v
	return nil
}
func (p *Property) SetComment(string) {}

// Marker has no constructor taking parameters
type Marker struct{}

// NewMarker creates a marker
func NewMarker() *Marker { return &Marker{} }

// Broken has disagreeing accessors
type Broken struct{ n int }

// NewBroken creates a broken node
func NewBroken(n int) *Broken { return &Broken{n: n} }

func (b *Broken) Count() int             { return b.n }
func (b *Broken) SetCount(n string)      {}
func (b *Broken) ConstructorArgs() []any { return []any{b.n} }

// Graph orders targets; it is built by a factory but is not a node
type Graph struct{ targets []*Target }

// BuildGraph creates a graph of targets
func BuildGraph(targets ...*Target) *Graph { return &Graph{targets: targets} }
