// Package readonly builds read-only views of mutable node types.
//
// # Overview
//
// Editor UIs display the same object graph either editable or locked. Instead
// of maintaining a second, hand-written type per node, a node type registers its
// constructors once and implements ArgsResolver:
//
//	type Target struct {
//		name        string
//		description string `readonly:"-"`
//	}
//
//	func NewTarget(name, description string) *Target { ... }
//
//	func (t *Target) Name() string           { return t.name }
//	func (t *Target) SetName(name string)    { t.name = name }
//	func (t *Target) Description() string    { return t.description }
//	func (t *Target) SetDescription(d string) { t.description = d }
//
//	func (t *Target) ConstructorArgs() []any { return []any{t.name, t.description} }
//
//	func init() {
//		readonly.MustRegister(NewTarget)
//	}
//
// CreateReadOnlyView then returns a *View whose getters return the same values
// and whose setters are accepted but have no effect:
//
//	view, err := readonly.CreateReadOnlyView(target)
//	view.Set("Name", "x")   // nil error, value unchanged
//	view.Get("Name")        // original name
//
// # Properties
//
// A property P is an exported method P() with one result, an exported method
// SetP(v) with one parameter, or both. Properties named by a `readonly:"-"` tag,
// by HiddenProperties, or by the Passthrough registration option are left alone:
// the view reads and writes them exactly like the base type.
//
// # Constructors
//
// The first registered constructor taking at least one parameter is used to
// build views. A type without such a constructor is rejected with
// ErrUnsupportedType.
//
// # Caching
//
// The read-only type of each base type is synthesized once and kept in a Cache
// for the rest of the process. The cache is safe for concurrent use.
//
// For compile-time typed wrappers see the nodeview generate command.
package readonly
