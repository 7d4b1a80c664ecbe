package readonly

// ArgsResolver is implemented by every type that can be turned into a read-only view.
// ConstructorArgs returns, for the current state of the value, the arguments that
// rebuild an equivalent value through the first registered constructor taking parameters.
type ArgsResolver interface {
	ConstructorArgs() []any
}

// Hider lets a type name properties that stay out of the read-only transformation.
// Hidden properties keep their base behaviour on the view.
type Hider interface {
	HiddenProperties() []string
}

// TagName is the struct tag consulted for the "not proxied" marker.
// A field tagged `readonly:"-"` exempts the property with the same name.
const TagName = "readonly"

// reservedMethods are never treated as property accessors
var reservedMethods = map[string]bool{
	"ConstructorArgs":  true,
	"HiddenProperties": true,
	"String":           true,
	"GoString":         true,
	"Error":            true,
}

// IsReserved reports whether a method name is excluded from property pairing.
// Both the runtime views and generated wrappers consult it.
func IsReserved(method string) bool {
	return reservedMethods[method]
}
