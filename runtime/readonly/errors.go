package readonly

import (
	"errors"
	"fmt"
	"reflect"
)

// Common read-only view errors
var (
	// ErrUnsupportedType is returned when a base type has no registered constructor taking parameters
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrContractViolation is returned when an instance does not implement ArgsResolver
	ErrContractViolation = errors.New("instance does not implement ArgsResolver")

	// ErrSynthesis is returned when a read-only type cannot be built for a base type
	ErrSynthesis = errors.New("read-only type synthesis failed")

	// ErrUnknownProperty is returned when a view has no property with the given name
	ErrUnknownProperty = errors.New("unknown property")

	// ErrNotReadable is returned when reading a property that only has a setter
	ErrNotReadable = errors.New("property is not readable")

	// ErrNotWritable is returned when writing a property that has no setter
	ErrNotWritable = errors.New("property is not writable")

	// ErrUnknownMethod is returned when calling a method the base type does not have
	ErrUnknownMethod = errors.New("unknown method")

	// ErrAlreadyRegistered is returned when constructors for a type are registered twice
	ErrAlreadyRegistered = errors.New("type is already registered")
)

// UnsupportedTypeError reports a base type that cannot be proxied
type UnsupportedTypeError struct {
	Type   reflect.Type
	Reason string
}

// Error implements the error interface
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s: %s", e.Type, e.Reason)
}

// Unwrap returns ErrUnsupportedType
func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// ContractError reports a value handed to the factory that cannot describe its constructor arguments
type ContractError struct {
	Type reflect.Type
}

// Error implements the error interface
func (e *ContractError) Error() string {
	if e.Type == nil {
		return "cannot create read-only view of nil"
	}
	return fmt.Sprintf("cannot create read-only view of %s: missing ConstructorArgs() []any", e.Type)
}

// Unwrap returns ErrContractViolation
func (e *ContractError) Unwrap() error {
	return ErrContractViolation
}

// SynthesisError reports a failure while building or instantiating a read-only type
type SynthesisError struct {
	Type     reflect.Type
	Property string
	Err      error
}

// Error implements the error interface
func (e *SynthesisError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("synthesize %s: property %s: %v", e.Type, e.Property, e.Err)
	}
	return fmt.Sprintf("synthesize %s: %v", e.Type, e.Err)
}

// Unwrap returns both ErrSynthesis and the underlying cause
func (e *SynthesisError) Unwrap() []error {
	return []error{ErrSynthesis, e.Err}
}
