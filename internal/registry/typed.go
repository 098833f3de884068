package registry

import (
	"fmt"
	"reflect"

	"github.com/specialistvlad/selfreg/internal/value"
)

// FactoryOf adapts a typed constructor into a Factory.
func FactoryOf[T any](fn func() T) Factory {
	return func() value.Value {
		return value.Of(fn())
	}
}

// TypeName is the default component name for T: the bare type name, or the
// full type string for unnamed types.
func TypeName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// RegisterType registers a component built by fn and assigns its identity to
// T's token. An empty name falls back to TypeName[T]. If the identity is
// already assigned the component entry still exists and the returned error
// wraps ErrAlreadyAssigned.
func RegisterType[T any](r Registrar, name string, fn func() T) (ComponentID, error) {
	if name == "" {
		name = TypeName[T]()
	}
	if fn == nil {
		return 0, fmt.Errorf("%w: component %q has no constructor", ErrInvalidEntry, name)
	}
	id, err := r.RegisterComponent(name, FactoryOf(fn))
	if err != nil {
		return 0, err
	}
	if err := r.AssignIdentity(TokenOf[T](), id); err != nil {
		return id, err
	}
	return id, nil
}

// IdentityFor returns the identity assigned to T.
func IdentityFor[T any](r *Registry) (ComponentID, error) {
	return r.IdentityOf(TokenOf[T]())
}
