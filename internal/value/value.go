package value

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch is matched by every *TypeMismatchError.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeMismatchError reports a checked downcast that asked for the wrong type.
type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, value holds %s", typeString(e.Want), typeString(e.Got))
}

// Unwrap lets errors.Is match ErrTypeMismatch.
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// Value is an opaque payload paired with the type tag it was created with.
// The zero Value holds nothing and fails every downcast.
type Value struct {
	tag     reflect.Type
	payload any
}

// Of wraps v, tagging it with the static type T. Interface types keep their
// interface tag, so Of[io.Reader](buf) is recovered with As[io.Reader].
func Of[T any](v T) Value {
	return Value{tag: reflect.TypeFor[T](), payload: v}
}

// As recovers the payload of v as T.
func As[T any](v Value) (T, error) {
	var zero T
	want := reflect.TypeFor[T]()
	if v.tag != want {
		return zero, &TypeMismatchError{Want: want, Got: v.tag}
	}
	if v.payload == nil {
		// A nil interface or pointer payload is still a valid T.
		return zero, nil
	}
	return v.payload.(T), nil
}

// Is reports whether v was created with the static type T.
func Is[T any](v Value) bool {
	return v.tag == reflect.TypeFor[T]()
}

// Tag returns the type tag, or nil for the zero Value.
func (v Value) Tag() reflect.Type {
	return v.tag
}

// Payload returns the untyped payload, for display only.
func (v Value) Payload() any {
	return v.payload
}

// IsValid reports whether v carries a tag.
func (v Value) IsValid() bool {
	return v.tag != nil
}

// String renders the tag, which is handy in log lines.
func (v Value) String() string {
	return "value(" + typeString(v.tag) + ")"
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<empty>"
	}
	return t.String()
}
