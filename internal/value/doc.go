// Package value provides the tagged container that carries component payloads
// between factories and systems.
//
// A Value remembers the static type it was built from. Recovering the payload
// goes through As, which checks the tag and reports a *TypeMismatchError
// instead of panicking when the caller asks for the wrong shape.
package value
