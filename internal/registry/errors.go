package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownIdentity is returned for an identity outside the table.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrUnknownName is returned when no entry carries the requested name.
	ErrUnknownName = errors.New("unknown name")
	// ErrAlreadyAssigned is returned when a type token already has an identity.
	ErrAlreadyAssigned = errors.New("identity already assigned")
	// ErrNotYetAssigned is returned when a type token has no identity yet.
	ErrNotYetAssigned = errors.New("identity not yet assigned")
	// ErrDependencyNotFound is matched by every *DependencyNotFoundError.
	ErrDependencyNotFound = errors.New("dependency not found")
	// ErrDependencyCycle is matched by every *DependencyCycleError.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrAlreadyRegistered is returned for a duplicate name under RejectDuplicates.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrRegistryClosed is returned for any mutation after sealing.
	ErrRegistryClosed = errors.New("registry closed")
	// ErrNotSealed is returned when the plan is requested before Resolve.
	ErrNotSealed = errors.New("registry not sealed")
	// ErrLockUnavailable is returned once a panic has poisoned the table lock.
	ErrLockUnavailable = errors.New("registry lock unavailable")
	// ErrInvalidEntry is returned for registrations missing a name, factory or behaviour.
	ErrInvalidEntry = errors.New("invalid registry entry")
)

// DependencyNotFoundError names a system and the component it declared but
// that no module registered.
type DependencyNotFoundError struct {
	System    string
	Component string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("system %q: dependency %q not found", e.System, e.Component)
}

func (e *DependencyNotFoundError) Unwrap() error {
	return ErrDependencyNotFound
}

// DependencyCycleError names a system that cannot be ordered because it sits
// on, or downstream of, a producer/consumer cycle.
type DependencyCycleError struct {
	System string
	// WaitingOn names the blocked producers this system is ordered after.
	WaitingOn []string
}

func (e *DependencyCycleError) Error() string {
	if len(e.WaitingOn) == 0 {
		return fmt.Sprintf("system %q: dependency cycle between producing systems", e.System)
	}
	quoted := make([]string, len(e.WaitingOn))
	for i, name := range e.WaitingOn {
		quoted[i] = strconv.Quote(name)
	}
	return fmt.Sprintf("system %q: dependency cycle between producing systems (waiting on %s)",
		e.System, strings.Join(quoted, ", "))
}

func (e *DependencyCycleError) Unwrap() error {
	return ErrDependencyCycle
}

// Diagnostics is the outcome of resolution: one entry per problem found.
// It is data, not a failure; callers decide whether it is fatal.
type Diagnostics []error

// Err joins all diagnostics, or returns nil when there are none.
func (d Diagnostics) Err() error {
	return errors.Join(d...)
}

// Missing returns only the unresolved dependency diagnostics.
func (d Diagnostics) Missing() []*DependencyNotFoundError {
	var out []*DependencyNotFoundError
	for _, err := range d {
		var nf *DependencyNotFoundError
		if errors.As(err, &nf) {
			out = append(out, nf)
		}
	}
	return out
}
