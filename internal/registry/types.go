package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/specialistvlad/selfreg/internal/value"
)

// ComponentID is the dense identity of a component entry.
type ComponentID uint32

// SystemID is the dense identity of a system entry. It does not share a
// namespace with ComponentID.
type SystemID uint32

// Factory builds a fresh component value.
type Factory func() value.Value

// Behavior is the body of a system. It receives one value per declared
// dependency, in declaration order.
type Behavior func(ctx context.Context, components []value.Value) error

// SystemSpec describes a system at registration time.
type SystemSpec struct {
	Name string
	// DependsOn lists component names in the order Behavior expects them.
	DependsOn []string
	// Produces lists component names this system writes. Systems that
	// consume one of them are ordered after it. Several systems that both
	// produce and consume the same component run in identity order.
	Produces []string
	Behavior Behavior
}

// State is the lifecycle of a Registry.
type State int

const (
	StateOpen State = iota
	StateSealed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSealed:
		return "sealed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TypeToken identifies a Go type for identity assignment.
type TypeToken struct {
	t reflect.Type
}

// TokenOf returns the token for T.
func TokenOf[T any]() TypeToken {
	return TypeToken{t: reflect.TypeFor[T]()}
}

func (t TypeToken) String() string {
	if t.t == nil {
		return "<nil>"
	}
	return t.t.String()
}

// ComponentInfo is a read-only view of a component entry.
type ComponentInfo struct {
	Name     string
	NameHash uint64
	ID       ComponentID
}

// SystemInfo is a read-only view of a system entry. Resolved and Produced
// stay nil until the registry is sealed, and for systems whose dependencies
// did not resolve.
type SystemInfo struct {
	Name      string
	NameHash  uint64
	ID        SystemID
	DependsOn []string
	Produces  []string
	Resolved  []ComponentID
	Produced  []ComponentID
	Runnable  bool
}

type componentEntry struct {
	name    string
	hash    uint64
	id      ComponentID
	factory Factory
}

type systemEntry struct {
	name      string
	hash      uint64
	id        SystemID
	dependsOn []string
	produces  []string
	behavior  Behavior

	// write-once, set by Resolve
	resolved []ComponentID
	produced []ComponentID
	runnable bool
}

// HashName is the cached hash stored next to every name. It only narrows a
// search; equality is always decided on the full name.
func HashName(name string) uint64 {
	return xxhash.Sum64String(name)
}
