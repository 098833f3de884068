package registry

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what happens when a name is registered twice.
type DuplicatePolicy int

const (
	// FirstWins accepts every registration; lookups by name return the
	// earliest entry.
	FirstWins DuplicatePolicy = iota
	// RejectDuplicates refuses a second entry with the same name.
	RejectDuplicates
)

func (p DuplicatePolicy) String() string {
	switch p {
	case FirstWins:
		return "first_wins"
	case RejectDuplicates:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy maps the manifest spelling onto a policy. The empty
// string selects FirstWins.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first_wins":
		return FirstWins, nil
	case "reject":
		return RejectDuplicates, nil
	default:
		return FirstWins, fmt.Errorf("invalid duplicate name policy %q: must be 'first_wins' or 'reject'", s)
	}
}

// Option configures a Registry.
type Option func(*Registry)

// WithDuplicatePolicy sets the duplicate name policy for both tables.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}
