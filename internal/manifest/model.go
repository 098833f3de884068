package manifest

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/specialistvlad/selfreg/internal/registry"
)

// Unresolved dependency policies.
const (
	UnresolvedExclude = "exclude"
	UnresolvedFail    = "fail"
)

// Model is the format-agnostic manifest.
type Model struct {
	// Order lists module names to submit first, in this order.
	Order   []string
	Policy  Policy
	Modules map[string]*Module
}

// Policy holds the registry-wide switches.
type Policy struct {
	DuplicateNames string
	Unresolved     string
	Parallelism    int
}

// Module holds the manifest entry for one module.
type Module struct {
	Name     string
	Enabled  bool
	Settings map[string]string
}

// Default returns the manifest used when no file is given.
func Default() *Model {
	return &Model{
		Policy: Policy{
			DuplicateNames: registry.FirstWins.String(),
			Unresolved:     UnresolvedExclude,
			Parallelism:    1,
		},
		Modules: make(map[string]*Module),
	}
}

// Validate checks the policy values and the order list.
func (m *Model) Validate() error {
	var errs []error
	if _, err := registry.ParseDuplicatePolicy(m.Policy.DuplicateNames); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(m.Policy.Unresolved) {
	case UnresolvedExclude, UnresolvedFail:
	default:
		errs = append(errs, fmt.Errorf("invalid unresolved policy %q: must be '%s' or '%s'", m.Policy.Unresolved, UnresolvedExclude, UnresolvedFail))
	}
	if m.Policy.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("invalid parallelism %d: must be at least 1", m.Policy.Parallelism))
	}
	seen := make(map[string]bool, len(m.Order))
	for _, name := range m.Order {
		if name == "" {
			errs = append(errs, errors.New("order contains an empty module name"))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("order lists module %q twice", name))
		}
		seen[name] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid manifest: %w", errors.Join(errs...))
	}
	return nil
}

// DuplicatePolicy returns the parsed duplicate name policy.
func (m *Model) DuplicatePolicy() (registry.DuplicatePolicy, error) {
	return registry.ParseDuplicatePolicy(m.Policy.DuplicateNames)
}

// FailOnUnresolved reports whether unresolved dependencies abort startup.
func (m *Model) FailOnUnresolved() bool {
	return strings.EqualFold(m.Policy.Unresolved, UnresolvedFail)
}

// Enabled reports whether the named module should be submitted. Modules
// without an entry are enabled.
func (m *Model) Enabled(name string) bool {
	mod, ok := m.Modules[name]
	return !ok || mod.Enabled
}

// SettingsFor returns a copy of the named module's settings.
func (m *Model) SettingsFor(name string) map[string]string {
	mod, ok := m.Modules[name]
	if !ok || mod.Settings == nil {
		return nil
	}
	return maps.Clone(mod.Settings)
}
