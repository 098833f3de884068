package registry

import (
	"fmt"
	"iter"

	"github.com/specialistvlad/selfreg/internal/value"
)

// RegisterComponent appends a component entry and returns its identity.
func (r *Registry) RegisterComponent(name string, factory Factory) (ComponentID, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: component name is empty", ErrInvalidEntry)
	}
	if factory == nil {
		return 0, fmt.Errorf("%w: component %q has no factory", ErrInvalidEntry, name)
	}

	var id ComponentID
	err := r.write(func() error {
		if err := r.mutable(fmt.Sprintf("register component %q", name)); err != nil {
			return err
		}
		hash := HashName(name)
		if r.policy == RejectDuplicates {
			if existing, ok := r.findComponent(name, hash); ok {
				return fmt.Errorf("%w: component %q already has identity %d", ErrAlreadyRegistered, name, existing)
			}
		}
		id = ComponentID(len(r.components))
		r.components = append(r.components, &componentEntry{
			name:    name,
			hash:    hash,
			id:      id,
			factory: factory,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("Component registered.", "name", name, "id", id)
	return id, nil
}

// Create runs the factory of the component with the given identity. The
// factory runs outside the registry lock.
func (r *Registry) Create(id ComponentID) (value.Value, error) {
	r.mu.RLock()
	if int(id) >= len(r.components) {
		n := len(r.components)
		r.mu.RUnlock()
		return value.Value{}, fmt.Errorf("%w: component %d (table has %d entries)", ErrUnknownIdentity, id, n)
	}
	entry := r.components[id]
	r.mu.RUnlock()

	v := entry.factory()
	if !v.IsValid() {
		return value.Value{}, fmt.Errorf("%w: factory of component %q returned an empty value", ErrInvalidEntry, entry.name)
	}
	return v, nil
}

// FindComponentIdentity returns the identity of the first component
// registered under name.
func (r *Registry) FindComponentIdentity(name string) (ComponentID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.findComponent(name, HashName(name)); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: component %q", ErrUnknownName, name)
}

// findComponent scans in identity order, so the earliest match wins. The
// hash only skips entries that cannot match.
func (r *Registry) findComponent(name string, hash uint64) (ComponentID, bool) {
	for _, e := range r.components {
		if e.hash == hash && e.name == name {
			return e.id, true
		}
	}
	return 0, false
}

// ListComponents returns a snapshot of the component table in identity order.
func (r *Registry) ListComponents() []ComponentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ComponentInfo, len(r.components))
	for i, e := range r.components {
		out[i] = ComponentInfo{Name: e.name, NameHash: e.hash, ID: e.id}
	}
	return out
}

// Components iterates the component table in identity order. Each range
// over the sequence takes a fresh snapshot.
func (r *Registry) Components() iter.Seq[ComponentInfo] {
	return func(yield func(ComponentInfo) bool) {
		for _, info := range r.ListComponents() {
			if !yield(info) {
				return
			}
		}
	}
}
