package registry

import (
	"fmt"
	"slices"
)

// RegisterSystem appends a system entry and returns its identity. The
// dependency names are kept verbatim; they are looked up by Resolve.
func (r *Registry) RegisterSystem(spec SystemSpec) (SystemID, error) {
	if spec.Name == "" {
		return 0, fmt.Errorf("%w: system name is empty", ErrInvalidEntry)
	}
	if spec.Behavior == nil {
		return 0, fmt.Errorf("%w: system %q has no behavior", ErrInvalidEntry, spec.Name)
	}

	var id SystemID
	err := r.write(func() error {
		if err := r.mutable(fmt.Sprintf("register system %q", spec.Name)); err != nil {
			return err
		}
		hash := HashName(spec.Name)
		if r.policy == RejectDuplicates {
			if existing, ok := r.findSystem(spec.Name, hash); ok {
				return fmt.Errorf("%w: system %q already has identity %d", ErrAlreadyRegistered, spec.Name, existing)
			}
		}
		id = SystemID(len(r.systems))
		r.systems = append(r.systems, &systemEntry{
			name:      spec.Name,
			hash:      hash,
			id:        id,
			dependsOn: slices.Clone(spec.DependsOn),
			produces:  slices.Clone(spec.Produces),
			behavior:  spec.Behavior,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("System registered.", "name", spec.Name, "id", id, "depends_on", spec.DependsOn)
	return id, nil
}

// FindSystemIdentity returns the identity of the first system registered
// under name.
func (r *Registry) FindSystemIdentity(name string) (SystemID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.findSystem(name, HashName(name)); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: system %q", ErrUnknownName, name)
}

func (r *Registry) findSystem(name string, hash uint64) (SystemID, bool) {
	for _, e := range r.systems {
		if e.hash == hash && e.name == name {
			return e.id, true
		}
	}
	return 0, false
}

// ListSystems returns a snapshot of the system table in identity order.
func (r *Registry) ListSystems() []SystemInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SystemInfo, len(r.systems))
	for i, e := range r.systems {
		out[i] = SystemInfo{
			Name:      e.name,
			NameHash:  e.hash,
			ID:        e.id,
			DependsOn: slices.Clone(e.dependsOn),
			Produces:  slices.Clone(e.produces),
			Resolved:  slices.Clone(e.resolved),
			Produced:  slices.Clone(e.produced),
			Runnable:  e.runnable,
		}
	}
	return out
}
