package registry

import "fmt"

// AssignIdentity records the component identity of a Go type. Each token
// can be assigned once; a second call fails and keeps the first value.
func (r *Registry) AssignIdentity(token TypeToken, id ComponentID) error {
	if token.t == nil {
		return fmt.Errorf("%w: empty type token", ErrInvalidEntry)
	}
	return r.write(func() error {
		if err := r.mutable(fmt.Sprintf("assign identity to %s", token)); err != nil {
			return err
		}
		if int(id) >= len(r.components) {
			return fmt.Errorf("%w: component %d for %s", ErrUnknownIdentity, id, token)
		}
		if existing, ok := r.identities[token]; ok {
			return fmt.Errorf("%w: %s already has identity %d", ErrAlreadyAssigned, token, existing)
		}
		r.identities[token] = id
		r.logger.Debug("Identity assigned.", "type", token.String(), "id", id)
		return nil
	})
}

// IdentityOf returns the identity assigned to token.
func (r *Registry) IdentityOf(token TypeToken) (ComponentID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.identities[token]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotYetAssigned, token)
	}
	return id, nil
}
