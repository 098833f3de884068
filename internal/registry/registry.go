package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/selfreg/internal/ctxlog"
)

// Registrar is the write side of the Registry handed to modules.
type Registrar interface {
	RegisterComponent(name string, factory Factory) (ComponentID, error)
	RegisterSystem(spec SystemSpec) (SystemID, error)
	AssignIdentity(token TypeToken, id ComponentID) error
}

// Module is implemented by every package that contributes components or
// systems. Register must only talk to the Registrar it is given.
type Module interface {
	Name() string
	Register(r Registrar) error
}

var _ Registrar = (*Registry)(nil)

// Registry owns the component table, the system table and the per-type
// identity map. A single lock guards all three.
type Registry struct {
	mu       sync.RWMutex
	id       uuid.UUID
	logger   *slog.Logger
	policy   DuplicatePolicy
	state    State
	poisoned bool

	components []*componentEntry
	systems    []*systemEntry
	identities map[TypeToken]ComponentID

	// set by Resolve
	order       []SystemID
	levels      [][]SystemID
	diagnostics Diagnostics
}

// New creates an Open registry. The logger is taken from ctx.
func New(ctx context.Context, opts ...Option) *Registry {
	r := &Registry{
		id:         uuid.New(),
		identities: make(map[TypeToken]ComponentID),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = ctxlog.FromContext(ctx).With("registry_id", r.id.String())
	r.logger.Debug("Registry created.", "duplicate_policy", r.policy.String())
	return r
}

// ID is a random identifier that tags this registry's log lines.
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// State reports whether the registry is still accepting registrations.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Policy returns the duplicate name policy.
func (r *Registry) Policy() DuplicatePolicy {
	return r.policy
}

// write runs fn under the write lock. A panic inside fn poisons the
// registry: the panic is returned as ErrLockUnavailable and every later
// mutation fails the same way.
func (r *Registry) write(fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.poisoned {
		return fmt.Errorf("%w: poisoned by an earlier panic", ErrLockUnavailable)
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.poisoned = true
			err = fmt.Errorf("%w: panic while holding registry lock: %v", ErrLockUnavailable, rec)
			r.logger.Error("Registry poisoned.", "panic", rec)
		}
	}()
	return fn()
}

// mutable must be called with the write lock held.
func (r *Registry) mutable(what string) error {
	if r.state == StateSealed {
		return fmt.Errorf("%w: cannot %s after sealing", ErrRegistryClosed, what)
	}
	return nil
}
