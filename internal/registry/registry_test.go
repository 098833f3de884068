package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/selfreg/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type named struct {
	Name string
}

func namedFactory(name string) Factory {
	return FactoryOf(func() *named { return &named{Name: name} })
}

func noop(context.Context, []value.Value) error { return nil }

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	return New(context.Background(), opts...)
}

func mustComponent(t *testing.T, r *Registry, name string) ComponentID {
	t.Helper()
	id, err := r.RegisterComponent(name, namedFactory(name))
	require.NoError(t, err)
	return id
}

func mustSystem(t *testing.T, r *Registry, name string, deps ...string) SystemID {
	t.Helper()
	id, err := r.RegisterSystem(SystemSpec{Name: name, DependsOn: deps, Behavior: noop})
	require.NoError(t, err)
	return id
}

func TestRegisterComponent_DenseIdentities(t *testing.T) {
	r := newTestRegistry(t)

	for i, name := range []string{"A", "B", "C", "D", "E"} {
		id := mustComponent(t, r, name)
		assert.Equal(t, ComponentID(i), id)
	}

	var got []ComponentID
	for info := range r.Components() {
		got = append(got, info.ID)
		assert.Equal(t, HashName(info.Name), info.NameHash)
	}
	assert.Equal(t, []ComponentID{0, 1, 2, 3, 4}, got)

	// The sequence is restartable.
	count := 0
	for range r.Components() {
		count++
	}
	assert.Equal(t, 5, count)
}

func TestRegisterComponent_InvalidEntries(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.RegisterComponent("", namedFactory("x"))
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = r.RegisterComponent("A", nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = r.RegisterSystem(SystemSpec{Name: "S"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = r.RegisterSystem(SystemSpec{Behavior: noop})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	assert.Empty(t, r.ListComponents())
	assert.Empty(t, r.ListSystems())
}

func TestCreate(t *testing.T) {
	r := newTestRegistry(t)
	id := mustComponent(t, r, "A")

	v, err := r.Create(id)
	require.NoError(t, err)
	got, err := value.As[*named](v)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	// Every call runs the factory again.
	v2, err := r.Create(id)
	require.NoError(t, err)
	got2, _ := value.As[*named](v2)
	assert.NotSame(t, got, got2)

	_, err = r.Create(7)
	assert.ErrorIs(t, err, ErrUnknownIdentity)

	bad, err := r.RegisterComponent("Bad", func() value.Value { return value.Value{} })
	require.NoError(t, err)
	_, err = r.Create(bad)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestFindComponentIdentity(t *testing.T) {
	r := newTestRegistry(t)
	mustComponent(t, r, "A")
	mustComponent(t, r, "B")

	id, err := r.FindComponentIdentity("B")
	require.NoError(t, err)
	assert.Equal(t, ComponentID(1), id)

	_, err = r.FindComponentIdentity("Nope")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestFindComponentIdentity_HashIsNotEquality(t *testing.T) {
	r := newTestRegistry(t)
	// An entry whose cached hash collides with "A" but whose name differs.
	r.components = append(r.components, &componentEntry{
		name:    "impostor",
		hash:    HashName("A"),
		id:      0,
		factory: namedFactory("impostor"),
	})

	_, err := r.FindComponentIdentity("A")
	assert.ErrorIs(t, err, ErrUnknownName)

	want := mustComponent(t, r, "A")
	id, err := r.FindComponentIdentity("A")
	require.NoError(t, err)
	assert.Equal(t, want, id)
}

func TestDuplicateNames(t *testing.T) {
	t.Run("first registered wins", func(t *testing.T) {
		r := newTestRegistry(t)
		first := mustComponent(t, r, "A")
		second := mustComponent(t, r, "A")
		assert.NotEqual(t, first, second)

		for i := 0; i < 10; i++ {
			id, err := r.FindComponentIdentity("A")
			require.NoError(t, err)
			assert.Equal(t, first, id)
		}

		mustSystem(t, r, "S", "A")
		_, err := r.Resolve()
		require.NoError(t, err)
		assert.Equal(t, []ComponentID{first}, r.ListSystems()[0].Resolved)
	})

	t.Run("reject policy", func(t *testing.T) {
		r := newTestRegistry(t, WithDuplicatePolicy(RejectDuplicates))
		mustComponent(t, r, "A")

		_, err := r.RegisterComponent("A", namedFactory("A"))
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
		assert.Len(t, r.ListComponents(), 1)

		mustSystem(t, r, "S")
		_, err = r.RegisterSystem(SystemSpec{Name: "S", Behavior: noop})
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
		assert.Len(t, r.ListSystems(), 1)
	})
}

func TestResolve_BindsDependenciesInDeclaredOrder(t *testing.T) {
	r := newTestRegistry(t)
	a := mustComponent(t, r, "A")
	b := mustComponent(t, r, "B")
	require.Equal(t, ComponentID(0), a)
	require.Equal(t, ComponentID(1), b)

	var seen []string
	_, err := r.RegisterSystem(SystemSpec{
		Name:      "S",
		DependsOn: []string{"A", "B"},
		Behavior: func(_ context.Context, components []value.Value) error {
			for _, c := range components {
				n, err := value.As[*named](c)
				if err != nil {
					return err
				}
				seen = append(seen, n.Name)
			}
			return nil
		},
	})
	require.NoError(t, err)

	diags, err := r.Resolve()
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.NoError(t, diags.Err())

	systems := r.ListSystems()
	require.Len(t, systems, 1)
	assert.Equal(t, []ComponentID{0, 1}, systems[0].Resolved)
	assert.True(t, systems[0].Runnable)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestResolve_MissingDependency(t *testing.T) {
	r := newTestRegistry(t)
	mustComponent(t, r, "A")
	mustSystem(t, r, "S2", "C")
	ok := mustSystem(t, r, "S", "A")

	diags, err := r.Resolve()
	require.NoError(t, err)
	require.Len(t, diags, 1)

	var nf *DependencyNotFoundError
	require.True(t, errors.As(diags[0], &nf))
	assert.Equal(t, &DependencyNotFoundError{System: "S2", Component: "C"}, nf)
	assert.ErrorIs(t, diags.Err(), ErrDependencyNotFound)
	assert.Len(t, diags.Missing(), 1)

	plan, err := r.Plan()
	require.NoError(t, err)
	assert.Equal(t, []SystemID{ok}, plan)

	systems := r.ListSystems()
	assert.False(t, systems[0].Runnable)
	assert.Nil(t, systems[0].Resolved)
	assert.True(t, systems[1].Runnable)
	assert.Equal(t, []ComponentID{0}, systems[1].Resolved)
}

func TestResolve_ReportsEachMissingNameOnce(t *testing.T) {
	r := newTestRegistry(t)
	mustSystem(t, r, "S", "X", "Y", "X")

	diags, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Diagnostics{
		&DependencyNotFoundError{System: "S", Component: "X"},
		&DependencyNotFoundError{System: "S", Component: "Y"},
	}, diags)
}

func TestResolve_OrderIndependent(t *testing.T) {
	components := []string{"A", "B", "C"}
	systems := []SystemSpec{
		{Name: "S1", DependsOn: []string{"A", "B"}, Behavior: noop},
		{Name: "S2", DependsOn: []string{"C", "A"}, Behavior: noop},
	}

	resolve := func(t *testing.T, calls []func(r *Registry) error) map[string][]ComponentID {
		t.Helper()
		r := newTestRegistry(t)
		for _, call := range calls {
			require.NoError(t, call(r))
		}
		diags, err := r.Resolve()
		require.NoError(t, err)
		require.Empty(t, diags)

		out := make(map[string][]ComponentID)
		for _, s := range r.ListSystems() {
			out[s.Name] = s.Resolved
		}
		return out
	}

	componentCall := func(name string) func(r *Registry) error {
		return func(r *Registry) error {
			_, err := r.RegisterComponent(name, namedFactory(name))
			return err
		}
	}
	systemCall := func(spec SystemSpec) func(r *Registry) error {
		return func(r *Registry) error {
			_, err := r.RegisterSystem(spec)
			return err
		}
	}

	want := map[string][]ComponentID{
		"S1": {0, 1},
		"S2": {2, 0},
	}

	// Systems are submitted at every position relative to the components,
	// including before any component exists.
	for i := 0; i <= len(components); i++ {
		for j := 0; j <= len(components); j++ {
			t.Run(fmt.Sprintf("S1@%d,S2@%d", i, j), func(t *testing.T) {
				var calls []func(r *Registry) error
				for k := 0; k <= len(components); k++ {
					if k == i {
						calls = append(calls, systemCall(systems[0]))
					}
					if k == j {
						calls = append(calls, systemCall(systems[1]))
					}
					if k < len(components) {
						calls = append(calls, componentCall(components[k]))
					}
				}
				got := resolve(t, calls)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("resolved identities mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestResolve_ResolvesToSameComponentsUnderAnyPermutation(t *testing.T) {
	names := []string{"A", "B", "C"}
	for _, perm := range permutations(names) {
		t.Run(fmt.Sprint(perm), func(t *testing.T) {
			r := newTestRegistry(t)
			mustSystem(t, r, "S", "C", "A")
			for _, n := range perm {
				mustComponent(t, r, n)
			}
			_, err := r.Resolve()
			require.NoError(t, err)

			infos := r.ListComponents()
			var resolvedNames []string
			for _, id := range r.ListSystems()[0].Resolved {
				resolvedNames = append(resolvedNames, infos[id].Name)
			}
			assert.Equal(t, []string{"C", "A"}, resolvedNames)
		})
	}
}

func permutations(in []string) [][]string {
	if len(in) <= 1 {
		return [][]string{append([]string(nil), in...)}
	}
	var out [][]string
	for i := range in {
		rest := make([]string, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{in[i]}, p...))
		}
	}
	return out
}

func TestSealed_RejectsMutation(t *testing.T) {
	r := newTestRegistry(t)
	mustComponent(t, r, "A")
	_, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, StateSealed, r.State())

	before := r.ListComponents()

	_, err = r.RegisterComponent("B", namedFactory("B"))
	assert.ErrorIs(t, err, ErrRegistryClosed)

	_, err = r.RegisterSystem(SystemSpec{Name: "S", Behavior: noop})
	assert.ErrorIs(t, err, ErrRegistryClosed)

	err = r.AssignIdentity(TokenOf[named](), 0)
	assert.ErrorIs(t, err, ErrRegistryClosed)

	_, err = r.Resolve()
	assert.ErrorIs(t, err, ErrRegistryClosed)

	assert.Equal(t, before, r.ListComponents())
	assert.Empty(t, r.ListSystems())
}

func TestPlan_NotSealed(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, StateOpen, r.State())

	_, err := r.Plan()
	assert.ErrorIs(t, err, ErrNotSealed)
	_, err = r.Levels()
	assert.ErrorIs(t, err, ErrNotSealed)
	assert.ErrorIs(t, r.Run(context.Background()), ErrNotSealed)
}

func TestPoisonedLock(t *testing.T) {
	r := newTestRegistry(t)
	mustComponent(t, r, "A")

	err := r.write(func() error { panic("boom") })
	require.ErrorIs(t, err, ErrLockUnavailable)
	assert.Contains(t, err.Error(), "boom")

	_, err = r.RegisterComponent("B", namedFactory("B"))
	assert.ErrorIs(t, err, ErrLockUnavailable)
	_, err = r.Resolve()
	assert.ErrorIs(t, err, ErrLockUnavailable)

	// Reads still work and show the table as it was.
	assert.Len(t, r.ListComponents(), 1)
}

func TestConcurrentRegistration(t *testing.T) {
	r := newTestRegistry(t)

	const n = 64
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			name := fmt.Sprintf("C%02d", i)
			if _, err := r.RegisterComponent(name, namedFactory(name)); err != nil {
				return err
			}
			_, err := r.RegisterSystem(SystemSpec{Name: "S" + name, DependsOn: []string{name}, Behavior: noop})
			return err
		})
	}
	require.NoError(t, g.Wait())

	diags, err := r.Resolve()
	require.NoError(t, err)
	assert.Empty(t, diags)

	components := r.ListComponents()
	require.Len(t, components, n)
	for i, c := range components {
		assert.Equal(t, ComponentID(i), c.ID)
	}

	for _, s := range r.ListSystems() {
		require.Len(t, s.Resolved, 1)
		assert.Equal(t, "S"+components[s.Resolved[0]].Name, s.Name)
	}
}
