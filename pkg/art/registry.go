package art

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/randomart/pkg/domain"
)

// ErrEmptyRegistry is returned when a generator has no terminal or no composite kinds to choose from.
var ErrEmptyRegistry = errors.New("registry has no terminal or no composite kinds")

// Registry is the catalog of known operator kinds.
// Kinds are registered at startup; lookups are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]*Kind),
	}
}

// NewRegistryWith creates a registry holding the given kinds.
func NewRegistryWith(kinds ...*Kind) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(kinds...); err != nil {
		return nil, err
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistryWith(Builtins()...)
	if err != nil {
		panic(fmt.Sprintf("art: builtin kinds do not register: %v", err))
	}
	return r
})

// DefaultRegistry returns the shared registry of builtin kinds.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Register adds kinds to the registry.
// Registering the same kind twice is a no-op; a different kind under a taken name is an error.
func (r *Registry) Register(kinds ...*Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range kinds {
		if err := validateKind(k); err != nil {
			return err
		}
		if existing, ok := r.kinds[k.Name]; ok {
			if existing == k {
				continue
			}
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKind, k.Name)
		}
		r.kinds[k.Name] = k
	}
	return nil
}

func validateKind(k *Kind) error {
	switch {
	case k == nil:
		return errors.New("nil kind")
	case k.Name == "":
		return errors.New("kind has no name")
	case k.Arity < 0 || k.Arity > MaxArity:
		return fmt.Errorf("kind %s: arity %d outside [0, %d]", k.Name, k.Arity, MaxArity)
	case k.eval == nil:
		return fmt.Errorf("kind %s has no formula", k.Name)
	case len(k.Params) > 0 && k.sample == nil:
		return fmt.Errorf("kind %s declares parameters but cannot sample them", k.Name)
	}
	for _, name := range k.Params {
		if _, ok := paramType(name); !ok {
			return fmt.Errorf("kind %s: %w: %s", k.Name, domain.ErrUnknownParam, name)
		}
	}
	return nil
}

// Lookup finds a kind by name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Terminals returns the arity-0 kinds sorted by name.
func (r *Registry) Terminals() []*Kind {
	return r.filter(func(k *Kind) bool { return k.Arity == 0 })
}

// Composites returns the arity 1–3 kinds sorted by name.
func (r *Registry) Composites() []*Kind {
	return r.filter(func(k *Kind) bool { return k.Arity > 0 })
}

// Kinds returns every kind sorted by name.
func (r *Registry) Kinds() []*Kind {
	return r.filter(func(*Kind) bool { return true })
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.kinds)
}

func (r *Registry) filter(keep func(*Kind) bool) []*Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		if keep(k) {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, func(a, b *Kind) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
