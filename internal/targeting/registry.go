package targeting

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mdelaney-dev/broadside/internal/board"
)

// ErrUnknownAlgorithm is returned by Create for an unregistered id.
var ErrUnknownAlgorithm = errors.New("algorithm not found")

// Info describes a registered algorithm for listings.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type entry struct {
	name    string
	factory Factory
}

// Registry maps algorithm ids to factories. It is constructed once at
// startup and passed explicitly to whoever needs it; there is no hidden
// package-level registry.
type Registry struct {
	entries map[string]entry
}

// NewRegistry returns a registry pre-loaded with the built-in heuristic
// family.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}
	r.mustRegister("random_search", "Random Search", func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewRandomSearch(size, seed)
	})
	r.mustRegister("hunt_target", "Hunt and Target", func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewHuntAndTarget(size, seed)
	})
	r.mustRegister("smart_target", "Smart Target", func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewSmartTarget(size, cfg, seed)
	})
	r.mustRegister("p2m2", "P2M2 Enhanced", func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewP2M2(size, seed)
	})
	r.mustRegister("p2m2_directional", "P2M2-ST (Directional)", func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewP2M2Directional(size, cfg, seed)
	})
	r.mustRegister("p2m2_optimized", "P2M2 Optimized", func(size int, cfg board.Config, seed uint64) Algorithm {
		return NewP2M2Optimized(size, cfg, seed)
	})
	return r
}

// Register adds an algorithm factory under the given id.
func (r *Registry) Register(id, name string, f Factory) error {
	if id == "" {
		return fmt.Errorf("algorithm id must not be empty")
	}
	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("algorithm id %q already registered", id)
	}
	r.entries[id] = entry{name: name, factory: f}
	return nil
}

func (r *Registry) mustRegister(id, name string, f Factory) {
	if err := r.Register(id, name, f); err != nil {
		panic(err)
	}
}

// Create instantiates a registered algorithm with its own seeded RNG stream.
func (r *Registry) Create(id string, boardSize int, cfg board.Config, seed uint64) (Algorithm, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return e.factory(boardSize, cfg, seed), nil
}

// List returns all registered algorithms sorted by display name.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.entries))
	for id, e := range r.entries {
		infos = append(infos, Info{ID: id, Name: e.name})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}
