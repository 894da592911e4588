package resource

import (
	"sync"

	"github.com/viant/procos/service/cleanup"
)

// Registry tracks which resource instances of a single type each process
// owns. The byte-level mechanics of the resources themselves live with the
// owning collaborator; the registry only carries ownership, sizing and an
// optional release hook so the orchestrator can tear the type down
// generically.
type Registry struct {
	name  string
	mux   sync.Mutex
	owned map[uint32][]instance
}

type instance struct {
	bytes   int
	release func() error
}

var _ cleanup.Handler = (*Registry)(nil)

// NewRegistry creates a registry for the named resource type.
func NewRegistry(name string) *Registry {
	return &Registry{name: name, owned: map[uint32][]instance{}}
}

// Attach records that the process owns one instance of this resource type.
func (r *Registry) Attach(id uint32, bytes int) {
	r.AttachFunc(id, bytes, nil)
}

// AttachFunc records an instance with a release hook invoked on cleanup.
func (r *Registry) AttachFunc(id uint32, bytes int, release func() error) {
	r.mux.Lock()
	r.owned[id] = append(r.owned[id], instance{bytes: bytes, release: release})
	r.mux.Unlock()
}

// Count returns the number of instances the process currently owns.
func (r *Registry) Count(id uint32) int {
	r.mux.Lock()
	defer r.mux.Unlock()
	return len(r.owned[id])
}

// HasResources implements cleanup.Handler.
func (r *Registry) HasResources(id uint32) bool {
	return r.Count(id) > 0
}

// Cleanup releases every instance the process owns. Release hook failures
// are reported, never fatal; the instance is dropped regardless so a reused
// identifier starts clean.
func (r *Registry) Cleanup(id uint32) cleanup.Stats {
	r.mux.Lock()
	instances := r.owned[id]
	delete(r.owned, id)
	r.mux.Unlock()

	var stats cleanup.Stats
	for _, inst := range instances {
		if inst.release != nil {
			if err := inst.release(); err != nil {
				stats.Errors = append(stats.Errors, err.Error())
			}
		}
		stats.Freed++
		stats.BytesFreed += inst.bytes
	}
	return stats
}

// TypeName implements cleanup.Handler.
func (r *Registry) TypeName() string {
	return r.name
}
