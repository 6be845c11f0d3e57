package engine

import (
	"fmt"
	"reflect"

	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/status"
)

// System is a run-to-completion update executed once per fixed substep
type System interface {
	Update()
	Priority() int // Lower values run first
}

// World is the entity registry: generation-tagged slots, typed component tables and systems
// Single-threaded; the scheduler owns it for the duration of a tick
type World struct {
	capacity    int
	generations []uint32
	alive       []bool
	free        []uint32
	count       int

	// Global ResourceStore
	Resources *ResourceStore

	// Cached typed stores for the built-in component kinds
	Components ComponentStore

	stores    map[reflect.Type]AnyStore
	storeList []AnyStore

	systems []System
}

// NewWorld creates a registry for at most capacity live entities with the built-in tables and resources
func NewWorld(capacity int) *World {
	if capacity < 0 {
		capacity = 0
	}
	w := &World{
		capacity:    capacity,
		generations: make([]uint32, 0, capacity),
		alive:       make([]bool, 0, capacity),
		free:        make([]uint32, 0, capacity),
		Resources:   NewResourceStore(),
		stores:      make(map[reflect.Type]AnyStore),
	}

	initComponentStores(w)
	w.Components = GetComponentStore(w)

	AddResource(w.Resources, &TimeResource{})
	AddResource(w.Resources, NewInputResource())
	AddResource(w.Resources, &PhysicsResource{Colliders: physics.NewCollisionWorld(parameter.ColliderCapacityHint)})
	AddResource(w.Resources, status.NewRegistry())

	return w
}

// Create issues a handle, reusing the most recently freed slot first
func (w *World) Create() (core.Entity, error) {
	if n := len(w.free); n > 0 {
		slot := w.free[n-1]
		w.free = w.free[:n-1]
		w.alive[slot] = true
		w.count++
		return core.MakeEntity(slot, w.generations[slot]), nil
	}
	if len(w.generations) >= w.capacity {
		return core.NullEntity, fmt.Errorf("create entity (capacity %d): %w", w.capacity, ErrCapacityExceeded)
	}
	slot := uint32(len(w.generations))
	w.generations = append(w.generations, 1)
	w.alive = append(w.alive, true)
	w.count++
	return core.MakeEntity(slot, 1), nil
}

// Destroy detaches e from every table and retires its generation; stale handles are ignored
func (w *World) Destroy(e core.Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	for _, s := range w.storeList {
		s.Remove(e)
	}
	slot := e.Slot()
	gen := w.generations[slot] + 1
	if gen == 0 {
		gen = 1
	}
	w.generations[slot] = gen
	w.alive[slot] = false
	w.free = append(w.free, slot)
	w.count--
	return true
}

// IsAlive reports whether e was issued for the slot's current generation and not destroyed
func (w *World) IsAlive(e core.Entity) bool {
	slot := int(e.Slot())
	if e.IsNull() || slot >= len(w.generations) {
		return false
	}
	return w.alive[slot] && w.generations[slot] == e.Gen()
}

// Len returns the number of live entities
func (w *World) Len() int {
	return w.count
}

// Capacity returns the maximum number of live entities
func (w *World) Capacity() int {
	return w.capacity
}

// Clear destroys every live entity; outstanding handles become stale
func (w *World) Clear() {
	for slot := range w.alive {
		if w.alive[slot] {
			w.Destroy(core.MakeEntity(uint32(slot), w.generations[slot]))
		}
	}
}

// RegisterStore adds a component table; later registrations of the same type are ignored
func RegisterStore[T any](w *World) *Store[T] {
	t := reflect.TypeFor[T]()
	if s, ok := w.stores[t]; ok {
		return s.(*Store[T])
	}
	s := NewStore[T](w.capacity)
	w.stores[t] = s
	w.storeList = append(w.storeList, s)
	return s
}

// GetStore returns the table for T, registering it on first use
func GetStore[T any](w *World) *Store[T] {
	if s, ok := w.stores[reflect.TypeFor[T]()]; ok {
		return s.(*Store[T])
	}
	return RegisterStore[T](w)
}

// Attach adds a component to a live entity; false if stale or already present
func Attach[T any](w *World, e core.Entity, val T) bool {
	if !w.IsAlive(e) {
		return false
	}
	return GetStore[T](w).Insert(e, val)
}

// Detach removes a component; false if stale or absent
func Detach[T any](w *World, e core.Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	return GetStore[T](w).Remove(e)
}

// Get returns the component of a live entity
func Get[T any](w *World, e core.Entity) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	return GetStore[T](w).Get(e)
}

// Has reports whether a live entity has component T
func Has[T any](w *World, e core.Entity) bool {
	return w.IsAlive(e) && GetStore[T](w).Has(e)
}

// AddSystem adds a system to the world and sorts by priority
// Equal priorities keep registration order
func (w *World) AddSystem(system System) {
	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N, stable)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Update runs all systems sequentially
func (w *World) Update() {
	for _, system := range w.systems {
		system.Update()
	}
}
