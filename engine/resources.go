package engine

import (
	"reflect"
	"sync"
	"time"

	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/status"
	"github.com/lixenwraith/softsim/vmath"
)

// ResourceStore is a thread-safe container for global simulation resources
// It allows systems to access shared data (Time, Input, Physics) without
// coupling to the scheduler
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

// NewResourceStore creates a new empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource registers or updates a resource in the store
// Pointer types are recommended so systems can cache and mutate them
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[reflect.TypeFor[T]()] = resource
}

// GetResource retrieves a resource of type T from the store
// Returns the zero value of T and false if not found
func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var target T
	val, ok := rs.resources[reflect.TypeFor[T]()]
	if !ok {
		return target, false
	}
	return val.(T), true
}

// MustGetResource retrieves a resource or panics if missing
// Useful for core resources (Time, Input) that must exist
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic("Required resource not found: " + reflect.TypeFor[T]().String())
	}
	return res
}

// --- Core Resources ---

// TimeResource wraps fixed-step time data for systems
// It is updated by the Scheduler before each substep
type TimeResource struct {
	// FixedDT is the substep length, DT the same in seconds
	FixedDT time.Duration
	DT      float64

	// SimTime is the simulated time after the current substep
	SimTime time.Duration

	// Tick is the scheduler tick that owns the current substep
	Tick int64

	// Substep counts substeps since start; SubstepInTick is the index within the current tick
	Substep       int64
	SubstepInTick int
}

// Advance moves time forward by one substep (zero allocation)
func (tr *TimeResource) Advance(fixedDT time.Duration, tick int64, substepInTick int) {
	tr.FixedDT = fixedDT
	tr.DT = fixedDT.Seconds()
	tr.SimTime += fixedDT
	tr.Tick = tick
	tr.Substep++
	tr.SubstepInTick = substepInTick
}

// PhysicsResource holds the global physics state shared by softbody and collider systems
type PhysicsResource struct {
	Gravity   vmath.Vec3
	Colliders *physics.CollisionWorld
}

// SetGravity replaces the global gravity vector
func (pr *PhysicsResource) SetGravity(g vmath.Vec3) {
	pr.Gravity = g
}

// CoreResources provides cached pointers to singleton resources
// Initialized once per system to eliminate runtime map lookups
type CoreResources struct {
	Time    *TimeResource
	Input   *InputResource
	Physics *PhysicsResource
	Status  *status.Registry
}

// GetCoreResources populates CoreResources from the world's resource store
// Call once during system construction; pointers remain valid for application lifetime
func GetCoreResources(w *World) CoreResources {
	return CoreResources{
		Time:    MustGetResource[*TimeResource](w.Resources),
		Input:   MustGetResource[*InputResource](w.Resources),
		Physics: MustGetResource[*PhysicsResource](w.Resources),
		Status:  MustGetResource[*status.Registry](w.Resources),
	}
}
