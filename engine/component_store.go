package engine

import (
	"github.com/lixenwraith/softsim/component"
)

// ComponentStore provides cached pointer to typed component store
// Initialized once per system to eliminate runtime map lookup
type ComponentStore struct {
	Transform  *Store[component.TransformComponent]
	Velocity   *Store[component.VelocityComponent]
	SoftBody   *Store[component.SoftBodyComponent]
	Collider   *Store[component.ColliderComponent]
	Renderable *Store[component.RenderableComponent]
	Controller *Store[component.ControllerComponent]
}

// initComponentStores registers the built-in tables in a fixed order so destruction order is stable
func initComponentStores(w *World) {
	RegisterStore[component.TransformComponent](w)
	RegisterStore[component.VelocityComponent](w)
	RegisterStore[component.SoftBodyComponent](w)
	RegisterStore[component.ColliderComponent](w)
	RegisterStore[component.RenderableComponent](w)
	RegisterStore[component.ControllerComponent](w)
}

// GetComponentStore populates ComponentStore from world
// Call once during system construction; pointer remain valid for application lifetime
func GetComponentStore(w *World) ComponentStore {
	return ComponentStore{
		Transform:  GetStore[component.TransformComponent](w),
		Velocity:   GetStore[component.VelocityComponent](w),
		SoftBody:   GetStore[component.SoftBodyComponent](w),
		Collider:   GetStore[component.ColliderComponent](w),
		Renderable: GetStore[component.RenderableComponent](w),
		Controller: GetStore[component.ControllerComponent](w),
	}
}
