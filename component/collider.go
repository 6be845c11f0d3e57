package component

import "github.com/lixenwraith/softsim/physics"

// ColliderComponent is rigid geometry in the owner's local frame
// World-space shape is re-derived from the owner transform every substep
type ColliderComponent struct {
	Shape physics.Collider
}
