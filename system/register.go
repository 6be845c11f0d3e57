package system

import (
	"github.com/lixenwraith/softsim/engine"
)

// RegisterAll adds the simulation systems to world in their fixed priority order
func RegisterAll(world *engine.World, opts ...SoftBodyOption) {
	world.AddSystem(NewInputSystem(world))
	world.AddSystem(NewKinematicSystem(world))
	world.AddSystem(NewColliderSystem(world))
	world.AddSystem(NewSoftBodySystem(world, opts...))
	world.AddSystem(NewTransformSystem(world))
}
