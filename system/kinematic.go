package system

import (
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/vmath"
)

// KinematicSystem integrates rigid velocities into local transforms
// Softbody entities are skipped; their transform follows the solver
type KinematicSystem struct {
	engine.SystemBase
}

// NewKinematicSystem creates a new kinematic system
func NewKinematicSystem(world *engine.World) engine.System {
	return &KinematicSystem{
		SystemBase: engine.NewSystemBase(world, "kinematic"),
	}
}

// Priority returns the system's priority
func (s *KinematicSystem) Priority() int {
	return parameter.PriorityKinematic
}

// Update advances every transform with a velocity by one substep
func (s *KinematicSystem) Update() {
	dt := s.Resource.Time.DT
	for e, vel := range s.Component.Velocity.AllMut() {
		if s.Component.SoftBody.Has(e) {
			continue
		}
		t, ok := s.Component.Transform.Get(e)
		if !ok {
			continue
		}
		t.Position = vmath.V3AddScaled(t.Position, vel.Linear, dt)
		t.Orientation = vmath.QIntegrate(t.Orientation, vel.Angular, dt)
	}
}
