package system

import (
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/vmath"
)

// TransformSystem derives world poses from local transforms and the parent hierarchy
// The pose from the previous substep is kept for render interpolation
type TransformSystem struct {
	engine.SystemBase
	hierarchy hierarchy
}

// NewTransformSystem creates a new transform propagation system
func NewTransformSystem(world *engine.World) engine.System {
	return &TransformSystem{
		SystemBase: engine.NewSystemBase(world, "transform"),
		hierarchy:  newHierarchy(world),
	}
}

// Priority returns the system's priority
func (s *TransformSystem) Priority() int {
	return parameter.PriorityTransform
}

// Update rolls world poses into Prev and recomputes them from locals
// Resolution reads only local fields, so dense order does not matter
func (s *TransformSystem) Update() {
	for e, t := range s.Component.Transform.AllMut() {
		t.PrevPosition = t.WorldPosition
		t.PrevOrientation = t.WorldOrientation

		pose, _ := s.hierarchy.resolve(e)
		t.WorldPosition = pose.Position
		t.WorldOrientation = vmath.QNormalize(pose.Orientation)
		t.WorldScale = pose.Scale
		t.World = pose.Matrix
	}
}
