package system

import (
	"math"

	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

// ColliderSystem rebuilds the world-space collision set from collider owners each substep
// Static and kinematic colliders take the same path
type ColliderSystem struct {
	engine.SystemBase
	hierarchy hierarchy
}

// NewColliderSystem creates a new collider refresh system
func NewColliderSystem(world *engine.World) engine.System {
	return &ColliderSystem{
		SystemBase: engine.NewSystemBase(world, "collider"),
		hierarchy:  newHierarchy(world),
	}
}

// Priority returns the system's priority
func (s *ColliderSystem) Priority() int {
	return parameter.PriorityCollider
}

// Update transforms every local collider shape by its owner's world frame
func (s *ColliderSystem) Update() {
	cw := s.Resource.Physics.Colliders
	cw.Reset()
	for e, c := range s.Component.Collider.AllMut() {
		shape := c.Shape
		if pose, ok := s.hierarchy.resolve(e); ok {
			shape = transformShape(shape, pose)
		}
		shape.Owner = e
		cw.Add(shape)
	}
}

// transformShape maps a local shape into world space; radii scale by the largest axis scale
func transformShape(c physics.Collider, pose worldPose) physics.Collider {
	m := pose.Matrix
	radiusScale := math.Max(math.Abs(pose.Scale.X), math.Max(math.Abs(pose.Scale.Y), math.Abs(pose.Scale.Z)))
	switch c.Kind {
	case physics.ShapePlane:
		c.Center = vmath.M4MulPoint(m, c.Center)
		c.Normal = vmath.V3Normalize(vmath.QRotate(pose.Orientation, c.Normal))
	case physics.ShapeSphere:
		c.Center = vmath.M4MulPoint(m, c.Center)
		c.Radius *= radiusScale
	case physics.ShapeCapsule:
		c.A = vmath.M4MulPoint(m, c.A)
		c.B = vmath.M4MulPoint(m, c.B)
		c.Radius *= radiusScale
	}
	return c
}
