package component

import "github.com/lixenwraith/softsim/vmath"

// VelocityComponent moves a rigid transform each substep (anchors, kinematic colliders)
// Angular is in radians per second around the parent frame axes
type VelocityComponent struct {
	Linear  vmath.Vec3
	Angular vmath.Vec3
}
