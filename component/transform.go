package component

import (
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/vmath"
)

// TransformComponent is a local TRS frame with an optional parent and the derived world pose
// World fields are written by transform propagation; Prev fields hold the previous substep for interpolation
type TransformComponent struct {
	Position    vmath.Vec3
	Orientation vmath.Quat
	Scale       vmath.Vec3

	// Parent is NullEntity for roots; a stale parent makes the transform a root
	Parent core.Entity

	WorldPosition    vmath.Vec3
	WorldOrientation vmath.Quat
	WorldScale       vmath.Vec3
	World            vmath.Mat4

	PrevPosition    vmath.Vec3
	PrevOrientation vmath.Quat
}

// NewTransform creates a root transform whose world and previous pose equal the local one
func NewTransform(pos vmath.Vec3, rot vmath.Quat, scale vmath.Vec3) TransformComponent {
	rot = vmath.QNormalize(rot)
	return TransformComponent{
		Position:         pos,
		Orientation:      rot,
		Scale:            scale,
		WorldPosition:    pos,
		WorldOrientation: rot,
		WorldScale:       scale,
		World:            vmath.M4TRS(pos, rot, scale),
		PrevPosition:     pos,
		PrevOrientation:  rot,
	}
}

// Local returns the local TRS matrix
func (t *TransformComponent) Local() vmath.Mat4 {
	return vmath.M4TRS(t.Position, t.Orientation, t.Scale)
}
