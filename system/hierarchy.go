package system

import (
	"github.com/lixenwraith/softsim/component"
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

// worldPose is a resolved world frame
type worldPose struct {
	Position    vmath.Vec3
	Orientation vmath.Quat
	Scale       vmath.Vec3
	Matrix      vmath.Mat4
}

func (p worldPose) rigid() physics.Pose {
	return physics.Pose{Position: p.Position, Orientation: p.Orientation}
}

// hierarchy resolves world frames from local transforms on demand
// Softbody entities are roots: their local transform is already the world centroid pose
type hierarchy struct {
	world *engine.World
	cs    *engine.ComponentStore
}

func newHierarchy(w *engine.World) hierarchy {
	return hierarchy{world: w, cs: &w.Components}
}

// resolve composes e's local TRS with its live ancestors
// Stale parents end the chain; chains deeper than MaxHierarchyDepth are cut there
func (h hierarchy) resolve(e core.Entity) (worldPose, bool) {
	t, ok := h.cs.Transform.Get(e)
	if !ok {
		return worldPose{}, false
	}

	parent := h.parentOf(e, t)
	if parent.IsNull() {
		return worldPose{
			Position:    t.Position,
			Orientation: t.Orientation,
			Scale:       t.Scale,
			Matrix:      t.Local(),
		}, true
	}

	m := t.Local()
	for depth := 0; !parent.IsNull() && depth < parameter.MaxHierarchyDepth; depth++ {
		pt, ok := h.cs.Transform.Get(parent)
		if !ok {
			break
		}
		m = vmath.M4Mul(pt.Local(), m)
		parent = h.parentOf(parent, pt)
	}

	pos, rot, scale := vmath.M4Decompose(m)
	return worldPose{Position: pos, Orientation: rot, Scale: scale, Matrix: m}, true
}

// parentOf returns the live parent of e, NullEntity for roots
func (h hierarchy) parentOf(e core.Entity, t *component.TransformComponent) core.Entity {
	if t.Parent.IsNull() || t.Parent == e || !h.world.IsAlive(t.Parent) || h.cs.SoftBody.Has(e) {
		return core.NullEntity
	}
	return t.Parent
}
