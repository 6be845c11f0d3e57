package engine

import (
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/vmath"
)

// RenderItem is the interpolated pose of one renderable entity
type RenderItem struct {
	Entity      core.Entity
	Position    vmath.Vec3
	Orientation vmath.Quat
	Scale       vmath.Vec3
	World       vmath.Mat4
	Mesh        string
	Material    string

	// Vertices are softbody particle positions in the body's local frame, nil for rigid entities
	Vertices []vmath.Vec3
}

// Snapshot is the render collaborator's view of one tick
// Owned by the scheduler; valid until the tick after the one that follows it
type Snapshot struct {
	Tick  int64
	Alpha float64
	Items []RenderItem

	vertices []vmath.Vec3
}

// reset truncates the snapshot for reuse, keeping capacity
func (s *Snapshot) reset(tick int64, alpha float64) {
	s.Tick = tick
	s.Alpha = alpha
	clear(s.Items)
	s.Items = s.Items[:0]
	s.vertices = s.vertices[:0]
}

// build collects every visible renderable with a transform, blending previous and current world poses
func (s *Snapshot) build(cs *ComponentStore) {
	for e, r := range cs.Renderable.AllMut() {
		if r.Hidden {
			continue
		}
		t, ok := cs.Transform.Get(e)
		if !ok {
			continue
		}

		pos := vmath.V3Lerp(t.PrevPosition, t.WorldPosition, s.Alpha)
		rot := vmath.QSlerp(t.PrevOrientation, t.WorldOrientation, s.Alpha)
		item := RenderItem{
			Entity:      e,
			Position:    pos,
			Orientation: rot,
			Scale:       t.WorldScale,
			World:       vmath.M4TRS(pos, rot, t.WorldScale),
			Mesh:        r.Mesh,
			Material:    r.Material,
		}

		if sb, ok := cs.SoftBody.Get(e); ok && sb.Body != nil {
			// Vertices are already world-sized
			item.Scale = vmath.V3One
			item.World = vmath.M4TRS(pos, rot, vmath.V3One)
			start := len(s.vertices)
			s.vertices = sb.Body.Vertices(s.vertices)
			item.Vertices = s.vertices[start:len(s.vertices):len(s.vertices)]
		}
		s.Items = append(s.Items, item)
	}
}

// Find returns the item for e
func (s *Snapshot) Find(e core.Entity) (*RenderItem, bool) {
	for i := range s.Items {
		if s.Items[i].Entity == e {
			return &s.Items[i], true
		}
	}
	return nil, false
}
