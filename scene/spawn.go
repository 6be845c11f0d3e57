package scene

import (
	"fmt"

	"github.com/lixenwraith/softsim/component"
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

// Options tune spawning
type Options struct {
	// ShapeIterations applies to bodies that do not set their own
	ShapeIterations int
}

// Spawned maps scene entity names to their handles; unnamed entities are only in Entities
type Spawned struct {
	Entities []core.Entity
	Names    map[string]core.Entity
}

// Lookup returns the entity spawned under name
func (s Spawned) Lookup(name string) (core.Entity, bool) {
	e, ok := s.Names[name]
	return e, ok
}

// Spawn creates every scene entity in w; on error the entities created so far are destroyed
func Spawn(w *engine.World, f *File, opts Options) (Spawned, error) {
	if err := f.Validate(); err != nil {
		return Spawned{}, err
	}
	if opts.ShapeIterations <= 0 {
		opts.ShapeIterations = parameter.ShapeMatchIterations
	}

	sp := Spawned{
		Entities: make([]core.Entity, 0, len(f.Entities)),
		Names:    make(map[string]core.Entity, len(f.Entities)),
	}
	index := make(map[string]int, len(f.Entities))
	rollback := func(err error) (Spawned, error) {
		for _, e := range sp.Entities {
			w.Destroy(e)
		}
		return Spawned{}, err
	}

	for i, desc := range f.Entities {
		e, err := w.Create()
		if err != nil {
			return rollback(fmt.Errorf("spawn entity %s: %w", label(i, desc.Name), err))
		}
		sp.Entities = append(sp.Entities, e)
		if desc.Name != "" {
			sp.Names[desc.Name] = e
			index[desc.Name] = i
		}
	}

	b := builder{f: f, index: index}
	for i, desc := range f.Entities {
		e := sp.Entities[i]
		if err := b.attach(w, e, i, desc, sp, opts); err != nil {
			return rollback(fmt.Errorf("spawn entity %s: %w", label(i, desc.Name), err))
		}
	}

	if f.Gravity != nil {
		engine.GetCoreResources(w).Physics.SetGravity(vmath.V3(0, -*f.Gravity, 0))
	}
	return sp, nil
}

type builder struct {
	f     *File
	index map[string]int
}

func (b builder) local(i int) component.TransformComponent {
	if t := b.f.Entities[i].Transform; t != nil {
		return t.local()
	}
	return component.NewTransform(vmath.V3Zero, vmath.QIdentity, vmath.V3One)
}

// worldPose composes scene-local frames up the parent chain; softbody entities are roots
func (b builder) worldPose(i int) physics.Pose {
	t := b.local(i)
	m := t.Local()
	for depth := 0; depth < parameter.MaxHierarchyDepth; depth++ {
		desc := b.f.Entities[i]
		if desc.SoftBody != nil || desc.Transform == nil || desc.Transform.Parent == "" {
			break
		}
		i = b.index[desc.Transform.Parent]
		pt := b.local(i)
		m = vmath.M4Mul(pt.Local(), m)
	}
	pos, rot, _ := vmath.M4Decompose(m)
	return physics.Pose{Position: pos, Orientation: rot}
}

func (b builder) attach(w *engine.World, e core.Entity, i int, desc Entity, sp Spawned, opts Options) error {
	attach := func(ok bool, kind string) error {
		if !ok {
			return fmt.Errorf("%w: attach %s", ErrInvalidScene, kind)
		}
		return nil
	}

	if desc.Transform != nil || desc.SoftBody != nil {
		t := b.local(i)
		if desc.Transform != nil && desc.Transform.Parent != "" && desc.SoftBody == nil {
			t.Parent = sp.Names[desc.Transform.Parent]
		}

		if desc.SoftBody != nil {
			body, anchor, err := b.softBody(i, desc.SoftBody, sp, opts)
			if err != nil {
				return err
			}
			// Scale lives in the rest shape; particle positions are world units
			t = component.NewTransform(body.Centroid(), body.Orientation(), vmath.V3One)
			if err := attach(engine.Attach(w, e, component.SoftBodyComponent{Body: body, Anchor: anchor}), "softbody"); err != nil {
				return err
			}
		}
		if err := attach(engine.Attach(w, e, t), "transform"); err != nil {
			return err
		}
	}

	if v := desc.Velocity; v != nil {
		vel := component.VelocityComponent{Linear: v.Linear.or(vmath.V3Zero), Angular: v.Angular.or(vmath.V3Zero)}
		if err := attach(engine.Attach(w, e, vel), "velocity"); err != nil {
			return err
		}
	}
	if c := desc.Collider; c != nil {
		if err := attach(engine.Attach(w, e, component.ColliderComponent{Shape: c.collider()}), "collider"); err != nil {
			return err
		}
	}
	if r := desc.Renderable; r != nil {
		rc := component.RenderableComponent{Mesh: r.Mesh, Material: r.Material, Hidden: r.Hidden}
		if err := attach(engine.Attach(w, e, rc), "renderable"); err != nil {
			return err
		}
	}
	if c := desc.Controller; c != nil {
		cc := component.ControllerComponent{Speed: c.Speed, TurnRate: c.TurnRate}
		if err := attach(engine.Attach(w, e, cc), "controller"); err != nil {
			return err
		}
	}
	return nil
}

// softBody places a free body at its own pose; an anchored body bakes its transform
// into the rest shape as an offset and starts at the anchor's world pose
// Transform scale is always baked into the rest shape
func (b builder) softBody(i int, d *SoftBodyDesc, sp Spawned, opts Options) (*physics.SoftBody, core.Entity, error) {
	def, err := d.definition(opts.ShapeIterations)
	if err != nil {
		return nil, core.NullEntity, err
	}

	own := b.local(i)
	scaleRest(&def, own.Scale)
	pose := physics.Pose{Position: own.Position, Orientation: own.Orientation}
	anchor := core.NullEntity
	if d.Anchor != "" {
		anchor = sp.Names[d.Anchor]
		for j := range def.Particles {
			def.Particles[j].Rest = pose.Apply(def.Particles[j].Rest)
		}
		pose = b.worldPose(b.index[d.Anchor])
	}

	body, err := physics.NewSoftBody(def, pose)
	if err != nil {
		return nil, core.NullEntity, err
	}
	if len(d.Force) == 3 {
		body.SetForce(d.Force.or(vmath.V3Zero))
	}
	return body, anchor, nil
}

// scaleRest stretches rest positions by s per axis; explicit spring rest lengths stretch along their own axis
func scaleRest(def *physics.SoftBodyDef, s vmath.Vec3) {
	if s == vmath.V3One {
		return
	}
	for i := range def.Springs {
		sd := &def.Springs[i]
		if sd.RestLength <= 0 {
			continue
		}
		d := vmath.V3Sub(def.Particles[sd.B].Rest, def.Particles[sd.A].Rest)
		if l := vmath.V3Mag(d); l > vmath.Epsilon {
			sd.RestLength *= vmath.V3Mag(vmath.V3Mul(d, s)) / l
		}
	}
	for i := range def.Particles {
		def.Particles[i].Rest = vmath.V3Mul(def.Particles[i].Rest, s)
	}
}
