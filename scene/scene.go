// Package scene reads YAML scene descriptions and spawns them into a world
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/lixenwraith/softsim/component"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

// ErrInvalidScene wraps every structural problem found while validating or spawning a scene
var ErrInvalidScene = errors.New("invalid scene")

// File is the root of a scene document
type File struct {
	// Gravity overrides the world gravity magnitude along -Y when set
	Gravity  *float64 `yaml:"gravity"`
	Entities []Entity `yaml:"entities"`
}

// Entity lists the components of one entity; absent blocks are not attached
type Entity struct {
	Name       string          `yaml:"name"`
	Transform  *TransformDesc  `yaml:"transform"`
	Velocity   *VelocityDesc   `yaml:"velocity"`
	SoftBody   *SoftBodyDesc   `yaml:"softbody"`
	Collider   *ColliderDesc   `yaml:"collider"`
	Renderable *RenderableDesc `yaml:"renderable"`
	Controller *ControllerDesc `yaml:"controller"`
}

// Vec is a three-element vector; empty means "use the default"
type Vec []float64

// TransformDesc is a local frame; Rotation is pitch, yaw, roll in degrees
type TransformDesc struct {
	Position Vec    `yaml:"position"`
	Rotation Vec    `yaml:"rotation"`
	Scale    Vec    `yaml:"scale"`
	Parent   string `yaml:"parent"`
}

type VelocityDesc struct {
	Linear  Vec `yaml:"linear"`
	Angular Vec `yaml:"angular"`
}

// SoftBodyDesc uses either an explicit particle network or a generated lattice
// An anchored body's transform is its offset from the anchor
type SoftBodyDesc struct {
	Anchor          string         `yaml:"anchor"`
	Lattice         *LatticeDesc   `yaml:"lattice"`
	Particles       []ParticleDesc `yaml:"particles"`
	Springs         []SpringDesc   `yaml:"springs"`
	Radius          *float64       `yaml:"radius"`
	AnchorStiffness float64        `yaml:"anchor_stiffness"`
	AnchorDamping   float64        `yaml:"anchor_damping"`
	Drag            *float64       `yaml:"drag"`
	ShapeIterations int            `yaml:"shape_iterations"`
	Force           Vec            `yaml:"force"`
}

type LatticeDesc struct {
	Size       []int    `yaml:"size"`
	Spacing    float64  `yaml:"spacing"`
	Mass       *float64 `yaml:"mass"`
	Stiffness  *float64 `yaml:"stiffness"`
	Damping    *float64 `yaml:"damping"`
	ShearScale *float64 `yaml:"shear_scale"`
}

type ParticleDesc struct {
	Rest Vec      `yaml:"rest"`
	Mass *float64 `yaml:"mass"`
}

type SpringDesc struct {
	A          int      `yaml:"a"`
	B          int      `yaml:"b"`
	RestLength float64  `yaml:"rest_length"`
	Stiffness  *float64 `yaml:"stiffness"`
	Damping    *float64 `yaml:"damping"`
}

// ColliderDesc is a shape in the owner's local frame
type ColliderDesc struct {
	Shape    string   `yaml:"shape"`
	Center   Vec      `yaml:"center"`
	Normal   Vec      `yaml:"normal"`
	A        Vec      `yaml:"a"`
	B        Vec      `yaml:"b"`
	Radius   float64  `yaml:"radius"`
	Friction *float64 `yaml:"friction"`
}

type RenderableDesc struct {
	Mesh     string `yaml:"mesh"`
	Material string `yaml:"material"`
	Hidden   bool   `yaml:"hidden"`
}

type ControllerDesc struct {
	Speed    float64 `yaml:"speed"`
	TurnRate float64 `yaml:"turn_rate"`
}

// Parse decodes and validates a scene document
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads and parses the scene at path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks names, references and vector shapes without touching a world
func (f *File) Validate() error {
	if f.Gravity != nil && !vmath.IsFinite(*f.Gravity) {
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidScene)
	}

	names := make(map[string]int, len(f.Entities))
	for i, e := range f.Entities {
		if e.Name == "" {
			continue
		}
		if j, dup := names[e.Name]; dup {
			return fmt.Errorf("%w: entity %d reuses name %q of entity %d", ErrInvalidScene, i, e.Name, j)
		}
		names[e.Name] = i
	}

	ref := func(i int, kind, name string) error {
		if name == "" {
			return nil
		}
		if _, ok := names[name]; !ok {
			return fmt.Errorf("%w: entity %s: unknown %s %q", ErrInvalidScene, label(i, f.Entities[i].Name), kind, name)
		}
		if name == f.Entities[i].Name {
			return fmt.Errorf("%w: entity %s: %s refers to itself", ErrInvalidScene, label(i, name), kind)
		}
		return nil
	}

	for i, e := range f.Entities {
		if e.Transform != nil {
			if err := ref(i, "parent", e.Transform.Parent); err != nil {
				return err
			}
			for _, v := range []Vec{e.Transform.Position, e.Transform.Rotation, e.Transform.Scale} {
				if err := v.check(); err != nil {
					return fmt.Errorf("%w: entity %s: transform: %w", ErrInvalidScene, label(i, e.Name), err)
				}
			}
		}
		if e.SoftBody != nil {
			if err := ref(i, "anchor", e.SoftBody.Anchor); err != nil {
				return err
			}
			if e.SoftBody.Lattice == nil && len(e.SoftBody.Particles) == 0 {
				return fmt.Errorf("%w: entity %s: softbody needs particles or a lattice", ErrInvalidScene, label(i, e.Name))
			}
			if e.SoftBody.Lattice != nil && len(e.SoftBody.Particles) > 0 {
				return fmt.Errorf("%w: entity %s: softbody has both particles and a lattice", ErrInvalidScene, label(i, e.Name))
			}
		}
		if e.Collider != nil {
			if _, err := shapeKind(e.Collider.Shape); err != nil {
				return fmt.Errorf("%w: entity %s: %w", ErrInvalidScene, label(i, e.Name), err)
			}
		}
	}
	return nil
}

func label(i int, name string) string {
	if name == "" {
		return fmt.Sprintf("#%d", i)
	}
	return fmt.Sprintf("%q", name)
}

func (v Vec) check() error {
	if len(v) != 0 && len(v) != 3 {
		return fmt.Errorf("vector needs 3 components, got %d", len(v))
	}
	for _, c := range v {
		if !vmath.IsFinite(c) {
			return fmt.Errorf("vector component %v is not finite", c)
		}
	}
	return nil
}

// or returns v as a Vec3, def when empty
func (v Vec) or(def vmath.Vec3) vmath.Vec3 {
	if len(v) != 3 {
		return def
	}
	return vmath.V3(v[0], v[1], v[2])
}

func orFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func shapeKind(s string) (physics.ShapeKind, error) {
	switch s {
	case "plane":
		return physics.ShapePlane, nil
	case "sphere":
		return physics.ShapeSphere, nil
	case "capsule":
		return physics.ShapeCapsule, nil
	}
	return 0, fmt.Errorf("unknown collider shape %q", s)
}

func (d *TransformDesc) local() component.TransformComponent {
	rot := vmath.QIdentity
	if len(d.Rotation) == 3 {
		toRad := math.Pi / 180
		rot = vmath.QFromEuler(d.Rotation[0]*toRad, d.Rotation[1]*toRad, d.Rotation[2]*toRad)
	}
	return component.NewTransform(d.Position.or(vmath.V3Zero), rot, d.Scale.or(vmath.V3One))
}

func (d *ColliderDesc) collider() physics.Collider {
	kind, _ := shapeKind(d.Shape)
	var c physics.Collider
	switch kind {
	case physics.ShapePlane:
		c = physics.PlaneCollider(d.Center.or(vmath.V3Zero), d.Normal.or(vmath.V3UnitY))
	case physics.ShapeSphere:
		c = physics.SphereCollider(d.Center.or(vmath.V3Zero), d.Radius)
	case physics.ShapeCapsule:
		c = physics.CapsuleCollider(d.A.or(vmath.V3Zero), d.B.or(vmath.V3Zero), d.Radius)
	}
	c.Friction = orFloat(d.Friction, parameter.ColliderFriction)
	return c
}

// definition builds the solver topology from either the lattice or the explicit network
func (d *SoftBodyDesc) definition(shapeIterations int) (physics.SoftBodyDef, error) {
	var def physics.SoftBodyDef
	if d.Lattice != nil {
		l := d.Lattice
		if len(l.Size) != 3 {
			return def, fmt.Errorf("%w: lattice size needs 3 dimensions", ErrInvalidScene)
		}
		spacing := l.Spacing
		if spacing == 0 {
			spacing = 1
		}
		params := DefaultLattice(1, spacing)
		params.Nx, params.Ny, params.Nz = l.Size[0], l.Size[1], l.Size[2]
		params.ParticleMass = orFloat(l.Mass, params.ParticleMass)
		params.Stiffness = orFloat(l.Stiffness, params.Stiffness)
		params.Damping = orFloat(l.Damping, params.Damping)
		params.ShearScale = orFloat(l.ShearScale, params.ShearScale)
		var err error
		if def, err = Lattice(params); err != nil {
			return def, err
		}
	} else {
		for i, p := range d.Particles {
			if len(p.Rest) != 3 {
				return def, fmt.Errorf("%w: particle %d needs a 3-component rest position", ErrInvalidScene, i)
			}
			def.Particles = append(def.Particles, physics.ParticleDef{
				Rest: p.Rest.or(vmath.V3Zero),
				Mass: orFloat(p.Mass, parameter.ParticleMass),
			})
		}
		for _, s := range d.Springs {
			def.Springs = append(def.Springs, physics.SpringDef{
				A:          s.A,
				B:          s.B,
				RestLength: s.RestLength,
				Stiffness:  orFloat(s.Stiffness, parameter.SpringStiffness),
				Damping:    orFloat(s.Damping, parameter.SpringDamping),
			})
		}
	}

	def.Radius = orFloat(d.Radius, parameter.ParticleRadius)
	def.AnchorStiffness = d.AnchorStiffness
	def.AnchorDamping = d.AnchorDamping
	def.Drag = orFloat(d.Drag, parameter.Drag)
	def.ShapeIterations = d.ShapeIterations
	if def.ShapeIterations <= 0 {
		def.ShapeIterations = shapeIterations
	}
	return def, nil
}
