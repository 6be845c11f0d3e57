package physics

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/softsim/vmath"
)

// ErrInvalidTopology is returned for empty particle lists or springs with bad indices
var ErrInvalidTopology = errors.New("invalid softbody topology")

const (
	// DefaultShapeIterations is used when a definition leaves ShapeIterations at 0
	DefaultShapeIterations = 8

	// maxContactPasses bounds per-particle projection against overlapping colliders
	maxContactPasses = 4
)

// Pose is a rigid frame: rotation then translation
type Pose struct {
	Position    vmath.Vec3
	Orientation vmath.Quat
}

// IdentityPose is the world origin frame
var IdentityPose = Pose{Orientation: vmath.QIdentity}

// Apply maps a local point into the pose frame
func (p Pose) Apply(local vmath.Vec3) vmath.Vec3 {
	return vmath.V3Add(p.Position, vmath.QRotate(p.Orientation, local))
}

// ParticleDef is a point mass at a rest position relative to the anchor frame
type ParticleDef struct {
	Rest vmath.Vec3
	Mass float64
}

// SpringDef connects two particles; RestLength <= 0 is measured from the rest positions
type SpringDef struct {
	A, B       int
	RestLength float64
	Stiffness  float64
	Damping    float64
}

// SoftBodyDef is the validated topology handed over by the asset side
type SoftBodyDef struct {
	Particles []ParticleDef
	Springs   []SpringDef

	// Radius is the collision radius of every particle
	Radius float64

	// AnchorStiffness and AnchorDamping drive the goal spring toward anchor targets, 0 leaves the body free
	AnchorStiffness float64
	AnchorDamping   float64

	// Drag is linear velocity damping per unit mass
	Drag float64

	// ShapeIterations bounds the best-fit rotation solve, 0 uses the default
	ShapeIterations int
}

// Particle is the live state of one point mass
type Particle struct {
	Rest     vmath.Vec3 // anchor-local rest position
	Mass     float64
	InvMass  float64
	Position vmath.Vec3
	Velocity vmath.Vec3
	Force    vmath.Vec3
	Target   vmath.Vec3 // world-space rest position carried by the anchor

	lastPosition vmath.Vec3
	lastVelocity vmath.Vec3
	targetVel    vmath.Vec3
	// goal is Target at the start of the substep, time-aligned with Position
	goal vmath.Vec3
}

// Spring is an immutable constraint between particles A and B
type Spring struct {
	A, B       int
	RestLength float64
	Stiffness  float64
	Damping    float64
}

// StepParams carries the per-substep inputs shared by all bodies
type StepParams struct {
	DT      float64
	Gravity vmath.Vec3

	// Anchor is the current world pose of the skeleton transform, ignored unless HasAnchor
	Anchor    Pose
	HasAnchor bool

	Colliders *CollisionWorld
}

// StepStats reports the outcome of one substep
type StepStats struct {
	Contacts int
	Clamped  int
	Energy   float64
}

// Add accumulates another body's stats
func (s *StepStats) Add(o StepStats) {
	s.Contacts += o.Contacts
	s.Clamped += o.Clamped
	s.Energy += o.Energy
}

// SoftBody is a mass-spring network coupled to an optional anchor pose
type SoftBody struct {
	particles []Particle
	springs   []Spring

	radius          float64
	anchorStiffness float64
	anchorDamping   float64
	drag            float64
	shapeIterations int

	force  vmath.Vec3
	anchor Pose

	totalMass    float64
	restCentroid vmath.Vec3
	centroid     vmath.Vec3
	orientation  vmath.Quat
}

// NewSoftBody validates the definition and places every particle at its rest target under anchor
func NewSoftBody(def SoftBodyDef, anchor Pose) (*SoftBody, error) {
	if len(def.Particles) == 0 {
		return nil, fmt.Errorf("%w: no particles", ErrInvalidTopology)
	}

	sb := &SoftBody{
		particles:       make([]Particle, len(def.Particles)),
		springs:         make([]Spring, len(def.Springs)),
		radius:          def.Radius,
		anchorStiffness: def.AnchorStiffness,
		anchorDamping:   def.AnchorDamping,
		drag:            def.Drag,
		shapeIterations: def.ShapeIterations,
	}
	if sb.shapeIterations <= 0 {
		sb.shapeIterations = DefaultShapeIterations
	}

	for i, pd := range def.Particles {
		if !vmath.V3IsFinite(pd.Rest) {
			return nil, fmt.Errorf("%w: particle %d has non-finite rest position", ErrInvalidTopology, i)
		}
		p := &sb.particles[i]
		p.Rest = pd.Rest
		p.Mass = pd.Mass
		if pd.Mass > 0 && vmath.IsFinite(pd.Mass) {
			p.InvMass = 1 / pd.Mass
			sb.totalMass += pd.Mass
			sb.restCentroid = vmath.V3AddScaled(sb.restCentroid, pd.Rest, pd.Mass)
		}
	}
	if sb.totalMass > 0 {
		sb.restCentroid = vmath.V3Scale(sb.restCentroid, 1/sb.totalMass)
	}

	for i, sd := range def.Springs {
		if sd.A < 0 || sd.A >= len(def.Particles) || sd.B < 0 || sd.B >= len(def.Particles) {
			return nil, fmt.Errorf("%w: spring %d references particle out of range", ErrInvalidTopology, i)
		}
		if sd.A == sd.B {
			return nil, fmt.Errorf("%w: spring %d connects particle %d to itself", ErrInvalidTopology, i, sd.A)
		}
		rest := sd.RestLength
		if rest <= 0 {
			rest = vmath.V3Dist(def.Particles[sd.A].Rest, def.Particles[sd.B].Rest)
		}
		sb.springs[i] = Spring{A: sd.A, B: sd.B, RestLength: rest, Stiffness: sd.Stiffness, Damping: sd.Damping}
	}

	sb.Reset(anchor)
	return sb, nil
}

// Reset teleports the body to its rest shape under anchor with zero velocity
func (sb *SoftBody) Reset(anchor Pose) {
	anchor.Orientation = vmath.QNormalize(anchor.Orientation)
	sb.anchor = anchor
	for i := range sb.particles {
		p := &sb.particles[i]
		p.Target = anchor.Apply(p.Rest)
		p.Position = p.Target
		p.Velocity = vmath.V3Zero
		p.Force = vmath.V3Zero
		p.targetVel = vmath.V3Zero
		p.goal = p.Target
		p.lastPosition = p.Position
		p.lastVelocity = p.Velocity
	}
	sb.centroid = anchor.Apply(sb.restCentroid)
	sb.orientation = anchor.Orientation
}

// SetForce sets a constant external force spread over the body by mass, kept until changed
func (sb *SoftBody) SetForce(f vmath.Vec3) {
	sb.force = f
}

// Force returns the external force set by SetForce
func (sb *SoftBody) Force() vmath.Vec3 { return sb.force }

// Step advances the body by one fixed substep
func (sb *SoftBody) Step(params StepParams) StepStats {
	var stats StepStats
	dt := params.DT
	if dt <= 0 || !vmath.IsFinite(dt) {
		return stats
	}

	sb.applyAnchor(params, dt)
	sb.accumulateForces(params.Gravity)
	stats.Clamped = sb.integrate(dt)
	if params.Colliders != nil && params.Colliders.Len() > 0 {
		stats.Contacts = sb.resolveCollisions(params.Colliders)
	}
	sb.commitValid()
	sb.matchShape()

	stats.Energy = sb.KineticEnergy()
	return stats
}

// applyAnchor carries every target rigidly with the anchor motion since the previous substep
func (sb *SoftBody) applyAnchor(params StepParams, dt float64) {
	if !params.HasAnchor || !vmath.V3IsFinite(params.Anchor.Position) || !vmath.QIsFinite(params.Anchor.Orientation) {
		sb.holdTargets()
		return
	}

	now := params.Anchor
	now.Orientation = vmath.QNormalize(now.Orientation)
	prev := sb.anchor
	if now == prev {
		sb.holdTargets()
		return
	}
	dR := vmath.QMul(now.Orientation, vmath.QConj(prev.Orientation))
	invDT := 1 / dt

	for i := range sb.particles {
		p := &sb.particles[i]
		rel := vmath.V3Sub(p.Target, prev.Position)
		target := vmath.V3Add(now.Position, vmath.QRotate(dR, rel))
		p.targetVel = vmath.V3Scale(vmath.V3Sub(target, p.Target), invDT)
		p.goal = p.Target
		p.Target = target
	}
	sb.anchor = now
}

func (sb *SoftBody) holdTargets() {
	for i := range sb.particles {
		p := &sb.particles[i]
		p.targetVel = vmath.V3Zero
		p.goal = p.Target
	}
}

func (sb *SoftBody) accumulateForces(gravity vmath.Vec3) {
	var forcePerMass vmath.Vec3
	if sb.totalMass > 0 {
		forcePerMass = vmath.V3Scale(sb.force, 1/sb.totalMass)
	}

	for i := range sb.particles {
		p := &sb.particles[i]
		f := vmath.V3Scale(vmath.V3Add(gravity, forcePerMass), p.Mass)
		if sb.drag > 0 {
			f = vmath.V3AddScaled(f, p.Velocity, -sb.drag*p.Mass)
		}
		if sb.anchorStiffness > 0 || sb.anchorDamping > 0 {
			f = vmath.V3AddScaled(f, vmath.V3Sub(p.goal, p.Position), sb.anchorStiffness)
			f = vmath.V3AddScaled(f, vmath.V3Sub(p.targetVel, p.Velocity), sb.anchorDamping)
		}
		p.Force = f
	}

	for i := range sb.springs {
		s := &sb.springs[i]
		pa, pb := &sb.particles[s.A], &sb.particles[s.B]
		axis, length := vmath.V3NormalizeLen(vmath.V3Sub(pb.Position, pa.Position))
		relVel := vmath.V3Dot(vmath.V3Sub(pb.Velocity, pa.Velocity), axis)
		mag := s.Stiffness*(length-s.RestLength) + s.Damping*relVel
		f := vmath.V3Scale(axis, mag)
		pa.Force = vmath.V3Add(pa.Force, f)
		pb.Force = vmath.V3Sub(pb.Force, f)
	}
}

// integrate runs semi-implicit Euler and returns the number of particles held at their last valid state
func (sb *SoftBody) integrate(dt float64) int {
	clamped := 0
	for i := range sb.particles {
		p := &sb.particles[i]
		if p.InvMass == 0 {
			p.Position, p.Velocity = p.lastPosition, p.lastVelocity
			clamped++
			continue
		}
		v := vmath.V3AddScaled(p.Velocity, p.Force, p.InvMass*dt)
		x := vmath.V3AddScaled(p.Position, v, dt)
		if !vmath.V3IsFinite(v) || !vmath.V3IsFinite(x) {
			p.Position, p.Velocity = p.lastPosition, p.lastVelocity
			clamped++
			continue
		}
		p.Position, p.Velocity = x, v
	}
	return clamped
}

// resolveCollisions projects penetrating particles out along the contact normal
func (sb *SoftBody) resolveCollisions(cw *CollisionWorld) int {
	contacts := 0
	for i := range sb.particles {
		p := &sb.particles[i]
		if p.InvMass == 0 {
			continue
		}
		for pass := 0; pass < maxContactPasses; pass++ {
			c, ok := cw.Query(p.Position, sb.radius)
			if !ok {
				break
			}
			contacts++
			p.Position = vmath.V3AddScaled(p.Position, c.Normal, c.Depth)

			vn := vmath.V3Dot(p.Velocity, c.Normal)
			if vn >= 0 {
				continue
			}
			p.Velocity = vmath.V3AddScaled(p.Velocity, c.Normal, -vn)
			if c.Friction > 0 {
				tangent, speed := vmath.V3NormalizeLen(p.Velocity)
				reduce := c.Friction * -vn
				if speed <= reduce {
					p.Velocity = vmath.V3Zero
				} else {
					p.Velocity = vmath.V3AddScaled(p.Velocity, tangent, -reduce)
				}
			}
		}
	}
	return contacts
}

func (sb *SoftBody) commitValid() {
	for i := range sb.particles {
		p := &sb.particles[i]
		if vmath.V3IsFinite(p.Position) && vmath.V3IsFinite(p.Velocity) {
			p.lastPosition, p.lastVelocity = p.Position, p.Velocity
		} else {
			p.Position, p.Velocity = p.lastPosition, p.lastVelocity
		}
	}
}

// matchShape recovers the mass-weighted centroid and best-fit rotation from rest to current shape
func (sb *SoftBody) matchShape() {
	if sb.totalMass <= 0 {
		return
	}

	var c vmath.Vec3
	for i := range sb.particles {
		p := &sb.particles[i]
		if p.InvMass == 0 {
			continue
		}
		c = vmath.V3AddScaled(c, p.Position, p.Mass)
	}
	c = vmath.V3Scale(c, 1/sb.totalMass)
	if !vmath.V3IsFinite(c) {
		return
	}

	var a vmath.Mat3
	for i := range sb.particles {
		p := &sb.particles[i]
		if p.InvMass == 0 {
			continue
		}
		cur := vmath.V3Sub(p.Position, c)
		rest := vmath.V3Sub(p.Rest, sb.restCentroid)
		a = vmath.M3Add(a, vmath.M3Scale(vmath.M3Outer(cur, rest), p.Mass))
	}

	q := vmath.ExtractRotation(a, sb.orientation, sb.shapeIterations)
	if !vmath.QIsFinite(q) {
		return
	}
	sb.centroid = c
	sb.orientation = q
}

// KineticEnergy returns the sum of 1/2 m |v|^2 over particles with positive mass
func (sb *SoftBody) KineticEnergy() float64 {
	e := 0.0
	for i := range sb.particles {
		p := &sb.particles[i]
		if p.InvMass == 0 {
			continue
		}
		e += 0.5 * p.Mass * vmath.V3MagSq(p.Velocity)
	}
	return e
}

// Centroid is the mass-weighted center recovered by the last step
func (sb *SoftBody) Centroid() vmath.Vec3 { return sb.centroid }

// Orientation is the best-fit rotation from the rest shape to the current shape
func (sb *SoftBody) Orientation() vmath.Quat { return sb.orientation }

// Anchor is the anchor pose seen by the last step
func (sb *SoftBody) Anchor() Pose { return sb.anchor }

// TotalMass returns the summed particle mass
func (sb *SoftBody) TotalMass() float64 { return sb.totalMass }

// Radius returns the particle collision radius
func (sb *SoftBody) Radius() float64 { return sb.radius }

// Len returns the particle count
func (sb *SoftBody) Len() int { return len(sb.particles) }

// Particles returns the live particle slice, callers must treat it as read-only
func (sb *SoftBody) Particles() []Particle { return sb.particles }

// Springs returns the immutable spring list
func (sb *SoftBody) Springs() []Spring { return sb.springs }

// Vertices appends each particle position expressed in the body frame (centroid, orientation)
func (sb *SoftBody) Vertices(dst []vmath.Vec3) []vmath.Vec3 {
	inv := vmath.QConj(sb.orientation)
	for i := range sb.particles {
		dst = append(dst, vmath.QRotate(inv, vmath.V3Sub(sb.particles[i].Position, sb.centroid)))
	}
	return dst
}

// Offsets appends each particle's deformation from its rest position in the body frame
func (sb *SoftBody) Offsets(dst []vmath.Vec3) []vmath.Vec3 {
	inv := vmath.QConj(sb.orientation)
	for i := range sb.particles {
		p := &sb.particles[i]
		local := vmath.QRotate(inv, vmath.V3Sub(p.Position, sb.centroid))
		dst = append(dst, vmath.V3Sub(local, vmath.V3Sub(p.Rest, sb.restCentroid)))
	}
	return dst
}
