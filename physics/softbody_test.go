package physics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/softsim/vmath"
)

const stepDT = 1.0 / 60

var earthGravity = vmath.V3(0, -9.81, 0)

// unitSquare lies flat in the XZ plane at height y with 4 edge and 2 diagonal springs
func unitSquare(y float64) SoftBodyDef {
	def := SoftBodyDef{
		Particles: []ParticleDef{
			{Rest: vmath.V3(0, y, 0), Mass: 1},
			{Rest: vmath.V3(1, y, 0), Mass: 1},
			{Rest: vmath.V3(1, y, 1), Mass: 1},
			{Rest: vmath.V3(0, y, 1), Mass: 1},
		},
	}
	for _, pair := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}} {
		def.Springs = append(def.Springs, SpringDef{A: pair[0], B: pair[1], Stiffness: 500, Damping: 5})
	}
	return def
}

// randomNetwork builds a reproducible spring network from seed
func randomNetwork(seed uint64, particles, springs int) SoftBodyDef {
	rng := vmath.NewFastRand(seed)
	def := SoftBodyDef{Radius: 0.05, ShapeIterations: 10}
	for i := 0; i < particles; i++ {
		def.Particles = append(def.Particles, ParticleDef{
			Rest: vmath.V3(rng.Range(-1, 1), rng.Range(0.5, 2), rng.Range(-1, 1)),
			Mass: rng.Range(0.5, 2),
		})
	}
	for i := 0; i < springs; i++ {
		a := rng.Intn(particles)
		b := (a + 1 + rng.Intn(particles-1)) % particles
		def.Springs = append(def.Springs, SpringDef{
			A: a, B: b,
			Stiffness: rng.Range(50, 400),
			Damping:   rng.Range(0, 4),
		})
	}
	return def
}

func positions(sb *SoftBody) []vmath.Vec3 {
	out := make([]vmath.Vec3, 0, sb.Len())
	for _, p := range sb.Particles() {
		out = append(out, p.Position)
	}
	return out
}

func TestNewSoftBodyValidation(t *testing.T) {
	tests := []struct {
		name string
		def  SoftBodyDef
	}{
		{"no particles", SoftBodyDef{}},
		{"spring index out of range", SoftBodyDef{
			Particles: []ParticleDef{{Mass: 1}, {Mass: 1}},
			Springs:   []SpringDef{{A: 0, B: 2}},
		}},
		{"negative spring index", SoftBodyDef{
			Particles: []ParticleDef{{Mass: 1}, {Mass: 1}},
			Springs:   []SpringDef{{A: -1, B: 1}},
		}},
		{"self spring", SoftBodyDef{
			Particles: []ParticleDef{{Mass: 1}, {Mass: 1}},
			Springs:   []SpringDef{{A: 1, B: 1}},
		}},
		{"non-finite rest", SoftBodyDef{
			Particles: []ParticleDef{{Rest: vmath.V3(math.NaN(), 0, 0), Mass: 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSoftBody(tt.def, IdentityPose)
			assert.ErrorIs(t, err, ErrInvalidTopology)
		})
	}
}

func TestNewSoftBodyMeasuresRestLength(t *testing.T) {
	sb, err := NewSoftBody(unitSquare(0), IdentityPose)
	require.NoError(t, err)
	springs := sb.Springs()
	assert.InDelta(t, 1.0, springs[0].RestLength, tol)
	assert.InDelta(t, math.Sqrt2, springs[4].RestLength, tol)
	assert.InDelta(t, 4.0, sb.TotalMass(), tol)
	assertVec(t, vmath.V3(0.5, 0, 0.5), sb.Centroid(), tol)
}

func TestNewSoftBodyPlacesParticlesUnderAnchor(t *testing.T) {
	anchor := Pose{Position: vmath.V3(5, 0, 0), Orientation: vmath.QFromAxisAngle(vmath.V3UnitY, math.Pi/2)}
	sb, err := NewSoftBody(SoftBodyDef{Particles: []ParticleDef{{Rest: vmath.V3UnitX, Mass: 1}}}, anchor)
	require.NoError(t, err)
	assertVec(t, vmath.V3(5, 0, -1), sb.Particles()[0].Position, tol)
	assertVec(t, vmath.V3(5, 0, -1), sb.Particles()[0].Target, tol)
}

func TestRestStateIsFixedPoint(t *testing.T) {
	def := randomNetwork(7, 12, 30)
	def.AnchorStiffness = 50
	def.AnchorDamping = 2
	anchor := IdentityPose
	sb, err := NewSoftBody(def, anchor)
	require.NoError(t, err)
	before := positions(sb)

	for i := 0; i < 200; i++ {
		stats := sb.Step(StepParams{DT: stepDT, Anchor: anchor, HasAnchor: true})
		require.Zero(t, stats.Clamped)
	}

	assert.Equal(t, before, positions(sb))
	assert.Zero(t, sb.KineticEnergy())
}

func TestUnitSquareSettlesOnPlane(t *testing.T) {
	sb, err := NewSoftBody(unitSquare(1), IdentityPose)
	require.NoError(t, err)

	cw := NewCollisionWorld(1)
	cw.Add(PlaneCollider(vmath.V3Zero, vmath.V3UnitY))

	for i := 0; i < 100; i++ {
		stats := sb.Step(StepParams{DT: stepDT, Gravity: earthGravity, Colliders: cw})
		require.Zero(t, stats.Clamped)
		for j, p := range sb.Particles() {
			require.GreaterOrEqualf(t, p.Position.Y, -1e-9, "substep %d particle %d below plane", i, j)
		}
	}

	assert.InDelta(t, 0, sb.KineticEnergy(), 1e-9)
	for _, p := range sb.Particles() {
		assert.InDelta(t, 0, p.Position.Y, 1e-9)
	}
	assertVec(t, vmath.V3(0.5, 0, 0.5), sb.Centroid(), 1e-9)
	assert.InDelta(t, 1.0, math.Abs(vmath.QDot(vmath.QIdentity, sb.Orientation())), 1e-9)
}

func TestDropOntoSphereStaysOutside(t *testing.T) {
	def := unitSquare(2)
	def.Radius = 0.05
	sb, err := NewSoftBody(def, IdentityPose)
	require.NoError(t, err)

	cw := NewCollisionWorld(2)
	cw.Add(PlaneCollider(vmath.V3Zero, vmath.V3UnitY))
	cw.Add(SphereCollider(vmath.V3(0.5, 0, 0.5), 0.75))

	contacts := 0
	for i := 0; i < 240; i++ {
		stats := sb.Step(StepParams{DT: stepDT, Gravity: earthGravity, Colliders: cw})
		contacts += stats.Contacts
	}
	assert.Positive(t, contacts)

	for _, p := range sb.Particles() {
		assert.GreaterOrEqual(t, p.Position.Y, def.Radius-1e-6)
		_, hit := cw.Query(p.Position, def.Radius-1e-6)
		assert.False(t, hit, "particle left penetrating after projection")
	}
}

func TestDeterministicReplay(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	t.Logf("network seed %d", seed)

	run := func() ([]vmath.Vec3, vmath.Quat) {
		def := randomNetwork(seed, 24, 64)
		def.AnchorStiffness = 20
		def.AnchorDamping = 1
		def.Drag = 0.1
		sb, err := NewSoftBody(def, IdentityPose)
		require.NoError(t, err)

		cw := NewCollisionWorld(2)
		cw.Add(PlaneCollider(vmath.V3Zero, vmath.V3UnitY))
		cw.Add(CapsuleCollider(vmath.V3(-2, 0.3, 0), vmath.V3(2, 0.3, 0), 0.2))

		for i := 0; i < 300; i++ {
			angle := float64(i) * 0.01
			anchor := Pose{
				Position:    vmath.V3(math.Sin(angle), 0.5, 0),
				Orientation: vmath.QFromAxisAngle(vmath.V3UnitY, angle),
			}
			if i == 150 {
				sb.SetForce(vmath.V3(3, 0, -1))
			}
			sb.Step(StepParams{DT: stepDT, Gravity: earthGravity, Anchor: anchor, HasAnchor: true, Colliders: cw})
		}
		return positions(sb), sb.Orientation()
	}

	posA, rotA := run()
	posB, rotB := run()
	assert.Equal(t, posA, posB)
	assert.Equal(t, rotA, rotB)
}

func TestNonFiniteForceHoldsLastValidState(t *testing.T) {
	sb, err := NewSoftBody(unitSquare(1), IdentityPose)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		sb.Step(StepParams{DT: stepDT, Gravity: earthGravity})
	}
	before := positions(sb)

	sb.SetForce(vmath.V3(math.Inf(1), 0, 0))
	stats := sb.Step(StepParams{DT: stepDT, Gravity: earthGravity})
	assert.Equal(t, sb.Len(), stats.Clamped)
	assert.Equal(t, before, positions(sb))
	for _, p := range sb.Particles() {
		assert.True(t, vmath.V3IsFinite(p.Velocity))
	}

	sb.SetForce(vmath.V3Zero)
	stats = sb.Step(StepParams{DT: stepDT, Gravity: earthGravity})
	assert.Zero(t, stats.Clamped)
	assert.True(t, vmath.V3IsFinite(sb.Centroid()))
}

func TestZeroMassParticleIsHeld(t *testing.T) {
	def := unitSquare(1)
	def.Particles[2].Mass = 0
	sb, err := NewSoftBody(def, IdentityPose)
	require.NoError(t, err)
	held := sb.Particles()[2].Position

	stats := sb.Step(StepParams{DT: stepDT, Gravity: earthGravity})
	assert.Equal(t, 1, stats.Clamped)
	assert.Equal(t, held, sb.Particles()[2].Position)
	assert.InDelta(t, 3.0, sb.TotalMass(), tol)
}

func TestZeroTotalMassKeepsAggregate(t *testing.T) {
	def := SoftBodyDef{Particles: []ParticleDef{{Rest: vmath.V3(0, 1, 0)}, {Rest: vmath.V3(1, 1, 0)}}}
	sb, err := NewSoftBody(def, IdentityPose)
	require.NoError(t, err)
	centroid, orientation := sb.Centroid(), sb.Orientation()

	stats := sb.Step(StepParams{DT: stepDT, Gravity: earthGravity})
	assert.Equal(t, 2, stats.Clamped)
	assert.Equal(t, centroid, sb.Centroid())
	assert.Equal(t, orientation, sb.Orientation())
}

func TestAnchorCouplingFollowsSkeleton(t *testing.T) {
	def := unitSquare(0)
	def.AnchorStiffness = 200
	def.AnchorDamping = 28
	sb, err := NewSoftBody(def, IdentityPose)
	require.NoError(t, err)

	target := Pose{
		Position:    vmath.V3(3, 1, -2),
		Orientation: vmath.QFromAxisAngle(vmath.V3UnitY, math.Pi/2),
	}
	for i := 0; i < 60; i++ {
		f := float64(i+1) / 60
		pose := Pose{
			Position:    vmath.V3Lerp(vmath.V3Zero, target.Position, f),
			Orientation: vmath.QSlerp(vmath.QIdentity, target.Orientation, f),
		}
		sb.Step(StepParams{DT: stepDT, Anchor: pose, HasAnchor: true})
	}
	for i := 0; i < 600; i++ {
		sb.Step(StepParams{DT: stepDT, Anchor: target, HasAnchor: true})
	}

	for _, p := range sb.Particles() {
		assertVec(t, target.Apply(p.Rest), p.Target, 1e-9)
		assertVec(t, p.Target, p.Position, 1e-4)
	}
	assertVec(t, target.Apply(vmath.V3(0.5, 0, 0.5)), sb.Centroid(), 1e-4)
	assert.InDelta(t, 1.0, math.Abs(vmath.QDot(target.Orientation, sb.Orientation())), 1e-6)
	assert.Equal(t, target.Position, sb.Anchor().Position)
}

func TestConstantVelocityAnchorHasNoLag(t *testing.T) {
	def := unitSquare(0)
	def.AnchorStiffness = 200
	def.AnchorDamping = 28
	sb, err := NewSoftBody(def, IdentityPose)
	require.NoError(t, err)

	v := vmath.V3(1.5, 0, -0.5)
	for i := 1; i <= 300; i++ {
		pose := Pose{Position: vmath.V3Scale(v, float64(i)*stepDT), Orientation: vmath.QIdentity}
		sb.Step(StepParams{DT: stepDT, Anchor: pose, HasAnchor: true})
	}

	// Positions and targets are both end-of-step values once settled
	for _, p := range sb.Particles() {
		assertVec(t, p.Target, p.Position, 1e-9)
		assertVec(t, v, p.Velocity, 1e-9)
	}
	assertVec(t, vmath.V3Add(sb.Anchor().Position, vmath.V3(0.5, 0, 0.5)), sb.Centroid(), 1e-9)
}

func TestMissingAnchorHoldsTargets(t *testing.T) {
	def := unitSquare(0)
	def.AnchorStiffness = 100
	anchor := Pose{Position: vmath.V3(1, 0, 0), Orientation: vmath.QIdentity}
	sb, err := NewSoftBody(def, anchor)
	require.NoError(t, err)

	sb.Step(StepParams{DT: stepDT})
	assert.Equal(t, anchor, sb.Anchor())
	assertVec(t, vmath.V3(1, 0, 0), sb.Particles()[0].Target, tol)
}

func TestFrictionSlowsSliding(t *testing.T) {
	slide := func(friction float64) float64 {
		sb, err := NewSoftBody(SoftBodyDef{Particles: []ParticleDef{{Mass: 1}}}, IdentityPose)
		require.NoError(t, err)
		cw := NewCollisionWorld(1)
		ground := PlaneCollider(vmath.V3Zero, vmath.V3UnitY)
		ground.Friction = friction
		cw.Add(ground)

		tilted := vmath.V3(2, -9.81, 0)
		for i := 0; i < 60; i++ {
			sb.Step(StepParams{DT: stepDT, Gravity: tilted, Colliders: cw})
		}
		return sb.Particles()[0].Position.X
	}

	frictionless := slide(0)
	sticky := slide(1)
	assert.Greater(t, frictionless, 0.9)
	assert.Less(t, sticky, 0.05)
	assert.Less(t, sticky, frictionless)
}

func TestDragDissipatesEnergy(t *testing.T) {
	sb, err := NewSoftBody(SoftBodyDef{Particles: []ParticleDef{{Mass: 2}}, Drag: 1}, IdentityPose)
	require.NoError(t, err)
	sb.SetForce(vmath.V3(4, 0, 0))
	for i := 0; i < 600; i++ {
		sb.Step(StepParams{DT: stepDT})
	}
	// Terminal velocity F/(drag*m) = 2
	assert.InDelta(t, 2.0, sb.Particles()[0].Velocity.X, 1e-3)
}

func TestVerticesAndOffsetsAtRest(t *testing.T) {
	anchor := Pose{Position: vmath.V3(0, 2, 0), Orientation: vmath.QFromAxisAngle(vmath.V3UnitZ, 0.3)}
	sb, err := NewSoftBody(unitSquare(0), anchor)
	require.NoError(t, err)

	verts := sb.Vertices(nil)
	require.Len(t, verts, 4)
	restCentroid := vmath.V3(0.5, 0, 0.5)
	for i, p := range sb.Particles() {
		assertVec(t, vmath.V3Sub(p.Rest, restCentroid), verts[i], 1e-9)
	}
	for _, off := range sb.Offsets(nil) {
		assertVec(t, vmath.V3Zero, off, 1e-9)
	}
}

func TestStepIgnoresInvalidDT(t *testing.T) {
	sb, err := NewSoftBody(unitSquare(1), IdentityPose)
	require.NoError(t, err)
	before := positions(sb)
	sb.Step(StepParams{DT: 0, Gravity: earthGravity})
	sb.Step(StepParams{DT: math.NaN(), Gravity: earthGravity})
	assert.Equal(t, before, positions(sb))
}

func TestResetRestoresRestShape(t *testing.T) {
	sb, err := NewSoftBody(unitSquare(1), IdentityPose)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		sb.Step(StepParams{DT: stepDT, Gravity: earthGravity})
	}
	sb.Reset(IdentityPose)
	assert.Zero(t, sb.KineticEnergy())
	for _, p := range sb.Particles() {
		assert.Equal(t, p.Rest, p.Position)
	}
}
