package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

func TestLatticeCounts(t *testing.T) {
	tests := []struct {
		name       string
		nx, ny, nz int
		shear      float64
		particles  int
		springs    int
	}{
		{"single particle", 1, 1, 1, 0.5, 1, 0},
		{"unit square", 2, 2, 1, 0.5, 4, 6},
		{"unit square structural only", 2, 2, 1, 0, 4, 4},
		{"rod", 4, 1, 1, 0.5, 4, 3},
		// 54 structural, 72 face diagonals, 32 body diagonals
		{"cube", 3, 3, 3, 0.5, 27, 158},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultLattice(1, 0.5)
			p.Nx, p.Ny, p.Nz = tt.nx, tt.ny, tt.nz
			p.ShearScale = tt.shear
			def, err := Lattice(p)
			require.NoError(t, err)
			assert.Len(t, def.Particles, tt.particles)
			assert.Len(t, def.Springs, tt.springs)

			seen := make(map[[2]int]bool)
			for _, s := range def.Springs {
				key := [2]int{min(s.A, s.B), max(s.A, s.B)}
				assert.False(t, seen[key], "duplicate spring %v", key)
				seen[key] = true
			}
		})
	}
}

func TestLatticeGeometry(t *testing.T) {
	p := DefaultLattice(3, 0.25)
	def, err := Lattice(p)
	require.NoError(t, err)

	var sum vmath.Vec3
	for _, pd := range def.Particles {
		sum = vmath.V3Add(sum, pd.Rest)
		assert.Equal(t, p.ParticleMass, pd.Mass)
	}
	assert.True(t, vmath.V3ApproxEqual(vmath.V3Zero, sum, 1e-12), "lattice is centered")
	assert.InDelta(t, 0.25, vmath.V3Dist(def.Particles[0].Rest, def.Particles[1].Rest), 1e-12)

	shear := def.Springs[len(def.Springs)-1]
	assert.Equal(t, p.Stiffness*p.ShearScale, shear.Stiffness)
	assert.Equal(t, p.Damping*p.ShearScale, shear.Damping)

	body, err := physics.NewSoftBody(def, physics.IdentityPose)
	require.NoError(t, err)
	assert.InDelta(t, 27*p.ParticleMass, body.TotalMass(), 1e-12)
	for _, s := range body.Springs() {
		assert.Positive(t, s.RestLength)
	}
}

func TestLatticeRejectsBadParams(t *testing.T) {
	p := DefaultLattice(0, 1)
	_, err := Lattice(p)
	assert.ErrorIs(t, err, ErrInvalidScene)

	p = DefaultLattice(2, 0)
	_, err = Lattice(p)
	assert.ErrorIs(t, err, ErrInvalidScene)
}
