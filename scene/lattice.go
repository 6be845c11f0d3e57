package scene

import (
	"fmt"

	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

// LatticeParams describes a regular grid of particles centered on the body origin
type LatticeParams struct {
	Nx, Ny, Nz   int
	Spacing      float64
	ParticleMass float64
	Stiffness    float64
	Damping      float64
	// ShearScale multiplies Stiffness and Damping for diagonal springs, 0 omits them
	ShearScale float64
}

// DefaultLattice returns a cube of n³ particles with the package spring defaults
func DefaultLattice(n int, spacing float64) LatticeParams {
	return LatticeParams{
		Nx: n, Ny: n, Nz: n,
		Spacing:      spacing,
		ParticleMass: parameter.ParticleMass,
		Stiffness:    parameter.SpringStiffness,
		Damping:      parameter.SpringDamping,
		ShearScale:   parameter.ShearStiffnessScale,
	}
}

// Neighbor offsets with the first nonzero component positive, so every pair is emitted once
var (
	structuralOffsets = [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	shearOffsets      = [][3]int{
		{1, 1, 0}, {1, -1, 0}, {1, 0, 1}, {1, 0, -1}, {0, 1, 1}, {0, 1, -1},
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	}
)

// Lattice builds structural springs between axis neighbors and shear springs across cell diagonals
func Lattice(p LatticeParams) (physics.SoftBodyDef, error) {
	if p.Nx < 1 || p.Ny < 1 || p.Nz < 1 {
		return physics.SoftBodyDef{}, fmt.Errorf("%w: lattice dimensions %dx%dx%d", ErrInvalidScene, p.Nx, p.Ny, p.Nz)
	}
	if p.Spacing <= 0 || !vmath.IsFinite(p.Spacing) {
		return physics.SoftBodyDef{}, fmt.Errorf("%w: lattice spacing %v", ErrInvalidScene, p.Spacing)
	}

	index := func(i, j, k int) int { return (k*p.Ny+j)*p.Nx + i }
	inside := func(i, j, k int) bool {
		return i >= 0 && i < p.Nx && j >= 0 && j < p.Ny && k >= 0 && k < p.Nz
	}
	half := vmath.V3(float64(p.Nx-1)/2, float64(p.Ny-1)/2, float64(p.Nz-1)/2)

	def := physics.SoftBodyDef{
		Particles: make([]physics.ParticleDef, 0, p.Nx*p.Ny*p.Nz),
	}
	for k := 0; k < p.Nz; k++ {
		for j := 0; j < p.Ny; j++ {
			for i := 0; i < p.Nx; i++ {
				rest := vmath.V3Scale(vmath.V3Sub(vmath.V3(float64(i), float64(j), float64(k)), half), p.Spacing)
				def.Particles = append(def.Particles, physics.ParticleDef{Rest: rest, Mass: p.ParticleMass})
			}
		}
	}

	link := func(offsets [][3]int, stiffness, damping float64) {
		for k := 0; k < p.Nz; k++ {
			for j := 0; j < p.Ny; j++ {
				for i := 0; i < p.Nx; i++ {
					for _, o := range offsets {
						ni, nj, nk := i+o[0], j+o[1], k+o[2]
						if !inside(ni, nj, nk) {
							continue
						}
						def.Springs = append(def.Springs, physics.SpringDef{
							A:         index(i, j, k),
							B:         index(ni, nj, nk),
							Stiffness: stiffness,
							Damping:   damping,
						})
					}
				}
			}
		}
	}
	link(structuralOffsets, p.Stiffness, p.Damping)
	if p.ShearScale > 0 {
		link(shearOffsets, p.Stiffness*p.ShearScale, p.Damping*p.ShearScale)
	}
	return def, nil
}
