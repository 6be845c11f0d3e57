package scene

import (
	"fmt"

	"github.com/lixenwraith/softsim/vmath"
)

// Random builds a reproducible scene: a ground plane, a few static spheres and n lattice bodies
// dropped from random heights; every third body is anchored to a kinematic pivot
func Random(seed uint64, n int) *File {
	rng := vmath.NewFastRand(seed)
	zero := 0.0
	friction := 0.3

	f := &File{}
	f.Entities = append(f.Entities, Entity{
		Name:      "ground",
		Transform: &TransformDesc{},
		Collider:  &ColliderDesc{Shape: "plane", Normal: Vec{0, 1, 0}, Friction: &friction},
	})
	for i := 0; i < 3; i++ {
		f.Entities = append(f.Entities, Entity{
			Name:       fmt.Sprintf("rock-%d", i),
			Transform:  &TransformDesc{Position: Vec{rng.Range(-6, 6), 0, rng.Range(-2, 2)}},
			Collider:   &ColliderDesc{Shape: "sphere", Radius: rng.Range(0.5, 1.2)},
			Renderable: &RenderableDesc{Mesh: "sphere"},
		})
	}

	materials := []string{"jelly", "rubber", "slime"}
	for i := 0; i < n; i++ {
		size := 2 + rng.Intn(2)
		pos := Vec{rng.Range(-8, 8), rng.Range(2, 8), rng.Range(-2, 2)}
		body := Entity{
			Name:      fmt.Sprintf("body-%d", i),
			Transform: &TransformDesc{Position: pos, Rotation: Vec{0, rng.Range(0, 360), rng.Range(-20, 20)}},
			SoftBody: &SoftBodyDesc{
				Lattice: &LatticeDesc{Size: []int{size, size, size}, Spacing: rng.Range(0.3, 0.6)},
			},
			Renderable: &RenderableDesc{Mesh: "lattice", Material: materials[i%len(materials)]},
		}

		if i%3 == 0 {
			pivot := fmt.Sprintf("pivot-%d", i)
			f.Entities = append(f.Entities, Entity{
				Name:      pivot,
				Transform: &TransformDesc{Position: pos},
				Velocity:  &VelocityDesc{Linear: Vec{rng.Range(-1, 1), 0, 0}, Angular: Vec{0, rng.Range(-1, 1), 0}},
			})
			body.Transform = &TransformDesc{}
			body.SoftBody.Anchor = pivot
			body.SoftBody.AnchorStiffness = rng.Range(20, 80)
			body.SoftBody.AnchorDamping = rng.Range(2, 8)
			body.SoftBody.Drag = &zero
		}
		f.Entities = append(f.Entities, body)
	}
	return f
}
