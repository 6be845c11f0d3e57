package parameter

// Gravity is the default downward acceleration along -Y (m/s²)
const Gravity = 9.81

// Softbody defaults used by the lattice generator and scene loader
const (
	// ShapeMatchIterations bounds the best-fit rotation solve per substep
	ShapeMatchIterations = 8

	SpringStiffness = 400.0
	SpringDamping   = 4.0

	// ShearStiffnessScale weakens diagonal springs relative to structural ones
	ShearStiffnessScale = 0.5

	ParticleMass   = 1.0
	ParticleRadius = 0.05

	AnchorStiffness = 0.0
	AnchorDamping   = 0.0
	Drag            = 0.02
)

// Collider defaults
const (
	// ColliderFriction is the default friction; 0 leaves tangential velocity untouched
	ColliderFriction = 0.0
)
