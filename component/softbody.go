package component

import (
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/physics"
)

// SoftBodyComponent owns a mass-spring body; the entity transform follows its centroid and best-fit rotation
type SoftBodyComponent struct {
	Body *physics.SoftBody

	// Anchor is the skeleton transform the body is coupled to, NullEntity for a free body
	Anchor core.Entity

	// Stats from the body's most recent substep
	Stats physics.StepStats
}
