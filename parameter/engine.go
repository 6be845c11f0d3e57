package parameter

import "time"

// Simulation Loop
const (
	// FixedTimestep is the substep length of the scheduler (60 Hz)
	FixedTimestep = time.Second / 60

	// MaxSubsteps caps substeps per tick; the rest stays in the accumulator
	MaxSubsteps = 4

	// FrameUpdateInterval is the sandbox render frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond
)

// ECS Limits
const (
	// MaxEntities is the default entity capacity and component table size
	MaxEntities = 4096

	// ColliderCapacityHint pre-sizes the per-substep collision world
	ColliderCapacityHint = 64

	// MaxHierarchyDepth bounds parent chain walks; deeper chains are treated as cycles
	MaxHierarchyDepth = 32
)

// Workers is the default softbody parallelism; 1 runs the serial path
const Workers = 1
