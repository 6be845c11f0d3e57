package system

import (
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/vmath"
)

// InputSystem applies the tick's input snapshot and steers controlled entities
// Held direction keys become the linear and yaw velocity of every controller entity
type InputSystem struct {
	engine.SystemBase

	enabled bool
}

// NewInputSystem creates a new input system
func NewInputSystem(world *engine.World) engine.System {
	s := &InputSystem{
		SystemBase: engine.NewSystemBase(world, "input"),
	}
	s.Init()
	return s
}

// Init resets session state
func (s *InputSystem) Init() {
	s.enabled = true
}

// Priority returns the system's priority
func (s *InputSystem) Priority() int {
	return parameter.PriorityInput
}

// Update folds key edges into the held set and writes controller velocities
func (s *InputSystem) Update() {
	if !s.enabled {
		return
	}

	input := s.Resource.Input
	input.Fold()

	axis := func(neg, pos engine.Key) float64 {
		v := 0.0
		if input.IsHeld(neg) {
			v--
		}
		if input.IsHeld(pos) {
			v++
		}
		return v
	}
	dir := vmath.V3(
		axis(engine.KeyLeft, engine.KeyRight),
		axis(engine.KeyDown, engine.KeyUp),
		axis(engine.KeyForward, engine.KeyBack),
	)
	dir = vmath.V3ClampMagnitude(dir, 1)
	yaw := axis(engine.KeyTurnRight, engine.KeyTurnLeft)

	for e, ctrl := range s.Component.Controller.AllMut() {
		vel, ok := s.Component.Velocity.Get(e)
		if !ok {
			continue
		}
		vel.Linear = vmath.V3Scale(dir, ctrl.Speed)
		vel.Angular = vmath.V3(0, yaw*ctrl.TurnRate, 0)
	}
}
