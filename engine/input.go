package engine

import (
	"github.com/ErikKalkoken/go-set"
)

// Key is a logical input, decoupled from any terminal or window key codes
type Key uint8

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyForward
	KeyBack
	KeyUp
	KeyDown
	KeyTurnLeft
	KeyTurnRight
	KeyReset
)

var keyNames = [...]string{"none", "left", "right", "forward", "back", "up", "down", "turn_left", "turn_right", "reset"}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// InputState is the input snapshot for one tick, read-only while the tick runs
type InputState struct {
	Pressed   set.Set[Key]
	Released  set.Set[Key]
	PointerDX float64
	PointerDY float64
}

// IsZero reports whether the snapshot carries no input
func (s InputState) IsZero() bool {
	return s.Pressed.Size() == 0 && s.Released.Size() == 0 && s.PointerDX == 0 && s.PointerDY == 0
}

// merge folds a later snapshot into s; a key released after being pressed ends released
func (s InputState) merge(later InputState) InputState {
	pressed := set.Union(s.Pressed, later.Pressed)
	pressed.DeleteSeq(later.Released.All())
	released := set.Union(s.Released, later.Released)
	released.DeleteSeq(later.Pressed.All())
	return InputState{
		Pressed:   pressed,
		Released:  released,
		PointerDX: s.PointerDX + later.PointerDX,
		PointerDY: s.PointerDY + later.PointerDY,
	}
}

// InputResource exposes the current tick's snapshot and the keys held across ticks
type InputResource struct {
	State InputState
	Held  set.Set[Key]

	// Tick is the scheduler tick State belongs to
	Tick int64

	// folded is the last tick whose edges were applied to Held
	folded int64
}

// NewInputResource creates an empty input resource
func NewInputResource() *InputResource {
	return &InputResource{Held: set.Of[Key]()}
}

// Fold applies the current snapshot's edges to Held once per tick
func (ir *InputResource) Fold() {
	if ir.folded == ir.Tick {
		return
	}
	ir.folded = ir.Tick
	ir.Held.AddSeq(ir.State.Pressed.All())
	ir.Held.DeleteSeq(ir.State.Released.All())
}

// IsHeld reports whether k is currently down
func (ir *InputResource) IsHeld(k Key) bool {
	return ir.Held.Contains(k)
}
