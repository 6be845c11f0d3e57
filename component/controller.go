package component

// ControllerComponent maps held direction keys to the entity's linear velocity
// Speed is in units per second, TurnRate in radians per second around +Y
type ControllerComponent struct {
	Speed    float64
	TurnRate float64
}
