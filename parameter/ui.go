package parameter

// Sandbox viewport
const (
	// ViewScale is terminal cells per world unit horizontally; rows use half to correct cell aspect
	ViewScale = 8.0

	// ViewGroundRow is the margin between the ground line and the bottom of the screen
	ViewGroundRow = 2

	// HUDRows are reserved at the top for the status line
	HUDRows = 1
)
