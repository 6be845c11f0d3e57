package component

// RenderableComponent marks an entity for the render snapshot
type RenderableComponent struct {
	Mesh     string
	Material string
	Hidden   bool
}
