package engine

import (
	"github.com/lixenwraith/softsim/core"
)

// AnyStore provides type-erased operations for lifecycle management
// This interface allows World to detach a destroyed entity from every table
// without knowing the concrete component type
type AnyStore interface {
	// Remove deletes the component of an entity, false if it had none
	Remove(e core.Entity) bool

	// Has checks if an entity has this component
	Has(e core.Entity) bool

	// Len returns the number of entities with this component
	Len() int

	// Clear removes all components from this store
	Clear()
}
