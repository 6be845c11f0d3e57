package engine

import (
	"log/slog"
)

// SystemBase caches the world, its singleton resources and typed tables for a system
// Embedding it also supplies Name and a logger tagged with that name
type SystemBase struct {
	World     *World
	Resource  CoreResources
	Component ComponentStore
	Log       *slog.Logger

	name string
}

// NewSystemBase resolves resources and tables once; call from the system constructor
func NewSystemBase(w *World, name string) SystemBase {
	return SystemBase{
		World:     w,
		Resource:  GetCoreResources(w),
		Component: GetComponentStore(w),
		Log:       slog.Default().With("system", name),
		name:      name,
	}
}

// Name returns the system's name
func (b *SystemBase) Name() string {
	return b.name
}

// SetLogger replaces the logger, keeping the system tag
func (b *SystemBase) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	b.Log = l.With("system", b.name)
}
