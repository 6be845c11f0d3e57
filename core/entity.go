package core

import (
	"strconv"
)

// Entity is an opaque handle: slot index in the low 32 bits, generation in the high 32 bits
// Generations start at 1, so the zero value never refers to a live entity
type Entity uint64

// NullEntity is the zero handle, used for "no entity" in cross-entity references
const NullEntity Entity = 0

// MakeEntity packs a slot and generation into a handle
func MakeEntity(slot, gen uint32) Entity {
	return Entity(uint64(gen)<<32 | uint64(slot))
}

// Slot returns the registry slot index
func (e Entity) Slot() uint32 {
	return uint32(e)
}

// Gen returns the generation the handle was issued with
func (e Entity) Gen() uint32 {
	return uint32(e >> 32)
}

// IsNull reports whether e is the zero handle
func (e Entity) IsNull() bool {
	return e == NullEntity
}

func (e Entity) String() string {
	if e == NullEntity {
		return "entity(null)"
	}
	return "entity(" + strconv.FormatUint(uint64(e.Slot()), 10) + "v" + strconv.FormatUint(uint64(e.Gen()), 10) + ")"
}
