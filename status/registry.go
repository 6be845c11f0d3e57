package status

import (
	"sync/atomic"
)

// Metric keys published by the simulation core
const (
	KeyTicks        = "engine.ticks"
	KeySubsteps     = "engine.substeps"
	KeyBacklogMs    = "engine.backlog_ms"
	KeyEntities     = "world.entities"
	KeyBodies       = "softbody.bodies"
	KeyContacts     = "softbody.contacts"
	KeyClamped      = "softbody.clamped"
	KeyEnergy       = "softbody.energy"
	KeyEnergyPeak   = "softbody.energy_peak"
	KeyBacklogFlag  = "engine.backlogged"
	KeyStepDuration = "engine.step_us"
)

// Registry is the central metrics facade
// Systems cache pointers during init; Update loops write directly to atomics
// HUD and benchmark reads never lock the tick
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[Float64]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[Float64](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len()
}

// Sample is a point-in-time copy of one metric
type Sample struct {
	Key   string
	Int   int64
	Float float64
	Bool  bool
	Kind  Kind
}

// Kind tags which Sample field is meaningful
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindBool
)

// Samples copies every metric, ints first, then floats, then bools, each in key order
func (r *Registry) Samples() []Sample {
	out := make([]Sample, 0, r.TotalCount())
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out = append(out, Sample{Key: key, Int: ptr.Load(), Kind: KindInt})
	})
	r.Floats.Range(func(key string, ptr *Float64) {
		out = append(out, Sample{Key: key, Float: ptr.Load(), Kind: KindFloat})
	})
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		out = append(out, Sample{Key: key, Bool: ptr.Load(), Kind: KindBool})
	})
	return out
}
