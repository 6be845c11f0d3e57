package status

import (
	"math"
	"sync/atomic"
)

// Float64 is an atomic float64 gauge, zero value reads 0.0
// Method names follow sync/atomic so int, float and bool metrics read alike
type Float64 struct {
	bits atomic.Uint64
}

func (f *Float64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *Float64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add applies delta with a CAS loop and returns the new value
func (f *Float64) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// StoreMax keeps the larger of the current value and v, NaN is ignored
func (f *Float64) StoreMax(v float64) {
	if math.IsNaN(v) {
		return
	}
	for {
		old := f.bits.Load()
		if math.Float64frombits(old) >= v {
			return
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}
