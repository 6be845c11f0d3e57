package status

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricMapCachesPointers(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(KeyTicks)
	b := r.Ints.Get(KeyTicks)
	assert.Same(t, a, b)

	got, ok := r.Ints.Lookup(KeyTicks)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Ints.Lookup(KeyContacts)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Ints.Len(), "lookup must not register")
}

func TestMetricMapKeysSorted(t *testing.T) {
	m := NewMetricMap[int]()
	for _, k := range []string{"c", "a", "d", "b", "a"} {
		m.Get(k)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Keys())

	var visited []string
	m.Range(func(key string, _ *int) { visited = append(visited, key) })
	assert.Equal(t, m.Keys(), visited)
}

func TestSamplesOrdering(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeySubsteps).Store(3)
	r.Ints.Get(KeyBodies).Store(2)
	r.Floats.Get(KeyEnergy).Store(1.5)
	r.Bools.Get(KeyBacklogFlag).Store(true)

	samples := r.Samples()
	require.Len(t, samples, 4)
	assert.Equal(t, KeySubsteps, samples[0].Key)
	assert.Equal(t, KeyBodies, samples[1].Key)
	assert.Equal(t, int64(2), samples[1].Int)
	assert.Equal(t, KindFloat, samples[2].Kind)
	assert.Equal(t, 1.5, samples[2].Float)
	assert.True(t, samples[3].Bool)
	assert.Equal(t, 4, r.TotalCount())
}

func TestFloat64ConcurrentAdd(t *testing.T) {
	var f Float64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				f.Add(0.5)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4000.0, f.Load())
}

func TestFloat64StoreMax(t *testing.T) {
	var f Float64
	f.StoreMax(2)
	f.StoreMax(1)
	assert.Equal(t, 2.0, f.Load())
	f.StoreMax(math.NaN())
	assert.Equal(t, 2.0, f.Load())
	f.StoreMax(3.5)
	assert.Equal(t, 3.5, f.Load())
}
