package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/softsim/component"
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/vmath"
)

func TestWorldCreateDestroy(t *testing.T) {
	w := NewWorld(4)
	e, err := w.Create()
	require.NoError(t, err)
	assert.True(t, w.IsAlive(e))
	assert.Equal(t, uint32(1), e.Gen())
	assert.Equal(t, 1, w.Len())

	assert.True(t, w.Destroy(e))
	assert.False(t, w.IsAlive(e))
	assert.False(t, w.Destroy(e), "destroying a stale handle is a no-op")
	assert.Zero(t, w.Len())

	reused, err := w.Create()
	require.NoError(t, err)
	assert.Equal(t, e.Slot(), reused.Slot())
	assert.Equal(t, e.Gen()+1, reused.Gen())
	assert.False(t, w.IsAlive(e))
	assert.True(t, w.IsAlive(reused))
}

func TestWorldCapacityExceeded(t *testing.T) {
	w := NewWorld(2)
	_, err := w.Create()
	require.NoError(t, err)
	_, err = w.Create()
	require.NoError(t, err)

	e, err := w.Create()
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, core.NullEntity, e)
	assert.Equal(t, 2, w.Len())
}

func TestWorldFreeListIsLIFO(t *testing.T) {
	w := NewWorld(4)
	a, _ := w.Create()
	b, _ := w.Create()
	_, _ = w.Create()

	w.Destroy(a)
	w.Destroy(b)
	next, err := w.Create()
	require.NoError(t, err)
	assert.Equal(t, b.Slot(), next.Slot())
}

func TestWorldNullAndForeignHandles(t *testing.T) {
	w := NewWorld(2)
	assert.False(t, w.IsAlive(core.NullEntity))
	assert.False(t, w.IsAlive(core.MakeEntity(1, 1)), "slot never issued")
	_, ok := Get[component.TransformComponent](w, core.NullEntity)
	assert.False(t, ok)
}

func TestWorldAttachDetach(t *testing.T) {
	w := NewWorld(4)
	e, _ := w.Create()

	tr := component.NewTransform(vmath.V3(1, 2, 3), vmath.QIdentity, vmath.V3One)
	require.True(t, Attach(w, e, tr))
	assert.False(t, Attach(w, e, tr), "attach is idempotent")
	assert.True(t, Has[component.TransformComponent](w, e))

	got, ok := Get[component.TransformComponent](w, e)
	require.True(t, ok)
	got.Position.X = 9
	again, _ := w.Components.Transform.Get(e)
	assert.Equal(t, 9.0, again.Position.X, "Get returns a pointer into the table")

	assert.True(t, Detach[component.TransformComponent](w, e))
	assert.False(t, Detach[component.TransformComponent](w, e))
	assert.False(t, Has[component.TransformComponent](w, e))
}

func TestWorldStaleHandleSeesNothing(t *testing.T) {
	w := NewWorld(4)
	e, _ := w.Create()
	Attach(w, e, component.RenderableComponent{Mesh: "cube"})
	w.Destroy(e)

	reused, _ := w.Create()
	require.Equal(t, e.Slot(), reused.Slot())
	Attach(w, reused, component.RenderableComponent{Mesh: "sphere"})

	_, ok := Get[component.RenderableComponent](w, e)
	assert.False(t, ok)
	assert.False(t, Attach(w, e, component.RenderableComponent{}))
	assert.False(t, Detach[component.RenderableComponent](w, e))

	r, ok := Get[component.RenderableComponent](w, reused)
	require.True(t, ok)
	assert.Equal(t, "sphere", r.Mesh)
}

func TestWorldDestroyDetachesAllTables(t *testing.T) {
	w := NewWorld(4)
	e, _ := w.Create()
	other, _ := w.Create()
	Attach(w, e, component.NewTransform(vmath.V3Zero, vmath.QIdentity, vmath.V3One))
	Attach(w, e, component.VelocityComponent{Linear: vmath.V3UnitX})
	Attach(w, e, component.RenderableComponent{})
	Attach(w, other, component.VelocityComponent{})

	type custom struct{ N int }
	Attach(w, e, custom{N: 1})

	w.Destroy(e)
	assert.Zero(t, w.Components.Transform.Len())
	assert.Zero(t, w.Components.Renderable.Len())
	assert.Equal(t, 1, w.Components.Velocity.Len())
	assert.Zero(t, GetStore[custom](w).Len())
}

func TestWorldClear(t *testing.T) {
	w := NewWorld(4)
	var handles []core.Entity
	for i := 0; i < 3; i++ {
		e, _ := w.Create()
		Attach(w, e, component.VelocityComponent{})
		handles = append(handles, e)
	}
	w.Clear()
	assert.Zero(t, w.Len())
	assert.Zero(t, w.Components.Velocity.Len())
	for _, e := range handles {
		assert.False(t, w.IsAlive(e))
	}
	for i := 0; i < 4; i++ {
		_, err := w.Create()
		require.NoError(t, err)
	}
}

type orderSystem struct {
	name     string
	priority int
	log      *[]string
}

func (s *orderSystem) Update() { *s.log = append(*s.log, s.name) }
func (s *orderSystem) Priority() int { return s.priority }

func TestWorldSystemOrder(t *testing.T) {
	w := NewWorld(1)
	var log []string
	w.AddSystem(&orderSystem{"softbody", 40, &log})
	w.AddSystem(&orderSystem{"input", 10, &log})
	w.AddSystem(&orderSystem{"transform", 50, &log})
	w.AddSystem(&orderSystem{"kinematic-a", 20, &log})
	w.AddSystem(&orderSystem{"kinematic-b", 20, &log})

	w.Update()
	assert.Equal(t, []string{"input", "kinematic-a", "kinematic-b", "softbody", "transform"}, log)
	assert.Len(t, w.Systems(), 5)
}

func TestResources(t *testing.T) {
	w := NewWorld(1)
	res := GetCoreResources(w)
	assert.NotNil(t, res.Time)
	assert.NotNil(t, res.Input)
	assert.NotNil(t, res.Physics.Colliders)
	assert.NotNil(t, res.Status)

	type missing struct{}
	_, ok := GetResource[*missing](w.Resources)
	assert.False(t, ok)
	assert.Panics(t, func() { MustGetResource[*missing](w.Resources) })
}

func TestWorldRandomCreateDestroyHandlesUnique(t *testing.T) {
	const capacity = 16
	for seed := uint64(1); seed <= 8; seed++ {
		rng := vmath.NewFastRand(seed)
		w := NewWorld(capacity)
		RegisterStore[testHealth](w)

		issued := make(map[core.Entity]bool)
		var live, dead []core.Entity

		for step := 0; step < 3000; step++ {
			if rng.Intn(5) < 3 {
				e, err := w.Create()
				if len(live) == capacity {
					require.ErrorIs(t, err, ErrCapacityExceeded, "seed %d step %d", seed, step)
					require.True(t, e.IsNull())
				} else {
					require.NoError(t, err, "seed %d step %d", seed, step)
					require.False(t, issued[e], "seed %d step %d: handle %v issued twice", seed, step, e)
					issued[e] = true
					live = append(live, e)
					require.True(t, Attach(w, e, testHealth{HP: int(e.Slot())}))
				}
			} else if len(live) > 0 {
				i := rng.Intn(len(live))
				e := live[i]
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
				require.True(t, w.Destroy(e))
				dead = append(dead, e)
			}
			recent := dead[max(0, len(dead)-64):]

			require.Equal(t, len(live), w.Len())
			for _, e := range live {
				require.True(t, w.IsAlive(e))
				hp, ok := Get[testHealth](w, e)
				require.True(t, ok)
				require.Equal(t, int(e.Slot()), hp.HP)
			}
			for _, e := range recent {
				require.False(t, w.IsAlive(e), "seed %d step %d: stale %v alive", seed, step, e)
				_, ok := Get[testHealth](w, e)
				require.False(t, ok)
			}
			for e := range GetStore[testHealth](w).All() {
				require.True(t, w.IsAlive(e), "seed %d step %d: detached %v iterated", seed, step, e)
			}
		}
		for _, e := range dead {
			assert.False(t, w.IsAlive(e), "seed %d: stale %v alive", seed, e)
		}
	}
}
