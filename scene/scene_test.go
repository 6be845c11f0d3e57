package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/softsim/component"
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/vmath"
)

const sandbox = `
gravity: 3.7
entities:
  - name: ground
    transform:
      position: [0, -1, 0]
    collider:
      shape: plane
      normal: [0, 1, 0]
      friction: 0.4
  - name: pivot
    transform:
      position: [2, 1, 0]
      rotation: [0, 90, 0]
    velocity:
      linear: [0, 0, 0]
    controller:
      speed: 3
      turn_rate: 1.5
  - name: blob
    transform:
      position: [1, 0, 0]
    softbody:
      anchor: pivot
      anchor_stiffness: 50
      anchor_damping: 5
      lattice:
        size: [2, 2, 2]
        spacing: 0.5
    renderable:
      mesh: cube
      material: jelly
  - name: lamp
    transform:
      parent: pivot
      position: [0, 1, 0]
    collider:
      shape: sphere
      radius: 0.25
  - softbody:
      drag: 0
      particles:
        - rest: [0, 0, 0]
        - rest: [1, 0, 0]
          mass: 2
      springs:
        - {a: 0, b: 1, stiffness: 10}
`

func TestSpawnSandbox(t *testing.T) {
	f, err := Parse([]byte(sandbox))
	require.NoError(t, err)
	require.Len(t, f.Entities, 5)

	w := engine.NewWorld(16)
	sp, err := Spawn(w, f, Options{ShapeIterations: 3})
	require.NoError(t, err)
	assert.Len(t, sp.Entities, 5)
	assert.Len(t, sp.Names, 4)
	assert.Equal(t, 5, w.Len())
	assert.Equal(t, vmath.V3(0, -3.7, 0), engine.GetCoreResources(w).Physics.Gravity)

	ground, ok := sp.Lookup("ground")
	require.True(t, ok)
	col, ok := engine.Get[component.ColliderComponent](w, ground)
	require.True(t, ok)
	assert.Equal(t, physics.ShapePlane, col.Shape.Kind)
	assert.Equal(t, 0.4, col.Shape.Friction)

	pivot, _ := sp.Lookup("pivot")
	assert.True(t, engine.Has[component.ControllerComponent](w, pivot))
	assert.True(t, engine.Has[component.VelocityComponent](w, pivot))

	lamp, _ := sp.Lookup("lamp")
	lt, ok := engine.Get[component.TransformComponent](w, lamp)
	require.True(t, ok)
	assert.Equal(t, pivot, lt.Parent)
	lc, _ := engine.Get[component.ColliderComponent](w, lamp)
	assert.Equal(t, physics.ShapeSphere, lc.Shape.Kind)
	assert.Zero(t, lc.Shape.Friction)

	blob, _ := sp.Lookup("blob")
	sb, ok := engine.Get[component.SoftBodyComponent](w, blob)
	require.True(t, ok)
	assert.Equal(t, pivot, sb.Anchor)
	assert.Equal(t, 8, sb.Body.Len())

	// Offset (1,0,0) rotated 90° about Y lands at (0,0,-1) from the pivot
	c := sb.Body.Centroid()
	assert.InDelta(t, 2.0, c.X, 1e-9)
	assert.InDelta(t, 1.0, c.Y, 1e-9)
	assert.InDelta(t, -1.0, c.Z, 1e-9)
	assert.InDelta(t, math.Pi/2, vmath.QAngle(sb.Body.Anchor().Orientation), 1e-9)

	bt, _ := engine.Get[component.TransformComponent](w, blob)
	assert.Equal(t, c, bt.Position)
	assert.True(t, bt.Parent.IsNull())
	rc, _ := engine.Get[component.RenderableComponent](w, blob)
	assert.Equal(t, "jelly", rc.Material)

	free := sp.Entities[4]
	fb, ok := engine.Get[component.SoftBodyComponent](w, free)
	require.True(t, ok)
	assert.True(t, fb.Anchor.IsNull())
	assert.Equal(t, 3.0, fb.Body.TotalMass())
	assert.Equal(t, 1.0, fb.Body.Springs()[0].RestLength)
	assert.True(t, engine.Has[component.TransformComponent](w, free), "softbody entities always get a transform")
}

func TestSpawnBakesScaleIntoRestShape(t *testing.T) {
	f, err := Parse([]byte(`
entities:
  - name: stretched
    transform: {position: [1, 1, 0], scale: [2, 3, 1]}
    softbody:
      particles:
        - rest: [0, 0, 0]
        - rest: [1, 0, 0]
        - rest: [0, 1, 0]
      springs:
        - {a: 0, b: 1, stiffness: 10}
        - {a: 0, b: 2, stiffness: 10, rest_length: 0.5}
        - {a: 1, b: 2, stiffness: 10, rest_length: 2}
    renderable: {}
`))
	require.NoError(t, err)
	w := engine.NewWorld(4)
	sp, err := Spawn(w, f, Options{})
	require.NoError(t, err)

	e, _ := sp.Lookup("stretched")
	sb, ok := engine.Get[component.SoftBodyComponent](w, e)
	require.True(t, ok)
	want := []vmath.Vec3{vmath.V3(1, 1, 0), vmath.V3(3, 1, 0), vmath.V3(1, 4, 0)}
	for i, p := range sb.Body.Particles() {
		assert.True(t, vmath.V3ApproxEqual(want[i], p.Position, 1e-12), "particle %d at %v", i, p.Position)
	}

	springs := sb.Body.Springs()
	assert.InDelta(t, 2.0, springs[0].RestLength, 1e-12)
	assert.InDelta(t, 1.5, springs[1].RestLength, 1e-12)
	assert.InDelta(t, 2*math.Sqrt(13)/math.Sqrt(2), springs[2].RestLength, 1e-12)

	tr, ok := engine.Get[component.TransformComponent](w, e)
	require.True(t, ok)
	assert.Equal(t, vmath.V3One, tr.Scale)
	assert.Equal(t, vmath.V3One, tr.WorldScale)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(p, []byte(sandbox), 0o600))
	f, err := LoadFile(p)
	require.NoError(t, err)
	assert.Len(t, f.Entities, 5)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate name", `entities: [{name: a}, {name: a}]`},
		{"unknown parent", `entities: [{name: a, transform: {parent: b}}]`},
		{"self parent", `entities: [{name: a, transform: {parent: a}}]`},
		{"unknown anchor", `entities: [{name: a, softbody: {anchor: x, particles: [{rest: [0, 0, 0]}]}}]`},
		{"empty softbody", `entities: [{name: a, softbody: {drag: 0.1}}]`},
		{"particles and lattice", `entities: [{softbody: {lattice: {size: [1, 1, 1]}, particles: [{rest: [0, 0, 0]}]}}]`},
		{"bad shape", `entities: [{collider: {shape: cone}}]`},
		{"short vector", `entities: [{transform: {position: [1, 2]}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("entities: [{name: a"))
		assert.Error(t, err)
	})
}

func TestSpawnErrorsRollBack(t *testing.T) {
	t.Run("capacity", func(t *testing.T) {
		f, err := Parse([]byte(`entities: [{name: a}, {name: b}, {name: c}]`))
		require.NoError(t, err)
		w := engine.NewWorld(2)
		_, err = Spawn(w, f, Options{})
		assert.ErrorIs(t, err, engine.ErrCapacityExceeded)
		assert.Zero(t, w.Len())
	})

	t.Run("topology", func(t *testing.T) {
		f, err := Parse([]byte(`
entities:
  - name: ok
    transform: {position: [0, 0, 0]}
  - name: broken
    softbody:
      particles: [{rest: [0, 0, 0]}]
      springs: [{a: 0, b: 3}]
`))
		require.NoError(t, err)
		w := engine.NewWorld(8)
		_, err = Spawn(w, f, Options{})
		assert.ErrorIs(t, err, physics.ErrInvalidTopology)
		assert.Zero(t, w.Len())
	})

	t.Run("bad lattice", func(t *testing.T) {
		f, err := Parse([]byte(`entities: [{softbody: {lattice: {size: [2, 2]}}}]`))
		require.NoError(t, err)
		_, err = Spawn(engine.NewWorld(4), f, Options{})
		assert.ErrorIs(t, err, ErrInvalidScene)
	})
}

func TestSpawnedLookupMissing(t *testing.T) {
	var sp Spawned
	e, ok := sp.Lookup("nobody")
	assert.False(t, ok)
	assert.Equal(t, core.NullEntity, e)
}
