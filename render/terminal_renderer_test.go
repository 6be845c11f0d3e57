package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/vmath"
)

func newScreen(t *testing.T) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	// Init restores the default size
	screen.SetSize(80, 24)
	w, h := screen.Size()
	require.Equal(t, [2]int{80, 24}, [2]int{w, h})
	return screen
}

func TestProject(t *testing.T) {
	r := NewTerminalRenderer(newScreen(t))
	ground := 24 - 1 - parameter.ViewGroundRow

	x, y, ok := r.Project(vmath.V3Zero)
	require.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, ground, y)

	x, y, ok = r.Project(vmath.V3(1, 2, 5))
	require.True(t, ok)
	assert.Equal(t, 40+int(parameter.ViewScale), x)
	assert.Equal(t, ground-int(parameter.ViewScale), y, "depth is ignored")

	_, _, ok = r.Project(vmath.V3(100, 0, 0))
	assert.False(t, ok)
	_, _, ok = r.Project(vmath.V3(0, 100, 0))
	assert.False(t, ok, "the HUD rows are not part of the scene")

	r.Center = 1
	x, _, _ = r.Project(vmath.V3(1, 0, 0))
	assert.Equal(t, 40, x)
}

func TestRenderFrame(t *testing.T) {
	screen := newScreen(t)
	r := NewTerminalRenderer(screen)

	snap := &engine.Snapshot{
		Items: []engine.RenderItem{
			{
				Position:    vmath.V3(0, 2, 0),
				Orientation: vmath.QIdentity,
				Scale:       vmath.V3One,
				Material:    "jelly",
				Vertices:    []vmath.Vec3{vmath.V3(-1, 0, 0), vmath.V3(1, 0, 0)},
			},
			{
				Position:    vmath.V3(-3, 1, 0),
				Orientation: vmath.QIdentity,
				Scale:       vmath.V3One,
				Mesh:        "sphere",
			},
		},
	}
	r.RenderFrame(snap, []string{"tick 1"}, false)

	cell := func(p vmath.Vec3) (rune, tcell.Style) {
		x, y, ok := r.Project(p)
		require.True(t, ok)
		ch, _, style, _ := screen.GetContent(x, y)
		return ch, style
	}

	ch, style := cell(vmath.V3(-1, 2, 0))
	assert.Equal(t, particleGlyph, ch)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, MaterialColor("jelly", RgbParticle), fg)
	assert.Equal(t, RgbBackground, bg)

	ch, _ = cell(vmath.V3(1, 2, 0))
	assert.Equal(t, particleGlyph, ch)
	ch, _ = cell(vmath.V3(0, 2, 0))
	assert.Equal(t, centroidGlyph, ch)
	ch, style = cell(vmath.V3(-3, 1, 0))
	assert.Equal(t, 'o', ch)
	fg, _, _ = style.Decompose()
	assert.Equal(t, RgbRigid, fg)

	ch, _, _, _ = screen.GetContent(0, 24-1-parameter.ViewGroundRow)
	assert.Equal(t, groundGlyph, ch)

	ch, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, 't', ch)
}

func TestRenderFrameRotatedBody(t *testing.T) {
	screen := newScreen(t)
	r := NewTerminalRenderer(screen)
	snap := &engine.Snapshot{
		Items: []engine.RenderItem{{
			Position:    vmath.V3(0, 2, 0),
			Orientation: vmath.QFromAxisAngle(vmath.V3UnitZ, 1.5707963267948966),
			Scale:       vmath.V3One,
			Vertices:    []vmath.Vec3{vmath.V3(1, 0, 0)},
		}},
	}
	r.RenderFrame(snap, nil, true)

	// A quarter turn about Z moves the local +X vertex straight up
	x, y, ok := r.Project(vmath.V3(0, 3, 0))
	require.True(t, ok)
	ch, _, _, _ := screen.GetContent(x, y)
	assert.Equal(t, particleGlyph, ch)
}

func TestRenderFrameNilSnapshot(t *testing.T) {
	r := NewTerminalRenderer(newScreen(t))
	assert.NotPanics(t, func() { r.RenderFrame(nil, []string{"paused"}, true) })
}

func TestZoomAndResize(t *testing.T) {
	r := NewTerminalRenderer(newScreen(t))
	r.Zoom(1000)
	assert.Equal(t, 64.0, r.scale)
	r.Zoom(0)
	assert.Equal(t, 1.0, r.scale)

	r.Resize(40, 10)
	x, y, ok := r.Project(vmath.V3Zero)
	require.True(t, ok)
	assert.Equal(t, 20, x)
	assert.Equal(t, 10-1-parameter.ViewGroundRow, y)
}

func TestMaterialColorFallback(t *testing.T) {
	assert.Equal(t, RgbRigid, MaterialColor("unobtanium", RgbRigid))
	assert.NotEqual(t, RgbRigid, MaterialColor("rubber", RgbRigid))
}
