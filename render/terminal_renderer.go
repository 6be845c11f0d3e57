package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/vmath"
)

const (
	particleGlyph = '●'
	centroidGlyph = '✚'
	groundGlyph   = '▀'
)

// TerminalRenderer draws an orthographic side view (X right, Y up) of a snapshot
// Z is dropped; rows are half as dense as columns to offset the cell aspect ratio
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int
	scale  float64

	// Center is the world X at the middle column
	Center float64
}

// NewTerminalRenderer creates a renderer sized to the screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		width:  w,
		height: h,
		scale:  parameter.ViewScale,
	}
}

// Resize updates the viewport after a terminal resize event
func (r *TerminalRenderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Zoom multiplies the view scale, clamped to a usable range
func (r *TerminalRenderer) Zoom(factor float64) {
	r.scale = vmath.Clamp(r.scale*factor, 1, 64)
}

func (r *TerminalRenderer) groundRow() int {
	return r.height - 1 - parameter.ViewGroundRow
}

// Project maps a world point to a cell; ok is false outside the scene area
func (r *TerminalRenderer) Project(p vmath.Vec3) (x, y int, ok bool) {
	fx := float64(r.width)/2 + (p.X-r.Center)*r.scale
	fy := float64(r.groundRow()) - p.Y*r.scale/2
	if math.IsNaN(fx) || math.IsNaN(fy) {
		return 0, 0, false
	}
	x = int(math.Floor(fx))
	y = int(math.Round(fy))
	ok = x >= 0 && x < r.width && y >= parameter.HUDRows && y < r.height
	return x, y, ok
}

// RenderFrame draws the ground, every snapshot item and the HUD lines
func (r *TerminalRenderer) RenderFrame(snap *engine.Snapshot, hud []string, warn bool) {
	r.screen.Clear()
	base := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', base)

	r.drawGround(base)
	if snap != nil {
		for i := range snap.Items {
			r.drawItem(&snap.Items[i], base)
		}
	}
	r.drawHUD(hud, warn, base)

	r.screen.Show()
}

func (r *TerminalRenderer) drawGround(base tcell.Style) {
	row := r.groundRow()
	if row < parameter.HUDRows || row >= r.height {
		return
	}
	style := base.Foreground(RgbGround)
	for x := 0; x < r.width; x++ {
		r.screen.SetContent(x, row, groundGlyph, nil, style)
	}
}

func (r *TerminalRenderer) drawItem(item *engine.RenderItem, base tcell.Style) {
	if item.Vertices == nil {
		if x, y, ok := r.Project(item.Position); ok {
			style := base.Foreground(MaterialColor(item.Material, RgbRigid))
			r.screen.SetContent(x, y, meshGlyph(item.Mesh), nil, style)
		}
		return
	}

	style := base.Foreground(MaterialColor(item.Material, RgbParticle))
	for _, v := range item.Vertices {
		world := vmath.V3Add(item.Position, vmath.QRotate(item.Orientation, vmath.V3Mul(v, item.Scale)))
		if x, y, ok := r.Project(world); ok {
			r.screen.SetContent(x, y, particleGlyph, nil, style)
		}
	}
	if x, y, ok := r.Project(item.Position); ok {
		r.screen.SetContent(x, y, centroidGlyph, nil, base.Foreground(RgbCentroid))
	}
}

func (r *TerminalRenderer) drawHUD(lines []string, warn bool, base tcell.Style) {
	style := base.Foreground(RgbHUD)
	if warn {
		style = base.Foreground(RgbHUDWarn)
	}
	for row, line := range lines {
		if row >= parameter.HUDRows {
			break
		}
		x := 0
		for _, ch := range line {
			if x >= r.width {
				break
			}
			r.screen.SetContent(x, row, ch, nil, style)
			x++
		}
	}
}
