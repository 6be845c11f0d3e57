package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions for the sandbox view
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbGround     = tcell.NewRGBColor(90, 90, 110)   // Ground line
	RgbHUD        = tcell.NewRGBColor(255, 255, 255) // Status text
	RgbHUDWarn    = tcell.NewRGBColor(255, 165, 0)   // Backlog warning
	RgbRigid      = tcell.NewRGBColor(180, 180, 180) // Rigid renderables without a material
	RgbParticle   = tcell.NewRGBColor(100, 150, 255) // Default softbody particle
	RgbCentroid   = tcell.NewRGBColor(255, 255, 0)   // Softbody centroid marker
)

// materialColors maps scene material names to particle colors
var materialColors = map[string]tcell.Color{
	"jelly":  tcell.NewRGBColor(50, 255, 50),
	"rubber": tcell.NewRGBColor(255, 80, 80),
	"slime":  tcell.NewRGBColor(0, 200, 200),
	"steel":  tcell.NewRGBColor(200, 200, 220),
}

// MaterialColor returns the color for a material, fallback when unknown
func MaterialColor(material string, fallback tcell.Color) tcell.Color {
	if c, ok := materialColors[material]; ok {
		return c
	}
	return fallback
}

// meshGlyphs maps rigid mesh names to a single cell glyph
var meshGlyphs = map[string]rune{
	"sphere": 'o',
	"anchor": '+',
	"cube":   '■',
}

func meshGlyph(mesh string) rune {
	if g, ok := meshGlyphs[mesh]; ok {
		return g
	}
	return '■'
}
