package shapecache

import "github.com/ravensplit/smoothterm/internal/cell"

// RGB8 is a resolved renderer-ready color.
type RGB8 struct{ R, G, B uint8 }

// Palette is the 16-entry ANSI base palette loaded from config; indices
// 16-255 are computed, not configured, matching standard xterm 256-color
// behavior.
type Palette struct {
	Base [16]RGB8
}

var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// Resolve maps an indexed color (0-255) to RGB: 0-15 from the configured
// base palette, 16-231 the 6x6x6 color cube, 232-255 a 24-step grayscale
// ramp.
func (p Palette) Resolve(index uint8) RGB8 {
	switch {
	case index < 16:
		return p.Base[index]
	case index < 232:
		n := int(index) - 16
		r := cubeLevels[n/36]
		g := cubeLevels[(n/6)%6]
		b := cubeLevels[n%6]
		return RGB8{r, g, b}
	default:
		level := uint8(8 + 10*(int(index)-232))
		return RGB8{level, level, level}
	}
}

// ResolveColor turns a cell.Color into RGB8, using Resolve for indexed
// colors and a caller-supplied default for ColorDefault.
func (p Palette) ResolveColor(c cell.Color, def RGB8) RGB8 {
	switch c.Kind {
	case cell.ColorIndexed:
		return p.Resolve(c.Index)
	case cell.ColorRGB:
		return RGB8{c.R, c.G, c.B}
	default:
		return def
	}
}

// DefaultPalette is the classic 16-color VGA-style ANSI palette, used
// until a config file supplies its own [colors] section.
func DefaultPalette() Palette {
	return Palette{Base: [16]RGB8{
		{0, 0, 0}, {205, 49, 49}, {13, 188, 121}, {229, 229, 16},
		{36, 114, 200}, {188, 63, 188}, {17, 168, 205}, {229, 229, 229},
		{102, 102, 102}, {241, 76, 76}, {35, 209, 139}, {245, 245, 67},
		{59, 142, 234}, {214, 112, 214}, {41, 184, 219}, {229, 229, 229},
	}}
}
