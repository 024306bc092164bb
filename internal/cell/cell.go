// Package cell defines the styled-character data model shared by the
// grid, the VT parser, and the renderer.
package cell

// Flags are the boolean SGR attributes that aren't expressed as a color.
type Flags uint8

const (
	FlagBold Flags = 1 << iota
	FlagDim
	FlagItalic
	FlagUnderline
	FlagStrikethrough
	FlagBlink
	FlagReverse
	FlagInvisible
)

// ColorKind identifies how a Color's value should be interpreted.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Color is either the terminal default, a palette index, or a truecolor RGB.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// DefaultFg is the unset foreground color.
func DefaultFg() Color { return Color{Kind: ColorDefault} }

// DefaultBg is the unset background color.
func DefaultBg() Color { return Color{Kind: ColorDefault} }

// Indexed builds a palette-indexed color (0-255).
func Indexed(i uint8) Color { return Color{Kind: ColorIndexed, Index: i} }

// RGB builds a truecolor color.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// Attrs is the SGR state applied to newly printed cells.
type Attrs struct {
	Fg, Bg Color
	Flags  Flags
}

// DefaultAttrs is the reset SGR state (CSI 0 m).
func DefaultAttrs() Attrs {
	return Attrs{Fg: DefaultFg(), Bg: DefaultBg()}
}

// Has reports whether a flag is set.
func (a Attrs) Has(f Flags) bool { return a.Flags&f != 0 }

// Set returns a with f set or cleared.
func (a Attrs) Set(f Flags, on bool) Attrs {
	if on {
		a.Flags |= f
	} else {
		a.Flags &^= f
	}
	return a
}

// Cell is a single rendered character position: a codepoint plus its
// attributes. A Width of 2 marks the leading half of a wide (East Asian)
// character; the cell to its right is a Width-0 continuation placeholder.
type Cell struct {
	Char  rune
	Attrs Attrs
	Width uint8
}

// Blank is an empty cell carrying the given attributes (its background
// is what a clear operation paints).
func Blank(attrs Attrs) Cell {
	return Cell{Char: ' ', Attrs: attrs, Width: 1}
}

// IsEmpty reports whether the cell holds no visible content.
func (c Cell) IsEmpty() bool {
	return c.Char == 0 || c.Char == ' '
}

// IsControl reports whether the cell's rune is a control character that
// should never be shaped for rendering.
func (c Cell) IsControl() bool {
	return c.Char < 0x20 || c.Char == 0x7f
}
