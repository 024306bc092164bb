// Package shapecache shapes grid cells into positioned glyph draw calls
// and caches the result per pane, invalidating on grid generation change
// (visible rows) or scroll-position change (scrollback rows). Grounded
// on the teacher's render.Renderer font/glyph-atlas plumbing
// (render/render.go loadFontData, Glyph) but split out from GL calls
// behind a Shaper interface so the shaping policy itself is GPU-free and
// unit-testable.
package shapecache

import (
	"github.com/ravensplit/smoothterm/internal/cell"
	"github.com/ravensplit/smoothterm/internal/termgrid"
)

// Shaper measures glyph advances for horizontal centering. The GL
// backend's glyph atlas implements this; tests use a fixed-width fake.
type Shaper interface {
	Advance(r rune) float32
}

// CellLayout is the pixel geometry needed to position a pane's glyphs.
type CellLayout struct {
	CellW, CellH       float32
	ContentX, ContentY float32
	ScrollOffsetPx     float32 // vertical scroll spring offset, in pixels
}

// ShapedGlyph is one positioned glyph ready for text-quad submission.
type ShapedGlyph struct {
	Row, Col int
	X, Y     float32
	Rune     rune
	Color    RGB8
}

// shapeRow shapes one row of cells (row index is the pane-local or
// scrollback row used only for Y positioning by the caller) into
// ShapedGlyphs, applying the 7-cell hex-color override run and the
// reverse/palette color resolution.
func shapeRow(cells []cell.Cell, y float32, layout CellLayout, shaper Shaper, palette Palette, defaultFg, defaultBg RGB8) []ShapedGlyph {
	hexOverride := scanHexOverrides(cells)

	var out []ShapedGlyph
	for col, c := range cells {
		if c.Width == 0 || c.IsEmpty() || c.IsControl() {
			continue
		}
		charCols := int(c.Width)
		if charCols == 0 {
			charCols = 1
		}

		fg := resolveCellColor(c, palette, defaultFg, defaultBg)
		if rgb, ok := hexOverride[col]; ok {
			fg = rgb
		}

		x := layout.ContentX + float32(col)*layout.CellW + xOffset(layout.CellW, charCols, shaper, c.Char)
		out = append(out, ShapedGlyph{
			Row:   0,
			Col:   col,
			X:     x,
			Y:     y,
			Rune:  c.Char,
			Color: fg,
		})
	}
	return out
}

func xOffset(cellW float32, charCols int, shaper Shaper, r rune) float32 {
	full := cellW * float32(charCols)
	var adv float32
	if shaper != nil {
		adv = shaper.Advance(r)
	}
	return (full - adv) / 2
}

func resolveCellColor(c cell.Cell, palette Palette, defaultFg, defaultBg RGB8) RGB8 {
	if c.Attrs.Has(cell.FlagReverse) {
		return palette.ResolveColor(c.Attrs.Bg, defaultBg)
	}
	return palette.ResolveColor(c.Attrs.Fg, defaultFg)
}

// scanHexOverrides finds every run of 7 cells starting with '#' followed
// by 6 hex digits not themselves followed by another hex digit, and
// returns the resolved RGB for every column in that run.
func scanHexOverrides(cells []cell.Cell) map[int]RGB8 {
	overrides := make(map[int]RGB8)
	for start := 0; start+7 <= len(cells); start++ {
		if cells[start].Char != '#' {
			continue
		}
		digits := make([]byte, 6)
		ok := true
		for i := 0; i < 6; i++ {
			d, isHex := hexDigit(cells[start+1+i].Char)
			if !isHex {
				ok = false
				break
			}
			digits[i] = d
		}
		if !ok {
			continue
		}
		if start+7 < len(cells) {
			if _, isHex := hexDigit(cells[start+7].Char); isHex {
				continue
			}
		}
		rgb := RGB8{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
		}
		for col := start; col < start+7; col++ {
			overrides[col] = rgb
		}
	}
	return overrides
}

func hexDigit(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}

// visibleRowCells reads one live-grid row's cells.
func visibleRowCells(g *termgrid.Grid, row int) []cell.Cell {
	cols, _ := g.Size()
	cells := make([]cell.Cell, cols)
	for col := 0; col < cols; col++ {
		cells[col] = g.Cell(row, col)
	}
	return cells
}

// scrollbackRowCells reads one absolute scrollback row's cells.
func scrollbackRowCells(g *termgrid.Grid, absRow int) []cell.Cell {
	cols, _ := g.Size()
	cells := make([]cell.Cell, cols)
	for col := 0; col < cols; col++ {
		cells[col] = g.AbsCell(termgrid.AbsPos{Row: absRow, Col: col})
	}
	return cells
}
