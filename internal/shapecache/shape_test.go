package shapecache

import (
	"testing"

	"github.com/ravensplit/smoothterm/internal/termgrid"
)

type fixedShaper struct{ advance float32 }

func (f fixedShaper) Advance(r rune) float32 { return f.advance }

func TestPaletteResolveBasePalette(t *testing.T) {
	p := DefaultPalette()
	if got := p.Resolve(1); got != p.Base[1] {
		t.Fatalf("Resolve(1) = %v, want %v", got, p.Base[1])
	}
}

func TestPaletteResolveCube(t *testing.T) {
	p := DefaultPalette()
	// index 16 is the cube's (0,0,0) corner.
	if got := p.Resolve(16); got != (RGB8{0, 0, 0}) {
		t.Fatalf("Resolve(16) = %v", got)
	}
	// index 231 is the cube's (255,255,255) corner.
	if got := p.Resolve(231); got != (RGB8{255, 255, 255}) {
		t.Fatalf("Resolve(231) = %v", got)
	}
}

func TestPaletteResolveGrayscale(t *testing.T) {
	p := DefaultPalette()
	if got := p.Resolve(232); got != (RGB8{8, 8, 8}) {
		t.Fatalf("Resolve(232) = %v", got)
	}
	if got := p.Resolve(255); got != (RGB8{238, 238, 238}) {
		t.Fatalf("Resolve(255) = %v", got)
	}
}

func TestVisibleCacheInvalidatesOnGenerationChange(t *testing.T) {
	g := termgrid.New(10, 3)
	g.Print('a')

	c := &PaneCache{}
	shaper := fixedShaper{advance: 8}
	palette := DefaultPalette()
	layout := CellLayout{CellW: 10, CellH: 20}

	first := c.Visible(g, shaper, palette, layout, RGB8{255, 255, 255}, RGB8{0, 0, 0})
	if len(first) != 1 {
		t.Fatalf("first = %v, want 1 glyph", first)
	}

	second := c.Visible(g, shaper, palette, layout, RGB8{255, 255, 255}, RGB8{0, 0, 0})
	if len(second) != len(first) {
		t.Fatalf("cache hit changed glyph count: %d vs %d", len(second), len(first))
	}

	g.Print('b')
	third := c.Visible(g, shaper, palette, layout, RGB8{255, 255, 255}, RGB8{0, 0, 0})
	if len(third) != 2 {
		t.Fatalf("third = %v, want 2 glyphs after mutation", third)
	}
}

func TestScrollbackCacheDroppedAtRest(t *testing.T) {
	g := termgrid.New(10, 3)
	c := &PaneCache{}
	layout := CellLayout{CellW: 10, CellH: 20, ScrollOffsetPx: 0}
	got := c.Scrollback(g, 0, 1, fixedShaper{8}, DefaultPalette(), layout, RGB8{}, RGB8{})
	if got != nil {
		t.Fatalf("expected nil scrollback cache at rest, got %v", got)
	}
}

func TestHexColorOverrideSevenCellRun(t *testing.T) {
	g := termgrid.New(20, 3)
	for _, r := range "#ff00aa " {
		g.Print(r)
	}
	cells := visibleRowCells(g, 0)
	overrides := scanHexOverrides(cells)
	if len(overrides) != 7 {
		t.Fatalf("overrides = %v, want 7 cells", overrides)
	}
	if overrides[0] != (RGB8{0xff, 0x00, 0xaa}) {
		t.Fatalf("override color = %v", overrides[0])
	}
	if _, ok := overrides[7]; ok {
		t.Fatal("8th cell (space) must not be overridden")
	}
}

func TestHexColorOverrideRejectsEighthHexDigit(t *testing.T) {
	g := termgrid.New(20, 3)
	for _, r := range "#ff00aaa" {
		g.Print(r)
	}
	cells := visibleRowCells(g, 0)
	overrides := scanHexOverrides(cells)
	if len(overrides) != 0 {
		t.Fatalf("overrides = %v, want none (8th hex digit disqualifies run)", overrides)
	}
}
