package termgrid

import "testing"

func textOf(g *Grid, row int) string {
	cols, _ := g.Size()
	s := make([]rune, 0, cols)
	for col := 0; col < cols; col++ {
		c := g.Cell(row, col)
		if c.Char == 0 {
			s = append(s, ' ')
		} else {
			s = append(s, c.Char)
		}
	}
	return string(s)
}

func TestScrollRegionUpEvictsOnlyRegionRows(t *testing.T) {
	g := New(4, 4)
	rows := []string{"xxxx", "aaaa", "bbbb", "cccc"}
	for r, line := range rows {
		for c, ch := range line {
			g.Print(ch)
			_ = c
			_ = r
		}
		g.CarriageReturn()
		if r < len(rows)-1 {
			g.Newline()
		}
	}
	g.SetCursorPos(0, 0)
	g.SetScrollRegion(2, 4) // 1-based -> 0-based [1,3]
	g.SetCursorPos(0, 0)
	g.ScrollUp(2)

	want := []string{"xxxx", "cccc", "    ", "    "}
	for i, w := range want {
		if got := textOf(g, i); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
	if g.ScrollbackLen() != 2 {
		t.Fatalf("scrollback len = %d, want 2", g.ScrollbackLen())
	}
}

func TestGridBoundsStayWithinGrid(t *testing.T) {
	g := New(4, 4)
	for _, r := range "abcdef" {
		g.Print(r)
	}
	row, col := g.Cursor()
	if row != 1 || col != 2 {
		t.Fatalf("cursor = (%d,%d), want (1,2)", row, col)
	}
	if g.PendingWrap() {
		t.Fatalf("pending_wrap should be false")
	}
	if got := textOf(g, 0); got != "abcd" {
		t.Fatalf("row0 = %q, want abcd", got)
	}
	if got := textOf(g, 1); got != "ef  " {
		t.Fatalf("row1 = %q, want 'ef  '", got)
	}
}

func TestResizePreservesTopLeftAndClampsCursor(t *testing.T) {
	g := New(4, 4)
	for _, r := range "abcdefgh" {
		g.Print(r)
	}
	g.Resize(2, 2)
	cols, rows := g.Size()
	if cols != 2 || rows != 2 {
		t.Fatalf("size = (%d,%d)", cols, rows)
	}
	row, col := g.Cursor()
	if row >= rows || col >= cols {
		t.Fatalf("cursor (%d,%d) out of bounds for (%d,%d)", row, col, cols, rows)
	}
	if got := g.Cell(0, 0).Char; got != 'a' {
		t.Fatalf("top-left = %q, want 'a'", got)
	}
}

func TestGenerationMonotonic(t *testing.T) {
	g := New(4, 4)
	g0 := g.Generation()
	g.Print('x')
	g1 := g.Generation()
	if g1 <= g0 {
		t.Fatalf("generation did not increase: %d -> %d", g0, g1)
	}
}

func TestScrollbackCap(t *testing.T) {
	g := NewWithScrollbackLimit(2, 2, 3)
	for i := 0; i < 10; i++ {
		g.Newline()
	}
	if g.ScrollbackLen() > 3 {
		t.Fatalf("scrollback len %d exceeds limit", g.ScrollbackLen())
	}
}

func TestExtractTextSingleRowRoundTrip(t *testing.T) {
	g := New(10, 2)
	for _, r := range "hello" {
		g.Print(r)
	}
	got := g.ExtractText(AbsPos{Row: 0, Col: 0}, AbsPos{Row: 0, Col: 4})
	if got != "hello" {
		t.Fatalf("extract = %q, want hello", got)
	}
}
